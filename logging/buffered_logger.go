package logging

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// BufferedLogHandler captures log records in memory as text lines so tests
// can assert on what the pipeline logged.
//
//	handler := logging.NewBufferedLogHandler(slog.LevelDebug)
//	logging.SetLogger(slog.New(handler))
//	// ... run an export ...
//	handler.Contains("column paginated")
type BufferedLogHandler struct {
	mu     *sync.Mutex
	buffer *bytes.Buffer
	inner  slog.Handler
}

// NewBufferedLogHandler creates a handler that keeps records at or above level.
func NewBufferedLogHandler(level slog.Leveler) *BufferedLogHandler {
	buf := &bytes.Buffer{}
	return &BufferedLogHandler{
		mu:     &sync.Mutex{},
		buffer: buf,
		inner: slog.NewTextHandler(buf, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	}
}

// Enabled implements slog.Handler.
func (h *BufferedLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *BufferedLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *BufferedLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedLogHandler{mu: h.mu, buffer: h.buffer, inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *BufferedLogHandler) WithGroup(name string) slog.Handler {
	return &BufferedLogHandler{mu: h.mu, buffer: h.buffer, inner: h.inner.WithGroup(name)}
}

// String returns everything captured so far.
func (h *BufferedLogHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffer.String()
}

// Contains reports whether the captured output contains s.
func (h *BufferedLogHandler) Contains(s string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return bytes.Contains(h.buffer.Bytes(), []byte(s))
}

// Reset drops the captured output.
func (h *BufferedLogHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer.Reset()
}
