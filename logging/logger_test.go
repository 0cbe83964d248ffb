package logging_test

import (
	"log/slog"
	"testing"

	"github.com/gompdf/cvpdf/logging"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	handler := logging.NewBufferedLogHandler(slog.LevelDebug)
	logging.SetLogger(slog.New(handler))

	logging.Logger().Debug("column paginated", slog.Int("pages", 2))

	assert.True(t, handler.Contains("column paginated"))
	assert.True(t, handler.Contains("pages=2"))
	assert.False(t, handler.Contains("time="))
}

func TestSetLogger_Nil(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	logging.SetLogger(nil)

	l := logging.Logger()
	assert.NotNil(t, l)
	assert.Equal(t, slog.DiscardHandler, l.Handler())
}

func TestBufferedLogHandler_LevelAndReset(t *testing.T) {
	handler := logging.NewBufferedLogHandler(slog.LevelInfo)
	l := slog.New(handler).With(slog.String("template", "2"))

	l.Debug("hidden")
	l.Info("shown")

	assert.False(t, handler.Contains("hidden"))
	assert.True(t, handler.Contains("shown"))
	assert.True(t, handler.Contains("template=2"))

	handler.Reset()
	assert.Equal(t, "", handler.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}
