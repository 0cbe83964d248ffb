// Package workspace manages the hidden scratch container that pagination
// works on, so the visible preview is never mutated.
package workspace

import (
	"fmt"
	"sync"

	"github.com/gompdf/cvpdf/internal/parser/html"
)

// Default anchor ids
const (
	DefaultPreviewID = "cv-preview"
	DefaultScratchID = "pdf-scratch"
)

// TargetMissingError is returned when an anchor element is absent
type TargetMissingError struct {
	Anchor string
}

func (e *TargetMissingError) Error() string {
	return fmt.Sprintf("render target #%s not found", e.Anchor)
}

// Workspace pairs a preview anchor with a scratch anchor in one document.
// Only one lease may be held at a time.
type Workspace struct {
	mu        sync.Mutex
	doc       *html.Document
	previewID string
	scratchID string
}

// New creates a workspace over doc
func New(doc *html.Document, previewID, scratchID string) *Workspace {
	return &Workspace{
		doc:       doc,
		previewID: previewID,
		scratchID: scratchID,
	}
}

// Document returns the host document
func (w *Workspace) Document() *html.Document {
	return w.doc
}

// Lease is exclusive use of the scratch container
type Lease struct {
	w       *Workspace
	scratch *html.Node
	once    sync.Once
}

// Acquire copies the preview content into the scratch container and returns
// a lease on it. It blocks while another lease is held. Release must be
// called when done.
func (w *Workspace) Acquire() (*Lease, error) {
	w.mu.Lock()

	var preview, scratch *html.Node
	if w.doc != nil {
		preview = w.doc.FindByID(w.previewID)
		scratch = w.doc.FindByID(w.scratchID)
	}
	switch {
	case preview == nil:
		w.mu.Unlock()
		return nil, &TargetMissingError{Anchor: w.previewID}
	case scratch == nil:
		w.mu.Unlock()
		return nil, &TargetMissingError{Anchor: w.scratchID}
	}

	// stale content from a crashed caller must not leak into this run
	scratch.RemoveChildren()
	for c := preview.FirstChild; c != nil; c = c.NextSibling {
		scratch.AppendChild(c.Clone())
	}

	return &Lease{w: w, scratch: scratch}, nil
}

// Scratch returns the scratch container
func (l *Lease) Scratch() *html.Node {
	return l.scratch
}

// Release clears the scratch container and frees the workspace. It is safe
// to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.scratch.RemoveChildren()
		l.w.mu.Unlock()
	})
}

// NewHostDocument builds a document holding previewHTML inside the preview
// anchor, followed by an empty scratch anchor
func NewHostDocument(previewHTML, previewID, scratchID string) (*html.Document, error) {
	doc, err := html.NewParser().ParseString(`<!DOCTYPE html><html><head></head><body></body></html>`)
	if err != nil {
		return nil, fmt.Errorf("failed to create host document: %w", err)
	}
	body := doc.Root.FindFirst("body")
	if body == nil {
		return nil, fmt.Errorf("failed to create host document: no body")
	}

	content, err := html.NewParser().ParseFragment(previewHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview HTML: %w", err)
	}

	preview := html.NewElement("div")
	preview.SetAttr("id", previewID)
	for _, n := range content {
		preview.AppendChild(n)
	}
	scratch := html.NewElement("div")
	scratch.SetAttr("id", scratchID)
	scratch.SetAttr("aria-hidden", "true")

	body.AppendChild(preview)
	body.AppendChild(scratch)
	return doc, nil
}
