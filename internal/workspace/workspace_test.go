package workspace

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostDoc(t *testing.T) *html.Document {
	t.Helper()
	doc, err := NewHostDocument(`<div id="template"><p>Jane Doe</p></div>`, DefaultPreviewID, DefaultScratchID)
	require.NoError(t, err)
	return doc
}

func TestNewHostDocument(t *testing.T) {
	doc := hostDoc(t)

	preview := doc.FindByID(DefaultPreviewID)
	require.NotNil(t, preview)
	inner, err := preview.InnerHTML()
	require.NoError(t, err)
	assert.Equal(t, `<div id="template"><p>Jane Doe</p></div>`, inner)

	scratch := doc.FindByID(DefaultScratchID)
	require.NotNil(t, scratch)
	assert.Nil(t, scratch.FirstChild)
	assert.Same(t, preview.Parent, scratch.Parent)
}

func TestAcquire_CopiesPreview(t *testing.T) {
	doc := hostDoc(t)
	ws := New(doc, DefaultPreviewID, DefaultScratchID)

	lease, err := ws.Acquire()
	require.NoError(t, err)

	scratch := lease.Scratch()
	copied := scratch.FindByID("template")
	require.NotNil(t, copied)
	copied.SetStyle("height", "auto")

	original := doc.FindByID(DefaultPreviewID).FindByID("template")
	assert.NotSame(t, original, copied)
	assert.Equal(t, "", original.Style("height"), "the preview is never mutated")

	lease.Release()
	assert.Nil(t, scratch.FirstChild, "release clears the scratch container")
	lease.Release()
}

func TestAcquire_ClearsStaleScratch(t *testing.T) {
	doc := hostDoc(t)
	doc.FindByID(DefaultScratchID).AppendChild(html.NewElement("section"))

	lease, err := New(doc, DefaultPreviewID, DefaultScratchID).Acquire()
	require.NoError(t, err)
	defer lease.Release()

	assert.Nil(t, lease.Scratch().FindFirst("section"))
	assert.NotNil(t, lease.Scratch().FindByID("template"))
}

func TestAcquire_MissingAnchors(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		missing string
	}{
		{"no preview", `<div id="pdf-scratch"></div>`, DefaultPreviewID},
		{"no scratch", `<div id="cv-preview"></div>`, DefaultScratchID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := html.NewParser().ParseString(tt.markup)
			require.NoError(t, err)
			ws := New(doc, DefaultPreviewID, DefaultScratchID)

			_, err = ws.Acquire()
			var missing *TargetMissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.missing, missing.Anchor)

			// the failed acquire must not keep the workspace locked
			_, err = ws.Acquire()
			assert.Error(t, err)
		})
	}

	_, err := New(nil, DefaultPreviewID, DefaultScratchID).Acquire()
	assert.Error(t, err)
}

func TestAcquire_Exclusive(t *testing.T) {
	ws := New(hostDoc(t), DefaultPreviewID, DefaultScratchID)

	first, err := ws.Acquire()
	require.NoError(t, err)

	acquired := make(chan *Lease)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l, err := ws.Acquire()
		if err == nil {
			acquired <- l
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lease acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	first.Release()
	second := <-acquired
	assert.NotNil(t, second.Scratch().FindByID("template"))
	second.Release()
	wg.Wait()
}
