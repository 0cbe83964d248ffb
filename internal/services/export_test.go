package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/cvpdf/internal/store"
	"github.com/gompdf/cvpdf/pkg/api"
)

func previewWithUnits(n int) string {
	var b strings.Builder
	b.WriteString(`<div id="template"><div data-pdf-role="column">`)
	for i := 0; i < n; i++ {
		b.WriteString(`<div data-pdf-role="break-unit" style="height: 300px"></div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func newExportService(t *testing.T) (*ExportService, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewExportService(api.New(nil), s), s
}

func TestExportService_Export(t *testing.T) {
	svc, _ := newExportService(t)

	bundle, err := svc.Export(context.Background(), 1, previewWithUnits(5))
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Pages)
	assert.Contains(t, bundle.HTML, "pdf-page-break")
}

func TestExportService_ExportCV(t *testing.T) {
	ctx := context.Background()
	svc, s := newExportService(t)

	cv := &store.CV{Title: "cv", TemplateID: 3, PreviewHTML: previewWithUnits(9)}
	require.NoError(t, s.Create(ctx, cv))

	bundle, err := svc.ExportCV(ctx, cv.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, bundle.Pages)

	modern, err := svc.Creator.Templates().Lookup(3)
	require.NoError(t, err)
	assert.Equal(t, modern.CSS+modern.Fonts, bundle.CSS)

	_, err = svc.ExportCV(ctx, cv.ID, 999)
	var notFound *api.TemplateNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestExportService_ExportCVMissing(t *testing.T) {
	svc, _ := newExportService(t)

	_, err := svc.ExportCV(context.Background(), "missing", 0)
	assert.ErrorIs(t, err, store.ErrCVNotFound)
}

func TestExportService_Templates(t *testing.T) {
	svc, _ := newExportService(t)

	list := svc.Templates()
	require.Len(t, list, 3)
	assert.Equal(t, 1, list[0].ID)
}
