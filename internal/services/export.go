// Package services ties CV storage, pagination and AI suggestions together
// for the HTTP handlers.
package services

import (
	"context"
	"fmt"

	"github.com/gompdf/cvpdf/internal/store"
	"github.com/gompdf/cvpdf/internal/templates"
	"github.com/gompdf/cvpdf/pkg/api"
)

// ExportService produces print bundles from posted or stored CV previews.
// Every request paginates in its own host document.
type ExportService struct {
	Creator *api.Creator
	Store   store.CVStore
}

// NewExportService creates an export service
func NewExportService(creator *api.Creator, s store.CVStore) *ExportService {
	return &ExportService{Creator: creator, Store: s}
}

// Export paginates preview markup with the given template
func (s *ExportService) Export(ctx context.Context, templateID int, previewHTML string) (*api.Bundle, error) {
	return s.Creator.CreatePdfDataFromHTML(ctx, templateID, previewHTML)
}

// ExportCV paginates a stored CV. A non-zero templateID overrides the
// template saved with it.
func (s *ExportService) ExportCV(ctx context.Context, id string, templateID int) (*api.Bundle, error) {
	cv, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if templateID == 0 {
		templateID = cv.TemplateID
	}
	bundle, err := s.Export(ctx, templateID, cv.PreviewHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to export cv %s: %w", id, err)
	}
	return bundle, nil
}

// Templates lists the templates bundles can be produced with
func (s *ExportService) Templates() []templates.Asset {
	return s.Creator.Templates().List()
}
