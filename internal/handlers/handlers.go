// Package handlers exposes the export service over HTTP.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gompdf/cvpdf/internal/services"
	"github.com/gompdf/cvpdf/internal/store"
	"github.com/gompdf/cvpdf/logging"
	"github.com/gompdf/cvpdf/pkg/api"
)

// Handler serves the /api/v1 routes
type Handler struct {
	Export    *services.ExportService
	Store     store.CVStore
	Suggester *services.Suggester
}

// NewHandler creates the handler with its dependencies. suggester may be
// nil, in which case suggestions answer 503.
func NewHandler(export *services.ExportService, s store.CVStore, suggester *services.Suggester) *Handler {
	return &Handler{Export: export, Store: s, Suggester: suggester}
}

// Register mounts the routes on r
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)
		v1.GET("/templates", h.ListTemplates)
		v1.POST("/pdf-data", h.CreatePdfData)

		v1.GET("/cvs", h.ListCVs)
		v1.POST("/cvs", h.CreateCV)
		v1.GET("/cvs/:id", h.GetCV)
		v1.PUT("/cvs/:id", h.UpdateCV)
		v1.DELETE("/cvs/:id", h.DeleteCV)
		v1.POST("/cvs/:id/pdf-data", h.CreateCVPdfData)

		v1.POST("/suggestions", h.Suggest)
	}
}

// HealthCheck is the GET /health endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListTemplates is the GET /templates endpoint
func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.Export.Templates())
}

// CreatePdfData is the POST /pdf-data endpoint
func (h *Handler) CreatePdfData(c *gin.Context) {
	var req PdfDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	bundle, err := h.Export.Export(c.Request.Context(), req.TemplateID, req.PreviewHTML)
	if err != nil {
		respondError(c, "Failed to create PDF data", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// ListCVs is the GET /cvs endpoint
func (h *Handler) ListCVs(c *gin.Context) {
	cvs, err := h.Store.List(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list CVs", err)
		return
	}
	c.JSON(http.StatusOK, cvs)
}

// CreateCV is the POST /cvs endpoint
func (h *Handler) CreateCV(c *gin.Context) {
	var req CVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	cv := req.toCV("")
	if err := h.Store.Create(c.Request.Context(), cv); err != nil {
		respondError(c, "Failed to create CV", err)
		return
	}
	c.JSON(http.StatusCreated, cv)
}

// GetCV is the GET /cvs/:id endpoint
func (h *Handler) GetCV(c *gin.Context) {
	cv, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get CV", err)
		return
	}
	c.JSON(http.StatusOK, cv)
}

// UpdateCV is the PUT /cvs/:id endpoint
func (h *Handler) UpdateCV(c *gin.Context) {
	var req CVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	cv := req.toCV(c.Param("id"))
	if err := h.Store.Update(c.Request.Context(), cv); err != nil {
		respondError(c, "Failed to update CV", err)
		return
	}
	updated, err := h.Store.Get(c.Request.Context(), cv.ID)
	if err != nil {
		respondError(c, "Failed to get CV", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCV is the DELETE /cvs/:id endpoint
func (h *Handler) DeleteCV(c *gin.Context) {
	if err := h.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete CV", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCVPdfData is the POST /cvs/:id/pdf-data endpoint. The body is
// optional and may override the stored template.
func (h *Handler) CreateCVPdfData(c *gin.Context) {
	var req CVExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	bundle, err := h.Export.ExportCV(c.Request.Context(), c.Param("id"), req.TemplateID)
	if err != nil {
		respondError(c, "Failed to create PDF data", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// Suggest is the POST /suggestions endpoint
func (h *Handler) Suggest(c *gin.Context) {
	if h.Suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions are not configured"})
		return
	}
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	suggestion, err := h.Suggester.Suggest(c.Request.Context(), req.Section, req.Text)
	if err != nil {
		respondError(c, "AI suggestion failed", err)
		return
	}
	c.JSON(http.StatusOK, SuggestionResponse{Suggestion: suggestion})
}

func (r CVRequest) toCV(id string) *store.CV {
	templateID := r.TemplateID
	if templateID == 0 {
		templateID = 1
	}
	return &store.CV{ID: id, Title: r.Title, TemplateID: templateID, PreviewHTML: r.PreviewHTML}
}

// statusOf maps service errors to HTTP status codes
func statusOf(err error) int {
	var (
		notFound *api.TemplateNotFoundError
		missing  *api.RenderTargetMissingError
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, store.ErrCVNotFound):
		return http.StatusNotFound
	case errors.As(err, &missing), errors.Is(err, services.ErrEmptyText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logging.Logger().Error(msg,
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
	}
	c.JSON(status, gin.H{"error": msg + ": " + err.Error()})
}
