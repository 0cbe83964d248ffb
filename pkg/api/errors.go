package api

import (
	"github.com/gompdf/cvpdf/internal/geometry"
	"github.com/gompdf/cvpdf/internal/templates"
	"github.com/gompdf/cvpdf/internal/workspace"
)

// TemplateNotFoundError is returned when no template has the requested id
type TemplateNotFoundError = templates.NotFoundError

// RenderTargetMissingError is returned when the preview or scratch anchor is absent
type RenderTargetMissingError = workspace.TargetMissingError

// NodeNotFoundError is returned when a selector matches no element
type NodeNotFoundError = geometry.NodeNotFoundError

// GeometryUnavailableError is returned when layout data cannot be read
type GeometryUnavailableError = geometry.UnavailableError
