package cvpdf

import (
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/pkg/api"
)

type Creator = api.Creator
type Options = api.Options
type Option = api.Option
type Bundle = api.Bundle
type PackMode = api.PackMode
type Document = html.Document

type TemplateNotFoundError = api.TemplateNotFoundError
type RenderTargetMissingError = api.RenderTargetMissingError
type NodeNotFoundError = api.NodeNotFoundError
type GeometryUnavailableError = api.GeometryUnavailableError

func New(doc *Document, opts ...Option) *Creator             { return api.New(doc, opts...) }
func NewWithOptions(doc *Document, options Options) *Creator { return api.NewWithOptions(doc, options) }
func NewHostDocument(previewHTML string) (*Document, error)  { return api.NewHostDocument(previewHTML) }
func DefaultOptions() Options                                { return api.DefaultOptions() }

var (
	WithPageSize            = api.WithPageSize
	WithPageSizeA4          = api.WithPageSizeA4
	WithPageSizeLetter      = api.WithPageSizeLetter
	WithPageSizeLegal       = api.WithPageSizeLegal
	WithPageMargin          = api.WithPageMargin
	WithAnchors             = api.WithAnchors
	WithPackMode            = api.WithPackMode
	WithDebug               = api.WithDebug
	WithResourcePath        = api.WithResourcePath
	WithExternalResources   = api.WithExternalResources
	WithUserAgentStylesheet = api.WithUserAgentStylesheet
)

const (
	PageWidthPx  = api.PageWidthPx
	PageHeightPx = api.PageHeightPx
	PageMarginPx = api.PageMarginPx

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PackTwoPhase   = api.PackTwoPhase
	PackSinglePass = api.PackSinglePass
)
