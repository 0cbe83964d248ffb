package api

import (
	"github.com/gompdf/cvpdf/internal/pagination"
	"github.com/gompdf/cvpdf/internal/workspace"
)

// Options represents configuration options for the PDF data creator.
// Sizes are CSS pixels at 96 DPI.
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64
	// PageMargin is the space kept free at the top of continuation pages
	// and subtracted from the usable page height
	PageMargin float64

	// Element ids of the visible preview and the hidden scratch container
	PreviewID string
	ScratchID string

	// PackMode selects the page packing algorithm
	PackMode PackMode

	// Debug enables per-element layout logging
	Debug bool

	// ResourcePaths are searched for stylesheets linked from the preview
	ResourcePaths []string

	// AllowExternalResources lets linked and imported stylesheets load from
	// URLs and arbitrary file paths. When false only data URLs and files in
	// ResourcePaths are read.
	AllowExternalResources bool

	// UserAgentStylesheet is applied before the template stylesheet
	UserAgentStylesheet string
}

// Option is a function that modifies Options
type Option func(*Options)

// PackMode selects the page packing algorithm
type PackMode = pagination.Mode

const (
	// PackTwoPhase fills the first page from natural offsets, the rest by accumulated height
	PackTwoPhase = pagination.ModeTwoPhase
	// PackSinglePass fills every page by accumulated height
	PackSinglePass = pagination.ModeSinglePass
)

// Page constants in CSS pixels
const (
	PageWidthPx  = 794
	PageHeightPx = 1123
	PageMarginPx = 36

	PageSizeLetterWidth  = 816
	PageSizeLetterHeight = 1056
	PageSizeLegalWidth   = 816
	PageSizeLegalHeight  = 1344
)

// DefaultOptions returns the default options: A4, 36px margin, the
// cv-preview and pdf-scratch anchors and two-phase packing
func DefaultOptions() Options {
	return Options{
		PageWidth:  PageWidthPx,
		PageHeight: PageHeightPx,
		PageMargin: PageMarginPx,

		PreviewID: workspace.DefaultPreviewID,
		ScratchID: workspace.DefaultScratchID,

		PackMode: PackTwoPhase,

		ResourcePaths: []string{},

		UserAgentStylesheet: defaultUserAgentStylesheet,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageWidthPx, PageHeightPx)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}

// WithPageMargin sets the page margin
func WithPageMargin(margin float64) Option {
	return func(o *Options) {
		o.PageMargin = margin
	}
}

// WithAnchors sets the preview and scratch element ids
func WithAnchors(previewID, scratchID string) Option {
	return func(o *Options) {
		o.PreviewID = previewID
		o.ScratchID = scratchID
	}
}

// WithPackMode sets the page packing algorithm
func WithPackMode(mode PackMode) Option {
	return func(o *Options) {
		o.PackMode = mode
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithResourcePath adds a path to search for linked stylesheets
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithExternalResources allows or refuses stylesheets outside ResourcePaths
func WithExternalResources(allow bool) Option {
	return func(o *Options) {
		o.AllowExternalResources = allow
	}
}

// WithUserAgentStylesheet sets the user agent stylesheet
func WithUserAgentStylesheet(stylesheet string) Option {
	return func(o *Options) {
		o.UserAgentStylesheet = stylesheet
	}
}

// Default user agent stylesheet
const defaultUserAgentStylesheet = `
html, body {
  margin: 0;
  padding: 0;
  font-family: Helvetica, Arial, sans-serif;
  font-size: 16px;
  line-height: normal;
}

li {
  display: list-item;
}

blockquote {
  margin: 1em 40px;
}

pre, code {
  font-family: monospace;
}

hr {
  border: 1px solid #000000;
  margin: 0.5em 0;
}

img {
  max-width: 100%;
}
`
