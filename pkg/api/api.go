package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gompdf/cvpdf/internal/classify"
	"github.com/gompdf/cvpdf/internal/geometry"
	"github.com/gompdf/cvpdf/internal/layout"
	"github.com/gompdf/cvpdf/internal/pagination"
	"github.com/gompdf/cvpdf/internal/parser/css"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/internal/res"
	"github.com/gompdf/cvpdf/internal/style"
	"github.com/gompdf/cvpdf/internal/templates"
	"github.com/gompdf/cvpdf/internal/workspace"
	"github.com/gompdf/cvpdf/logging"
)

// Bundle is a print-ready CV: a self-contained HTML document and the
// stylesheet to render it with
type Bundle struct {
	CSS   string `json:"css"`
	HTML  string `json:"html"`
	Pages int    `json:"pages"`
}

// Creator paginates the rendered CV preview of a host document into a
// print-ready bundle
type Creator struct {
	options   Options
	doc       *html.Document
	templates *templates.Registry
	workspace *workspace.Workspace
}

// New creates a creator over doc with default options and the built-in templates
func New(doc *html.Document, opts ...Option) *Creator {
	options := DefaultOptions()
	for _, o := range opts {
		o(&options)
	}
	return NewWithOptions(doc, options)
}

// NewWithOptions creates a creator over doc with the specified options
func NewWithOptions(doc *html.Document, options Options) *Creator {
	return &Creator{
		options:   options,
		doc:       doc,
		templates: templates.MustDefault(),
		workspace: workspace.New(doc, options.PreviewID, options.ScratchID),
	}
}

// NewHostDocument builds a host document around rendered preview markup
// with the default anchors
func NewHostDocument(previewHTML string) (*html.Document, error) {
	return workspace.NewHostDocument(previewHTML, workspace.DefaultPreviewID, workspace.DefaultScratchID)
}

// Options returns the creator's options
func (c *Creator) Options() Options {
	return c.options
}

// Templates returns the template registry
func (c *Creator) Templates() *templates.Registry {
	return c.templates
}

// WithTemplates returns a new creator using the given template registry
func (c *Creator) WithTemplates(registry *templates.Registry) *Creator {
	n := NewWithOptions(c.doc, c.options)
	n.templates = registry
	return n
}

// WithOption returns a new creator with the specified option set
func (c *Creator) WithOption(option Option) *Creator {
	newOptions := c.options
	newOptions.ResourcePaths = append([]string(nil), c.options.ResourcePaths...)
	option(&newOptions)
	n := NewWithOptions(c.doc, newOptions)
	n.templates = c.templates
	return n
}

// CreatePdfData paginates the host document's preview with the given
// template and returns the print bundle. The preview is never modified and
// the scratch container is empty again when it returns.
func (c *Creator) CreatePdfData(templateID int) (*Bundle, error) {
	return c.CreatePdfDataContext(context.Background(), templateID)
}

// CreatePdfDataContext is like CreatePdfData but stops between columns once
// ctx is done
func (c *Creator) CreatePdfDataContext(ctx context.Context, templateID int) (*Bundle, error) {
	return c.create(ctx, c.workspace, templateID)
}

// CreatePdfDataFromHTML paginates rendered preview markup in a fresh host
// document
func (c *Creator) CreatePdfDataFromHTML(ctx context.Context, templateID int, previewHTML string) (*Bundle, error) {
	doc, err := workspace.NewHostDocument(previewHTML, c.options.PreviewID, c.options.ScratchID)
	if err != nil {
		return nil, err
	}
	return c.create(ctx, workspace.New(doc, c.options.PreviewID, c.options.ScratchID), templateID)
}

func (c *Creator) create(ctx context.Context, ws *workspace.Workspace, templateID int) (*Bundle, error) {
	log := logging.Logger().With(slog.Int("template", templateID))

	asset, err := c.templates.Lookup(templateID)
	if err != nil {
		return nil, err
	}

	lease, err := ws.Acquire()
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	scratch := lease.Scratch()

	if root := classify.Root(scratch); root != nil {
		root.SetStyle("height", "auto")
	}

	styleEngine, err := c.styleEngine(ctx, asset, scratch)
	if err != nil {
		return nil, err
	}

	layoutEngine := layout.NewEngine()
	layoutEngine.SetOptions(layout.Options{
		Width:  c.options.PageWidth,
		Height: c.options.PageHeight,
	})
	layoutEngine.Debug = c.options.Debug

	// every column sees the reflow caused by styling the previous ones
	relayout := func() *geometry.Measurer {
		layoutEngine.SetStyles(styleEngine.ComputeStyles(scratch))
		return geometry.NewMeasurer(layoutEngine.Layout(scratch))
	}

	paginationEngine := pagination.NewEngine()
	paginationEngine.SetOptions(pagination.Options{
		PageHeight: c.options.PageHeight,
		PageMargin: c.options.PageMargin,
		Mode:       c.options.PackMode,
	})

	pageCount := 0
	columns := classify.Columns(scratch)
	for i, column := range columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := paginationEngine.PaginateColumn(column, relayout())
		if err != nil {
			return nil, fmt.Errorf("failed to paginate column %d: %w", i, err)
		}
		pageCount = max(pageCount, len(pages))
		paginationEngine.Stretch(scratch, pageCount)
	}
	pageCount = max(pageCount, 1)

	markup, err := scratch.InnerHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	bundle := &Bundle{
		CSS:   asset.CSS + asset.Fonts,
		HTML:  wrapDocument(markup),
		Pages: pageCount,
	}
	log.Info("created pdf data",
		slog.String("name", asset.Name),
		slog.Int("columns", len(columns)),
		slog.Int("pages", pageCount),
		slog.Int("html_bytes", len(bundle.HTML)))
	return bundle, nil
}

// wrapDocument wraps body markup in the print document skeleton
func wrapDocument(body string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body class="pdf-body">`)
	b.WriteString(body)
	b.WriteString(`</body></html>`)
	return b.String()
}

// styleEngine builds the cascade for one run: user agent sheet, template
// sheet, then stylesheets embedded in or linked from the preview
func (c *Creator) styleEngine(ctx context.Context, asset templates.Asset, scratch *html.Node) (*style.StyleEngine, error) {
	cssParser := css.NewParser()
	engine := style.NewStyleEngine()

	uaStylesheet, err := cssParser.ParseString(c.options.UserAgentStylesheet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSS: %w", err)
	}
	engine.AddStylesheet(uaStylesheet)

	templateSheet, err := cssParser.ParseString(asset.CSS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %d CSS: %w", asset.ID, err)
	}
	engine.AddStylesheet(templateSheet)

	loader := res.NewLoader("")
	loader.Restricted = !c.options.AllowExternalResources
	for _, path := range c.options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	for _, cssText := range collectDocumentStylesheets(ctx, scratch, loader) {
		sheet, parseErr := cssParser.ParseString(cssText)
		if parseErr != nil {
			logging.Logger().Warn("failed to parse stylesheet", slog.Any("error", parseErr))
			continue
		}
		for _, imported := range loadImports(ctx, cssParser, loader, sheet) {
			engine.AddStylesheet(imported)
		}
		engine.AddStylesheet(sheet)
	}
	return engine, nil
}

// loadImports loads the stylesheets a sheet imports, one level deep
func loadImports(ctx context.Context, cssParser *css.Parser, loader *res.Loader, sheet *css.Stylesheet) []*css.Stylesheet {
	var out []*css.Stylesheet
	for _, target := range sheet.Imports {
		r, err := loader.LoadCSS(ctx, target)
		if err != nil {
			logging.Logger().Warn("failed to load imported stylesheet", slog.String("href", target), slog.Any("error", err))
			continue
		}
		imported, err := cssParser.ParseString(r.String())
		if err != nil {
			logging.Logger().Warn("failed to parse imported stylesheet", slog.String("href", target), slog.Any("error", err))
			continue
		}
		out = append(out, imported)
	}
	return out
}

// collectDocumentStylesheets walks the node tree in document order and
// returns the author stylesheets it references (<link rel="stylesheet"> and
// inline <style> blocks) in source order
func collectDocumentStylesheets(ctx context.Context, n *html.Node, loader *res.Loader) []string {
	var styles []string

	n.Walk(func(cur *html.Node) bool {
		switch cur.Tag() {
		case "link":
			rel, _ := cur.GetAttr("rel")
			href, _ := cur.GetAttr("href")
			if href == "" || !strings.Contains(strings.ToLower(rel), "stylesheet") {
				return false
			}
			r, err := loader.LoadCSS(ctx, href)
			if err != nil {
				logging.Logger().Warn("failed to load stylesheet", slog.String("href", href), slog.Any("error", err))
				return false
			}
			styles = append(styles, r.String())
			return false
		case "style":
			if cssText := strings.TrimSpace(cur.Text()); cssText != "" {
				styles = append(styles, cssText)
			}
			return false
		}
		return true
	})

	return styles
}
