package pagination

import (
	"fmt"
	"log/slog"

	"github.com/gompdf/cvpdf/internal/classify"
	"github.com/gompdf/cvpdf/internal/geometry"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/logging"
)

// Options represents options for the pagination engine. Sizes are CSS px.
type Options struct {
	PageHeight float64
	PageMargin float64
	Mode       Mode
}

// Engine splits template columns into pages
type Engine struct {
	options Options
}

// NewEngine creates a new pagination engine for A4 pages with a 36px margin
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			PageHeight: PageSizeA4.Height,
			PageMargin: 36,
			Mode:       ModeTwoPhase,
		},
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// Measure reads the footprint of every break unit in column
func (e *Engine) Measure(column *html.Node, m *geometry.Measurer) ([]Unit, error) {
	nodes := classify.BreakUnits(column)
	units := make([]Unit, 0, len(nodes))
	for i, n := range nodes {
		box, err := m.Measure(n)
		if err != nil {
			return nil, fmt.Errorf("failed to measure break unit %d: %w", i, err)
		}
		units = append(units, Unit{Node: n, Height: box.Height, Top: box.Top})
	}
	return units, nil
}

// Pack partitions units with the configured mode
func (e *Engine) Pack(units []Unit) []Page {
	if e.options.Mode == ModeSinglePass {
		return PackSinglePass(units, e.options.PageHeight, e.options.PageMargin)
	}
	return Pack(units, e.options.PageHeight, e.options.PageMargin)
}

// PaginateColumn measures, packs and styles the break units of one column
// and returns its pages
func (e *Engine) PaginateColumn(column *html.Node, m *geometry.Measurer) ([]Page, error) {
	units, err := e.Measure(column, m)
	if err != nil {
		return nil, err
	}

	pages := Style(e.Pack(units), e.options.PageMargin)

	logging.Logger().Debug("paginated column",
		slog.String("column", column.ID()),
		slog.String("mode", e.options.Mode.String()),
		slog.Int("units", len(units)),
		slog.Int("pages", len(pages)))
	return pages, nil
}

// Stretch sizes the stretch targets under scope to pageCount pages
func (e *Engine) Stretch(scope *html.Node, pageCount int) {
	targets := Stretch(scope, e.options.PageHeight, pageCount)
	if len(targets) > 0 {
		logging.Logger().Debug("stretched targets",
			slog.Int("targets", len(targets)),
			slog.Int("pages", pageCount))
	}
}
