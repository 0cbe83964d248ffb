package pagination

import (
	"github.com/gompdf/cvpdf/internal/classify"
	"github.com/gompdf/cvpdf/internal/parser/html"
)

// Stretch sets every stretch target under scope to pageCount page heights.
// It only assigns, so repeating it with the same count changes nothing.
func Stretch(scope *html.Node, pageHeight float64, pageCount int) []*html.Node {
	targets := classify.StretchTargets(scope)
	for _, t := range targets {
		t.SetStyle("height", px(pageHeight*float64(pageCount)))
	}
	return targets
}
