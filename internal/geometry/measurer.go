// Package geometry reads the effective size and position of laid-out nodes.
package geometry

import (
	"fmt"
	"math"

	"github.com/gompdf/cvpdf/internal/layout"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/internal/style"
)

// Source reports the offset geometry of a node. *layout.Result is the
// production source.
type Source interface {
	Geometry(n *html.Node) (layout.Geometry, bool)
}

// StaticSource is a fixed geometry table, mostly useful in tests
type StaticSource map[*html.Node]layout.Geometry

// Geometry implements Source
func (s StaticSource) Geometry(n *html.Node) (layout.Geometry, bool) {
	g, ok := s[n]
	return g, ok
}

// Box is the effective footprint of a node
type Box struct {
	// Height is the offset height plus vertical margins, rounded up
	Height float64
	// Top and Left are cumulative offsets along the offset-parent chain
	Top  float64
	Left float64
}

// NodeNotFoundError is returned when a selector matches nothing
type NodeNotFoundError struct {
	Selector string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("no node matches selector %q", e.Selector)
}

// UnavailableError is returned when layout data cannot be obtained
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "geometry unavailable: " + e.Reason
}

// Measurer measures nodes against a geometry source
type Measurer struct {
	source Source
}

// NewMeasurer creates a measurer reading from src
func NewMeasurer(src Source) *Measurer {
	return &Measurer{source: src}
}

// Measure returns the effective height and cumulative offsets of n
func (m *Measurer) Measure(n *html.Node) (Box, error) {
	if m == nil || m.source == nil {
		return Box{}, &UnavailableError{Reason: "no layout source"}
	}
	if n == nil {
		return Box{}, &UnavailableError{Reason: "nil node"}
	}

	g, ok := m.source.Geometry(n)
	if !ok {
		return Box{}, &UnavailableError{Reason: fmt.Sprintf("<%s> was not laid out", n.Tag())}
	}

	box := Box{Height: math.Ceil(g.OffsetHeight + g.MarginTop + g.MarginBottom)}
	for {
		box.Top += g.OffsetTop
		box.Left += g.OffsetLeft
		if g.OffsetParent == nil {
			break
		}
		parent := g.OffsetParent
		if g, ok = m.source.Geometry(parent); !ok {
			return Box{}, &UnavailableError{Reason: fmt.Sprintf("offset parent <%s> was not laid out", parent.Tag())}
		}
	}
	return box, nil
}

// MeasureSelector resolves selector under root and measures the first match
func (m *Measurer) MeasureSelector(root *html.Node, selector string) (*html.Node, Box, error) {
	if root == nil {
		return nil, Box{}, &NodeNotFoundError{Selector: selector}
	}
	var match *html.Node
	if style.Matches(root, selector) {
		match = root
	} else if found := style.QueryAll(root, selector); len(found) > 0 {
		match = found[0]
	}
	if match == nil {
		return nil, Box{}, &NodeNotFoundError{Selector: selector}
	}

	box, err := m.Measure(match)
	if err != nil {
		return match, Box{}, err
	}
	return match, box, nil
}
