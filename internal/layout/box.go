package layout

import (
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/internal/style"
)

// Box is the laid-out border box of one element. X, Y, Width and Height
// describe the border box in root coordinates.
type Box struct {
	Node   *html.Node
	Style  style.ComputedStyle
	Parent *Box

	X      float64
	Y      float64
	Width  float64
	Height float64

	MarginTop     float64
	MarginRight   float64
	MarginBottom  float64
	MarginLeft    float64
	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64
	PaddingLeft   float64
	BorderTop     float64
	BorderRight   float64
	BorderBottom  float64
	BorderLeft    float64

	FontSize   float64
	Positioned bool
	Children   []*Box

	// definiteHeight is the resolved explicit height, or -1 when auto
	definiteHeight float64
	autoMarginX    bool
}

// Geometry is the offset model of one element, mirroring the DOM's
// offsetTop/offsetLeft/offsetHeight/offsetParent attributes.
// Offsets are relative to the offset parent's border edge.
type Geometry struct {
	OffsetTop    float64
	OffsetLeft   float64
	OffsetWidth  float64
	OffsetHeight float64
	MarginTop    float64
	MarginBottom float64
	OffsetParent *html.Node
}

// ContentX returns the left edge of the content box
func (b *Box) ContentX() float64 {
	return b.X + b.BorderLeft + b.PaddingLeft
}

// ContentY returns the top edge of the content box
func (b *Box) ContentY() float64 {
	return b.Y + b.BorderTop + b.PaddingTop
}

// ContentWidth returns the width of the content box
func (b *Box) ContentWidth() float64 {
	w := b.Width - b.BorderLeft - b.BorderRight - b.PaddingLeft - b.PaddingRight
	if w < 0 {
		return 0
	}
	return w
}

// OuterHeight returns the height including vertical margins
func (b *Box) OuterHeight() float64 {
	return b.MarginTop + b.Height + b.MarginBottom
}

// OuterWidth returns the width including horizontal margins
func (b *Box) OuterWidth() float64 {
	return b.MarginLeft + b.Width + b.MarginRight
}

// verticalChrome is the sum of vertical paddings and borders
func (b *Box) verticalChrome() float64 {
	return b.PaddingTop + b.PaddingBottom + b.BorderTop + b.BorderBottom
}

// horizontalChrome is the sum of horizontal paddings and borders
func (b *Box) horizontalChrome() float64 {
	return b.PaddingLeft + b.PaddingRight + b.BorderLeft + b.BorderRight
}

// offsetParent returns the nearest positioned ancestor box, or the root box
func (b *Box) offsetParent() *Box {
	for p := b.Parent; p != nil; p = p.Parent {
		if p.Positioned || p.Parent == nil {
			return p
		}
	}
	return nil
}

// Result holds the boxes produced by one layout pass
type Result struct {
	root   *html.Node
	boxes  map[*html.Node]*Box
	hidden map[*html.Node]bool
}

func newResult(root *html.Node) *Result {
	return &Result{
		root:   root,
		boxes:  make(map[*html.Node]*Box),
		hidden: make(map[*html.Node]bool),
	}
}

// Box returns the box laid out for n, or nil
func (r *Result) Box(n *html.Node) *Box {
	if r == nil {
		return nil
	}
	return r.boxes[n]
}

// Geometry returns the offset geometry of n. Elements inside a display:none
// subtree report zero geometry and no offset parent, as browsers do. The
// second result is false when n was not part of the laid-out tree.
func (r *Result) Geometry(n *html.Node) (Geometry, bool) {
	if r == nil || n == nil {
		return Geometry{}, false
	}
	if r.hidden[n] {
		return Geometry{}, true
	}
	b, ok := r.boxes[n]
	if !ok {
		return Geometry{}, false
	}

	g := Geometry{
		OffsetTop:    b.Y,
		OffsetLeft:   b.X,
		OffsetWidth:  b.Width,
		OffsetHeight: b.Height,
		MarginTop:    b.MarginTop,
		MarginBottom: b.MarginBottom,
	}
	if op := b.offsetParent(); op != nil {
		g.OffsetTop -= op.Y
		g.OffsetLeft -= op.X
		g.OffsetParent = op.Node
	}
	return g, true
}

func (r *Result) add(b *Box) {
	r.boxes[b.Node] = b
	if b.Parent != nil {
		b.Parent.Children = append(b.Parent.Children, b)
	}
}

func (r *Result) hide(n *html.Node) {
	n.Walk(func(cur *html.Node) bool {
		if cur.IsElement() {
			r.hidden[cur] = true
		}
		return true
	})
}
