package layout

import (
	"log/slog"
	"math"
	"strings"

	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/internal/style"
	"github.com/gompdf/cvpdf/logging"
	xhtml "golang.org/x/net/html"
)

// Options represents options for the layout engine. Width and Height are the
// viewport size in px; vw and vh units resolve against them.
type Options struct {
	Width  float64
	Height float64
}

// Engine lays out a styled HTML subtree and reports element geometry
type Engine struct {
	options Options
	styles  map[*html.Node]style.ComputedStyle
	Debug   bool
}

// NewEngine creates a new layout engine with an A4 viewport at 96 DPI
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			Width:  794,
			Height: 1123,
		},
		styles: make(map[*html.Node]style.ComputedStyle),
	}
}

// SetOptions sets the layout options
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// SetStyles sets the computed styles for the layout
func (e *Engine) SetStyles(styles map[*html.Node]style.ComputedStyle) {
	e.styles = styles
}

// pass holds the state of one Layout call
type pass struct {
	res       *Result
	engine    *Engine
	absolute  []pendingBox
	fontSizes map[*html.Node]float64
}

// pendingBox is an absolutely positioned element waiting for its
// containing block to be sized
type pendingBox struct {
	node    *html.Node
	parent  *Box
	staticX float64
	staticY float64
}

// Layout lays out root and its subtree with root at the origin. Boxes are
// recomputed from scratch on every call, so callers mutating the tree
// between calls observe the reflowed geometry.
func (e *Engine) Layout(root *html.Node) *Result {
	p := &pass{
		res:       newResult(root),
		engine:    e,
		fontSizes: make(map[*html.Node]float64),
	}
	if root == nil {
		return p.res
	}

	if e.styleOf(root).Get("display") == "none" {
		p.res.hide(root)
		return p.res
	}
	e.layoutElement(p, root, nil, 0, 0, e.options.Width, -1)

	// absolutely positioned boxes need their containing block's final height
	for i := 0; i < len(p.absolute); i++ {
		e.layoutAbsolute(p, p.absolute[i])
	}

	if e.Debug {
		logging.Logger().Debug("layout complete",
			slog.String("root", root.Tag()),
			slog.Int("boxes", len(p.res.boxes)),
			slog.Int("hidden", len(p.res.hidden)))
	}
	return p.res
}

func (e *Engine) styleOf(n *html.Node) style.ComputedStyle {
	if n == nil {
		return nil
	}
	return e.styles[n]
}

// fontSizeOf resolves the used font size of an element in px
func (p *pass) fontSizeOf(n *html.Node) float64 {
	if n == nil {
		return defaultFontSize
	}
	if fs, ok := p.fontSizes[n]; ok {
		return fs
	}

	parentSize := defaultFontSize
	if n != p.res.root && n.Parent != nil && n.Parent.Type == xhtml.ElementNode {
		parentSize = p.fontSizeOf(n.Parent)
	}

	fs := parentSize
	switch v := p.engine.styleOf(n).Get("font-size"); v {
	case "":
	case "xx-small":
		fs = 9
	case "x-small":
		fs = 10
	case "small":
		fs = 13
	case "medium":
		fs = 16
	case "large":
		fs = 18
	case "x-large":
		fs = 24
	case "xx-large":
		fs = 32
	case "smaller":
		fs = parentSize / 1.2
	case "larger":
		fs = parentSize * 1.2
	default:
		fs = lengthContext{
			container: parentSize,
			font:      parentSize,
			vw:        p.engine.options.Width,
			vh:        p.engine.options.Height,
		}.length(v, parentSize)
	}

	p.fontSizes[n] = fs
	return fs
}

func isPositioned(st style.ComputedStyle) bool {
	switch st.Get("position") {
	case "relative", "absolute", "fixed", "sticky":
		return true
	}
	return false
}

func isOutOfFlow(st style.ComputedStyle) bool {
	pos := st.Get("position")
	return pos == "absolute" || pos == "fixed"
}

// isBlockLevel reports whether an element starts a new block in normal flow
func isBlockLevel(n *html.Node, st style.ComputedStyle) bool {
	switch st.Get("display") {
	case "block", "flex", "grid", "list-item", "table", "table-row", "table-cell",
		"table-row-group", "table-header-group", "table-footer-group", "flow-root":
		return true
	case "inline", "inline-block", "inline-flex", "contents":
		return false
	}
	return isBlockTag(n.Tag())
}

// isRowContainer reports whether children are placed side by side
func isRowContainer(n *html.Node, st style.ComputedStyle) bool {
	switch st.Get("display") {
	case "flex", "inline-flex":
		dir := st.Get("flex-direction")
		return dir == "" || dir == "row" || dir == "row-reverse"
	case "table-row":
		return true
	case "":
		return n.Tag() == "tr"
	}
	return false
}

// layoutElement lays out n with its margin box at (x, y) and returns its box.
// available is the width of the margin box. cbHeight is the height of the
// containing block, or -1 when it is not definite.
func (e *Engine) layoutElement(p *pass, n *html.Node, parent *Box, x, y, available, cbHeight float64) *Box {
	st := e.styleOf(n)
	fs := p.fontSizeOf(n)
	c := lengthContext{container: available, font: fs, vw: e.options.Width, vh: e.options.Height}

	b := &Box{
		Node:           n,
		Style:          st,
		Parent:         parent,
		FontSize:       fs,
		Positioned:     isPositioned(st) || parent == nil,
		definiteHeight: -1,
	}
	b.parseBoxModel(c)
	borderBox := st.Get("box-sizing") == "border-box"

	if w := st.Get("width"); !isAuto(w) {
		b.Width = c.length(w, 0)
		if !borderBox {
			b.Width += b.horizontalChrome()
		}
	} else {
		b.Width = available - b.MarginLeft - b.MarginRight
	}
	if v := st.Get("max-width"); !isAuto(v) {
		limit := c.length(v, b.Width)
		if !borderBox {
			limit += b.horizontalChrome()
		}
		b.Width = math.Min(b.Width, limit)
	}
	if v := st.Get("min-width"); !isAuto(v) {
		limit := c.length(v, 0)
		if !borderBox {
			limit += b.horizontalChrome()
		}
		b.Width = math.Max(b.Width, limit)
	}
	b.Width = math.Max(b.Width, b.horizontalChrome())

	if b.autoMarginX {
		free := math.Max(available-b.Width, 0)
		b.MarginLeft, b.MarginRight = free/2, free/2
	}

	b.X = x + b.MarginLeft
	b.Y = y + b.MarginTop
	p.res.add(b)

	hc := lengthContext{container: cbHeight, font: fs, vw: e.options.Width, vh: e.options.Height}
	if h := st.Get("height"); !isAuto(h) && (cbHeight >= 0 || !strings.HasSuffix(h, "%")) {
		b.definiteHeight = hc.length(h, 0)
		if !borderBox {
			b.definiteHeight += b.verticalChrome()
		}
	}

	var content float64
	if isRowContainer(n, st) {
		content = e.layoutRow(p, b)
	} else {
		content = e.layoutFlow(p, b)
	}

	b.Height = content + b.verticalChrome()
	if b.definiteHeight >= 0 {
		b.Height = b.definiteHeight
	}
	if v := st.Get("min-height"); !isAuto(v) && (cbHeight >= 0 || !strings.HasSuffix(v, "%")) {
		limit := hc.length(v, 0)
		if !borderBox {
			limit += b.verticalChrome()
		}
		b.Height = math.Max(b.Height, limit)
	}
	if v := st.Get("max-height"); !isAuto(v) && (cbHeight >= 0 || !strings.HasSuffix(v, "%")) {
		limit := hc.length(v, b.Height)
		if !borderBox {
			limit += b.verticalChrome()
		}
		b.Height = math.Min(b.Height, limit)
	}

	if st.Get("position") == "relative" {
		dx, dy := 0.0, 0.0
		if v := st.Get("left"); !isAuto(v) {
			dx = c.length(v, 0)
		} else if v := st.Get("right"); !isAuto(v) {
			dx = -c.length(v, 0)
		}
		if v := st.Get("top"); !isAuto(v) {
			dy = hc.length(v, 0)
		} else if v := st.Get("bottom"); !isAuto(v) {
			dy = -hc.length(v, 0)
		}
		b.shift(dx, dy)
	}

	if e.Debug {
		logging.Logger().Debug("laid out element",
			slog.String("tag", n.Tag()),
			slog.String("id", n.ID()),
			slog.Float64("x", b.X),
			slog.Float64("y", b.Y),
			slog.Float64("width", b.Width),
			slog.Float64("height", b.Height))
	}
	return b
}

// contentHeight returns the definite content height of b, or -1
func (b *Box) contentHeight() float64 {
	if b.definiteHeight < 0 {
		return -1
	}
	return math.Max(b.definiteHeight-b.verticalChrome(), 0)
}

// layoutFlow stacks block children vertically and wraps runs of inline
// content into line boxes. It returns the content height. The bottom margin
// of a block and the top margin of the next adjacent block collapse into one;
// margins between a parent and its children do not.
func (e *Engine) layoutFlow(p *pass, b *Box) float64 {
	cx, cy, cw := b.ContentX(), b.ContentY(), b.ContentWidth()
	curY := cy

	// bottom margin of the previous block sibling, while nothing separates it
	// from the next one
	prevMargin, adjacent := 0.0, false

	var run []*html.Node
	flush := func() {
		if len(run) > 0 {
			if h := e.layoutInlineRun(p, run, b, cx, curY, cw); h > 0 {
				curY += h
				adjacent = false
			}
			run = nil
		}
	}

	for c := b.Node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.TextNode:
			if len(run) == 0 && isAllSpace(c.Data) {
				continue
			}
			run = append(run, c)
		case xhtml.ElementNode:
			st := e.styleOf(c)
			switch {
			case st.Get("display") == "none":
				p.res.hide(c)
			case isOutOfFlow(st):
				p.absolute = append(p.absolute, pendingBox{node: c, parent: b, staticX: cx, staticY: curY})
			case isBlockLevel(c, st):
				flush()
				pending := len(p.absolute)
				child := e.layoutElement(p, c, b, cx, curY, cw, b.contentHeight())
				if adjacent {
					overlap := prevMargin + child.MarginTop - collapseMargins(prevMargin, child.MarginTop)
					child.shift(0, -overlap)
					for i := pending; i < len(p.absolute); i++ {
						p.absolute[i].staticY -= overlap
					}
					curY -= overlap
				}
				curY += child.OuterHeight()
				prevMargin, adjacent = child.MarginBottom, true
			default:
				run = append(run, c)
			}
		}
	}
	flush()

	return curY - cy
}

// collapseMargins returns the collapsed size of two adjoining margins: the
// largest positive margin plus the most negative one
func collapseMargins(a, b float64) float64 {
	return math.Max(math.Max(a, b), 0) + math.Min(math.Min(a, b), 0)
}

// layoutRow places element children side by side, the way a flex row or a
// table row does. Children with a width keep it; the remaining space is
// shared equally by the others. It returns the tallest child's margin box
// height.
func (e *Engine) layoutRow(p *pass, b *Box) float64 {
	cx, cy, cw := b.ContentX(), b.ContentY(), b.ContentWidth()
	c := lengthContext{container: cw, font: b.FontSize, vw: e.options.Width, vh: e.options.Height}

	gap := 0.0
	if v := b.Style.Get("column-gap"); v != "" {
		gap = c.length(v, 0)
	} else if parts := strings.Fields(b.Style.Get("gap")); len(parts) > 0 {
		gap = c.length(parts[len(parts)-1], 0)
	}

	type item struct {
		node  *html.Node
		outer float64
		fixed bool
	}
	var items []item
	for n := b.Node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xhtml.ElementNode {
			continue
		}
		st := e.styleOf(n)
		switch {
		case st.Get("display") == "none":
			p.res.hide(n)
			continue
		case isOutOfFlow(st):
			p.absolute = append(p.absolute, pendingBox{node: n, parent: b, staticX: cx, staticY: cy})
			continue
		}

		it := item{node: n}
		basis := st.Get("flex-basis")
		if isAuto(basis) || basis == "0" || basis == "0%" {
			basis = st.Get("width")
		}
		if !isAuto(basis) {
			bm := &Box{Style: st}
			bm.parseBoxModel(lengthContext{container: cw, font: p.fontSizeOf(n), vw: c.vw, vh: c.vh})
			it.outer = c.length(basis, 0) + bm.MarginLeft + bm.MarginRight
			if st.Get("box-sizing") != "border-box" {
				it.outer += bm.horizontalChrome()
			}
			it.fixed = true
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return 0
	}

	free := cw - gap*float64(len(items)-1)
	flexible := 0
	for _, it := range items {
		if it.fixed {
			free -= it.outer
		} else {
			flexible++
		}
	}
	share := 0.0
	if flexible > 0 {
		share = math.Max(free/float64(flexible), 0)
	}

	x := cx
	maxH := 0.0
	boxes := make([]*Box, 0, len(items))
	for _, it := range items {
		width := share
		if it.fixed {
			width = it.outer
		}
		child := e.layoutElement(p, it.node, b, x, cy, width, b.contentHeight())
		boxes = append(boxes, child)
		x += width + gap
		maxH = math.Max(maxH, child.OuterHeight())
	}

	rowHeight := maxH
	if h := b.contentHeight(); h >= 0 {
		rowHeight = h
	}
	if align := b.Style.Get("align-items"); align == "" || align == "stretch" || align == "normal" {
		for _, child := range boxes {
			if child.definiteHeight >= 0 {
				continue
			}
			stretched := rowHeight - child.MarginTop - child.MarginBottom
			child.Height = math.Max(child.Height, stretched)
		}
	}
	return maxH
}

// layoutAbsolute lays out an absolutely positioned element against the
// padding box of its nearest positioned ancestor
func (e *Engine) layoutAbsolute(p *pass, pb pendingBox) {
	cb := pb.parent
	for cb.Parent != nil && !cb.Positioned {
		cb = cb.Parent
	}
	cbX := cb.X + cb.BorderLeft
	cbY := cb.Y + cb.BorderTop
	cbW := math.Max(cb.Width-cb.BorderLeft-cb.BorderRight, 0)
	cbH := math.Max(cb.Height-cb.BorderTop-cb.BorderBottom, 0)

	st := e.styleOf(pb.node)
	fs := p.fontSizeOf(pb.node)
	cw := lengthContext{container: cbW, font: fs, vw: e.options.Width, vh: e.options.Height}
	ch := lengthContext{container: cbH, font: fs, vw: e.options.Width, vh: e.options.Height}

	left, right := st.Get("left"), st.Get("right")
	top, bottom := st.Get("top"), st.Get("bottom")

	available := cbW - (pb.staticX - cbX)
	x := pb.staticX
	if !isAuto(left) {
		x = cbX + cw.length(left, 0)
		available = cbW - cw.length(left, 0)
		if !isAuto(right) {
			available -= cw.length(right, 0)
		}
	}
	y := pb.staticY
	if !isAuto(top) {
		y = cbY + ch.length(top, 0)
	}

	b := e.layoutElement(p, pb.node, pb.parent, x, y, math.Max(available, 0), cbH)
	b.Positioned = true

	if isAuto(st.Get("height")) && !isAuto(top) && !isAuto(bottom) {
		b.Height = math.Max(cbH-ch.length(top, 0)-ch.length(bottom, 0)-b.MarginTop-b.MarginBottom, 0)
	}
	if isAuto(left) && !isAuto(right) {
		b.shift(cbX+cbW-cw.length(right, 0)-b.MarginRight-b.Width-b.X, 0)
	}
	if isAuto(top) && !isAuto(bottom) {
		b.shift(0, cbY+cbH-ch.length(bottom, 0)-b.MarginBottom-b.Height-b.Y)
	}
}

// shift moves a box and everything laid out inside it
func (b *Box) shift(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.X += dx
	b.Y += dy
	for _, c := range b.Children {
		c.shift(dx, dy)
	}
}
