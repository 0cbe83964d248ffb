package layout

import (
	"math"
	"strings"
	"sync"
	"unicode"

	"codeberg.org/go-pdf/fpdf"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/gompdf/cvpdf/internal/style"
	xhtml "golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	measurePDF  *fpdf.Fpdf
	measureOnce sync.Once
	measureMu   sync.Mutex
	toCP1252    func(string) string
)

func initMeasurePDF() {
	measurePDF = fpdf.New("P", "pt", "A4", "")
	measurePDF.SetFont("Helvetica", "", 12)
	toCP1252 = measurePDF.UnicodeTranslatorFromDescriptor("")
}

// measureTextWidth returns a font-aware width using fpdf core font metrics.
// The font size is passed in px and the width comes back in px.
func measureTextWidth(text string, fontSize float64, st style.ComputedStyle) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	measureOnce.Do(initMeasurePDF)
	measureMu.Lock()
	defer measureMu.Unlock()
	fam, sty := resolveFontFromStyle(st)
	measurePDF.SetFont(fam, sty, fontSize)
	return measurePDF.GetStringWidth(toCP1252(norm.NFC.String(text)))
}

// resolveFontFromStyle maps CSS-like style to core PDF font family and style
func resolveFontFromStyle(st style.ComputedStyle) (string, string) {
	family := "Helvetica"
	for _, f := range strings.Split(st.Get("font-family"), ",") {
		switch strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(f), `'"`))) {
		case "times", "times new roman", "georgia", "garamond", "merriweather", "serif":
			family = "Times"
		case "courier", "courier new", "consolas", "monospace":
			family = "Courier"
		case "arial", "helvetica", "sans-serif":
			family = "Helvetica"
		default:
			continue
		}
		break
	}
	styleStr := ""
	switch st.Get("font-weight") {
	case "bold", "bolder", "600", "700", "800", "900":
		styleStr += "B"
	}
	if fs := st.Get("font-style"); fs == "italic" || fs == "oblique" {
		styleStr += "I"
	}
	return family, styleStr
}

// lineHeight resolves the CSS line-height for a font size
func lineHeight(st style.ComputedStyle, fontSize float64) float64 {
	v := st.Get("line-height")
	if v == "" || v == "normal" {
		return fontSize * 1.2
	}
	c := lengthContext{container: fontSize, font: fontSize}
	if !strings.ContainsAny(v, "abcdefghijklmnopqrstuvwxyz%") {
		return c.length(v, 1.2) * fontSize
	}
	return c.length(v, fontSize*1.2)
}

// token is one measured piece of an inline run
type token struct {
	text    string
	width   float64
	height  float64
	space   bool
	newline bool
	node    *html.Node // the <img> or <br> element the token stands for
	owners  []*html.Node
	style   style.ComputedStyle
}

// collectTokens flattens inline content into measured tokens. owners are the
// inline elements enclosing the content, outermost first.
func (e *Engine) collectTokens(p *pass, n *html.Node, owners []*html.Node, out *[]token) {
	if n.Type == xhtml.TextNode {
		parent := n.Parent
		st := e.styleOf(parent)
		fs := p.fontSizeOf(parent)
		lh := lineHeight(st, fs)
		if ws := st.Get("white-space"); ws == "pre" || ws == "pre-wrap" || ws == "pre-line" {
			for i, line := range strings.Split(n.Data, "\n") {
				if i > 0 {
					*out = append(*out, token{newline: true, height: lh, owners: owners, style: st})
				}
				if line == "" {
					continue
				}
				*out = append(*out, token{text: line, width: measureTextWidth(line, fs, st), height: lh, owners: owners, style: st})
			}
			return
		}
		for _, word := range splitTokens(n.Data) {
			tok := token{text: word, height: lh, owners: owners, style: st}
			if word == " " {
				tok.space = true
			}
			tok.width = measureTextWidth(word, fs, st)
			*out = append(*out, tok)
		}
		return
	}

	if n.Type != xhtml.ElementNode {
		return
	}
	st := e.styleOf(n)
	if st.Get("display") == "none" {
		p.res.hide(n)
		return
	}

	switch n.Tag() {
	case "br":
		fs := p.fontSizeOf(n)
		*out = append(*out, token{newline: true, height: lineHeight(st, fs), node: n, owners: owners, style: st})
		return
	case "img":
		w, h := imageSize(n, st, p.fontSizeOf(n))
		*out = append(*out, token{text: "img", width: w, height: h, node: n, owners: owners, style: st})
		return
	}

	inner := append(append([]*html.Node(nil), owners...), n)
	before := len(*out)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.collectTokens(p, c, inner, out)
	}
	if len(*out) == before {
		// empty inline elements still get a box
		*out = append(*out, token{owners: inner, style: st})
	}
}

// imageSize sizes a replaced <img> from CSS, then attributes, else a 40px square
func imageSize(n *html.Node, st style.ComputedStyle, fontSize float64) (float64, float64) {
	c := lengthContext{font: fontSize}
	w, h := 40.0, 40.0
	if v, ok := n.GetAttr("width"); ok {
		w = c.length(v, w)
	}
	if v, ok := n.GetAttr("height"); ok {
		h = c.length(v, h)
	}
	if v := st.Get("width"); !isAuto(v) {
		w = c.length(v, w)
	}
	if v := st.Get("height"); !isAuto(v) {
		h = c.length(v, h)
	}
	return w, h
}

type lineBox struct {
	top    float64
	height float64
}

// layoutInlineRun wraps the tokens of consecutive inline siblings into line
// boxes of the given width and returns the height they occupy. Inline elements
// get a box spanning the lines their content landed on.
func (e *Engine) layoutInlineRun(p *pass, nodes []*html.Node, parent *Box, x, y, width float64) float64 {
	var tokens []token
	for _, n := range nodes {
		e.collectTokens(p, n, nil, &tokens)
	}

	lineOf := make([]int, len(tokens))
	var lines []lineBox
	cur := lineBox{top: y}
	lineW, pendingSpace := 0.0, 0.0
	hasContent := false

	closeLine := func() {
		lines = append(lines, cur)
		cur = lineBox{top: cur.top + cur.height}
		lineW, pendingSpace, hasContent = 0, 0, false
	}

	for i, tok := range tokens {
		switch {
		case tok.newline:
			if !hasContent {
				cur.height = math.Max(cur.height, tok.height)
			}
			lineOf[i] = len(lines)
			closeLine()
			continue
		case tok.space:
			if hasContent {
				pendingSpace = tok.width
			}
		case tok.text == "":
			// marker for an empty inline element
		default:
			if hasContent && lineW+pendingSpace+tok.width > width {
				closeLine()
			}
			if hasContent {
				lineW += pendingSpace
			}
			lineW += tok.width
			pendingSpace = 0
			hasContent = true
			cur.height = math.Max(cur.height, tok.height)
		}
		lineOf[i] = len(lines)
	}
	if hasContent {
		closeLine()
	}

	bottom := func(line int) (float64, float64) {
		if line < len(lines) {
			return lines[line].top, lines[line].top + lines[line].height
		}
		return cur.top, cur.top
	}

	boxes := make(map[*html.Node]*Box)
	for i, tok := range tokens {
		top, end := bottom(lineOf[i])
		owner := parent
		for _, n := range tok.owners {
			b, ok := boxes[n]
			if !ok {
				b = &Box{Node: n, Style: e.styleOf(n), Parent: owner, X: x, Y: top, Width: width, FontSize: p.fontSizeOf(n)}
				b.Positioned = isPositioned(b.Style)
				boxes[n] = b
				p.res.add(b)
			}
			if end > b.Y+b.Height {
				b.Height = end - b.Y
			}
			owner = b
		}
		if tok.node != nil {
			b := &Box{Node: tok.node, Style: tok.style, Parent: owner, X: x, Y: top, Width: tok.width, Height: tok.height}
			if tok.newline {
				// line breaks occupy no area of their own
				b.Height = 0
			}
			p.res.add(b)
		}
	}

	if len(lines) == 0 {
		return 0
	}
	last := lines[len(lines)-1]
	return last.top + last.height - y
}

// splitTokens splits text into words and single collapsed spaces
func splitTokens(s string) []string {
	var tokens []string
	var cur []rune
	inSpace := false

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				flush()
				tokens = append(tokens, " ")
				inSpace = true
			}
			continue
		}
		inSpace = false
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// isAllSpace reports whether a string holds only whitespace
func isAllSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
