package style

import (
	"strings"

	"github.com/gompdf/cvpdf/internal/parser/css"
	"github.com/gompdf/cvpdf/internal/parser/html"
	xhtml "golang.org/x/net/html"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

// StyleProperty represents a computed style property
type StyleProperty struct {
	Name        string
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
}

// Source represents the source of a style property
type Source int

const (
	SourceUserAgent Source = iota
	SourceAuthor
	SourceInline
)

// ComputedStyle represents the computed style for an element
type ComputedStyle map[string]StyleProperty

// Get returns the trimmed value of a property, or "" when it is not set
func (s ComputedStyle) Get(property string) string {
	return strings.TrimSpace(s[property].Value)
}

// inherited lists the properties that flow from parent to child when unset.
// font-size is resolved by the layout engine since em values compound.
var inherited = []string{
	"font-family", "font-weight", "font-style",
	"line-height", "color", "white-space",
}

// StyleEngine handles the CSS cascade and style computation
type StyleEngine struct {
	userAgentStyles *css.Stylesheet
	authorStyles    []*css.Stylesheet
}

// NewStyleEngine creates a new style engine
func NewStyleEngine() *StyleEngine {
	return &StyleEngine{
		userAgentStyles: defaultUserAgentStyles(),
		authorStyles:    []*css.Stylesheet{},
	}
}

// AddStylesheet adds an author stylesheet to the style engine
func (e *StyleEngine) AddStylesheet(stylesheet *css.Stylesheet) {
	e.authorStyles = append(e.authorStyles, stylesheet)
}

// ComputeStyles computes styles for every element under root, root included.
// Inheritable properties are copied down from the parent when unset.
func (e *StyleEngine) ComputeStyles(root *html.Node) map[*html.Node]ComputedStyle {
	result := make(map[*html.Node]ComputedStyle)
	e.computeStylesRecursive(root, nil, result)
	return result
}

// computeStylesRecursive computes styles for an element and its children
func (e *StyleEngine) computeStylesRecursive(node *html.Node, parent ComputedStyle, result map[*html.Node]ComputedStyle) {
	if node == nil {
		return
	}

	current := parent
	if node.Type == xhtml.ElementNode {
		current = e.computeStyleForElement(node)
		for _, name := range inherited {
			if _, ok := current[name]; ok {
				continue
			}
			if p, ok := parent[name]; ok {
				current[name] = p
			}
		}
		result[node] = current
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		e.computeStylesRecursive(child, current, result)
	}
}

// computeStyleForElement computes the style for a single element
func (e *StyleEngine) computeStyleForElement(node *html.Node) ComputedStyle {
	style := make(ComputedStyle)

	e.applyStylesheet(style, node, e.userAgentStyles, SourceUserAgent)

	for _, stylesheet := range e.authorStyles {
		e.applyStylesheet(style, node, stylesheet, SourceAuthor)
	}

	e.applyInlineStyles(style, node)

	return style
}

// applyStylesheet applies styles from a stylesheet to an element
func (e *StyleEngine) applyStylesheet(style ComputedStyle, node *html.Node, stylesheet *css.Stylesheet, source Source) {
	for _, rule := range stylesheet.Rules {
		for _, selector := range rule.Selectors {
			if Matches(node, selector) {
				specificity := calculateSpecificity(selector)
				e.applyDeclarations(style, rule.Declarations, specificity, source)
			}
		}
	}
}

// applyInlineStyles applies inline styles to an element
func (e *StyleEngine) applyInlineStyles(style ComputedStyle, node *html.Node) {
	if v, ok := node.GetAttr("style"); ok {
		specificity := Specificity{1, 0, 0}
		e.applyDeclarations(style, css.ParseDeclarations(v), specificity, SourceInline)
	}
}

// applyDeclarations applies CSS declarations to a style
func (e *StyleEngine) applyDeclarations(style ComputedStyle, declarations []*css.Declaration, specificity Specificity, source Source) {
	for _, decl := range declarations {
		property := decl.Property
		existing, exists := style[property]

		// A later declaration wins unless the existing one is !important and
		// the new one is not, or it comes from the same origin with a higher
		// specificity. Stylesheets are applied in cascade order.
		apply := !exists
		if exists {
			switch {
			case decl.Important != existing.Important:
				apply = decl.Important
			case source != existing.Source:
				apply = source > existing.Source
			default:
				apply = compareSpecificity(specificity, existing.Specificity) >= 0
			}
		}
		if !apply {
			continue
		}

		style[property] = StyleProperty{
			Name:        property,
			Value:       decl.Value,
			Important:   decl.Important,
			Source:      source,
			Specificity: specificity,
		}
	}
}

// Matches reports whether an element matches a CSS selector. Descendant and
// child combinators are both treated as descendant combinators.
func Matches(node *html.Node, selector string) bool {
	parts := strings.Fields(strings.ReplaceAll(selector, ">", " "))
	if len(parts) == 0 || node == nil {
		return false
	}
	if !matchCompoundSelector(node, parts[len(parts)-1]) {
		return false
	}

	current := node.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		found := false
		for anc := current; anc != nil; anc = anc.Parent {
			if anc.Type == xhtml.ElementNode && matchCompoundSelector(anc, parts[i]) {
				found = true
				current = anc.Parent
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// QueryAll returns every element under root (root excluded) matching selector, in document order
func QueryAll(root *html.Node, selector string) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(func(n *html.Node) bool {
			if n.IsElement() && Matches(n, selector) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// matchCompoundSelector matches a single compound selector against a node.
// Compound selectors can be forms like:
//   - tag
//   - .class
//   - #id
//   - tag.class
//   - tag#id.class1.class2
//   - [attr] and [attr=value]
//
// It does not support pseudo-classes.
func matchCompoundSelector(node *html.Node, sel string) bool {
	if node == nil || node.Type != xhtml.ElementNode || sel == "" {
		return false
	}

	var wantTag string
	var wantID string
	var wantClasses []string
	var wantAttrs [][2]string

	isStop := func(c byte) bool { return c == '.' || c == '#' || c == '[' }

	i := 0
	if i < len(sel) && !isStop(sel[i]) {
		j := i
		for j < len(sel) && !isStop(sel[j]) {
			j++
		}
		wantTag = sel[i:j]
		i = j
	}
	for i < len(sel) {
		switch sel[i] {
		case '#':
			j := i + 1
			for j < len(sel) && !isStop(sel[j]) {
				j++
			}
			wantID = sel[i+1 : j]
			i = j
		case '.':
			j := i + 1
			for j < len(sel) && !isStop(sel[j]) {
				j++
			}
			wantClasses = append(wantClasses, sel[i+1:j])
			i = j
		case '[':
			end := strings.IndexByte(sel[i:], ']')
			if end == -1 {
				return false
			}
			key, val, _ := strings.Cut(sel[i+1:i+end], "=")
			wantAttrs = append(wantAttrs, [2]string{strings.TrimSpace(key), strings.Trim(strings.TrimSpace(val), `'"`)})
			i += end + 1
		default:
			return false
		}
	}

	if strings.ContainsRune(wantTag, ':') {
		return false
	}
	if wantTag != "" && wantTag != "*" && !strings.EqualFold(wantTag, node.Data) {
		return false
	}

	if wantID != "" && node.ID() != wantID {
		return false
	}

	for _, need := range wantClasses {
		if !node.HasClass(need) {
			return false
		}
	}

	for _, kv := range wantAttrs {
		v, ok := node.GetAttr(kv[0])
		if !ok || (kv[1] != "" && v != kv[1]) {
			return false
		}
	}

	return true
}

// calculateSpecificity calculates the specificity of a CSS selector
func calculateSpecificity(selector string) Specificity {
	specificity := Specificity{}

	specificity.ID = strings.Count(selector, "#")

	specificity.Class = strings.Count(selector, ".") +
		strings.Count(selector, "[") +
		strings.Count(selector, ":")

	for _, part := range strings.Fields(strings.ReplaceAll(selector, ">", " ")) {
		if part != "" && part[0] != '.' && part[0] != '#' && part[0] != '[' && part[0] != '*' {
			specificity.Element++
		}
	}

	return specificity
}

// compareSpecificity compares two specificities
func compareSpecificity(a, b Specificity) int {
	if a.ID != b.ID {
		return a.ID - b.ID
	}
	if a.Class != b.Class {
		return a.Class - b.Class
	}
	return a.Element - b.Element
}

// defaultUserAgentStyles returns the default user agent stylesheet
func defaultUserAgentStyles() *css.Stylesheet {
	parser := css.NewParser()
	stylesheet, _ := parser.ParseString(`
		h1 { font-size: 2em; margin: 0.67em 0; font-weight: bold; }
		h2 { font-size: 1.5em; margin: 0.75em 0; font-weight: bold; }
		h3 { font-size: 1.17em; margin: 0.83em 0; font-weight: bold; }
		h4 { margin: 1.12em 0; font-weight: bold; }
		h5 { font-size: 0.83em; margin: 1.5em 0; font-weight: bold; }
		h6 { font-size: 0.75em; margin: 1.67em 0; font-weight: bold; }
		p { margin: 1em 0; }
		ul, ol { margin: 1em 0; padding-left: 40px; }
		b, strong { font-weight: bold; }
		i, em { font-style: italic; }
		pre { white-space: pre; }
		head, script, style, title, meta, link, template { display: none; }
		span, a, b, strong, i, em, small, label, code, sup, sub { display: inline; }
	`)
	return stylesheet
}
