package layout

import (
	"strconv"
	"strings"
)

const (
	defaultFontSize = 16.0
	rootFontSize    = 16.0
)

// lengthContext carries what a CSS length may be relative to
type lengthContext struct {
	container float64
	font      float64
	vw        float64
	vh        float64
}

// isAuto reports whether a length value leaves the size to the layout
func isAuto(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto", "none", "initial", "inherit", "unset", "fit-content", "max-content", "min-content":
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(value), "calc(")
}

// length resolves a CSS length to px
func (c lengthContext) length(value string, def float64) float64 {
	v := strings.ToLower(strings.TrimSpace(value))
	if isAuto(v) || v == "normal" {
		return def
	}

	units := []struct {
		suffix string
		scale  func(float64) float64
	}{
		{"%", func(f float64) float64 { return c.container * f / 100 }},
		{"px", func(f float64) float64 { return f }},
		{"rem", func(f float64) float64 { return f * rootFontSize }},
		{"em", func(f float64) float64 { return f * c.font }},
		{"vh", func(f float64) float64 { return f * c.vh / 100 }},
		{"vw", func(f float64) float64 { return f * c.vw / 100 }},
		{"pt", func(f float64) float64 { return f * 96 / 72 }},
		{"pc", func(f float64) float64 { return f * 16 }},
		{"mm", func(f float64) float64 { return f * 96 / 25.4 }},
		{"cm", func(f float64) float64 { return f * 96 / 2.54 }},
		{"in", func(f float64) float64 { return f * 96 }},
	}
	for _, u := range units {
		if strings.HasSuffix(v, u.suffix) {
			f, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-len(u.suffix)]), 64)
			if err != nil {
				return def
			}
			return u.scale(f)
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseBoxShorthand parses CSS shorthand like:
//   - "10px"
//   - "10px 20px"
//   - "10px 15px 8px"
//   - "10px 12px 8px 6px"
//
// and returns (top, right, bottom, left) values.
func parseBoxShorthand(value string, c lengthContext, def float64) (float64, float64, float64, float64) {
	parts := strings.Fields(value)
	to := func(s string) float64 { return c.length(s, def) }
	switch len(parts) {
	case 0:
		return def, def, def, def
	case 1:
		a := to(parts[0])
		return a, a, a, a
	case 2:
		vtb := to(parts[0])
		vrl := to(parts[1])
		return vtb, vrl, vtb, vrl
	case 3:
		t := to(parts[0])
		r := to(parts[1])
		b := to(parts[2])
		return t, r, b, r
	default:
		return to(parts[0]), to(parts[1]), to(parts[2]), to(parts[3])
	}
}

// borderWidth extracts the width from a border shorthand such as "1px solid #ccc"
func borderWidth(value string, c lengthContext) (float64, bool) {
	for _, tok := range strings.Fields(strings.ToLower(value)) {
		switch tok {
		case "none", "hidden":
			return 0, true
		case "thin":
			return 1, true
		case "medium":
			return 3, true
		case "thick":
			return 5, true
		}
		if tok[0] == '.' || (tok[0] >= '0' && tok[0] <= '9') {
			return c.length(tok, 0), true
		}
	}
	return 0, false
}

// parseBoxModel resolves margins, paddings and borders. Longhands override
// the shorthand. Percentages resolve against the containing block width.
func (b *Box) parseBoxModel(c lengthContext) {
	st := b.Style

	b.MarginTop, b.MarginRight, b.MarginBottom, b.MarginLeft = parseBoxShorthand(st.Get("margin"), c, 0)
	autoLeft, autoRight := false, false
	if parts := strings.Fields(st.Get("margin")); len(parts) > 0 {
		switch len(parts) {
		case 1:
			autoLeft, autoRight = parts[0] == "auto", parts[0] == "auto"
		case 2, 3:
			autoLeft, autoRight = parts[1] == "auto", parts[1] == "auto"
		default:
			autoLeft, autoRight = parts[3] == "auto", parts[1] == "auto"
		}
	}
	longhand := func(prop string, dst *float64) bool {
		v := st.Get(prop)
		if v == "" {
			return false
		}
		*dst = c.length(v, 0)
		return true
	}
	longhand("margin-top", &b.MarginTop)
	longhand("margin-bottom", &b.MarginBottom)
	if longhand("margin-left", &b.MarginLeft) {
		autoLeft = st.Get("margin-left") == "auto"
	}
	if longhand("margin-right", &b.MarginRight) {
		autoRight = st.Get("margin-right") == "auto"
	}
	b.autoMarginX = autoLeft && autoRight

	b.PaddingTop, b.PaddingRight, b.PaddingBottom, b.PaddingLeft = parseBoxShorthand(st.Get("padding"), c, 0)
	longhand("padding-top", &b.PaddingTop)
	longhand("padding-right", &b.PaddingRight)
	longhand("padding-bottom", &b.PaddingBottom)
	longhand("padding-left", &b.PaddingLeft)

	if w, ok := borderWidth(st.Get("border"), c); ok {
		b.BorderTop, b.BorderRight, b.BorderBottom, b.BorderLeft = w, w, w, w
	}
	if v := st.Get("border-width"); v != "" {
		b.BorderTop, b.BorderRight, b.BorderBottom, b.BorderLeft = parseBoxShorthand(v, c, 0)
	}
	sides := []struct {
		name string
		dst  *float64
	}{
		{"top", &b.BorderTop},
		{"right", &b.BorderRight},
		{"bottom", &b.BorderBottom},
		{"left", &b.BorderLeft},
	}
	for _, side := range sides {
		if w, ok := borderWidth(st.Get("border-"+side.name), c); ok {
			*side.dst = w
		}
		if v := st.Get("border-" + side.name + "-width"); v != "" {
			*side.dst = c.length(v, 0)
		}
	}
}

// isBlockTag reports whether an element is block-level by default
func isBlockTag(tag string) bool {
	switch tag {
	case "html", "body", "div", "section", "article", "aside", "header", "footer",
		"main", "nav", "p", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"dl", "dt", "dd", "table", "thead", "tbody", "tfoot", "tr", "td", "th",
		"blockquote", "pre", "figure", "figcaption", "form", "fieldset", "hr", "address":
		return true
	}
	return false
}
