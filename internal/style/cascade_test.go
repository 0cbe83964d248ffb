package style

import (
	"testing"

	"github.com/gompdf/cvpdf/internal/parser/css"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, markup string) *html.Document {
	t.Helper()
	doc, err := html.NewParser().ParseString(markup)
	require.NoError(t, err)
	return doc
}

func TestMatches(t *testing.T) {
	doc := parseDoc(t, `<div id="template" class="cv two-col">
  <aside class="sidebar" data-pdf-role="column"><div id="unit" class="entry" data-pdf-role="break-unit"></div></aside>
</div>`)
	unit := doc.FindByID("unit")
	require.NotNil(t, unit)

	tests := []struct {
		selector string
		want     bool
	}{
		{"div", true},
		{"#unit", true},
		{".entry", true},
		{"div.entry#unit", true},
		{".cv .entry", true},
		{".cv > aside > .entry", true},
		{"#template .sidebar .entry", true},
		{"[data-pdf-role=break-unit]", true},
		{"[data-pdf-role='column'] [data-pdf-role]", true},
		{"[data-pdf-role=column]", false},
		{"span", false},
		{".main .entry", false},
		{"div:hover", false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(unit, tt.selector))
		})
	}
}

func TestQueryAll_DocumentOrder(t *testing.T) {
	doc := parseDoc(t, `<div id="root"><p class="x" id="a"></p><div><p class="x" id="b"></p></div><p class="x" id="c"></p></div>`)

	got := QueryAll(doc.FindByID("root"), ".x")
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID())
	assert.Equal(t, "b", got[1].ID())
	assert.Equal(t, "c", got[2].ID())
}

func TestComputeStyles_Cascade(t *testing.T) {
	doc := parseDoc(t, `<div id="root" class="cv"><p id="p" class="lead" style="margin-top: 3px">x</p></div>`)
	sheet, err := css.NewParser().ParseString(`
.cv .lead { margin-bottom: 10px; color: blue }
p { margin-bottom: 20px; margin-top: 30px; color: red !important }
.cv { font-size: 12px; font-family: Times }
`)
	require.NoError(t, err)

	engine := NewStyleEngine()
	engine.AddStylesheet(sheet)
	styles := engine.ComputeStyles(doc.Root)

	p := styles[doc.FindByID("p")]
	assert.Equal(t, "10px", p.Get("margin-bottom"), "higher specificity wins regardless of order")
	assert.Equal(t, "3px", p.Get("margin-top"), "inline style wins")
	assert.Equal(t, "red", p.Get("color"), "important wins")
	assert.Equal(t, "Times", p.Get("font-family"), "font-family is inherited")
	assert.Equal(t, "", p.Get("font-size"), "font-size is resolved during layout")
}
