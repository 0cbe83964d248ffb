package pagination

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gompdf/cvpdf/internal/geometry"
	"github.com/gompdf/cvpdf/internal/layout"
	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnDoc(t *testing.T, units int) (*html.Document, geometry.StaticSource) {
	t.Helper()
	markup := `<div id="col" data-pdf-role="column">`
	for i := 1; i <= units; i++ {
		markup += fmt.Sprintf(`<div id="u%d" data-pdf-role="break-unit"></div>`, i)
	}
	markup += `</div>`

	doc, err := html.NewParser().ParseString(markup)
	require.NoError(t, err)

	col := doc.FindByID("col")
	src := geometry.StaticSource{col: {}}
	for i := 1; i <= units; i++ {
		src[doc.FindByID(fmt.Sprintf("u%d", i))] = layout.Geometry{
			OffsetTop:    float64(i-1) * 300,
			OffsetHeight: 300,
			OffsetParent: col,
		}
	}
	return doc, src
}

func TestEngine_PaginateColumn(t *testing.T) {
	doc, src := columnDoc(t, 5)

	pages, err := NewEngine().PaginateColumn(doc.FindByID("col"), geometry.NewMeasurer(src))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"u1", "u2", "u3"}, {"u4", "u5"}}, pageIDs(pages))
	assert.True(t, doc.FindByID("u3").HasClass(BreakClass))
	assert.Equal(t, "36px", doc.FindByID("u4").Style("margin-top"))
}

func TestEngine_PaginateEmptyColumn(t *testing.T) {
	doc, src := columnDoc(t, 0)
	before, err := doc.Render()
	require.NoError(t, err)

	pages, err := NewEngine().PaginateColumn(doc.FindByID("col"), geometry.NewMeasurer(src))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Units)

	after, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEngine_PaginateColumnWithoutGeometry(t *testing.T) {
	doc, _ := columnDoc(t, 2)

	_, err := NewEngine().PaginateColumn(doc.FindByID("col"), geometry.NewMeasurer(geometry.StaticSource{}))
	var unavailable *geometry.UnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestEngine_Stretch(t *testing.T) {
	doc, err := html.NewParser().ParseString(`<div id="scope"><div id="bg" data-pdf-role="stretch"></div></div>`)
	require.NoError(t, err)

	e := NewEngine()
	e.SetOptions(Options{PageHeight: 1000, PageMargin: 20})
	e.Stretch(doc.FindByID("scope"), 3)
	assert.Equal(t, "3000px", doc.FindByID("bg").Style("height"))
	assert.Equal(t, 20.0, e.Options().PageMargin)
}
