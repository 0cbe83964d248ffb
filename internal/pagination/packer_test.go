package pagination

import (
	"fmt"
	"testing"

	"github.com/gompdf/cvpdf/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
)

const (
	testPageHeight = 1123.0
	testPageMargin = 36.0
	testLimit      = testPageHeight - testPageMargin
)

func newUnitNode(id string) *html.Node {
	return &html.Node{
		Type: xhtml.ElementNode,
		Data: "div",
		Attr: []xhtml.Attribute{{Key: "id", Val: id}},
	}
}

// stacked builds units laid out one after another from the top of the column
func stacked(heights ...float64) []Unit {
	units := make([]Unit, 0, len(heights))
	top := 0.0
	for i, h := range heights {
		units = append(units, Unit{Node: newUnitNode(fmt.Sprintf("u%d", i+1)), Height: h, Top: top})
		top += h
	}
	return units
}

func pageIDs(pages []Page) [][]string {
	out := make([][]string, 0, len(pages))
	for _, p := range pages {
		ids := []string{}
		for _, u := range p.Units {
			ids = append(ids, u.Node.ID())
		}
		if p.BreakAfter != nil {
			ids = append(ids, p.BreakAfter.Node.ID())
		}
		out = append(out, ids)
	}
	return out
}

func TestPack_FiveEqualUnits(t *testing.T) {
	pages := Pack(stacked(300, 300, 300, 300, 300), testPageHeight, testPageMargin)
	assert.Equal(t, [][]string{{"u1", "u2", "u3"}, {"u4", "u5"}}, pageIDs(pages))
}

func TestPack_EmptyInput(t *testing.T) {
	for _, pack := range []func([]Unit, float64, float64) []Page{Pack, PackSinglePass} {
		pages := pack(nil, testPageHeight, testPageMargin)
		require.Len(t, pages, 1)
		assert.Empty(t, pages[0].Units)
		assert.Nil(t, pages[0].BreakAfter)
	}
}

func TestPack_OversizedUnitStandsAlone(t *testing.T) {
	pages := Pack(stacked(100, 2000, 100), testPageHeight, testPageMargin)
	assert.Equal(t, [][]string{{"u1"}, {"u2"}, {"u3"}}, pageIDs(pages))
}

func TestPack_LeadingEmptyPageIsDropped(t *testing.T) {
	units := []Unit{
		{Node: newUnitNode("u1"), Height: 300, Top: 1200},
		{Node: newUnitNode("u2"), Height: 300, Top: 1500},
	}
	pages := Pack(units, testPageHeight, testPageMargin)
	assert.Equal(t, [][]string{{"u1", "u2"}}, pageIDs(pages))
}

func TestPack_FirstPageStopsAtFirstMiss(t *testing.T) {
	units := []Unit{
		{Node: newUnitNode("u1"), Height: 100, Top: 0},
		{Node: newUnitNode("u2"), Height: 100, Top: 1000},
		{Node: newUnitNode("u3"), Height: 100, Top: 200},
	}

	assert.Equal(t, [][]string{{"u1"}, {"u2", "u3"}}, pageIDs(Pack(units, testPageHeight, testPageMargin)))
	assert.Equal(t, [][]string{{"u1", "u2", "u3"}}, pageIDs(PackSinglePass(units, testPageHeight, testPageMargin)))
}

func TestPack_StrictLimit(t *testing.T) {
	// 36 + 1051 == 1087 does not fit
	units := []Unit{
		{Node: newUnitNode("u1"), Height: 10, Top: 1100},
		{Node: newUnitNode("u2"), Height: 1051, Top: 1110},
	}
	assert.Equal(t, [][]string{{"u1"}, {"u2"}}, pageIDs(Pack(units, testPageHeight, testPageMargin)))
}

func TestPack_Properties(t *testing.T) {
	tests := []struct {
		name    string
		heights []float64
	}{
		{"single", []float64{50}},
		{"small units", []float64{40, 60, 80, 20, 90, 120, 45, 33, 70, 200, 180, 10, 300, 250, 60}},
		{"large units", []float64{700, 500, 900, 300, 1000, 50}},
		{"mixed oversize", []float64{200, 1500, 200, 1200, 100, 100}},
		{"uniform", []float64{150, 150, 150, 150, 150, 150, 150, 150, 150, 150, 150, 150}},
	}

	for _, tt := range tests {
		for _, mode := range []Mode{ModeTwoPhase, ModeSinglePass} {
			t.Run(tt.name+"/"+mode.String(), func(t *testing.T) {
				e := NewEngine()
				e.SetOptions(Options{PageHeight: testPageHeight, PageMargin: testPageMargin, Mode: mode})

				units := stacked(tt.heights...)
				pages := e.Pack(units)
				require.NotEmpty(t, pages)

				var flat []*html.Node
				for i, p := range pages {
					require.NotEmpty(t, p.Units, "page %d is empty", i)
					sum := 0.0
					for _, u := range p.Units {
						flat = append(flat, u.Node)
						sum += u.Height
					}
					if len(p.Units) > 1 {
						assert.Less(t, sum, testLimit, "page %d overflows", i)
					}
				}

				require.Len(t, flat, len(units), "every unit lands on exactly one page")
				for i, u := range units {
					assert.Same(t, u.Node, flat[i], "document order at %d", i)
				}

				assert.Equal(t, pageIDs(pages), pageIDs(e.Pack(units)), "packing is idempotent")
			})
		}
	}
}
