package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle_FiveEqualUnits(t *testing.T) {
	units := stacked(300, 300, 300, 300, 300)
	pages := Style(Pack(units, testPageHeight, testPageMargin), testPageMargin)
	require.Len(t, pages, 2)

	require.NotNil(t, pages[0].BreakAfter)
	assert.Same(t, units[2].Node, pages[0].BreakAfter.Node)
	assert.Len(t, pages[0].Units, 2)
	assert.Nil(t, pages[1].BreakAfter)
	assert.Equal(t, 3, pages[0].Len())

	assert.True(t, units[2].Node.HasClass(BreakClass))
	assert.Equal(t, "36px", units[3].Node.Style("margin-top"))

	for _, i := range []int{0, 1, 3, 4} {
		assert.False(t, units[i].Node.HasClass(BreakClass), "unit %d", i+1)
	}
	for _, i := range []int{0, 1, 2, 4} {
		assert.Equal(t, "", units[i].Node.Style("margin-top"), "unit %d", i+1)
	}
}

func TestStyle_SinglePageIsUntouched(t *testing.T) {
	units := stacked(100, 100)
	pages := Style(Pack(units, testPageHeight, testPageMargin), testPageMargin)
	require.Len(t, pages, 1)
	assert.Nil(t, pages[0].BreakAfter)

	for _, u := range units {
		_, hasStyle := u.Node.GetAttr("style")
		assert.False(t, hasStyle)
		assert.False(t, u.Node.HasClass(BreakClass))
	}
}

func TestStyle_EmptyPages(t *testing.T) {
	pages := Style([]Page{{}}, testPageMargin)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Units)

	assert.Empty(t, Style(nil, testPageMargin))
}

func TestStyle_SingleUnitPages(t *testing.T) {
	units := stacked(100, 2000, 100)
	pages := Style(Pack(units, testPageHeight, testPageMargin), testPageMargin)
	require.Len(t, pages, 3)

	assert.True(t, units[0].Node.HasClass(BreakClass))
	assert.True(t, units[1].Node.HasClass(BreakClass))
	assert.False(t, units[2].Node.HasClass(BreakClass))
	assert.Equal(t, "36px", units[1].Node.Style("margin-top"))
	assert.Equal(t, "36px", units[2].Node.Style("margin-top"))
}
