package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := NewParser().ParseString(markup)
	require.NoError(t, err)
	return doc
}

func TestDocument_FindByID(t *testing.T) {
	doc := mustParse(t, `<div id="a"><p id="b">x</p></div>`)

	b := doc.FindByID("b")
	require.NotNil(t, b)
	assert.Equal(t, "p", b.Tag())
	assert.Nil(t, doc.FindByID("missing"))
}

func TestNode_RenderFullSubtree(t *testing.T) {
	doc := mustParse(t, `<div id="a"><section><p>deep <b>text</b></p></section></div>`)

	out, err := doc.FindByID("a").Render()
	require.NoError(t, err)
	assert.Equal(t, `<div id="a"><section><p>deep <b>text</b></p></section></div>`, out)
}

func TestNode_InnerHTML(t *testing.T) {
	doc := mustParse(t, `<div id="a"><i>1</i><i>2</i></div>`)

	out, err := doc.FindByID("a").InnerHTML()
	require.NoError(t, err)
	assert.Equal(t, `<i>1</i><i>2</i>`, out)
}

func TestNode_Classes(t *testing.T) {
	doc := mustParse(t, `<div id="a" class="one two"></div>`)
	n := doc.FindByID("a")

	n.AddClass("three")
	n.AddClass("two")
	assert.Equal(t, []string{"one", "two", "three"}, n.Classes())

	n.RemoveClass("one")
	assert.False(t, n.HasClass("one"))
	assert.True(t, n.HasClass("three"))

	n.RemoveClass("two")
	n.RemoveClass("three")
	_, ok := n.GetAttr("class")
	assert.False(t, ok)
}

func TestNode_SetStyle(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		property string
		value    string
		expected string
	}{
		{"add to empty", "", "height", "auto", "height: auto"},
		{"replace existing", "height: 100vh; color: red", "height", "auto", "height: auto; color: red"},
		{"append new", "color: red", "margin-top", "36px", "color: red; margin-top: 36px"},
		{"remove", "color: red; height: 10px", "height", "", "color: red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `<div id="a"></div>`)
			n := doc.FindByID("a")
			if tt.initial != "" {
				n.SetAttr("style", tt.initial)
			}

			n.SetStyle(tt.property, tt.value)

			got, _ := n.GetAttr("style")
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.value, n.Style(tt.property))
		})
	}
}

func TestNode_CloneIsDeepAndDetached(t *testing.T) {
	doc := mustParse(t, `<div id="a" class="x"><p>hi</p></div>`)
	orig := doc.FindByID("a")

	clone := orig.Clone()
	require.Nil(t, clone.Parent)
	clone.AddClass("y")
	clone.FirstChild.SetStyle("margin-top", "4px")

	assert.False(t, orig.HasClass("y"))
	assert.Equal(t, "", orig.FirstChild.Style("margin-top"))
	assert.Equal(t, "hi", clone.Text())
}

func TestNode_AppendAndRemoveChildren(t *testing.T) {
	doc := mustParse(t, `<div id="src"><i>1</i></div><div id="dst"></div>`)
	src, dst := doc.FindByID("src"), doc.FindByID("dst")

	child := src.FirstChild
	dst.AppendChild(child)
	assert.Nil(t, src.FirstChild)
	assert.Same(t, child, dst.FirstChild)
	assert.Same(t, child, dst.LastChild)

	dst.RemoveChildren()
	assert.Nil(t, dst.FirstChild)
	assert.Nil(t, child.Parent)
}

func TestParser_ParseFragment(t *testing.T) {
	nodes, err := NewParser().ParseFragment(`<div id="x">a</div><p>b</p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "x", nodes[0].ID())
	assert.True(t, strings.Contains(nodes[1].Text(), "b"))
}
