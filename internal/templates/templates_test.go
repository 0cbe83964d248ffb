package templates

import (
	"errors"
	"strings"
	"testing"

	"github.com/gompdf/cvpdf/internal/parser/css"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_BuiltinTemplates(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 3)
	for i, a := range list {
		assert.Equal(t, i+1, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.Contains(t, a.CSS, ".pdf-page-break", a.Name)

		sheet, err := css.NewParser().ParseString(a.CSS + a.Fonts)
		require.NoError(t, err)
		assert.NotEmpty(t, sheet.Rules)
		if a.Fonts != "" {
			assert.Len(t, sheet.Imports, 1)
			assert.True(t, strings.HasPrefix(sheet.Imports[0], "https://fonts.googleapis.com/"))
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.Register(Asset{ID: 7, Name: "Custom", CSS: "body { margin: 0 }"})

	a, err := r.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, "Custom", a.Name)

	_, err = r.Lookup(999)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 999, notFound.ID)
	assert.Equal(t, "template 999 not found", err.Error())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(Asset{ID: 1, Name: "a"})
	r.Register(Asset{ID: 1, Name: "b"})

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)
}
