package res

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_DataURL(t *testing.T) {
	l := NewLoader("")

	r, err := l.LoadCSS(context.Background(), "data:text/css;base64,Ym9keSB7IG1hcmdpbjogMCB9")
	require.NoError(t, err)
	assert.Equal(t, "body { margin: 0 }", r.String())

	r, err = l.LoadHTML(context.Background(), "data:text/html,%3Cp%3Ehi%3C%2Fp%3E")
	require.NoError(t, err)
	assert.Equal(t, KindHTML, r.Kind)
	assert.Equal(t, "<p>hi</p>", r.String())

	_, err = l.Load(context.Background(), "data:nocomma")
	assert.Error(t, err)
}

func TestLoader_LocalRelativeToBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.css"), []byte(".cv{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.html"), []byte("<div></div>"), 0o644))

	l := NewLoader(filepath.Join(dir, "cv.html"))
	r, err := l.LoadCSS(context.Background(), "cv.css")
	require.NoError(t, err)
	assert.Equal(t, ".cv{}", r.String())

	_, err = l.LoadCSS(context.Background(), "cv.html")
	assert.Error(t, err, "markup is not a stylesheet")
}

func TestLoader_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.css"), []byte("p{}"), 0o644))

	l := NewLoader("")
	_, err := l.Load(context.Background(), "missing/extra.css")
	require.Error(t, err)

	l = NewLoader("")
	l.AddSearchPath(dir)
	r, err := l.Load(context.Background(), "missing/extra.css")
	require.NoError(t, err)
	assert.Equal(t, KindCSS, r.Kind)
}

func TestLoader_Remote(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/styles/cv.css" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte("h1{}"))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/preview/index.html")
	r, err := l.LoadCSS(context.Background(), "../styles/cv.css")
	require.NoError(t, err)
	assert.Equal(t, "h1{}", r.String())
	assert.Equal(t, "text/css", r.MimeType)

	_, err = l.LoadCSS(context.Background(), "../styles/cv.css")
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second load is served from the cache")

	_, err = l.Load(context.Background(), srv.URL+"/nope")
	assert.Error(t, err)
}

func TestLoader_Restricted(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("h1{}"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.css"), []byte(".cv{}"), 0o644))
	secret := filepath.Join(t.TempDir(), "secret.css")
	require.NoError(t, os.WriteFile(secret, []byte("secret{}"), 0o644))

	l := NewLoader("")
	l.Restricted = true
	l.AddSearchPath(dir)

	tests := []struct {
		name     string
		location string
		want     string
		blocked  bool
	}{
		{name: "data url", location: "data:text/css,p%7B%7D", want: "p{}"},
		{name: "search path", location: "cv.css", want: ".cv{}"},
		{name: "traversal resolves to search path", location: "../../cv.css", want: ".cv{}"},
		{name: "remote", location: srv.URL + "/internal/admin.css", blocked: true},
		{name: "absolute path", location: secret, blocked: true},
		{name: "not in search paths", location: "secret.css", blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := l.Load(context.Background(), tt.location)
			if tt.blocked {
				var blocked *BlockedError
				require.True(t, errors.As(err, &blocked), "got %v", err)
				assert.Equal(t, tt.location, blocked.Location)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
	assert.Equal(t, 0, hits)
}

func TestLoader_MaxSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "big.css")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("b", 64)), 0o644))

	for _, location := range []string{srv.URL + "/big.css", path} {
		l := NewLoader("")
		l.MaxSize = 32
		_, err := l.Load(context.Background(), location)
		var tooLarge *TooLargeError
		require.True(t, errors.As(err, &tooLarge), "%s: got %v", location, err)
		assert.Equal(t, int64(32), tooLarge.MaxSize)
	}

	l := NewLoader("")
	l.MaxSize = 64
	r, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, r.Data, 64)
}
