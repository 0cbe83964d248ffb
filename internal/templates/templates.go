// Package templates holds the CV template stylesheets.
package templates

import (
	"embed"
	"fmt"
	"sort"
	"sync"
)

//go:embed assets/*.css
var assets embed.FS

// Asset is the styling of one CV template
type Asset struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// CSS is the template stylesheet
	CSS string `json:"-"`
	// Fonts holds the @import rules for the template's web fonts
	Fonts string `json:"-"`
}

// NotFoundError is returned when no template has the requested id
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %d not found", e.ID)
}

// Registry maps template ids to assets. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	assets map[int]Asset
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{assets: make(map[int]Asset)}
}

// Register adds or replaces a template
func (r *Registry) Register(a Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[a.ID] = a
}

// Lookup returns the template with the given id
func (r *Registry) Lookup(id int) (Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, &NotFoundError{ID: id}
	}
	return a, nil
}

// List returns every template ordered by id
func (r *Registry) List() []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var builtin = []struct {
	id    int
	name  string
	file  string
	fonts string
}{
	{1, "Classic", "assets/classic.css", ""},
	{2, "Sidebar", "assets/sidebar.css", "@import url('https://fonts.googleapis.com/css2?family=Lato:wght@400;700&display=swap');\n"},
	{3, "Modern", "assets/modern.css", "@import url('https://fonts.googleapis.com/css2?family=Merriweather:ital,wght@0,400;0,700;1,400&display=swap');\n"},
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry of built-in templates
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		r := NewRegistry()
		for _, b := range builtin {
			css, err := assets.ReadFile(b.file)
			if err != nil {
				defaultErr = fmt.Errorf("failed to read template %d: %w", b.id, err)
				return
			}
			r.Register(Asset{ID: b.id, Name: b.name, CSS: string(css), Fonts: b.fonts})
		}
		defaultRegistry = r
	})
	return defaultRegistry, defaultErr
}

// MustDefault is like Default but panics on error
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}
