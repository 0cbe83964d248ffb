// Package res loads preview markup and stylesheets from files, URLs and
// data URLs.
package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Kind classifies a loaded resource
type Kind int

const (
	KindOther Kind = iota
	KindHTML
	KindCSS
)

// Resource is a loaded file
type Resource struct {
	URL      string
	Kind     Kind
	Data     []byte
	MimeType string
}

// String returns the resource data as a string
func (r *Resource) String() string {
	return string(r.Data)
}

// DefaultMaxSize caps the size of a single loaded resource
const DefaultMaxSize = 4 << 20

// BlockedError is returned by a restricted loader for locations outside
// data URLs and its search paths
type BlockedError struct {
	Location string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("resource blocked: %s", e.Location)
}

// TooLargeError is returned when a resource exceeds the loader's MaxSize
type TooLargeError struct {
	Location string
	MaxSize  int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("resource %s exceeds %d bytes", e.Location, e.MaxSize)
}

// Loader resolves and loads resources relative to a base file or URL.
// Loaded resources are cached by the requested location.
type Loader struct {
	// BaseURL is the file path or URL relative locations resolve against
	BaseURL string

	// Restricted limits loading to data URLs and files found by base name
	// in the search paths. Remote URLs and arbitrary paths are refused.
	Restricted bool

	// MaxSize is the largest resource accepted, in bytes
	MaxSize int64

	mu          sync.RWMutex
	cache       map[string]*Resource
	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		MaxSize: DefaultMaxSize,
		cache:   make(map[string]*Resource),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL, a data URL or a file path
func (l *Loader) Load(ctx context.Context, location string) (*Resource, error) {
	l.mu.RLock()
	cached, ok := l.cache[location]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var (
		r   *Resource
		err error
	)
	switch {
	case strings.HasPrefix(location, "data:"):
		r, err = parseDataURL(location)
	case l.Restricted:
		if isRemote(location) || filepath.IsAbs(location) {
			return nil, &BlockedError{Location: location}
		}
		r, err = l.loadFromSearchPaths(location)
		var notFound *notFoundError
		if errors.As(err, &notFound) {
			return nil, &BlockedError{Location: location}
		}
	default:
		var resolved string
		resolved, err = l.resolve(location)
		if err != nil {
			return nil, err
		}
		if isRemote(resolved) {
			r, err = l.loadRemote(ctx, resolved)
		} else {
			r, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[location] = r
	l.mu.Unlock()
	return r, nil
}

// LoadCSS loads a stylesheet
func (l *Loader) LoadCSS(ctx context.Context, location string) (*Resource, error) {
	r, err := l.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindCSS {
		return nil, fmt.Errorf("resource is not CSS: %s", location)
	}
	return r, nil
}

// LoadHTML loads a markup document
func (l *Loader) LoadHTML(ctx context.Context, location string) (*Resource, error) {
	return l.Load(ctx, location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// parseDataURL decodes an RFC 2397 data URL such as
// data:text/css;base64,<base64> or data:text/html,%3Cp%3E
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, errors.New("invalid data URL")
	}

	mime := "text/plain"
	isBase64 := false
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part != "":
			mime = part
		case strings.EqualFold(part, "base64"):
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = decoded
	} else if unescaped, err := url.PathUnescape(payload); err == nil {
		data = []byte(unescaped)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: u, Data: data, MimeType: mime, Kind: kindOf(mime, "")}, nil
}

// resolve resolves a location relative to the base URL
func (l *Loader) resolve(location string) (string, error) {
	if isRemote(location) || filepath.IsAbs(location) {
		return location, nil
	}
	if !isRemote(l.BaseURL) {
		if l.BaseURL == "" {
			return location, nil
		}
		return filepath.Join(filepath.Dir(l.BaseURL), location), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	rel, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", location, err)
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, location string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}
	data, err := l.read(resp.Body, location)
	if err != nil {
		return nil, err
	}

	mime, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	return &Resource{URL: location, Data: data, MimeType: mime, Kind: kindOf(mime, location)}, nil
}

func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := l.readFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(path)
	}
	if err != nil {
		return nil, err
	}
	mime := mimeOf(path)
	return &Resource{URL: path, Data: data, MimeType: mime, Kind: kindOf(mime, path)}, nil
}

func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	l.mu.RLock()
	paths := append([]string(nil), l.searchPaths...)
	l.mu.RUnlock()

	for _, dir := range paths {
		path := filepath.Join(dir, filepath.Base(filename))
		data, err := l.readFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		mime := mimeOf(path)
		return &Resource{URL: path, Data: data, MimeType: mime, Kind: kindOf(mime, path)}, nil
	}
	return nil, &notFoundError{name: filename}
}

type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return "resource not found: " + e.name
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.read(f, path)
}

// read reads r up to MaxSize bytes
func (l *Loader) read(r io.Reader, location string) ([]byte, error) {
	limit := l.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &TooLargeError{Location: location, MaxSize: limit}
	}
	return data, nil
}

func mimeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

func kindOf(mime, path string) Kind {
	switch mime {
	case "text/css":
		return KindCSS
	case "text/html":
		return KindHTML
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return KindCSS
	case ".html", ".htm":
		return KindHTML
	}
	return KindOther
}
