package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// LoaderBackendType identifies the asset file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML graph asset backend.
	BackendTypeYAML LoaderBackendType = iota
)

var (
	// ErrInvalidAsset indicates an asset that parsed but does not describe a usable graph.
	ErrInvalidAsset = errors.New("invalid graph asset")

	// ErrUnsupportedFormat indicates a file extension no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	definitionCache map[string]*graph.Definition

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching compiled graph assets.
// A loaded asset yields a graph.Definition together with the model (skeleton and clips) it
// references. Definitions are immutable, so one cached definition may back any number of
// graph instances.
type Loader interface {
	// Load reads an asset file and caches the result by path.
	// If the asset is already cached, the cached definition is returned.
	//
	// Parameters:
	//   - path: the file path to the asset
	//
	// Returns:
	//   - *graph.Definition: the loaded definition
	//   - error: error if reading or decoding fails
	Load(path string) (*graph.Definition, error)

	// LoadReader decodes an asset from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded definition
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *graph.Definition: the loaded definition
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (*graph.Definition, error)

	// Get retrieves a cached definition by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *graph.Definition: the cached definition or nil
	Get(name string) *graph.Definition

	// Definitions returns a copy of the full definition cache.
	//
	// Returns:
	//   - map[string]*graph.Definition: all cached definitions keyed by name
	Definitions() map[string]*graph.Definition

	// Evict drops a cached definition so the next Load reads it again, which is how assets
	// are hot reloaded.
	//
	// Parameters:
	//   - name: the cache key to drop
	Evict(name string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:              sync.RWMutex{},
		logger:          slog.New(slog.DiscardHandler),
		definitionCache: make(map[string]*graph.Definition),
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*graph.Definition, error) {
	l.mu.RLock()
	if cached, ok := l.definitionCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	def, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debug("graph asset loaded", "component", "loader", "path", path, "graph", def.Name, "nodes", def.NumNodes())

	l.mu.Lock()
	l.definitionCache[path] = def
	l.mu.Unlock()

	return def, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*graph.Definition, error) {
	l.mu.RLock()
	if cached, ok := l.definitionCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	def, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.definitionCache[name] = def
	l.mu.Unlock()

	return def, nil
}

func (l *loader) Get(name string) *graph.Definition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.definitionCache[name]
}

func (l *loader) Definitions() map[string]*graph.Definition {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*graph.Definition, len(l.definitionCache))
	for k, v := range l.definitionCache {
		result[k] = v
	}
	return result
}

func (l *loader) Evict(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.definitionCache, name)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only YAML is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Parse decodes a YAML asset held in memory without caching it.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *graph.Definition: the decoded definition
//   - error: error wrapping ErrInvalidAsset if the document is malformed
func Parse(data []byte) (*graph.Definition, error) {
	return newYAMLLoaderBackend().parse(data)
}
