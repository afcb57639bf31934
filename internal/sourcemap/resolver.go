// Package sourcemap maps generated code positions back to original-author
// positions using registered source maps.
package sourcemap

import (
	"fmt"
	"sync"

	"github.com/go-sourcemap/sourcemap"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Mapping is a resolved original position.
type Mapping struct {
	Source string
	Line   int
	Column int
}

// Resolver resolves generated positions to original positions.
type Resolver interface {
	// RegisterMap registers map content for a generated script URL,
	// replacing any previous registration for that URL.
	RegisterMap(url, content string) error

	// Resolve maps a generated position in the given script to an original
	// position. The second return is false when no map is registered for
	// the URL or the map has no mapping at that position.
	Resolve(url string, pos Position) (Mapping, bool)
}

// Registry is the default Resolver. Maps are registered by the event
// router as script requests are observed and read during log record
// construction; the lock keeps interleaved handler goroutines safe.
type Registry struct {
	mu   sync.RWMutex
	maps map[string]*sourcemap.Consumer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		maps: make(map[string]*sourcemap.Consumer),
	}
}

// RegisterMap parses and stores map content keyed by the script URL.
func (r *Registry) RegisterMap(url, content string) error {
	consumer, err := sourcemap.Parse(url+".map", []byte(content))
	if err != nil {
		return fmt.Errorf("parse source map for %s: %w", url, err)
	}

	r.mu.Lock()
	r.maps[url] = consumer
	r.mu.Unlock()
	return nil
}

// Resolve looks up the original position for a generated position. Input
// and output positions are 1-based; the underlying consumer takes 1-based
// lines and 0-based columns.
func (r *Registry) Resolve(url string, pos Position) (Mapping, bool) {
	r.mu.RLock()
	consumer, ok := r.maps[url]
	r.mu.RUnlock()

	if !ok {
		return Mapping{}, false
	}

	source, _, line, column, ok := consumer.Source(pos.Line, pos.Column-1)
	if !ok || source == "" {
		return Mapping{}, false
	}

	return Mapping{
		Source: source,
		Line:   line,
		Column: column + 1,
	}, true
}

// Registered reports whether a map is registered for the URL.
func (r *Registry) Registered(url string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.maps[url]
	return ok
}

// Clear drops all registered maps. Used when a session restarts.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.maps = make(map[string]*sourcemap.Consumer)
	r.mu.Unlock()
}
