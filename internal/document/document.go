// Package document extracts code cells from course documents. The block
// parser decides which cells are test blocks; readers only locate cell
// sources.
package document

import (
	"fmt"
	"strings"
	"sync"
)

// Cell is one code cell extracted from a document.
type Cell struct {
	Source   string
	Line     int // 1-based line of the cell body in the source file, 0 when unknown
	Language string
}

// Reader extracts code cells from one document format.
type Reader interface {
	Read(path string, content []byte) ([]Cell, error)
	SupportedExtensions() []string
}

// Registry maps file extensions to readers.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its supported extensions.
func (r *Registry) Register(reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range reader.SupportedExtensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.readers[ext] = reader
	}
}

// ReaderFor returns the reader registered for the given file extension.
func (r *Registry) ReaderFor(extension string) (Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if reader, ok := r.readers[ext]; ok {
		return reader, nil
	}
	return nil, fmt.Errorf("no document reader registered for extension %q", extension)
}

// DefaultRegistry returns a registry with all built-in readers registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewMarkdownReader())
	r.Register(NewIpynbReader())
	return r
}
