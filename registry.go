package blueberry

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Decoder loads an atlas from a file.
type Decoder func(path string) (*Atlas, error)

// Registry maps lower-case file extensions (".bba") to decoders. It is safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with the built-in formats: ".bba"
// binary atlases, ".atlas" text atlases and ".json" TexturePacker atlases.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".bba", ReadBinaryFile)
	r.Register(".atlas", ReadTextFile)
	r.Register(".json", ReadJSONFile)
	return r
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register associates ext with dec, replacing any previous decoder. The
// leading dot is optional and case is ignored.
func (r *Registry) Register(ext string, dec Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[normalizeExt(ext)] = dec
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Load decodes path with the decoder registered for its extension.
func (r *Registry) Load(path string) (*Atlas, error) {
	ext := normalizeExt(filepath.Ext(path))
	r.mu.RLock()
	dec, ok := r.decoders[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnknownFormat, ext, path)
	}
	return dec(path)
}
