package model

import (
	"context"
	"fmt"
	"sync"
)

// Format materializes models from one artifact kind.
type Format interface {
	// Kind returns the artifact kind handled by this format.
	Kind() FileKind

	// Load deserializes the artifact at path into its keyed model collection.
	Load(ctx context.Context, path string, opts LoadOptions) (ModelSet, error)

	// Data extracts the companion data dict stored in the artifact at path.
	Data(ctx context.Context, path string) (Data, error)
}

// Registry stores the format loaders keyed by artifact kind.
type Registry struct {
	formats map[FileKind]Format
	mu      sync.RWMutex
}

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[FileKind]Format),
	}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formats[f.Kind()]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, f.Kind())
	}

	r.formats[f.Kind()] = f
	return nil
}

// Get returns the format registered for kind.
func (r *Registry) Get(kind FileKind) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[kind]
	return f, ok
}
