// Package model loads saved models from checkpoints and packages.
package model

import (
	"context"

	"github.com/ekisa-team/modelload/internal/source"
)

// Resolver provides scoped access to the local file behind a reference.
// *source.Resolver satisfies this interface.
type Resolver interface {
	With(ctx context.Context, raw string, fn func(*source.Resolved) error) error
}

// Manager ties reference resolution to loader dispatch.
type Manager struct {
	resolver Resolver
	loader   *Loader
}

// NewManager creates a Manager.
func NewManager(resolver Resolver, loader *Loader) *Manager {
	return &Manager{
		resolver: resolver,
		loader:   loader,
	}
}

// LoadSavedModel resolves input (local path, URL, object-store URI or registry
// identifier), loads it, and releases any temporary download before returning.
func (m *Manager) LoadSavedModel(ctx context.Context, input string, req LoadRequest) (*Result, error) {
	var result *Result
	err := m.resolver.With(ctx, input, func(res *source.Resolved) error {
		var err error
		result, err = m.loader.Load(ctx, res.Input, res.Path, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
