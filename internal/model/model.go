package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ekisa-team/modelload/internal/source"
	"github.com/ekisa-team/modelload/mapsafe"
)

const (
	// DefaultCompileMode builds the model eagerly, without a compiler.
	DefaultCompileMode = "eager"

	// SoleModelKey is the key of the only model in a single-model artifact.
	SoleModelKey = "sole_model"
)

// FileKind is the artifact format of a saved model file.
type FileKind string

const (
	KindCheckpoint FileKind = "checkpoint"
	KindPackage    FileKind = "package"
)

// KindFromPath infers the artifact format from the file name alone.
func KindFromPath(path string) FileKind {
	if strings.HasSuffix(path, source.PackageSuffix) {
		return KindPackage
	}
	return KindCheckpoint
}

// ModifierPolicy controls which model modifiers are re-applied at load time.
type ModifierPolicy struct {
	// PersistentOnly skips non-persistent (acceleration) modifiers.
	PersistentOnly bool
}

// LoadOptions are passed to a Format when materializing models.
type LoadOptions struct {
	CompileMode string
	Modifiers   ModifierPolicy
}

// Model is one named model materialized from a saved artifact.
type Model struct {
	Key         string         `json:"key"`
	Kind        FileKind       `json:"kind"`
	CompileMode string         `json:"compile_mode"`
	Source      string         `json:"source"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	LoadedAt    time.Time      `json:"loaded_at"`
}

// TypeNames returns the atom type names the model was trained on.
func (m *Model) TypeNames() []string {
	return mapsafe.GetStrings(m.Metadata, "type_names")
}

// RMax returns the model's cutoff radius, or 0 when unknown.
func (m *Model) RMax() float64 {
	return mapsafe.Get(m.Metadata, "r_max", 0.0)
}

// NumParameters returns the number of trainable parameters, or 0 when unknown.
func (m *Model) NumParameters() int {
	return mapsafe.Get(m.Metadata, "num_parameters", 0)
}

// ModelSet is the keyed collection produced by loading an artifact.
type ModelSet map[string]*Model

// Keys returns the model keys in sorted order.
func (s ModelSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Select returns the model stored under key.
func (s ModelSet) Select(key string) (*Model, error) {
	m, ok := s[key]
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrModelKeyNotFound, key, strings.Join(s.Keys(), ", "))
	}
	return m, nil
}

// Data is the companion data dict stored alongside a model, used when compiling.
type Data map[string]any
