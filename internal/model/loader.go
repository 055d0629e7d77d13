package model

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ekisa-team/modelload/internal/xfs"
)

// LoadRequest selects how a saved model is materialized.
type LoadRequest struct {
	// CompileMode defaults to DefaultCompileMode.
	CompileMode string

	// ModelKey defaults to SoleModelKey.
	ModelKey string

	// WantData also returns the artifact's companion data dict.
	WantData bool
}

func (r LoadRequest) withDefaults() LoadRequest {
	if r.CompileMode == "" {
		r.CompileMode = DefaultCompileMode
	}
	if r.ModelKey == "" {
		r.ModelKey = SoleModelKey
	}
	return r
}

// Result is a loaded model, plus its data dict when requested.
type Result struct {
	Model *Model `json:"model"`
	Data  Data   `json:"data,omitempty"`
}

// Loader dispatches resolved files to the format matching their name.
type Loader struct {
	formats *Registry
}

// NewLoader creates a loader over the given formats.
func NewLoader(formats *Registry) *Loader {
	return &Loader{formats: formats}
}

// Load materializes the model stored at path. input is the reference path
// was resolved from and is only used in error messages.
func (l *Loader) Load(ctx context.Context, input, path string, req LoadRequest) (*Result, error) {
	req = req.withDefaults()

	if !xfs.Exists(path) {
		return nil, fmt.Errorf("%w: %s (resolved to: %s)", ErrModelFileNotFound, input, path)
	}

	kind := KindFromPath(path)
	format, ok := l.formats.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormatNotFound, kind)
	}

	opts := LoadOptions{CompileMode: req.CompileMode}
	if kind == KindCheckpoint {
		// Acceleration modifiers are chosen again at compile time, never replayed from a checkpoint.
		opts.Modifiers = ModifierPolicy{PersistentOnly: true}
	}

	slog.Info("Loading model", "path", path, "kind", kind, "compile_mode", req.CompileMode, "model_key", req.ModelKey)

	models, err := format.Load(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s %s: %w", kind, path, err)
	}

	model, err := models.Select(req.ModelKey)
	if err != nil {
		return nil, err
	}
	if model.Kind == "" {
		model.Kind = kind
	}
	if model.Source == "" {
		model.Source = input
	}
	if model.LoadedAt.IsZero() {
		model.LoadedAt = time.Now()
	}

	result := &Result{Model: model}
	if !req.WantData {
		return result, nil
	}

	data, err := format.Data(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading data dict from %s %s: %w", kind, path, err)
	}
	result.Data = data

	return result, nil
}
