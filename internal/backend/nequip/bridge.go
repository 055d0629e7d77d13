// Package nequip loads checkpoints and packages through the framework's
// Python API. The artifact formats themselves are never parsed in Go.
package nequip

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ekisa-team/modelload/internal/backend"
	"github.com/ekisa-team/modelload/internal/model"
)

//go:embed bridge.py
var bridgeScript string

// Bridge ops understood by bridge.py.
const (
	opCheckpoint     = "checkpoint"
	opPackage        = "package"
	opCheckpointData = "checkpoint-data"
	opPackageData    = "package-data"
)

// response is the JSON document printed by bridge.py.
type response struct {
	Models map[string]map[string]any `json:"models"`
	Data   map[string]any            `json:"data"`
}

// Bridge runs bridge.py with a Python interpreter.
type Bridge struct {
	executor *backend.Executor
}

// NewBridge creates a bridge over an executor whose binary is a Python interpreter.
func NewBridge(executor *backend.Executor) *Bridge {
	return &Bridge{executor: executor}
}

// run feeds the script on stdin and decodes its stdout.
func (b *Bridge) run(ctx context.Context, op, path string, extra ...string) (*response, error) {
	args := append([]string{"-", op, path}, extra...)

	slog.Debug("Running framework bridge", "interpreter", b.executor.BinaryPath(), "op", op, "path", path)

	stdout, stderr, err := b.executor.Execute(ctx, args, strings.NewReader(bridgeScript))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w\nstderr: %s", backend.ErrBridgeFailed, op, path, err, lastLines(stderr, 20))
	}

	var resp response
	if err := json.Unmarshal(bytes.TrimSpace(lastLine(stdout)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", backend.ErrBadResponse, op, path, err)
	}

	return &resp, nil
}

// Format implements model.Format for one artifact kind.
type Format struct {
	bridge *Bridge
	kind   model.FileKind
	loadOp string
	dataOp string
}

// NewCheckpointFormat returns the checkpoint loader.
func NewCheckpointFormat(b *Bridge) *Format {
	return &Format{bridge: b, kind: model.KindCheckpoint, loadOp: opCheckpoint, dataOp: opCheckpointData}
}

// NewPackageFormat returns the package loader.
func NewPackageFormat(b *Bridge) *Format {
	return &Format{bridge: b, kind: model.KindPackage, loadOp: opPackage, dataOp: opPackageData}
}

// Register adds both formats to reg.
func Register(reg *model.Registry, b *Bridge) error {
	if err := reg.Register(NewCheckpointFormat(b)); err != nil {
		return err
	}
	return reg.Register(NewPackageFormat(b))
}

// Kind returns the artifact kind handled by f.
func (f *Format) Kind() model.FileKind {
	return f.kind
}

// Load materializes every model in the artifact.
func (f *Format) Load(ctx context.Context, path string, opts model.LoadOptions) (model.ModelSet, error) {
	extra := []string{"--compile-mode", opts.CompileMode}
	if opts.Modifiers.PersistentOnly {
		extra = append(extra, "--persistent-only")
	}

	resp, err := f.bridge.run(ctx, f.loadOp, path, extra...)
	if err != nil {
		return nil, err
	}
	if len(resp.Models) == 0 {
		return nil, fmt.Errorf("%w: no models in %s", backend.ErrBadResponse, path)
	}

	set := make(model.ModelSet, len(resp.Models))
	for key, meta := range resp.Models {
		set[key] = &model.Model{
			Key:         key,
			Kind:        f.kind,
			CompileMode: opts.CompileMode,
			Metadata:    meta,
		}
	}

	return set, nil
}

// Data reads the artifact's companion data dict.
func (f *Format) Data(ctx context.Context, path string) (model.Data, error) {
	resp, err := f.bridge.run(ctx, f.dataOp, path)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: no data dict in %s", backend.ErrBadResponse, path)
	}

	return model.Data(resp.Data), nil
}

// lastLine returns the final non-empty line; framework imports may print banners first.
func lastLine(b []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	return lines[len(lines)-1]
}

// lastLines returns at most n trailing lines of b.
func lastLines(b []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
