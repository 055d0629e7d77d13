// Package compile drives the framework's compiler CLI on a resolved model.
package compile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ekisa-team/modelload/internal/backend"
	"github.com/ekisa-team/modelload/internal/model"
	"github.com/ekisa-team/modelload/internal/source"
	"github.com/ekisa-team/modelload/internal/xfs"
)

// ErrInvalidRequest reports an inconsistent compile request.
var ErrInvalidRequest = errors.New("compile: invalid request")

// ErrNoOutput reports a compiler run that exited cleanly without writing its output.
var ErrNoOutput = errors.New("compile: compiler produced no output file")

// Mode is a compilation backend.
type Mode string

const (
	ModeAOTInductor Mode = "aotinductor"
	ModeTorchScript Mode = "torchscript"
)

// OutputSuffix returns the file suffix the compiler requires for m.
func (m Mode) OutputSuffix() string {
	switch m {
	case ModeAOTInductor:
		return ".nequip.pt2"
	case ModeTorchScript:
		return ".nequip.pth"
	default:
		return ""
	}
}

// Request describes one compilation.
type Request struct {
	// Input is any reference the resolver accepts.
	Input  string
	Output string
	Mode   Mode
	Device string

	// Target is the integration target, required for aotinductor (e.g. "ase").
	Target string
}

// Validate checks the request before any download happens.
func (r Request) Validate() error {
	if r.Input == "" || r.Output == "" {
		return fmt.Errorf("%w: input and output are required", ErrInvalidRequest)
	}

	suffix := r.Mode.OutputSuffix()
	if suffix == "" {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, r.Mode)
	}
	if !strings.HasSuffix(r.Output, suffix) {
		return fmt.Errorf("%w: %s output must end with %s: %s", ErrInvalidRequest, r.Mode, suffix, r.Output)
	}
	if r.Mode == ModeAOTInductor && r.Target == "" {
		return fmt.Errorf("%w: %s requires a target", ErrInvalidRequest, r.Mode)
	}
	if r.Mode == ModeTorchScript && r.Target != "" {
		return fmt.Errorf("%w: %s does not take a target", ErrInvalidRequest, r.Mode)
	}

	return nil
}

// args builds the compiler command line for an already resolved input path.
func (r Request) args(inputPath string) []string {
	args := []string{
		inputPath,
		r.Output,
		"--mode", string(r.Mode),
		"--device", r.Device,
	}
	if r.Target != "" {
		args = append(args, "--target", r.Target)
	}
	return args
}

// Resolver provides scoped access to the local file behind a reference.
type Resolver interface {
	With(ctx context.Context, raw string, fn func(*source.Resolved) error) error
}

// Compiler runs the compiler binary through an executor.
type Compiler struct {
	executor *backend.Executor
	resolver Resolver
	device   string
}

// NewCompiler creates a Compiler. defaultDevice is used when a request leaves Device empty.
func NewCompiler(executor *backend.Executor, resolver Resolver, defaultDevice string) *Compiler {
	return &Compiler{
		executor: executor,
		resolver: resolver,
		device:   defaultDevice,
	}
}

// Compile resolves req.Input, runs the compiler and checks the output exists.
// Temporary downloads are removed when Compile returns.
func (c *Compiler) Compile(ctx context.Context, req Request) error {
	if req.Device == "" {
		req.Device = c.device
	}
	if err := req.Validate(); err != nil {
		return err
	}

	return c.resolver.With(ctx, req.Input, func(res *source.Resolved) error {
		if !xfs.Exists(res.Path) {
			return fmt.Errorf("%w: %s (resolved to: %s)", model.ErrModelFileNotFound, res.Input, res.Path)
		}

		args := req.args(res.Path)
		slog.Info("Compiling model", "input", req.Input, "output", req.Output, "mode", req.Mode, "device", req.Device)

		ch, err := c.executor.Stream(ctx, args, nil)
		if err != nil {
			return err
		}

		var runErr error
		for chunk := range ch {
			if len(chunk.Data) > 0 {
				slog.Debug("compiler", "line", strings.TrimRight(string(chunk.Data), "\n"))
			}
			if chunk.Error != nil {
				runErr = chunk.Error
			}
		}
		if runErr != nil {
			return fmt.Errorf("compiling %s: %w", req.Input, runErr)
		}

		if !xfs.Exists(req.Output) {
			return fmt.Errorf("%w: %s", ErrNoOutput, req.Output)
		}

		slog.Info("Compiled model written", "output", req.Output)
		return nil
	})
}
