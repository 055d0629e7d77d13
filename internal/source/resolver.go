// Package source resolves model references to local files.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/ekisa-team/modelload/internal/metrics"
	"github.com/ekisa-team/modelload/internal/xfs"
)

// PackageSuffix marks self-contained package artifacts.
const PackageSuffix = ".nequip.zip"

// Resolved is a model file ready to be loaded.
// Temporary files are owned by the Resolved and removed by Close.
type Resolved struct {
	// Input is the reference the file was resolved from.
	Input     string
	Path      string
	Temporary bool

	once sync.Once
	err  error
}

// Close removes the file if it is temporary. Safe to call more than once.
func (r *Resolved) Close() error {
	if r == nil || !r.Temporary {
		return nil
	}

	r.once.Do(func() {
		r.err = xfs.RemoveIfExists(r.Path)
		if r.err != nil {
			slog.Warn("Failed to remove temporary model file", "path", r.Path, "error", r.err)
		}
	})
	return r.err
}

// Resolver turns references into local files.
type Resolver struct {
	scheme   string
	tempDir  string
	fetchers map[Kind]Fetcher
	progress func() Progress
	metrics  *metrics.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTempDir sets where downloads are written. Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Resolver) {
		r.tempDir = dir
	}
}

// WithFetcher registers f for references of kind k.
func WithFetcher(k Kind, f Fetcher) Option {
	return func(r *Resolver) {
		r.fetchers[k] = f
	}
}

// WithProgress sets the factory for per-download progress reporters.
func WithProgress(fn func() Progress) Option {
	return func(r *Resolver) {
		r.progress = fn
	}
}

// WithMetrics records resolutions and downloads in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver for registry identifiers marked by scheme.
func NewResolver(scheme string, opts ...Option) *Resolver {
	r := &Resolver{
		scheme:   scheme,
		fetchers: make(map[Kind]Fetcher),
		progress: func() Progress { return NopProgress{} },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve yields a local file for raw. The caller must Close the result;
// for local paths Close is a no-op. On error no temporary file is left behind.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Resolved, error) {
	started := time.Now()

	ref, err := ParseReference(raw, r.scheme)
	if err != nil {
		return nil, err
	}

	if !ref.NeedsDownload() {
		slog.Info("Loading model from path", "path", raw)
		r.metrics.ObserveResolve(string(ref.Kind), started)
		return &Resolved{Input: raw, Path: raw}, nil
	}

	fetcher, ok := r.fetchers[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("%s reference %q: %w", ref.Kind, raw, ErrUnsupportedKind)
	}

	tmp, err := os.CreateTemp(r.tempDir, "modelload-*"+tempSuffix(ref))
	if err != nil {
		return nil, fmt.Errorf("creating temporary model file: %w", err)
	}
	res := &Resolved{Input: raw, Path: tmp.Name(), Temporary: true}

	n, err := fetcher.Fetch(ctx, ref, tmp, r.progress())
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing temporary model file: %w", cerr)
	}
	if err != nil {
		r.metrics.DownloadFailed(string(ref.Kind))
		res.Close()
		return nil, err
	}

	r.metrics.AddDownloaded(string(ref.Kind), n)
	r.metrics.ObserveResolve(string(ref.Kind), started)
	slog.Info("Download complete", "input", raw, "path", res.Path, "bytes", n)

	return res, nil
}

// With resolves raw, runs fn with the result and releases it on every exit path.
func (r *Resolver) With(ctx context.Context, raw string, fn func(*Resolved) error) error {
	res, err := r.Resolve(ctx, raw)
	if err != nil {
		return err
	}
	defer res.Close()

	return fn(res)
}

// tempSuffix picks the temporary file suffix so that the file kind survives download.
// Registry artifacts are always packages.
func tempSuffix(ref Reference) string {
	var name string
	switch ref.Kind {
	case KindURL:
		if u, err := url.Parse(ref.Raw); err == nil {
			name = path.Base(u.Path)
		}
	case KindObjectStore:
		name = path.Base(ref.Key)
	}

	if name == "" || strings.HasSuffix(name, PackageSuffix) {
		return PackageSuffix
	}

	ext := path.Ext(name)
	if ext == "" || ext == "." || len(ext) > 16 {
		return PackageSuffix
	}
	return ext
}
