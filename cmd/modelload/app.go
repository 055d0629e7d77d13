package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ekisa-team/modelload/internal/backend"
	"github.com/ekisa-team/modelload/internal/backend/nequip"
	"github.com/ekisa-team/modelload/internal/compile"
	"github.com/ekisa-team/modelload/internal/config"
	"github.com/ekisa-team/modelload/internal/metrics"
	"github.com/ekisa-team/modelload/internal/model"
	"github.com/ekisa-team/modelload/internal/registry"
	"github.com/ekisa-team/modelload/internal/source"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	metrics  *metrics.Metrics
	resolver *source.Resolver
}

func newApp(cfg *config.Config, showProgress bool) *app {
	m := metrics.New()
	httpClient := &http.Client{}

	registryClient := registry.NewClient(cfg.Registry.BaseURL,
		registry.WithHTTPClient(&http.Client{Timeout: cfg.Registry.Timeout}),
		registry.WithToken(cfg.Registry.Token),
		registry.WithUserAgent("modelload/"+version),
	)

	progress := func() source.Progress { return source.NopProgress{} }
	if showProgress {
		progress = func() source.Progress { return source.NewBar(os.Stderr) }
	}

	resolver := source.NewResolver(cfg.Registry.Scheme,
		source.WithTempDir(cfg.Download.TempDir),
		source.WithProgress(progress),
		source.WithMetrics(m),
		source.WithFetcher(source.KindURL, &source.URLFetcher{Client: httpClient}),
		source.WithFetcher(source.KindRegistry, &source.RegistryFetcher{
			Registry: registryClient,
			Client:   httpClient,
			Metrics:  m,
		}),
		source.WithFetcher(source.KindObjectStore, &source.ObjectStoreFetcher{
			Client: source.NewS3Client(cfg.ObjectStore),
		}),
	)

	return &app{
		cfg:      cfg,
		metrics:  m,
		resolver: resolver,
	}
}

// manager builds the load pipeline backed by the Python bridge.
func (a *app) manager() (*model.Manager, error) {
	executor, err := backend.NewExecutor(a.cfg.Python.Interpreter, a.cfg.Python.Timeout)
	if err != nil {
		return nil, fmt.Errorf("python interpreter: %w", err)
	}

	formats := model.NewRegistry()
	if err := nequip.Register(formats, nequip.NewBridge(executor)); err != nil {
		return nil, err
	}

	return model.NewManager(a.resolver, model.NewLoader(formats)), nil
}

// compiler builds the compiler driver.
func (a *app) compiler() (*compile.Compiler, error) {
	executor, err := backend.NewExecutor(a.cfg.Compile.Binary, a.cfg.Compile.Timeout)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	return compile.NewCompiler(executor, a.resolver, a.cfg.Compile.Device), nil
}

// writeMetrics writes the metrics textfile when one is configured.
func (a *app) writeMetrics() error {
	path := a.cfg.Metrics.Textfile
	if path == "" {
		return nil
	}

	if err := a.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	slog.Debug("Metrics written", "path", path)
	return nil
}
