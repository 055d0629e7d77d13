package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ekisa-team/modelload/internal/metrics"
	"github.com/ekisa-team/modelload/internal/registry"
)

// Fetcher writes the model file a reference points to into dst.
type Fetcher interface {
	Fetch(ctx context.Context, ref Reference, dst io.Writer, p Progress) (int64, error)
}

// ModelRegistry looks up where a registry model can be downloaded.
// *registry.Client satisfies this interface.
type ModelRegistry interface {
	GetModelDownloadInfo(ctx context.Context, id registry.ID) (*registry.ModelInfo, error)
}

// URLFetcher downloads plain HTTP(S) references.
type URLFetcher struct {
	Client HTTPClient
}

// Fetch downloads ref.Raw.
func (f *URLFetcher) Fetch(ctx context.Context, ref Reference, dst io.Writer, p Progress) (int64, error) {
	slog.Info("Downloading model", "url", ref.Raw)
	return Download(ctx, f.Client, ref.Raw, dst, "Downloading model from "+ref.Raw, p)
}

// RegistryFetcher resolves registry identifiers to a download URL, then downloads it.
type RegistryFetcher struct {
	Registry ModelRegistry
	Client   HTTPClient
	Metrics  *metrics.Metrics
}

// Fetch performs exactly one download-info lookup followed by one download.
func (f *RegistryFetcher) Fetch(ctx context.Context, ref Reference, dst io.Writer, p Progress) (int64, error) {
	id := ref.Registry
	slog.Info("Fetching model from registry", "model_id", id.String())

	info, err := f.Registry.GetModelDownloadInfo(ctx, id)
	if err != nil {
		f.Metrics.RegistryLookup("error")
		return 0, fmt.Errorf("looking up %s: %w", id, err)
	}
	f.Metrics.RegistryLookup("ok")

	if info.HasNewerVersion() {
		slog.Info("Model has a newer version available", "model_id", id.String(), "newer_version", *info.NewerVersionID)
	}

	host := info.Artifact.HostName
	if host == "" {
		host = "registry"
	}

	return Download(ctx, f.Client, info.Artifact.DownloadURL, dst, "Downloading from "+host, p)
}
