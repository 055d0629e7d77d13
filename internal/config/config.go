package config

import (
	"time"
)

// Config holds the main configuration for the application.
type Config struct {
	Version     string            `json:"version"                yaml:"version"`
	Registry    RegistryConfig    `json:"registry,omitempty"     yaml:"registry,omitempty"`
	Download    DownloadConfig    `json:"download,omitempty"     yaml:"download,omitempty"`
	ObjectStore ObjectStoreConfig `json:"object_store,omitempty" yaml:"object_store,omitempty"`
	Python      PythonConfig      `json:"python,omitempty"       yaml:"python,omitempty"`
	Compile     CompileConfig     `json:"compile,omitempty"      yaml:"compile,omitempty"`
	Logging     LoggingConfig     `json:"logging,omitempty"      yaml:"logging,omitempty"`
	Metrics     MetricsConfig     `json:"metrics,omitempty"      yaml:"metrics,omitempty"`
}

// RegistryConfig configures the remote model registry.
type RegistryConfig struct {
	// Scheme is the prefix marking registry identifiers, without the colon.
	Scheme  string        `json:"scheme,omitempty"   yaml:"scheme,omitempty"`
	BaseURL string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Token   string        `json:"token,omitempty"    yaml:"token,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"  yaml:"timeout,omitempty"`
}

// DownloadConfig configures network downloads.
type DownloadConfig struct {
	TempDir  string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
	Progress *bool  `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// ObjectStoreConfig configures s3:// references.
type ObjectStoreConfig struct {
	Region    string `json:"region,omitempty"     yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"   yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"path_style,omitempty" yaml:"path_style,omitempty"`
}

// PythonConfig configures the framework bridge interpreter.
type PythonConfig struct {
	Interpreter string        `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"     yaml:"timeout,omitempty"`
}

// CompileConfig configures the compiler CLI.
type CompileConfig struct {
	Binary  string        `json:"binary,omitempty"  yaml:"binary,omitempty"`
	Device  string        `json:"device,omitempty"  yaml:"device,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty"  yaml:"file,omitempty"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile path written after each run.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// ProgressEnabled reports whether download progress bars are shown.
func (d DownloadConfig) ProgressEnabled() bool {
	return d.Progress == nil || *d.Progress
}
