package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	DefaultRegistryScheme  = "nequip.net"
	DefaultRegistryURL     = "https://www.nequip.net"
	DefaultRegistryTimeout = 30 * time.Second
	DefaultInterpreter     = "python3"
	DefaultPythonTimeout   = 10 * time.Minute
	DefaultCompileBinary   = "nequip-compile"
	DefaultCompileDevice   = "cpu"
	DefaultCompileTimeout  = 60 * time.Minute
	DefaultObjectRegion    = "us-east-1"
	DefaultLogLevel        = "info"
)

// DefaultConfigPath returns the default path for the modelload config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "modelload", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "modelload")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "modelload")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "modelload")
		}
		return filepath.Join(home, ".config", "modelload")
	}
}

// Default returns a config with every field set to its default.
func Default() *Config {
	cfg := &Config{Version: "1"}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Registry.Scheme == "" {
		c.Registry.Scheme = DefaultRegistryScheme
	}
	if c.Registry.BaseURL == "" {
		c.Registry.BaseURL = DefaultRegistryURL
	}
	if c.Registry.Timeout == 0 {
		c.Registry.Timeout = DefaultRegistryTimeout
	}
	if c.ObjectStore.Region == "" {
		c.ObjectStore.Region = DefaultObjectRegion
	}
	if c.Python.Interpreter == "" {
		c.Python.Interpreter = DefaultInterpreter
	}
	if c.Python.Timeout == 0 {
		c.Python.Timeout = DefaultPythonTimeout
	}
	if c.Compile.Binary == "" {
		c.Compile.Binary = DefaultCompileBinary
	}
	if c.Compile.Device == "" {
		c.Compile.Device = DefaultCompileDevice
	}
	if c.Compile.Timeout == 0 {
		c.Compile.Timeout = DefaultCompileTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
