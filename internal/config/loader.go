package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/modelload/internal/envvar"
	"github.com/ekisa-team/modelload/internal/xfs"
)

//go:embed modelload.v1.schema.json
var schemaJSON string

const schemaURL = "modelload.v1.schema.json"

// Load reads the config at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadAndValidate(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadAndValidate loads and validates the configuration.
func LoadAndValidate(path string) (*Config, error) {
	data, err := os.ReadFile(xfs.ExpandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse validates raw YAML against the schema and decodes it.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	schema, err := jsonschema.CompileString(schemaURL, schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(envvar.ModelloadRegistryURL); v != "" {
		c.Registry.BaseURL = v
	}
	if v := os.Getenv(envvar.ModelloadRegistryToken); v != "" {
		c.Registry.Token = v
	}
	if v := os.Getenv(envvar.ModelloadTmpDir); v != "" {
		c.Download.TempDir = v
	}
	c.Download.TempDir = xfs.ExpandTilde(c.Download.TempDir)
	c.Logging.File = xfs.ExpandTilde(c.Logging.File)
	c.Metrics.Textfile = xfs.ExpandTilde(c.Metrics.Textfile)
}
