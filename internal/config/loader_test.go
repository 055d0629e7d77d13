package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/modelload/internal/envvar"
)

const sampleConfig = `
version: "1"
registry:
  base_url: https://registry.example.com
  timeout: 5s
download:
  temp_dir: /var/tmp/modelload
  progress: false
python:
  interpreter: /opt/venv/bin/python
compile:
  device: cuda
logging:
  level: debug
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://registry.example.com", cfg.Registry.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, DefaultRegistryScheme, cfg.Registry.Scheme)
	assert.Equal(t, "/var/tmp/modelload", cfg.Download.TempDir)
	assert.False(t, cfg.Download.ProgressEnabled())
	assert.Equal(t, "/opt/venv/bin/python", cfg.Python.Interpreter)
	assert.Equal(t, DefaultPythonTimeout, cfg.Python.Timeout)
	assert.Equal(t, "cuda", cfg.Compile.Device)
	assert.Equal(t, DefaultCompileBinary, cfg.Compile.Binary)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParse_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing version": "registry:\n  base_url: https://x\n",
		"unknown field":   "version: \"1\"\nbogus: true\n",
		"bad url":         "version: \"1\"\nregistry:\n  base_url: ftp://x\n",
		"bad duration":    "version: \"1\"\npython:\n  timeout: soon\n",
		"bad level":       "version: \"1\"\nlogging:\n  level: loud\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("version: [\n"))
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	t.Setenv(envvar.ModelloadRegistryURL, "http://localhost:9000")
	t.Setenv(envvar.ModelloadRegistryToken, "secret")
	t.Setenv(envvar.ModelloadTmpDir, "/scratch")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Registry.BaseURL)
	assert.Equal(t, "secret", cfg.Registry.Token)
	assert.Equal(t, "/scratch", cfg.Download.TempDir)
}

func TestLoad_InvalidFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "validation failed")
}
