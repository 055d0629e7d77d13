package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveResolve("url", time.Now())
	m.ObserveResolve("url", time.Now())
	m.AddDownloaded("url", 1024)
	m.DownloadFailed("registry")
	m.RegistryLookup("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("url")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.DownloadBytes.WithLabelValues("url")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DownloadErrors.WithLabelValues("registry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryLookups.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResolveDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveResolve("local", time.Now())
		m.AddDownloaded("url", 1)
		m.DownloadFailed("url")
		m.RegistryLookup("error")
	})
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.AddDownloaded("registry", 42)

	path := filepath.Join(t.TempDir(), "modelload.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `modelload_download_bytes_total{kind="registry"} 42`)
}
