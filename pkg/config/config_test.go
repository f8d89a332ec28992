package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bplib-go/custodytree/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), cfg.DefaultMaxSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", cfg.MetricsAddr)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	const body = "default_max_size: 64\nlog_level: debug\notlp_endpoint: localhost:4317\n"
	require.NoError(t, writeFile(path, body))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), cfg.DefaultMaxSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeFile(path, "log_level: verbose\n"))

	_, err := config.LoadConfig(path)
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o600)
}
