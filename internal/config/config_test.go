package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := write(t, "poet.yaml", `
addr: ":9090"
log_level: debug
redis:
  addr: localhost:6379
countdown:
  from: 10
  interval: 250ms
users:
  alice: correcthorse
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "poet:", cfg.Redis.Prefix)
	assert.Equal(t, 10, cfg.Countdown.From)
	assert.Equal(t, 250*time.Millisecond, cfg.Countdown.Interval)
	assert.Equal(t, "correcthorse", cfg.Users["alice"])
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "poet.json", `{"addr": ":7000", "catalog": "menu.yaml", "library": "demos.yaml"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "menu.yaml", cfg.Catalog)
	assert.Equal(t, "demos.yaml", cfg.Library)
	assert.Equal(t, 5, cfg.Countdown.From)
}

func TestLoad_MissingDefaultIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(write(t, "bad.yaml", "log_level: shouty\n"))
	assert.ErrorContains(t, err, "unknown log level")

	_, err = Load(write(t, "bad2.yaml", "countdown:\n  from: -1\n"))
	assert.ErrorContains(t, err, "countdown.from")

	_, err = Load(write(t, "bad3.yaml", "addr: [\n"))
	assert.ErrorContains(t, err, "failed to parse bad3.yaml")
}
