package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"STORAGE", "MODE", "PROXY_URL", "PROXY_TOKEN", "TIMEOUT", "DEBUG"} {
		t.Setenv(envPrefix+k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envPrefix+"DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, ModeDirect, cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.UseProxy())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envPrefix+"DATA_DIR", dir)

	toml := `
storage = "json"
mode = "proxy"
proxy_url = "https://proxy.example.com"
timeout = "5s"
debug = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(toml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Storage)
	assert.True(t, cfg.UseProxy())
	assert.Equal(t, "https://proxy.example.com", cfg.ProxyURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)

	t.Setenv(envPrefix+"MODE", "direct")
	t.Setenv(envPrefix+"TIMEOUT", "1m")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.UseProxy())
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoadZeroTimeoutDisablesLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"DATA_DIR", t.TempDir())
	t.Setenv(envPrefix+"TIMEOUT", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envPrefix+"DATA_DIR", dir)

	t.Setenv(envPrefix+"TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv(envPrefix+"TIMEOUT", "-1s")
	_, err = Load()
	assert.ErrorContains(t, err, "negative")

	t.Setenv(envPrefix+"TIMEOUT", "")
	t.Setenv(envPrefix+"MODE", "proxy")
	_, err = Load()
	assert.ErrorContains(t, err, "proxy URL")

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("storage = ["), 0o600))
	_, err = Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envPrefix+"DATA_DIR", dir)

	cfg := Default()
	cfg.DataDir = dir
	cfg.Storage = "json"
	cfg.Timeout = 10 * time.Second
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, configFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Storage)
	assert.Equal(t, 10*time.Second, loaded.Timeout)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envPrefix+"DATA_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(`timeout = "5s"`), 0o600))

	t.Setenv(envPrefix+"PROXY_TOKEN", "from-env")
	t.Setenv(envPrefix+"DEBUG", "true")

	fileOnly, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Empty(t, fileOnly.ProxyToken)
	assert.False(t, fileOnly.Debug)
	assert.Equal(t, 5*time.Second, fileOnly.Timeout)

	fileOnly.Storage = "json"
	require.NoError(t, fileOnly.Save())

	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "from-env")

	merged, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", merged.ProxyToken)
	assert.Equal(t, "json", merged.Storage)
}
