package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendDisk, cfg.Images.Backend)
	assert.Equal(t, "upload/item/shop", cfg.Images.Root)

	d, err := cfg.ShutdownTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
images:
  backend: sqlite
log:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Images.Backend)
	assert.Equal(t, "console", cfg.Log.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, "o2o.db", cfg.Database.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))
	t.Setenv("PORT", "7070")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("UPLOAD_MAX_BYTES", "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, "UPLOAD_MAX_BYTES")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Images.Backend = "s3"
	cfg.Log.Level = "loud"
	cfg.Server.ShutdownTimeout = "soon"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "images.backend")
	assert.ErrorContains(t, err, "log.level")
	assert.ErrorContains(t, err, "shutdown_timeout")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{"IMAGE_BACKEND": "sqlite", "LOG_LEVEL": ""}
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, BackendSQLite, cfg.Images.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}
