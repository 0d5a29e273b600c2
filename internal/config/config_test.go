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
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "/api-docs", cfg.DocsPath)
	assert.Equal(t, int64(1<<20), cfg.MaxRequestBytes)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("WRITE_TIMEOUT", "30s")
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")

	cfg, err := LoadFiles()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.True(t, cfg.FirebaseEnabled())
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nDOCS_PATH=/docs\n"), 0o600))
	t.Setenv("PORT", "9191")
	t.Setenv("DOCS_PATH", "")
	os.Unsetenv("DOCS_PATH")

	cfg, err := LoadFiles(path)

	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, "/docs", cfg.DocsPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MAX_REQUEST_BYTES", "0")

	_, err := LoadFiles()
	assert.ErrorContains(t, err, "MAX_REQUEST_BYTES")

	t.Setenv("MAX_REQUEST_BYTES", "1024")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err = LoadFiles()
	assert.ErrorContains(t, err, "parse environment")
}
