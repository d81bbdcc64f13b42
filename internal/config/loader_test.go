// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, ":8080", cfg.API.Listen)
	assert.Equal(t, 300, cfg.Render.Size)
	assert.Equal(t, 2, cfg.Render.Margin)
	assert.Equal(t, "#000000", cfg.Render.Foreground)
	assert.Equal(t, "#ffffff", cfg.Render.Background)
	assert.True(t, filepath.IsAbs(cfg.Export.Dir))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
logLevel: debug
api:
  listen: "127.0.0.1:9000"
  readTimeout: 3s
  rateLimit:
    enabled: false
render:
  engine: rsc
  size: 512
  margin: 0
  foreground: "#112233"
cache:
  ttl: 1m
export:
  dir: `+dir+`
`)

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Listen)
	assert.Equal(t, 3*time.Second, cfg.API.ReadTimeout)
	assert.False(t, cfg.API.RateLimitEnabled)
	assert.Equal(t, "rsc", cfg.Render.Engine)
	assert.Equal(t, 512, cfg.Render.Size)
	assert.Equal(t, 0, cfg.Render.Margin, "explicit zero margin must override the default")
	assert.Equal(t, "#112233", cfg.Render.Foreground)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, dir, cfg.Export.Dir)

	// untouched values keep their defaults
	assert.Equal(t, 30*time.Second, cfg.API.WriteTimeout)
	assert.Equal(t, "png", cfg.Render.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "render:\n  size: 512\n")

	t.Setenv("WIFIQR_RENDER_SIZE", "640")
	t.Setenv("WIFIQR_LISTEN", ":8181")
	t.Setenv("WIFIQR_CORS_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("WIFIQR_EXPORT_DIR", dir)

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Render.Size)
	assert.Equal(t, ":8181", cfg.API.Listen)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.API.CORSOrigins)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WIFIQR_RENDER_SIZE", "huge")

	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Render.Size)
}

func TestLoad_StrictUnknownField(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "render:\n  sise: 300\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "got %v", err)
}

func TestLoad_MultipleDocuments(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "logLevel: info\n---\nlogLevel: debug\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, t.TempDir(), "")

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Render, cfg.Render)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "cache:\n  ttl: soon\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.ttl")
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "render:\n  size: 10\n  level: Z\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.size")
	assert.Contains(t, err.Error(), "render.level")
}

func TestLoader_UnknownEnvKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WIFIQR_RENDR_SIZE", "1")
	t.Setenv("WIFIQR_CONFIG", "/etc/wifiqr.yaml")

	l := NewLoader("", "dev")
	_, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"WIFIQR_RENDR_SIZE"}, l.UnknownEnvKeys())
}

func TestRenderConfig_RenderOptions(t *testing.T) {
	rc := Defaults().Render
	rc.Format = "svg"
	rc.Level = "H"

	opts, err := rc.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, 300, opts.Size)
	assert.Equal(t, "svg", string(opts.Format))
	assert.Equal(t, "H", opts.Level.String())
	assert.NoError(t, opts.Validate())
}
