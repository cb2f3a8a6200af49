package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LEXDESK_BUILD_MODE", "")
	t.Setenv("LEXDESK_BASE_URL", "")
	t.Setenv("LEXDESK_TIMEOUT", "")
	t.Setenv("LEXDESK_DEBUG", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "lexdesk", cfg.Name)
	assert.Equal(t, BuildModeDev, cfg.Backend.BuildMode)
	assert.Equal(t, DefaultDevOrigin, cfg.ResolveBaseURL())
	assert.Equal(t, time.Duration(0), cfg.GetTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.BuildMode = BuildModeProd
	cfg.Backend.Timeout = "15s"
	cfg.Logging.DebugMode = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BuildModeProd, loaded.Backend.BuildMode)
	assert.Equal(t, DefaultProdOrigin, loaded.ResolveBaseURL())
	assert.Equal(t, 15*time.Second, loaded.GetTimeout())
	assert.True(t, loaded.Logging.DebugMode)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: http://backend.local:9000/\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local:9000", cfg.ResolveBaseURL())
	assert.Equal(t, 80, cfg.UI.WordWrap)
}

func TestLoad_EmptyDevOriginFallsBack(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  build_mode: dev\n  dev_origin: \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Backend.DevOrigin)
	assert.Equal(t, DefaultDevOrigin, cfg.ResolveBaseURL())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad build mode", func(c *Config) { c.Backend.BuildMode = "staging" }, true},
		{"bad scheme", func(c *Config) { c.Backend.BaseURL = "ftp://example.com" }, true},
		{"bad timeout", func(c *Config) { c.Backend.Timeout = "soon" }, true},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = "-1s" }, true},
		{"prod", func(c *Config) { c.Backend.BuildMode = BuildModeProd }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.False(t, lc.IsCategoryEnabled("api"))

	lc.DebugMode = true
	assert.True(t, lc.IsCategoryEnabled("api"))

	lc.Categories = map[string]bool{"api": false}
	assert.False(t, lc.IsCategoryEnabled("api"))
	assert.True(t, lc.IsCategoryEnabled("panel"))

	s := lc.Settings()
	assert.True(t, s.DebugMode)
	assert.Equal(t, lc.Categories, s.Categories)
}
