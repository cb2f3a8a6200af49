package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("base url wins over build mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEXDESK_BUILD_MODE", "PROD")
		t.Setenv("LEXDESK_BASE_URL", "http://override:1234")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BuildModeProd, cfg.Backend.BuildMode)
		assert.Equal(t, "http://override:1234", cfg.ResolveBaseURL())
	})

	t.Run("timeout and debug", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEXDESK_TIMEOUT", "2m")
		t.Setenv("LEXDESK_DEBUG", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 2*time.Minute, cfg.GetTimeout())
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("debug only for truthy values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEXDESK_DEBUG", "no")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("unparseable timeout means none", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEXDESK_TIMEOUT", "soon")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, time.Duration(0), cfg.GetTimeout())
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty env leaves file values", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.Backend.BaseURL = "http://from-file:8000"
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://from-file:8000", cfg.ResolveBaseURL())
	})
}

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"dev uses local origin", func(*Config) {}, DefaultDevOrigin},
		{"prod uses hosted origin", func(c *Config) { c.Backend.BuildMode = BuildModeProd }, DefaultProdOrigin},
		{"prod with empty origin falls back", func(c *Config) {
			c.Backend.BuildMode = BuildModeProd
			c.Backend.ProdOrigin = ""
		}, DefaultProdOrigin},
		{"dev with empty origin falls back", func(c *Config) { c.Backend.DevOrigin = "" }, DefaultDevOrigin},
		{"custom dev origin", func(c *Config) { c.Backend.DevOrigin = "http://127.0.0.1:9000/" }, "http://127.0.0.1:9000"},
		{"explicit base url trims slash", func(c *Config) { c.Backend.BaseURL = "https://api.example.com/" }, "https://api.example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Equal(t, tc.want, cfg.ResolveBaseURL())
			assert.NoError(t, cfg.Validate())
		})
	}
}
