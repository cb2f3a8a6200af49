package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Build modes select which backend origin requests target.
const (
	BuildModeDev  = "dev"
	BuildModeProd = "prod"
)

const (
	DefaultDevOrigin  = "http://localhost:8000"
	DefaultProdOrigin = "https://legal-management-system-x9sc.onrender.com"
)

// Config holds all lexdesk configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Backend selection
	Backend BackendConfig `yaml:"backend"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures where the inference endpoints live.
type BackendConfig struct {
	BuildMode  string `yaml:"build_mode"`  // dev, prod
	BaseURL    string `yaml:"base_url"`    // explicit origin, overrides build mode
	DevOrigin  string `yaml:"dev_origin"`  // origin the relative /api paths resolve against
	ProdOrigin string `yaml:"prod_origin"` // externally hosted backend
	Timeout    string `yaml:"timeout"`     // empty = transport default (none)
}

// UIConfig holds terminal UI defaults.
type UIConfig struct {
	SidebarCollapsed bool `yaml:"sidebar_collapsed"`
	WordWrap         int  `yaml:"word_wrap"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "lexdesk",
		Version: "1.0.0",

		Backend: BackendConfig{
			BuildMode:  BuildModeDev,
			DevOrigin:  DefaultDevOrigin,
			ProdOrigin: DefaultProdOrigin,
		},

		UI: UIConfig{
			WordWrap: 80,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the directory where lexdesk keeps config, preferences and logs.
// A project-local .lexdesk directory wins over the home-level one.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".lexdesk")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lexdesk"), nil
}

// DefaultPath returns the config file path inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file.
// A missing file yields defaults; env overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if mode := os.Getenv("LEXDESK_BUILD_MODE"); mode != "" {
		c.Backend.BuildMode = strings.ToLower(mode)
	}
	if u := os.Getenv("LEXDESK_BASE_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if t := os.Getenv("LEXDESK_TIMEOUT"); t != "" {
		c.Backend.Timeout = t
	}
	switch strings.ToLower(os.Getenv("LEXDESK_DEBUG")) {
	case "1", "true", "yes":
		c.Logging.DebugMode = true
	}
}

// ResolveBaseURL returns the origin requests are sent to.
// Precedence: explicit base_url > build_mode origin.
func (c *Config) ResolveBaseURL() string {
	if c.Backend.BaseURL != "" {
		return strings.TrimRight(c.Backend.BaseURL, "/")
	}
	if c.Backend.BuildMode == BuildModeProd {
		if c.Backend.ProdOrigin == "" {
			return DefaultProdOrigin
		}
		return strings.TrimRight(c.Backend.ProdOrigin, "/")
	}
	if c.Backend.DevOrigin == "" {
		return DefaultDevOrigin
	}
	return strings.TrimRight(c.Backend.DevOrigin, "/")
}

// GetTimeout returns the request timeout. Zero means the transport default.
func (c *Config) GetTimeout() time.Duration {
	if c.Backend.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ValidBuildModes lists all supported build modes.
var ValidBuildModes = []string{BuildModeDev, BuildModeProd}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validMode := false
	for _, m := range ValidBuildModes {
		if c.Backend.BuildMode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid build mode: %q (valid: %v)", c.Backend.BuildMode, ValidBuildModes)
	}

	if base := c.ResolveBaseURL(); base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid backend url %q: %w", base, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid backend url %q: scheme must be http or https", base)
		}
	}

	if c.Backend.Timeout != "" {
		d, err := time.ParseDuration(c.Backend.Timeout)
		if err != nil {
			return fmt.Errorf("invalid backend timeout %q: %w", c.Backend.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid backend timeout %q: must not be negative", c.Backend.Timeout)
		}
	}

	return nil
}
