// Package config loads codepad settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/codepad/internal/gateway"
)

// Environment variables that override the file.
const (
	EnvTogetherKey       = "TOGETHER_API_KEY"
	EnvGroqKey           = "GROQ_API_KEY"
	EnvCompletionBaseURL = "CODEPAD_COMPLETION_BASE_URL"
	EnvAnalysisBaseURL   = "CODEPAD_ANALYSIS_BASE_URL"
	EnvServerToken       = "CODEPAD_SERVER_TOKEN"
)

// Config holds all codepad configuration.
type Config struct {
	// AI providers
	Completion ProviderConfig `yaml:"completion"`
	Analysis   ProviderConfig `yaml:"analysis"`

	Limits  LimitsConfig   `yaml:"limits"`
	Server  ServerConfig   `yaml:"server"`
	Logging LoggingConfig  `yaml:"logging"`
	Editor  EditorSettings `yaml:"editor"`
}

// ProviderConfig configures one OpenAI-compatible endpoint.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses Timeout. Validate has already rejected bad values.
func (p ProviderConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// LimitsConfig bounds what is sent to providers.
type LimitsConfig struct {
	MaxCodeBytes int `yaml:"max_code_bytes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"` // empty disables auth
}

// Listen returns the host:port to bind.
func (s ServerConfig) Listen() string {
	return fmt.Sprintf("%s:%d", s.Addr, s.Port)
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// EditorSettings are display preferences handed to the editor shells.
type EditorSettings struct {
	Theme    string `yaml:"theme" json:"theme"` // vs-dark, vs-light
	FontSize int    `yaml:"font_size" json:"font_size"`
	TabSize  int    `yaml:"tab_size" json:"tab_size"`
	WordWrap bool   `yaml:"word_wrap" json:"word_wrap"`
	Minimap  bool   `yaml:"minimap" json:"minimap"`
}

// Editor themes.
const (
	ThemeDark  = "vs-dark"
	ThemeLight = "vs-light"
)

// Dark reports whether the theme is the dark one.
func (e EditorSettings) Dark() bool {
	return e.Theme != ThemeLight
}

// SyntaxStyle returns the chroma style matching the theme.
func (e EditorSettings) SyntaxStyle() string {
	if e.Dark() {
		return "dracula"
	}
	return "github"
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Completion: ProviderConfig{
			BaseURL: gateway.TogetherBaseURL,
			Model:   gateway.TogetherModel,
			Timeout: gateway.DefaultTimeout.String(),
		},
		Analysis: ProviderConfig{
			BaseURL: gateway.GroqBaseURL,
			Model:   gateway.GroqModel,
			Timeout: gateway.DefaultTimeout.String(),
		},
		Limits: LimitsConfig{
			MaxCodeBytes: gateway.DefaultMaxCodeBytes,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1",
			Port: 6142,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Editor: EditorSettings{
			Theme:    ThemeDark,
			FontSize: 14,
			TabSize:  2,
			WordWrap: true,
			Minimap:  true,
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvTogetherKey); v != "" {
		c.Completion.APIKey = v
	}
	if v := os.Getenv(EnvGroqKey); v != "" {
		c.Analysis.APIKey = v
	}
	if v := os.Getenv(EnvCompletionBaseURL); v != "" {
		c.Completion.BaseURL = v
	}
	if v := os.Getenv(EnvAnalysisBaseURL); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := os.Getenv(EnvServerToken); v != "" {
		c.Server.Token = v
	}
}

// Validate checks the configuration for values that cannot work.
// Missing API keys are not an error: calls fail at request time instead.
func (c *Config) Validate() error {
	providers := []struct {
		name string
		ProviderConfig
	}{
		{"completion", c.Completion},
		{"analysis", c.Analysis},
	}
	for _, p := range providers {
		if p.Timeout == "" {
			continue
		}
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s timeout %q: %w", p.name, p.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive, got %s", p.name, p.Timeout)
		}
	}
	if c.Limits.MaxCodeBytes < 0 {
		return fmt.Errorf("limits.max_code_bytes must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q (valid: json, console)", c.Logging.Format)
	}
	switch c.Editor.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid editor theme %q (valid: %s, %s)", c.Editor.Theme, ThemeDark, ThemeLight)
	}
	if c.Editor.TabSize < 1 {
		return fmt.Errorf("editor.tab_size must be at least 1")
	}
	return nil
}

// MissingKeys lists the providers that have no API key.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.Completion.APIKey == "" {
		missing = append(missing, EnvTogetherKey)
	}
	if c.Analysis.APIKey == "" {
		missing = append(missing, EnvGroqKey)
	}
	return missing
}
