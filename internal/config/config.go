// Package config loads the server's YAML configuration.
//
// Precedence: built-in defaults, then the config file (if present), then
// DELIBERATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Journal JournalConfig `yaml:"journal"`
}

// ServerConfig configures the MCP server identity.
type ServerConfig struct {
	Name         string `yaml:"name"`
	Instructions bool   `yaml:"instructions"` // advertise usage instructions to the host
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// JournalConfig configures the optional transcript journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	DataDir string `yaml:"data_dir"`
}

// DefaultDir returns ~/.deliberate, falling back to a relative directory
// when the home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deliberate"
	}
	return filepath.Join(home, ".deliberate")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "deliberate-thinking",
			Instructions: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Enabled: false,
			DataDir: DefaultDir(),
		},
	}
}

// Load reads configuration from a YAML file. A missing file is not an
// error: defaults are returned with environment overrides applied.
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

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("DELIBERATE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("DELIBERATE_JOURNAL"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Journal.Enabled = enabled
		}
	}
	if dir := os.Getenv("DELIBERATE_DATA_DIR"); dir != "" {
		c.Journal.DataDir = dir
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	if c.Journal.Enabled && c.Journal.DataDir == "" {
		return fmt.Errorf("journal enabled but data_dir is empty")
	}
	return nil
}
