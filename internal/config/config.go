// Package config provides configuration management for mipd.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Home      string          `yaml:"home"`
	Wallets   []WalletConfig  `yaml:"wallets" validate:"dive"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	RPC       RPCConfig       `yaml:"rpc"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WalletConfig defines a node-backed watch wallet that mipd announces.
type WalletConfig struct {
	Name     string   `yaml:"name" validate:"required"`
	RDNS     string   `yaml:"rdns,omitempty"`
	Icon     string   `yaml:"icon,omitempty"`
	UUID     string   `yaml:"uuid,omitempty"`
	RPC      string   `yaml:"rpc" validate:"required,url"`
	Accounts []string `yaml:"accounts,omitempty" validate:"dive,hexaddr"`
	Reject   bool     `yaml:"reject,omitempty"`
}

// DiscoveryConfig defines how long the CLI collects announcements.
type DiscoveryConfig struct {
	Window time.Duration `yaml:"window" validate:"gt=0"`
}

// RPCConfig defines settings shared by every wallet's node client.
type RPCConfig struct {
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	RatePerSecond float64       `yaml:"rate_per_second" validate:"gt=0"`
	Burst         int           `yaml:"burst" validate:"gte=1"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" validate:"oneof=auto text json"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the mipd home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default mipd home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mipd"
	}
	return filepath.Join(home, ".mipd")
}
