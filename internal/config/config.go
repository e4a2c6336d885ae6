// Package config handles configuration loading and management for Vibe.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Vibe.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	Budgets   BudgetsConfig   `mapstructure:"budgets"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// BedrockConfig holds AWS Bedrock settings. When enabled, API calls go
// through Bedrock instead of the direct Anthropic API.
type BedrockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// DefaultsConfig holds default task settings.
type DefaultsConfig struct {
	Model string `mapstructure:"model"`
}

// BatchConfig holds batch operation settings.
type BatchConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

// TimeoutsConfig holds execution timeouts.
type TimeoutsConfig struct {
	// Step bounds one workflow step attempt.
	Step time.Duration `mapstructure:"step"`
	// CLI bounds one claude CLI invocation.
	CLI time.Duration `mapstructure:"cli"`
}

// BudgetsConfig holds cost alert thresholds in USD.
type BudgetsConfig struct {
	Daily   float64 `mapstructure:"daily"`
	Monthly float64 `mapstructure:"monthly"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.vibe.yaml in current directory or parent)
// 3. User config (~/.config/vibe/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("bedrock.enabled", cfg.Bedrock.Enabled)
	v.Set("bedrock.region", cfg.Bedrock.Region)
	v.Set("bedrock.profile", cfg.Bedrock.Profile)
	v.Set("defaults.model", cfg.Defaults.Model)
	v.Set("batch.max_workers", cfg.Batch.MaxWorkers)
	v.Set("timeouts.step", cfg.Timeouts.Step.String())
	v.Set("timeouts.cli", cfg.Timeouts.CLI.String())
	v.Set("budgets.daily", cfg.Budgets.Daily)
	v.Set("budgets.monthly", cfg.Budgets.Monthly)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("bedrock.enabled", false)
	v.SetDefault("bedrock.region", "")
	v.SetDefault("bedrock.profile", "")

	v.SetDefault("defaults.model", "claude-sonnet-4-5-20250929")

	v.SetDefault("batch.max_workers", 4)

	v.SetDefault("timeouts.step", "5m")
	v.SetDefault("timeouts.cli", "5m")

	v.SetDefault("budgets.daily", 10.0)
	v.SetDefault("budgets.monthly", 100.0)
}

// getUserConfigDir returns the XDG config directory for Vibe.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vibe")
	}

	// Fall back to ~/.config/vibe
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "vibe")
	}
	return filepath.Join(home, ".config", "vibe")
}

// findProjectConfig searches for .vibe.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".vibe.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Model: "claude-sonnet-4-5-20250929",
		},
		Batch: BatchConfig{
			MaxWorkers: 4,
		},
		Timeouts: TimeoutsConfig{
			Step: 5 * time.Minute,
			CLI:  5 * time.Minute,
		},
		Budgets: BudgetsConfig{
			Daily:   10.0,
			Monthly: 100.0,
		},
	}
}
