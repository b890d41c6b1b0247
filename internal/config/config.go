// Package config loads groqchat settings from the XDG config directory
// via viper, with environment fallbacks for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/quanticsoul4772/groqchat/internal/chat"
	"github.com/quanticsoul4772/groqchat/internal/models"
)

type Config struct {
	APIKey             string                   `mapstructure:"api_key"`
	Model              string                   `mapstructure:"model"`
	CustomAPIBaseURL   string                   `mapstructure:"custom_api_base_url"`
	Temperature        *float64                 `mapstructure:"temperature"`
	TopP               *float64                 `mapstructure:"top_p"`
	CustomSystemPrompt string                   `mapstructure:"custom_system_prompt"`
	BuiltinTools       chat.BuiltinToolSettings `mapstructure:"builtin_tools"`
	CustomModels       map[string]CustomModel   `mapstructure:"custom_models"`
	Diagnostics        DiagnosticsConfig        `mapstructure:"diagnostics"`
}

// CustomModel is a user-defined model registry entry.
type CustomModel struct {
	ContextWindow        int    `mapstructure:"context_window"`
	SupportsVision       bool   `mapstructure:"supports_vision"`
	SupportsBuiltinTools bool   `mapstructure:"supports_builtin_tools"`
	DisplayName          string `mapstructure:"display_name"`
}

// DiagnosticsConfig configures the JSONL debug logger.
type DiagnosticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	viper.SetDefault("model", models.DefaultModel)
	viper.SetDefault("diagnostics.enabled", false)

	// Config file is optional; env and defaults are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIKey = expandEnv(cfg.APIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	cfg.CustomAPIBaseURL = expandEnv(cfg.CustomAPIBaseURL)
	if cfg.Diagnostics.Dir == "" {
		cfg.Diagnostics.Dir = GetDiagnosticsDir()
	}

	return &cfg, nil
}

// Settings converts the config to the pipeline's settings shape.
func (c *Config) Settings() chat.Settings {
	return chat.Settings{
		APIKey:             c.APIKey,
		Model:              c.Model,
		CustomAPIBaseURL:   c.CustomAPIBaseURL,
		Temperature:        c.Temperature,
		TopP:               c.TopP,
		CustomSystemPrompt: c.CustomSystemPrompt,
		BuiltinTools:       c.BuiltinTools,
	}
}

// Registry builds the model registry including custom entries.
func (c *Config) Registry() *models.Registry {
	custom := make(map[string]models.ModelInfo, len(c.CustomModels))
	for id, m := range c.CustomModels {
		custom[id] = models.ModelInfo{
			ContextWindow:        m.ContextWindow,
			SupportsVision:       m.SupportsVision,
			SupportsBuiltinTools: m.SupportsBuiltinTools,
			DisplayName:          m.DisplayName,
		}
	}
	return models.NewRegistry(custom)
}

// MaskedAPIKey returns the API key with all but the edges hidden, for
// display in `groqchat config`.
func (c *Config) MaskedAPIKey() string {
	key := c.APIKey
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// expandEnv expands ${VAR} or $VAR in a string.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for groqchat.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "groqchat"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "groqchat"), nil
}

// GetDiagnosticsDir returns the XDG data directory for diagnostics.
// Uses $XDG_DATA_HOME if set, otherwise ~/.local/share
func GetDiagnosticsDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "groqchat", "diagnostics")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "groqchat-diagnostics"
	}
	return filepath.Join(homeDir, ".local", "share", "groqchat", "diagnostics")
}
