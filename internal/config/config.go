// Package config handles configuration loading for docvet. It supports XDG
// config paths, a project-level override file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/docvet/docvet/internal/llm/configuration"
)

// Config holds all configuration for docvet.
type Config struct {
	Backend   BackendConfig             `mapstructure:"backend"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Retry     RetryConfig               `mapstructure:"retry"`
	Logging   LoggingConfig             `mapstructure:"logging"`
	Temporal  TemporalConfig            `mapstructure:"temporal"`
}

// BackendConfig selects the default provider and model.
type BackendConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// ProviderConfig holds per-provider connection settings.
type ProviderConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// RetryConfig holds per-exchange retry settings.
type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// LoggingConfig holds log verbosity settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`

	// Transcripts enables raw prompt/response logging at debug level.
	// Off by default since transcripts contain document content.
	Transcripts bool `mapstructure:"transcripts"`
}

// TemporalConfig holds Temporal worker connection settings.
type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
}

// Load loads configuration from XDG paths, a project override, and
// environment variables. Precedence (highest to lowest):
//  1. Environment variables (OPENAI_API_KEY etc.)
//  2. Project config (.docvet.yaml in the current directory)
//  3. User config (~/.config/docvet/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if project := findProjectConfig(); project != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(project)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("providers.google.api_key", "GEMINI_API_KEY")
	v.BindEnv("temporal.host_port", "TEMPORAL_HOST_PORT")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.provider", configuration.DefaultProvider)
	v.SetDefault("backend.model", configuration.DefaultModel)
	v.SetDefault("backend.timeout", configuration.DefaultHTTPTimeoutSeconds*time.Second)
	v.SetDefault("backend.max_tokens", configuration.DefaultMaxTokens)
	v.SetDefault("backend.temperature", configuration.DefaultTemperature)
	v.SetDefault("retry.max_attempts", configuration.DefaultMaxAttempts)
	v.SetDefault("retry.max_elapsed_time", configuration.DefaultMaxElapsedTime)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.transcripts", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docvet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "docvet")
}

func findProjectConfig() string {
	path := ".docvet.yaml"
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// BackendConfiguration converts the loaded settings into the backend
// client's configuration type.
func (c *Config) BackendConfiguration() *configuration.Config {
	llmCfg := configuration.DefaultConfig()
	llmCfg.DefaultProvider = c.Backend.Provider
	llmCfg.DefaultModel = c.Backend.Model
	if c.Backend.Timeout > 0 {
		llmCfg.HTTPTimeout = c.Backend.Timeout
	}
	if c.Backend.MaxTokens > 0 {
		llmCfg.Generation.MaxTokens = c.Backend.MaxTokens
	}
	if c.Backend.Temperature > 0 {
		llmCfg.Generation.Temperature = c.Backend.Temperature
	}
	if c.Retry.MaxAttempts > 0 {
		llmCfg.Retry.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.MaxElapsedTime > 0 {
		llmCfg.Retry.MaxElapsedTime = c.Retry.MaxElapsedTime
	}
	llmCfg.Observability.LogTranscripts = c.Logging.Transcripts
	llmCfg.Observability.RedactPrompts = !c.Logging.Transcripts

	llmCfg.Providers = make(map[string]configuration.ProviderConfig, len(c.Providers))
	for name, pc := range c.Providers {
		llmCfg.Providers[name] = configuration.ProviderConfig{
			Endpoint: pc.Endpoint,
			APIKey:   pc.APIKey,
		}
	}
	return llmCfg
}
