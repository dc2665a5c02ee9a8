package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/Yates-Labs/promptchain/internal/llm"
)

// Config holds all runtime configuration.
type Config struct {
	// Backend selection
	Provider    string        `env:"PROMPTCHAIN_PROVIDER" envDefault:"openai"`
	Model       string        `env:"PROMPTCHAIN_MODEL"`
	Temperature float64       `env:"PROMPTCHAIN_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"PROMPTCHAIN_MAX_TOKENS" envDefault:"0"`
	Timeout     time.Duration `env:"PROMPTCHAIN_TIMEOUT" envDefault:"60s"`
	MaxRetries  int           `env:"PROMPTCHAIN_MAX_RETRIES" envDefault:"2"`

	// Endpoint overrides
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	OllamaHost       string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`

	// Extra template directory searched before the defaults
	TemplateDir string `env:"PROMPTCHAIN_TEMPLATE_DIR"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// APIKey is filled by Resolve, never from the environment directly
	APIKey string

	// TemperatureSet records that the user chose Temperature explicitly, so it
	// takes precedence over temperatures pinned by templates
	TemperatureSet bool
}

const temperatureKey = "PROMPTCHAIN_TEMPERATURE"

// secretNames maps providers to the secret they require.
var secretNames = map[string]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	opts := env.Options{
		OnSet: func(tag string, _ interface{}, isDefault bool) {
			if tag == temperatureKey && !isDefault {
				cfg.TemperatureSet = true
			}
		},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Model == "" {
		c.Model = llm.DefaultModel(c.Provider)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if llm.DefaultModel(c.Provider) == "" {
		return &ConfigurationError{
			Key:    "PROMPTCHAIN_PROVIDER",
			Reason: fmt.Sprintf("must be one of: %s", strings.Join(llm.Providers(), ", ")),
		}
	}

	if c.Model == "" {
		return &ConfigurationError{Key: "PROMPTCHAIN_MODEL", Reason: "is required"}
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return &ConfigurationError{Key: temperatureKey, Reason: "must be between 0 and 1"}
	}

	if c.MaxTokens < 0 {
		return &ConfigurationError{Key: "PROMPTCHAIN_MAX_TOKENS", Reason: "must be non-negative"}
	}

	if c.Timeout < 0 {
		return &ConfigurationError{Key: "PROMPTCHAIN_TIMEOUT", Reason: "must be non-negative"}
	}

	if c.MaxRetries < 0 {
		return &ConfigurationError{Key: "PROMPTCHAIN_MAX_RETRIES", Reason: "must be non-negative"}
	}

	if !isValidLogLevel(c.LogLevel) {
		return &ConfigurationError{Key: "LOG_LEVEL", Reason: "must be one of: debug, info, warn, error"}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// SetProvider switches provider, resetting the model to the new provider's
// default unless model is given.
func (c *Config) SetProvider(provider, model string) {
	c.Provider = strings.ToLower(strings.TrimSpace(provider))
	c.Model = model
	c.normalize()
}

// SecretName returns the secret the configured provider requires, or "" if none.
func (c *Config) SecretName() string {
	return secretNames[c.Provider]
}

// Resolve loads the provider's API key from secrets. It must succeed before
// any backend is constructed.
func (c *Config) Resolve(secrets Secrets) error {
	name := c.SecretName()
	if name == "" {
		return nil
	}
	key, err := RequireSecret(secrets, name)
	if err != nil {
		return err
	}
	c.APIKey = key
	return nil
}

// SetTemperature sets an explicit temperature that overrides template defaults.
func (c *Config) SetTemperature(t float64) {
	c.Temperature = t
	c.TemperatureSet = true
}

// Overlay re-applies explicit user settings to options derived from a
// template, which may have replaced them with its own defaults.
func (c *Config) Overlay(opts llm.Options) llm.Options {
	if c.TemperatureSet {
		opts.Temperature = c.Temperature
	}
	return opts
}

// Options returns the default invocation options.
func (c *Config) Options() llm.Options {
	return llm.Options{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
	}
}

// BackendConfig returns the settings for llm.New.
func (c *Config) BackendConfig() llm.BackendConfig {
	cfg := llm.BackendConfig{
		Provider:   c.Provider,
		APIKey:     c.APIKey,
		MaxRetries: c.MaxRetries,
	}
	switch c.Provider {
	case llm.ProviderOpenAI:
		cfg.BaseURL = c.OpenAIBaseURL
	case llm.ProviderAnthropic:
		cfg.BaseURL = c.AnthropicBaseURL
	case llm.ProviderOllama:
		cfg.BaseURL = withScheme(c.OllamaHost)
	}
	return cfg
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Provider=%s, Model=%s, Temperature=%.2f, MaxTokens=%d, Timeout=%s, MaxRetries=%d, TemplateDir=%s, LogLevel=%s}",
		c.Provider,
		c.Model,
		c.Temperature,
		c.MaxTokens,
		c.Timeout,
		c.MaxRetries,
		c.TemplateDir,
		c.LogLevel,
	)
}

// withScheme accepts OLLAMA_HOST values such as "127.0.0.1:11434".
func withScheme(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}
