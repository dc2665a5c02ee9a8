package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/promptchain/internal/llm"
)

var configKeys = []string{
	"PROMPTCHAIN_PROVIDER", "PROMPTCHAIN_MODEL", "PROMPTCHAIN_TEMPERATURE",
	"PROMPTCHAIN_MAX_TOKENS", "PROMPTCHAIN_TIMEOUT", "PROMPTCHAIN_MAX_RETRIES",
	"PROMPTCHAIN_TEMPLATE_DIR", "OPENAI_BASE_URL", "ANTHROPIC_BASE_URL",
	"OLLAMA_HOST", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.TemperatureSet)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROMPTCHAIN_PROVIDER", "Anthropic")
	t.Setenv("PROMPTCHAIN_TEMPERATURE", "0.3")
	t.Setenv("PROMPTCHAIN_MAX_TOKENS", "512")
	t.Setenv("PROMPTCHAIN_TIMEOUT", "15s")
	t.Setenv("ANTHROPIC_BASE_URL", "http://proxy.local")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.TemperatureSet)
	assert.Equal(t, llm.Options{Model: "claude-3-5-haiku-latest", Temperature: 0.3, MaxTokens: 512, Timeout: 15 * time.Second}, cfg.Options())
	assert.Equal(t, "http://proxy.local", cfg.BackendConfig().BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "PROMPTCHAIN_PROVIDER", value: "gemini"},
		{key: "PROMPTCHAIN_TEMPERATURE", value: "1.2"},
		{key: "PROMPTCHAIN_TEMPERATURE", value: "-0.5"},
		{key: "PROMPTCHAIN_MAX_TOKENS", value: "-1"},
		{key: "PROMPTCHAIN_MAX_RETRIES", value: "-3"},
		{key: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROMPTCHAIN_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestResolve(t *testing.T) {
	cfg := &Config{Provider: llm.ProviderOpenAI}

	err := cfg.Resolve(MapSecrets{})
	require.ErrorIs(t, err, ErrConfiguration)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "OPENAI_API_KEY", cfgErr.Key)

	err = cfg.Resolve(MapSecrets{"OPENAI_API_KEY": "   "})
	assert.ErrorIs(t, err, ErrConfiguration)

	require.NoError(t, cfg.Resolve(MapSecrets{"OPENAI_API_KEY": " sk-123 "}))
	assert.Equal(t, "sk-123", cfg.APIKey)
	assert.Equal(t, "sk-123", cfg.BackendConfig().APIKey)
}

func TestResolve_OllamaNeedsNoSecret(t *testing.T) {
	cfg := &Config{Provider: llm.ProviderOllama}
	assert.NoError(t, cfg.Resolve(MapSecrets{}))
	assert.Empty(t, cfg.SecretName())
}

func TestResolve_EnvSecrets(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "ak-env")
	cfg := &Config{Provider: llm.ProviderAnthropic}

	require.NoError(t, cfg.Resolve(EnvSecrets{}))
	assert.Equal(t, "ak-env", cfg.APIKey)
}

func TestRequireSecret_NilSource(t *testing.T) {
	_, err := RequireSecret(nil, "OPENAI_API_KEY")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSetProvider(t *testing.T) {
	cfg := &Config{Provider: "openai", Model: "gpt-3.5-turbo"}

	cfg.SetProvider("ollama", "")
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "llama3.1:8b", cfg.Model)

	cfg.SetProvider("OpenAI", "gpt-4o")
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestBackendConfig_OllamaHostScheme(t *testing.T) {
	cfg := &Config{Provider: llm.ProviderOllama, OllamaHost: "127.0.0.1:11434", MaxRetries: 1}
	bc := cfg.BackendConfig()
	assert.Equal(t, "http://127.0.0.1:11434", bc.BaseURL)
	assert.Equal(t, 1, bc.MaxRetries)

	cfg.OllamaHost = "https://ollama.example.com"
	assert.Equal(t, "https://ollama.example.com", cfg.BackendConfig().BaseURL)
}

func TestString_OmitsSecrets(t *testing.T) {
	cfg := &Config{Provider: "openai", Model: "gpt-3.5-turbo", APIKey: "sk-secret", LogLevel: "warn"}
	s := cfg.String()
	assert.Contains(t, s, "Provider=openai")
	assert.NotContains(t, s, "sk-secret")
}

func TestOverlay_ExplicitTemperatureWins(t *testing.T) {
	fromTemplate := llm.Options{Model: "gpt-4o", Temperature: 0.9}

	cfg := &Config{Temperature: 0.7}
	assert.Equal(t, fromTemplate, cfg.Overlay(fromTemplate))

	cfg.SetTemperature(0.1)
	assert.True(t, cfg.TemperatureSet)
	assert.Equal(t, llm.Options{Model: "gpt-4o", Temperature: 0.1}, cfg.Overlay(fromTemplate))
}
