package llm

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderOllama:    "llama3.1:8b",
}

// BackendConfig holds connection settings shared by the HTTP backends.
type BackendConfig struct {
	// Provider selects the implementation: "openai", "anthropic" or "ollama"
	Provider string

	// APIKey authenticates against the provider (unused by Ollama)
	APIKey string

	// BaseURL overrides the provider endpoint; empty means the provider default
	BaseURL string

	// MaxRetries is the number of retries the provider SDK performs on transient errors
	MaxRetries int

	// HTTPClient overrides the transport; nil means the SDK default
	HTTPClient *http.Client

	Logger *zap.Logger
}

// New constructs the backend named by cfg.Provider.
func New(cfg BackendConfig) (Backend, error) {
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries must be non-negative", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (supported: %s)",
			ErrInvalidConfig, cfg.Provider, strings.Join(Providers(), ", "))
	}
}

// Providers lists the supported provider names.
func Providers() []string {
	names := lo.Keys(defaultModels)
	sort.Strings(names)
	return names
}

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
