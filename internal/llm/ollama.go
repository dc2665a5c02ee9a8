package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama implements Backend against a local or remote Ollama server.
type Ollama struct {
	client     *api.Client
	maxRetries int
	logger     *zap.Logger
}

// NewOllama creates an Ollama-backed Backend. An API key, when set, is sent
// as a bearer token for servers behind an authenticating proxy.
func NewOllama(cfg BackendConfig) (*Ollama, error) {
	rawURL := lo.If(cfg.BaseURL != "", cfg.BaseURL).Else(defaultOllamaURL)
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ollama url %q: %w", ErrInvalidConfig, rawURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.APIKey != "" {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client := *httpClient
		client.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
			return base.RoundTrip(req)
		})
		httpClient = &client
	}

	return &Ollama{
		client:     api.NewClient(baseURL, httpClient),
		maxRetries: cfg.MaxRetries,
		logger:     loggerOrNop(cfg.Logger),
	}, nil
}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func (o *Ollama) Provider() string { return ProviderOllama }

// Submit runs a non-streaming generate request. Transport failures, 429 and
// 5xx responses are retried up to maxRetries times unless the context is done.
func (o *Ollama) Submit(ctx context.Context, prompt string, opts Options) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidOptions)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	modelOpts := map[string]interface{}{
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		modelOpts["num_predict"] = opts.MaxTokens
	}

	req := &api.GenerateRequest{
		Model:   opts.Model,
		Prompt:  prompt,
		Stream:  lo.ToPtr(false),
		Options: modelOpts,
	}

	o.logger.Debug("submitting prompt",
		zap.String("provider", ProviderOllama),
		zap.String("model", opts.Model),
		zap.Int("prompt_bytes", len(prompt)),
	)

	var err error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		var out strings.Builder
		err = o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
			out.WriteString(resp.Response)
			return nil
		})
		if err == nil {
			return out.String(), nil
		}
		if ctx.Err() != nil || !retryable(err) {
			break
		}
		o.logger.Debug("ollama attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", err
}

// retryable reports whether a failed generate call may succeed if repeated.
// Other 4xx responses, such as an unknown model, are permanent.
func retryable(err error) bool {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
