package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// anthropicMaxTokens is used when Options.MaxTokens is zero; the messages API requires a limit.
const anthropicMaxTokens = 1024

// Anthropic implements Backend using the Anthropic messages API.
type Anthropic struct {
	client anthropic.Client
	logger *zap.Logger
}

// NewAnthropic creates an Anthropic-backed Backend.
func NewAnthropic(cfg BackendConfig) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing Anthropic API key", ErrInvalidConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Anthropic{
		client: anthropic.NewClient(opts...),
		logger: loggerOrNop(cfg.Logger),
	}, nil
}

func (a *Anthropic) Provider() string { return ProviderAnthropic }

// Submit sends the prompt as a single user turn and joins the text blocks of the reply.
func (a *Anthropic) Submit(ctx context.Context, prompt string, opts Options) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidOptions)
	}

	maxTokens := int64(anthropicMaxTokens)
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}

	var reqOpts []option.RequestOption
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	a.logger.Debug("submitting prompt",
		zap.String("provider", ProviderAnthropic),
		zap.String("model", opts.Model),
		zap.Int("prompt_bytes", len(prompt)),
	)

	msg, err := a.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content in response")
	}

	return b.String(), nil
}
