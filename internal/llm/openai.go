package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// OpenAI implements Backend using OpenAI's chat completions API.
type OpenAI struct {
	client openai.Client
	logger *zap.Logger
}

// NewOpenAI creates an OpenAI-backed Backend.
// Returns an error if the API key is missing.
func NewOpenAI(cfg BackendConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", ErrInvalidConfig)
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

	return &OpenAI{
		client: openai.NewClient(opts...),
		logger: loggerOrNop(cfg.Logger),
	}, nil
}

func (o *OpenAI) Provider() string { return ProviderOpenAI }

// Submit sends the prompt as a single user message and returns the first choice.
func (o *OpenAI) Submit(ctx context.Context, prompt string, opts Options) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidOptions)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	var reqOpts []option.RequestOption
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	o.logger.Debug("submitting prompt",
		zap.String("provider", ProviderOpenAI),
		zap.String("model", opts.Model),
		zap.Int("prompt_bytes", len(prompt)),
	)

	completion, err := o.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: no response generated")
	}

	return completion.Choices[0].Message.Content, nil
}
