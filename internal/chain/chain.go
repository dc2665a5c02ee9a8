// Package chain binds a prompt template to a model backend and its options.
// A Chain renders the template with caller-supplied values and passes the
// result to the backend unchanged; it holds no conversation state.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yates-Labs/promptchain/internal/llm"
	"github.com/Yates-Labs/promptchain/internal/prompt"
)

var (
	ErrInvalidChain       = errors.New("invalid chain")
	ErrNotSingleParameter = errors.New("template does not take exactly one parameter")
)

// Result is the outcome of one chain run.
type Result struct {
	ID string `json:"id" yaml:"id"`

	// Template is the name of the chain that produced this result
	Template string `json:"template" yaml:"template"`

	Provider    string  `json:"provider" yaml:"provider"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Inputs are the values the template was rendered with
	Inputs map[string]string `json:"inputs" yaml:"inputs"`

	// Prompt is the rendered prompt sent to the backend
	Prompt string `json:"prompt" yaml:"prompt"`

	// Text is the backend response, verbatim
	Text string `json:"text" yaml:"text"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Chain renders a template and invokes a backend with fixed options.
type Chain struct {
	name    string
	tmpl    *prompt.Template
	backend llm.Backend
	opts    llm.Options
	logger  *zap.Logger
}

// New creates a chain. The options are validated up front so a misconfigured
// chain fails before its first run.
func New(name string, tmpl *prompt.Template, backend llm.Backend, opts llm.Options, logger *zap.Logger) (*Chain, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template is required", ErrInvalidChain)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidChain)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChain, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chain{
		name:    name,
		tmpl:    tmpl,
		backend: backend,
		opts:    opts,
		logger:  logger.With(zap.String("chain", name)),
	}, nil
}

// Name returns the chain name.
func (c *Chain) Name() string { return c.name }

// Template returns the chain's template.
func (c *Chain) Template() *prompt.Template { return c.tmpl }

// Options returns the options forwarded to the backend.
func (c *Chain) Options() llm.Options { return c.opts }

// Run renders the template with values and invokes the backend. Render
// errors are returned before the backend is contacted.
func (c *Chain) Run(ctx context.Context, values map[string]string) (*Result, error) {
	rendered, err := c.tmpl.Render(values)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", c.name, err)
	}

	c.logger.Debug("invoking backend",
		zap.String("provider", c.backend.Provider()),
		zap.String("model", c.opts.Model),
		zap.Float64("temperature", c.opts.Temperature),
	)

	start := time.Now()
	text, err := llm.Invoke(ctx, c.backend, rendered, c.opts)
	if err != nil {
		c.logger.Warn("backend invocation failed", zap.Error(err))
		return nil, err
	}

	c.logger.Info("chain completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(text)),
	)

	inputs := make(map[string]string, len(values))
	for k, v := range values {
		inputs[k] = v
	}

	return &Result{
		ID:          uuid.NewString(),
		Template:    c.name,
		Provider:    c.backend.Provider(),
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		Inputs:      inputs,
		Prompt:      rendered,
		Text:        text,
		GeneratedAt: time.Now(),
	}, nil
}

// RunText binds input to the template's only parameter and runs the chain.
func (c *Chain) RunText(ctx context.Context, input string) (*Result, error) {
	params := c.tmpl.Parameters()
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: %s declares %d", ErrNotSingleParameter, c.name, len(params))
	}
	return c.Run(ctx, map[string]string{params[0]: input})
}
