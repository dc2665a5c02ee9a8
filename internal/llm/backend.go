// Package llm defines the model backend capability used to execute rendered
// prompts. It provides a provider-agnostic Backend interface with concrete
// implementations for OpenAI, Anthropic and Ollama, plus a deterministic mock
// for testing. Invoke is a pure pass-through: it performs no retry, caching or
// response validation of its own.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrBackendInvocation = errors.New("model backend invocation failed")
	ErrInvalidOptions    = errors.New("invalid invocation options")
	ErrInvalidConfig     = errors.New("invalid backend configuration")
)

// Backend submits a finished prompt to a language model.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Provider names the backend (e.g. "openai").
	Provider() string

	// Submit sends the prompt and returns the model's text response.
	Submit(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options are forwarded unchanged to the backend on every invocation.
type Options struct {
	// Model selects the backend model variant (e.g. "gpt-3.5-turbo")
	Model string `json:"model" yaml:"model"`

	// Temperature controls randomness (0.0 = most deterministic, 1.0 = most varied)
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Timeout bounds a single request; enforced by the backend, 0 = no timeout
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Validate checks the options before they reach a backend.
func (o Options) Validate() error {
	if o.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidOptions)
	}
	if o.Temperature < 0 || o.Temperature > 1 {
		return fmt.Errorf("%w: temperature %.2f outside [0, 1]", ErrInvalidOptions, o.Temperature)
	}
	if o.MaxTokens < 0 {
		return fmt.Errorf("%w: max tokens must be non-negative", ErrInvalidOptions)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative", ErrInvalidOptions)
	}
	return nil
}

// WithTemperature returns a copy of o using the given temperature.
func (o Options) WithTemperature(t float64) Options {
	o.Temperature = t
	return o
}

// BackendInvocationError wraps a failure surfaced by a backend. It matches
// both ErrBackendInvocation and the backend's original error.
type BackendInvocationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *BackendInvocationError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", ErrBackendInvocation, e.Provider, e.Model, e.Err)
}

func (e *BackendInvocationError) Unwrap() []error {
	return []error{ErrBackendInvocation, e.Err}
}

// Invoke forwards a rendered prompt to backend and returns its response
// verbatim. Backend failures are returned as *BackendInvocationError with an
// empty result.
func Invoke(ctx context.Context, backend Backend, prompt string, opts Options) (string, error) {
	if backend == nil {
		return "", fmt.Errorf("%w: backend is required", ErrInvalidConfig)
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	text, err := backend.Submit(ctx, prompt, opts)
	if err != nil {
		return "", &BackendInvocationError{
			Provider: backend.Provider(),
			Model:    opts.Model,
			Err:      err,
		}
	}
	return text, nil
}
