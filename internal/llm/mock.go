package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mock is a deterministic Backend for tests and offline runs.
type Mock struct {
	// Response is the fixed text returned by Submit.
	// If empty, a response is derived from the prompt.
	Response string

	// Err, if set, is returned by Submit instead of a response.
	Err error

	// Respond, if set, overrides Response and Err.
	Respond func(prompt string) (string, error)

	mu          sync.Mutex
	calls       int
	lastPrompt  string
	lastOptions Options
}

// NewMock creates a mock backend with the given fixed response.
func NewMock(response string) *Mock {
	return &Mock{Response: response}
}

// NewMockWithError creates a mock backend that always fails with err.
func NewMockWithError(err error) *Mock {
	return &Mock{Err: err}
}

func (m *Mock) Provider() string { return "mock" }

// Submit records the call and returns the configured response.
func (m *Mock) Submit(ctx context.Context, prompt string, opts Options) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	m.lastOptions = opts
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Respond != nil {
		return m.Respond(prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return mockResponse(prompt, opts), nil
}

// Calls reports how many times Submit has been called.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt passed to Submit.
func (m *Mock) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// LastOptions returns the options of the most recent Submit call.
func (m *Mock) LastOptions() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOptions
}

// mockResponse echoes the first line of the prompt so output stays predictable.
func mockResponse(prompt string, opts Options) string {
	first, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	return fmt.Sprintf("[%s t=%.1f] %s", opts.Model, opts.Temperature, first)
}
