package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{Model: "test-model", Temperature: 0.7}
}

func TestInvoke_PassThrough(t *testing.T) {
	mock := NewMock("  raw response, untouched\n")

	text, err := Invoke(context.Background(), mock, "Explain APIs.", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "  raw response, untouched\n", text)
	assert.Equal(t, "Explain APIs.", mock.LastPrompt())
	assert.Equal(t, testOptions(), mock.LastOptions())
	assert.Equal(t, 1, mock.Calls())
}

func TestInvoke_ForwardsTimeoutAndMaxTokens(t *testing.T) {
	mock := NewMock("ok")
	opts := Options{Model: "m", Temperature: 0, MaxTokens: 256, Timeout: 3 * time.Second}

	_, err := Invoke(context.Background(), mock, "p", opts)
	require.NoError(t, err)
	assert.Equal(t, opts, mock.LastOptions())
}

func TestInvoke_BackendFailure(t *testing.T) {
	cause := errors.New("API rate limit exceeded")
	mock := NewMockWithError(cause)

	text, err := Invoke(context.Background(), mock, "prompt", testOptions())
	require.Error(t, err)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrBackendInvocation)
	assert.ErrorIs(t, err, cause)

	var invErr *BackendInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "mock", invErr.Provider)
	assert.Equal(t, "test-model", invErr.Model)
	assert.Contains(t, err.Error(), "API rate limit exceeded")
}

func TestInvoke_NoRetry(t *testing.T) {
	mock := NewMockWithError(errors.New("transient"))

	_, err := Invoke(context.Background(), mock, "prompt", testOptions())
	require.Error(t, err)
	assert.Equal(t, 1, mock.Calls())
}

func TestInvoke_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Invoke(ctx, NewMock("ok"), "prompt", testOptions())
	assert.ErrorIs(t, err, ErrBackendInvocation)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvoke_NilBackend(t *testing.T) {
	_, err := Invoke(context.Background(), nil, "prompt", testOptions())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInvoke_InvalidOptionsSkipBackend(t *testing.T) {
	mock := NewMock("ok")

	_, err := Invoke(context.Background(), mock, "prompt", Options{Model: "m", Temperature: 1.5})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, 0, mock.Calls())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "valid", opts: Options{Model: "m", Temperature: 0.5}},
		{name: "zero temperature", opts: Options{Model: "m", Temperature: 0}},
		{name: "max temperature", opts: Options{Model: "m", Temperature: 1}},
		{name: "missing model", opts: Options{Temperature: 0.5}, wantErr: true},
		{name: "negative temperature", opts: Options{Model: "m", Temperature: -0.1}, wantErr: true},
		{name: "temperature above one", opts: Options{Model: "m", Temperature: 1.01}, wantErr: true},
		{name: "negative max tokens", opts: Options{Model: "m", MaxTokens: -1}, wantErr: true},
		{name: "negative timeout", opts: Options{Model: "m", Timeout: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptions_WithTemperature(t *testing.T) {
	base := testOptions()
	hot := base.WithTemperature(0.9)

	assert.InDelta(t, 0.9, hot.Temperature, 1e-9)
	assert.InDelta(t, 0.7, base.Temperature, 1e-9)
	assert.Equal(t, base.Model, hot.Model)
}

func TestMock_DefaultResponse(t *testing.T) {
	mock := &Mock{}

	text, err := mock.Submit(context.Background(), "First line\nsecond line", Options{Model: "m", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "[m t=0.3] First line", text)
}

func TestMock_Respond(t *testing.T) {
	mock := &Mock{Respond: func(prompt string) (string, error) {
		if prompt == "fail" {
			return "", errors.New("boom")
		}
		return "echo: " + prompt, nil
	}}

	text, err := mock.Submit(context.Background(), "hi", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", text)

	_, err = mock.Submit(context.Background(), "fail", testOptions())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2, mock.Calls())
}

func TestMock_ConcurrentUse(t *testing.T) {
	mock := NewMock("ok")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Invoke(context.Background(), mock, "prompt", testOptions())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, mock.Calls())
	assert.Equal(t, "prompt", mock.LastPrompt())
}
