package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Yates-Labs/promptchain/internal/catalog"
	"github.com/Yates-Labs/promptchain/internal/chain"
	"github.com/Yates-Labs/promptchain/internal/console"
)

const haikuTemplate = `name: haiku
description: Haiku about a subject
template: "Write a haiku about {subject}."
parameters: [subject]
temperature: 0.8
`

// resetFlags restores every flag to its default so each command execution
// starts from a clean slate.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeTemplateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "haiku.yaml"), []byte(haikuTemplate), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}
	return dir
}

func TestParseVars(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]string
		wantErr bool
	}{
		{"single var", []string{"topic=go"}, map[string]string{"topic": "go"}, false},
		{"multiple vars", []string{"k1=v1", "k2=v2"}, map[string]string{"k1": "v1", "k2": "v2"}, false},
		{"value with equals and commas", []string{"text=a=b, c"}, map[string]string{"text": "a=b, c"}, false},
		{"empty value", []string{"key="}, map[string]string{"key": ""}, false},
		{"missing equals", []string{"invalid"}, nil, true},
		{"empty key", []string{"=value"}, nil, true},
		{"duplicate key", []string{"k=1", "k=2"}, nil, true},
		{"empty input", nil, map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVars(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVars() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseVars() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseVars()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestShowTemplate(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	entry, err := cat.Get("story")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var buf bytes.Buffer
	showTemplate(&buf, console.PlainTheme(), entry)
	got := buf.String()

	for _, want := range []string{
		"story\n",
		"Parameters:  genre, subject\n",
		"Temperature: 0.9\n",
		"Source:      builtin\n",
		"{subject} in the genre of {genre}.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestOutputTable(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	var buf bytes.Buffer
	outputTable(&buf, cat.Entries())
	got := buf.String()

	for _, want := range []string{"NAME", "translate", "source_language, target_language, text", "5 templates"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, got)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for missing explicit env file")
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PROMPTCHAIN_TEST_VALUE=from-file\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("PROMPTCHAIN_TEST_VALUE") })

	if err := loadEnv(path); err != nil {
		t.Fatalf("loadEnv failed: %v", err)
	}
	if got := os.Getenv("PROMPTCHAIN_TEST_VALUE"); got != "from-file" {
		t.Errorf("Expected from-file, got %q", got)
	}

	// The default .env is optional.
	if err := loadEnv(""); err != nil {
		t.Errorf("Expected missing .env to be ignored, got %v", err)
	}
}

func TestTemplatesShowCommand(t *testing.T) {
	dir := writeTemplateDir(t)

	out, err := executeCommand(t, "templates", "show", "haiku", "--template-dir", dir)
	if err != nil {
		t.Fatalf("templates show failed: %v", err)
	}
	if !strings.Contains(out, "Write a haiku about {subject}.") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestAskDryRunCommand(t *testing.T) {
	dir := writeTemplateDir(t)
	t.Setenv("OPENAI_API_KEY", "")

	out, err := executeCommand(t, "ask", "haiku", "--var", "subject=autumn", "--dry-run", "--template-dir", dir)
	if err != nil {
		t.Fatalf("ask --dry-run failed: %v", err)
	}
	if out != "Write a haiku about autumn.\n" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestDemoCommand_UnknownName(t *testing.T) {
	_, err := executeCommand(t, "demo", "poetry")
	if err == nil {
		t.Fatal("Expected error for unknown demo")
	}
	if !strings.Contains(err.Error(), "available: simple, creative, structured, translation") {
		t.Errorf("Unexpected error: %v", err)
	}
}

const chatCompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [
    {
      "index": 0,
      "message": {"role": "assistant", "content": "Once upon a time."},
      "finish_reason": "stop",
      "logprobs": null
    }
  ],
  "usage": {"prompt_tokens": 5, "completion_tokens": 4, "total_tokens": 9}
}`

// openAIServer returns the URL of a fake chat completions endpoint and a
// function reporting the temperature of the last request.
func openAIServer(t *testing.T) (string, func() float64) {
	t.Helper()
	var (
		mu          sync.Mutex
		temperature float64
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Temperature float64 `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		mu.Lock()
		temperature = body.Temperature
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion))
	}))
	t.Cleanup(srv.Close)
	return srv.URL, func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return temperature
	}
}

func TestAskCommand_TemperaturePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		envTemp string
		args    []string
		want    float64
	}{
		{name: "template default", want: 0.9},
		{name: "environment overrides template", envTemp: "0.2", want: 0.2},
		{name: "flag overrides template", args: []string{"--temperature", "0.1"}, want: 0.1},
		{name: "flag overrides environment", envTemp: "0.2", args: []string{"--temperature", "0.1"}, want: 0.1},
		{name: "explicit zero is kept", args: []string{"--temperature", "0"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, lastTemperature := openAIServer(t)
			t.Setenv("PROMPTCHAIN_PROVIDER", "openai")
			t.Setenv("PROMPTCHAIN_MODEL", "")
			t.Setenv("PROMPTCHAIN_TEMPERATURE", tt.envTemp)
			t.Setenv("PROMPTCHAIN_MAX_RETRIES", "0")
			t.Setenv("OPENAI_API_KEY", "sk-test")
			t.Setenv("OPENAI_BASE_URL", url)

			args := append([]string{"ask", "story", "--var", "subject=a robot", "--var", "genre=fable"}, tt.args...)
			out, err := executeCommand(t, args...)
			if err != nil {
				t.Fatalf("ask failed: %v", err)
			}
			if !strings.Contains(out, "Once upon a time.") {
				t.Errorf("Unexpected output:\n%s", out)
			}
			if got := lastTemperature(); got != tt.want {
				t.Errorf("Backend received temperature %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckOutputFlags(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		dryRun  bool
		verbose bool
		wantErr bool
	}{
		{"text with dry run", "text", true, false, false},
		{"text with verbose", "text", false, true, false},
		{"json alone", "json", false, false, false},
		{"json with dry run", "json", true, false, true},
		{"yaml with verbose", "yaml", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := chain.ParseFormat(tt.format)
			if err != nil {
				t.Fatalf("ParseFormat failed: %v", err)
			}
			err = checkOutputFlags(format, tt.dryRun, tt.verbose)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkOutputFlags() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestAskCommand_RejectsIgnoredFlags(t *testing.T) {
	_, err := executeCommand(t, "ask", "explain", "--var", "topic=x", "--dry-run", "--output", "json")
	if err == nil || !strings.Contains(err.Error(), "--dry-run") {
		t.Errorf("Expected --dry-run/--output conflict, got %v", err)
	}
}
