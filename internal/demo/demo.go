// Package demo runs the tutorial demonstrations: each demo renders one
// catalog template with fixed inputs and prints the model's responses.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Yates-Labs/promptchain/internal/catalog"
	"github.com/Yates-Labs/promptchain/internal/chain"
	"github.com/Yates-Labs/promptchain/internal/console"
	"github.com/Yates-Labs/promptchain/internal/llm"
)

var ErrUnknownDemo = errors.New("unknown demo")

// Run is one execution of a demo's template.
type Run struct {
	// Caption is printed before the response
	Caption string
	Inputs  map[string]string
}

// Demo is a titled sequence of runs against a single catalog template.
type Demo struct {
	Name     string
	Title    string
	Template string
	Runs     []Run
}

// Builtin returns the four tutorial demonstrations in presentation order.
func Builtin() []Demo {
	topics := []string{"machine learning", "neural networks", "natural language processing"}
	simpleRuns := make([]Run, len(topics))
	for i, topic := range topics {
		simpleRuns[i] = Run{
			Caption: "📚 Topic: " + topic,
			Inputs:  map[string]string{"topic": topic},
		}
	}

	return []Demo{
		{
			Name:     "simple",
			Title:    "Simple Explanation Chain",
			Template: "explain",
			Runs:     simpleRuns,
		},
		{
			Name:     "creative",
			Title:    "Creative Writing Chain",
			Template: "story",
			Runs: []Run{{
				Caption: "✍️ Generating creative story...",
				Inputs:  map[string]string{"subject": "a robot learning to paint", "genre": "science fiction"},
			}},
		},
		{
			Name:     "structured",
			Title:    "Structured Output Chain",
			Template: "analyze",
			Runs: []Run{{
				Caption: "🔍 Analyzing concept: 'API (Application Programming Interface)'",
				Inputs:  map[string]string{"concept": "API (Application Programming Interface)"},
			}},
		},
		{
			Name:     "translation",
			Title:    "Translation Chain",
			Template: "translate",
			Runs: []Run{{
				Caption: "🌐 Translating text...",
				Inputs: map[string]string{
					"source_language": "English",
					"target_language": "Spanish",
					"text":            "Artificial intelligence is transforming how we interact with technology.",
				},
			}},
		},
	}
}

// Lookup returns the built-in demos with the given names, in the order
// requested. No names selects all of them.
func Lookup(names ...string) ([]Demo, error) {
	all := Builtin()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Demo, len(all))
	for _, d := range all {
		byName[d.Name] = d
	}

	out := make([]Demo, 0, len(names))
	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
		}
		out = append(out, d)
	}
	return out, nil
}

// Runner executes demos against a backend and prints a transcript.
type Runner struct {
	catalog *catalog.Catalog
	backend llm.Backend
	base    llm.Options
	out     io.Writer
	theme   console.Theme
	logger  *zap.Logger

	// pinned, when set, replaces every template's temperature
	pinned *float64
}

// NewRunner creates a demo runner. base supplies the model and limits; each
// template's own temperature takes precedence over base.Temperature.
func NewRunner(cat *catalog.Catalog, backend llm.Backend, base llm.Options, out io.Writer, theme console.Theme, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		catalog: cat,
		backend: backend,
		base:    base,
		out:     out,
		theme:   theme,
		logger:  logger,
	}
}

// PinTemperature makes every demo run at t instead of its template's temperature.
func (r *Runner) PinTemperature(t float64) {
	r.pinned = &t
}

// Run executes demos in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, demos ...Demo) ([]chain.Result, error) {
	var results []chain.Result

	for i, d := range demos {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		entry, err := r.catalog.Get(d.Template)
		if err != nil {
			return results, fmt.Errorf("demo %s: %w", d.Name, err)
		}

		opts := entry.Options(r.base)
		if r.pinned != nil {
			opts.Temperature = *r.pinned
		}

		c, err := chain.New(entry.Name, entry.Prompt, r.backend, opts, r.logger)
		if err != nil {
			return results, fmt.Errorf("demo %s: %w", d.Name, err)
		}

		r.theme.Section(r.out, fmt.Sprintf("DEMO %d: %s", i+1, d.Title))
		r.logger.Info("running demo", zap.String("demo", d.Name), zap.Int("runs", len(d.Runs)))

		for _, run := range d.Runs {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, r.theme.Question.Render(run.Caption))
			r.theme.Rule(r.out)

			result, err := c.Run(ctx, run.Inputs)
			if err != nil {
				return results, fmt.Errorf("demo %s: %w", d.Name, err)
			}
			r.theme.PrintAnswer(r.out, result.Text)
			results = append(results, *result)
		}
	}

	return results, nil
}
