package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/promptchain/internal/chain"
)

var (
	askVars   []string
	outputFmt string
	dryRun    bool
	verbose   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [template]",
	Short: "Render a template and send it to the model",
	Long: `Render a catalog template with the given values and print the model's response.

Every parameter the template declares must be supplied with --var, and no
others. Use "promptchain templates list" to see templates and parameters.

Examples:
  promptchain ask explain --var topic="quantum computing"
  promptchain ask story --var subject="a lighthouse keeper" --var genre=mystery
  promptchain ask translate --var source_language=English --var target_language=French --var text="Good morning" --output json
  promptchain ask analyze --var concept=REST --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringArrayVar(&askVars, "var", nil, "Template value as key=value (repeatable)")
	askCmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or yaml (json and yaml include the prompt)")
	askCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the rendered prompt without calling the model (text output only)")
	askCmd.Flags().BoolVar(&verbose, "verbose", false, "Show the rendered prompt before the answer (text output only)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := chain.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	if err := checkOutputFlags(format, dryRun, verbose); err != nil {
		return err
	}
	values, err := parseVars(askVars)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, !dryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if dryRun {
		entry, err := a.catalog.Get(args[0])
		if err != nil {
			return err
		}
		rendered, err := entry.Prompt.Render(values)
		if err != nil {
			return fmt.Errorf("render %s: %w", entry.Name, err)
		}
		fmt.Fprintln(out, rendered)
		return nil
	}

	c, err := a.chainFor(args[0])
	if err != nil {
		return err
	}

	result, err := c.Run(cmd.Context(), values)
	if err != nil {
		return err
	}

	if format != chain.FormatText {
		return chain.WriteResults([]chain.Result{*result}, string(format), out)
	}

	if verbose {
		fmt.Fprintln(out, a.theme.Muted.Render(fmt.Sprintf("→ %s (%s)", result.Template, strings.Join(result.SortedInputs(), ", "))))
		fmt.Fprintln(out)
		fmt.Fprintln(out, a.theme.Header.Render("Prompt:"))
		fmt.Fprintln(out, a.theme.Question.Render(result.Prompt))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, a.theme.Header.Render("Answer:"))
	a.theme.PrintAnswer(out, result.Text)
	return nil
}

// checkOutputFlags rejects combinations where a flag would be silently ignored:
// a dry run prints only the rendered prompt, and structured output already
// carries the prompt.
func checkOutputFlags(format chain.ExportFormat, dryRun, verbose bool) error {
	if format == chain.FormatText {
		return nil
	}
	if dryRun {
		return fmt.Errorf("--dry-run prints the rendered prompt as text; it cannot be combined with --output %s", format)
	}
	if verbose {
		return fmt.Errorf("--verbose only applies to text output; --output %s already includes the prompt", format)
	}
	return nil
}

// parseVars converts key=value pairs into template values. Values may
// contain "=" and commas; a repeated key is an error.
func parseVars(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", pair)
		}
		if _, dup := values[key]; dup {
			return nil, fmt.Errorf("invalid --var %q: %s given more than once", pair, key)
		}
		values[key] = value
	}
	return values, nil
}
