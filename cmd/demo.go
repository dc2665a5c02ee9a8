package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/promptchain/internal/chain"
	"github.com/Yates-Labs/promptchain/internal/demo"
)

var exportFile string

var demoCmd = &cobra.Command{
	Use:   "demo [name...]",
	Short: "Run demonstration chains",
	Long: `Run one or more of the built-in demonstration chains.

Available demos: simple, creative, structured, translation.
With no names, all four run in order.

Examples:
  promptchain demo
  promptchain demo creative translation
  promptchain demo structured --export analysis.json`,
	ValidArgs: demoNames(),
	RunE:      runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&exportFile, "export", "", "Export results to a file (.json, .yaml or text by extension)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	demos, err := demo.Lookup(args...)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(demoNames(), ", "))
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	runner := a.demoRunner(out)
	results, err := runner.Run(cmd.Context(), demos...)
	if err != nil {
		return err
	}

	if exportFile != "" {
		if err := handleExport(results, exportFile); err != nil {
			return err
		}
		fmt.Fprintln(out, a.theme.Success.Render(fmt.Sprintf("✓ Exported %d results to %s", len(results), exportFile)))
	}
	return nil
}

func handleExport(results []chain.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := chain.WriteResults(results, string(chain.FormatForPath(filename)), file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return file.Close()
}

func demoNames() []string {
	builtin := demo.Builtin()
	names := make([]string, len(builtin))
	for i, d := range builtin {
		names[i] = d.Name
	}
	return names
}
