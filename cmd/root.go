package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/promptchain/internal/console"
	"github.com/Yates-Labs/promptchain/internal/demo"
)

var (
	providerName string
	modelName    string
	temperature  float64
	envFile      string
	templateDir  string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "promptchain",
	Short: "promptchain - Prompt templates and LLM chains tutorial",
	Long: `promptchain renders prompt templates and sends them to a language model.

Run without a subcommand for the guided tour: four demonstration chains
(explanation, creative writing, structured output, translation) followed by
an optional interactive question loop.

Required environment variables (or a .env file):
  OPENAI_API_KEY       - for --provider openai (default)
  ANTHROPIC_API_KEY    - for --provider anthropic

Examples:
  promptchain
  promptchain demo translation
  promptchain ask explain --var topic="black holes"
  promptchain chat --provider ollama --model llama3.1:8b`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTour,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&providerName, "provider", "", "Model provider: openai, anthropic or ollama (default from PROMPTCHAIN_PROVIDER)")
	flags.StringVar(&modelName, "model", "", "Model name (default depends on provider)")
	flags.Float64Var(&temperature, "temperature", 0.7, "Default sampling temperature between 0 and 1")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from this file instead of .env")
	flags.StringVar(&templateDir, "template-dir", "", "Extra directory of YAML prompt templates")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		console.DefaultTheme().PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// runTour prints the banner, runs every demo and offers interactive mode.
func runTour(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	theme := console.DefaultTheme()
	theme.Banner(out, "🔗 promptchain: LLM Chain Basics")

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()
	fmt.Fprintln(out, a.theme.Success.Render("✅ Environment loaded successfully!"))

	runner := a.demoRunner(out)
	if _, err := runner.Run(cmd.Context(), demo.Builtin()...); err != nil {
		return err
	}

	fmt.Fprintln(out)
	a.theme.Divider(out)
	prompter := console.NewPrompter(cmd.InOrStdin(), out)
	interactive, err := prompter.Confirm("Would you like to enter interactive mode?")
	if err != nil {
		return err
	}
	if interactive {
		return a.chat(cmd.Context(), prompter, out)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, a.theme.Success.Render("✅ All demonstrations completed successfully!"))
	a.theme.Divider(out)
	return nil
}
