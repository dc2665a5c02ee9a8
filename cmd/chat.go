package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/promptchain/internal/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Start the interactive question loop without running the demos.

Each question is sent through the "assistant" template. A project or user
template named "assistant" replaces the built-in one.
Type 'exit' or press Ctrl-D to quit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	return a.chat(cmd.Context(), console.NewPrompter(cmd.InOrStdin(), out), out)
}
