package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/promptchain/internal/catalog"
	"github.com/Yates-Labs/promptchain/internal/console"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect prompt templates",
	Long: `Inspect the prompt templates available to ask, demo and chat.

Templates are read from, in order of precedence:
  --template-dir or PROMPTCHAIN_TEMPLATE_DIR
  ./.promptchain/templates
  ~/.config/promptchain/templates
  built-in templates`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		outputTable(cmd.OutOrStdout(), a.catalog.Entries())
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a template's text and settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.catalog.Get(args[0])
		if err != nil {
			return err
		}
		showTemplate(cmd.OutOrStdout(), a.theme, entry)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}

func outputTable(w io.Writer, entries []*catalog.Entry) {
	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink/magenta
		nameColor   = lipgloss.Color("#BD93F9") // Purple
		numberColor = lipgloss.Color("#FF79C6") // Pink
		textColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		borderColor = lipgloss.Color("#6272A4") // Muted purple
	)

	const (
		nameWidth   = 14
		tempWidth   = 8
		paramsWidth = 44
		sourceWidth = 12
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(nameWidth).Render("NAME"),
		headerStyle.Width(tempWidth).Render("TEMP"),
		headerStyle.Width(paramsWidth).Render("PARAMETERS"),
		headerStyle.Width(sourceWidth).Render("SOURCE"),
	}
	fmt.Fprintln(w, strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", nameWidth),
		strings.Repeat("─", tempWidth),
		strings.Repeat("─", paramsWidth),
		strings.Repeat("─", sourceWidth),
	}
	fmt.Fprintln(w, borderStyle.Render(strings.Join(separatorParts, "┼")))

	nameStyle := lipgloss.NewStyle().Foreground(nameColor).Padding(0, 1).Width(nameWidth)
	tempStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Width(tempWidth).Align(lipgloss.Right)
	paramStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1).Width(paramsWidth)
	sourceStyle := lipgloss.NewStyle().Foreground(borderColor).Padding(0, 1).Width(sourceWidth)

	for _, e := range entries {
		temp := "-"
		if e.Temperature != nil {
			temp = fmt.Sprintf("%.1f", *e.Temperature)
		}
		cells := []string{
			nameStyle.Render(e.Name),
			tempStyle.Render(temp),
			paramStyle.Render(strings.Join(e.Prompt.Parameters(), ", ")),
			sourceStyle.Render(filepath.Base(e.Source)),
		}
		fmt.Fprintln(w, strings.Join(cells, borderStyle.Render("│")))
	}

	fmt.Fprintln(w)
	summaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Italic(true)
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("%d templates", len(entries))))
}

func showTemplate(w io.Writer, theme console.Theme, entry *catalog.Entry) {
	fmt.Fprintln(w, theme.Header.Render(entry.Name))
	if entry.Description != "" {
		fmt.Fprintln(w, theme.Muted.Render(entry.Description))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Parameters:  %s\n", strings.Join(entry.Prompt.Parameters(), ", "))
	if entry.Temperature != nil {
		fmt.Fprintf(w, "Temperature: %.1f\n", *entry.Temperature)
	}
	if entry.Model != "" {
		fmt.Fprintf(w, "Model:       %s\n", entry.Model)
	}
	fmt.Fprintf(w, "Source:      %s\n", entry.Source)
	theme.Rule(w)
	fmt.Fprintln(w, entry.Prompt.Text())
}
