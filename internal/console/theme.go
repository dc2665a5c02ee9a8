// Package console renders promptchain's terminal transcript and reads user input.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	bannerWidth = 60
	ruleWidth   = 40
)

// Theme holds the lipgloss styles used for terminal output.
type Theme struct {
	Header   lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

// DefaultTheme returns the colored theme.
func DefaultTheme() Theme {
	var (
		headerColor   = lipgloss.Color("#F780FF") // Bright pink
		questionColor = lipgloss.Color("#8BE9FD") // Cyan
		answerColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		mutedColor    = lipgloss.Color("#6272A4") // Muted purple
		errorColor    = lipgloss.Color("#FF5555") // Red
		successColor  = lipgloss.Color("#50FA7B") // Green
	)

	return Theme{
		Header:   lipgloss.NewStyle().Foreground(headerColor).Bold(true),
		Question: lipgloss.NewStyle().Foreground(questionColor).Italic(true),
		Answer:   lipgloss.NewStyle().Foreground(answerColor),
		Muted:    lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Success:  lipgloss.NewStyle().Foreground(successColor),
	}
}

// PlainTheme returns a theme that renders text unchanged.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:   plain,
		Question: plain,
		Answer:   plain,
		Muted:    plain,
		Error:    plain,
		Success:  plain,
	}
}

// Banner writes a title framed by "=" rules.
func (t Theme) Banner(w io.Writer, title string) {
	t.Divider(w)
	fmt.Fprintln(w, t.Header.Render(title))
	t.Divider(w)
}

// Divider writes a full-width "=" rule.
func (t Theme) Divider(w io.Writer) {
	fmt.Fprintln(w, t.Muted.Render(strings.Repeat("=", bannerWidth)))
}

// Section writes a blank line followed by a banner.
func (t Theme) Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	t.Banner(w, title)
}

// Rule writes a short "-" separator.
func (t Theme) Rule(w io.Writer) {
	fmt.Fprintln(w, t.Muted.Render(strings.Repeat("-", ruleWidth)))
}

// PrintAnswer writes model output with surrounding whitespace trimmed.
func (t Theme) PrintAnswer(w io.Writer, text string) {
	fmt.Fprintln(w, t.Answer.Render(strings.TrimSpace(text)))
}

// PrintError writes a labelled error message.
func (t Theme) PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", t.Error.Render("Error:"), err)
}
