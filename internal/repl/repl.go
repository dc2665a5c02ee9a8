// Package repl implements the interactive question loop.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Yates-Labs/promptchain/internal/chain"
	"github.com/Yates-Labs/promptchain/internal/console"
)

const (
	questionPrompt = "🤔 Your question: "
	exitCommand    = "exit"
)

// Session feeds each line the user types to a single-parameter chain.
type Session struct {
	chain    *chain.Chain
	prompter *console.Prompter
	out      io.Writer
	theme    console.Theme
	logger   *zap.Logger
}

// NewSession creates a session. The chain's template must take exactly
// one parameter.
func NewSession(c *chain.Chain, prompter *console.Prompter, out io.Writer, theme console.Theme, logger *zap.Logger) (*Session, error) {
	if c == nil {
		return nil, errors.New("repl: chain is required")
	}
	if n := len(c.Template().Parameters()); n != 1 {
		return nil, fmt.Errorf("%w: %s declares %d", chain.ErrNotSingleParameter, c.Name(), n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		chain:    c,
		prompter: prompter,
		out:      out,
		theme:    theme,
		logger:   logger,
	}, nil
}

// Run reads questions until the user types exit, input ends, or ctx is
// canceled. Backend failures are reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	s.theme.Section(s.out, "INTERACTIVE MODE")
	fmt.Fprintln(s.out, s.theme.Muted.Render("Ask any question and get an AI-powered response. Type 'exit' to quit."))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out)
		question, err := s.prompter.ReadLine(s.theme.Question.Render(questionPrompt))
		if errors.Is(err, io.EOF) || (err == nil && strings.EqualFold(question, exitCommand)) {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, s.theme.Success.Render("Goodbye! 👋"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}
		if question == "" {
			fmt.Fprintln(s.out, s.theme.Muted.Render("Please enter a valid question."))
			continue
		}

		result, err := s.chain.RunText(ctx, question)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.logger.Warn("question failed", zap.Error(err))
			s.theme.PrintError(s.out, err)
			continue
		}

		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.theme.Header.Render("💡 Response:"))
		s.theme.Rule(s.out)
		s.theme.PrintAnswer(s.out, result.Text)
	}
}
