package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter reads trimmed lines of user input, echoing a prompt first.
// One Prompter should own the input stream for the life of the program.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompter reads from r and writes prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Prompter{r: br, w: w}
}

// ReadLine writes prompt and returns the next input line with surrounding
// whitespace removed. It returns io.EOF once input is exhausted.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.w, prompt)
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; only "yes" or "y" (any case) count as yes.
// End of input counts as no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.ReadLine(question + " (yes/no): ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}
