package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTemplate       = errors.New("template text is empty")
	ErrTemplateSyntax      = errors.New("template syntax error")
	ErrTemplateMismatch    = errors.New("template parameters do not match placeholders")
	ErrMissingParameter    = errors.New("missing template parameter")
	ErrUnexpectedParameter = errors.New("unexpected template parameter")
)

// SyntaxError reports malformed placeholder syntax at a byte offset of the template text.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrTemplateSyntax, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrTemplateSyntax }

// MismatchError is returned by New when the declared parameters and the
// placeholders found in the text disagree.
type MismatchError struct {
	// Undeclared lists placeholders present in the text but not declared.
	Undeclared []string

	// Unused lists declared parameters that never appear in the text.
	Unused []string
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Undeclared) > 0 {
		parts = append(parts, "undeclared placeholders: "+strings.Join(e.Undeclared, ", "))
	}
	if len(e.Unused) > 0 {
		parts = append(parts, "declared but unused: "+strings.Join(e.Unused, ", "))
	}
	return fmt.Sprintf("%s (%s)", ErrTemplateMismatch, strings.Join(parts, "; "))
}

func (e *MismatchError) Unwrap() error { return ErrTemplateMismatch }

// MissingParameterError lists declared parameters absent from a render request.
type MissingParameterError struct {
	Names []string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingParameter, strings.Join(e.Names, ", "))
}

func (e *MissingParameterError) Unwrap() error { return ErrMissingParameter }

// UnexpectedParameterError lists render request keys the template does not declare.
type UnexpectedParameterError struct {
	Names []string
}

func (e *UnexpectedParameterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpectedParameter, strings.Join(e.Names, ", "))
}

func (e *UnexpectedParameterError) Unwrap() error { return ErrUnexpectedParameter }
