// Package prompt implements immutable prompt templates with named placeholders.
// A template declares its parameters up front; construction fails when the
// declaration and the placeholders in the text disagree, and rendering fails
// when the supplied values do not cover the declaration exactly.
//
// Placeholders are written as {name}. A literal brace is written doubled:
// "{{" renders as "{" and "}}" renders as "}".
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Template is a parsed prompt template. It is immutable and safe for
// concurrent use.
type Template struct {
	text     string
	params   []string
	segments []segment
}

// segment is either literal text or a placeholder reference.
type segment struct {
	literal string
	param   string
}

// New parses text and checks that its placeholders are exactly params.
func New(text string, params ...string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTemplate
	}

	segments, err := parse(text)
	if err != nil {
		return nil, err
	}

	found := lo.Uniq(lo.FilterMap(segments, func(s segment, _ int) (string, bool) {
		return s.param, s.param != ""
	}))
	declared := lo.Uniq(params)

	undeclared, unused := lo.Difference(found, declared)
	if len(undeclared) > 0 || len(unused) > 0 {
		sort.Strings(undeclared)
		sort.Strings(unused)
		return nil, &MismatchError{Undeclared: undeclared, Unused: unused}
	}

	sort.Strings(declared)
	return &Template{
		text:     text,
		params:   declared,
		segments: segments,
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level templates.
func MustNew(text string, params ...string) *Template {
	t, err := New(text, params...)
	if err != nil {
		panic(fmt.Sprintf("prompt: %v", err))
	}
	return t
}

// Text returns the raw template text.
func (t *Template) Text() string {
	return t.text
}

// Parameters returns the declared parameter names in sorted order.
func (t *Template) Parameters() []string {
	out := make([]string, len(t.params))
	copy(out, t.params)
	return out
}

func (t *Template) String() string {
	return t.text
}

// Render substitutes values into the template. The key set of values must
// equal the declared parameters. Values are inserted verbatim and are never
// scanned for placeholders themselves.
func (t *Template) Render(values map[string]string) (string, error) {
	missing := lo.Filter(t.params, func(p string, _ int) bool {
		_, ok := values[p]
		return !ok
	})
	unexpected := lo.Filter(lo.Keys(values), func(k string, _ int) bool {
		return !lo.Contains(t.params, k)
	})
	sort.Strings(unexpected)

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, &MissingParameterError{Names: missing})
	}
	if len(unexpected) > 0 {
		errs = append(errs, &UnexpectedParameterError{Names: unexpected})
	}
	switch len(errs) {
	case 0:
	case 1:
		return "", errs[0]
	default:
		return "", errors.Join(errs...)
	}

	size := 0
	for _, s := range t.segments {
		if s.param != "" {
			size += len(values[s.param])
		} else {
			size += len(s.literal)
		}
	}

	var b strings.Builder
	b.Grow(size)
	for _, s := range t.segments {
		if s.param != "" {
			b.WriteString(values[s.param])
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String(), nil
}

// parse splits text into literal and placeholder segments, resolving
// doubled braces into literal ones.
func parse(text string) ([]segment, error) {
	var (
		segments []segment
		lit      strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, &SyntaxError{Offset: i, Reason: "unterminated placeholder"}
			}
			name := text[i+1 : i+1+end]
			if !isIdentifier(name) {
				return nil, &SyntaxError{Offset: i, Reason: fmt.Sprintf("invalid placeholder name %q", name)}
			}
			flush()
			segments = append(segments, segment{param: name})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, &SyntaxError{Offset: i, Reason: "single '}' encountered"}
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return segments, nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
