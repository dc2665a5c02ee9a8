// Package catalog provides named prompt template loading.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Yates-Labs/promptchain/internal/llm"
	"github.com/Yates-Labs/promptchain/internal/prompt"
)

var ErrTemplateNotFound = errors.New("template not found")

// Definition is the on-disk form of a named template.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Template    string   `yaml:"template"`
	Parameters  []string `yaml:"parameters"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Source      string   `yaml:"-"` // file path or "builtin"
}

// Entry is a definition whose template text has been validated and compiled.
type Entry struct {
	Definition
	Prompt *prompt.Template
}

// Options applies the entry's temperature and model overrides to base.
func (e *Entry) Options(base llm.Options) llm.Options {
	if e.Temperature != nil {
		base.Temperature = *e.Temperature
	}
	if e.Model != "" {
		base.Model = e.Model
	}
	return base
}

// Catalog is an immutable set of compiled templates keyed by name.
type Catalog struct {
	entries map[string]*Entry
}

// New compiles defs into a catalog. When two definitions share a name the
// first one wins.
func New(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]*Entry, len(defs))}
	for _, def := range defs {
		if def == nil {
			continue
		}
		if _, exists := c.entries[def.Name]; exists {
			continue
		}
		tmpl, err := prompt.New(def.Template, def.Parameters...)
		if err != nil {
			return nil, fmt.Errorf("compile template %q (%s): %w", def.Name, def.Source, err)
		}
		c.entries[def.Name] = &Entry{Definition: *def, Prompt: tmpl}
	}
	return c, nil
}

// Get returns the entry registered under name.
func (c *Catalog) Get(name string) (*Entry, error) {
	entry, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return entry, nil
}

// Names returns all template names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by name.
func (c *Catalog) Entries() []*Entry {
	names := c.Names()
	out := make([]*Entry, len(names))
	for i, name := range names {
		out[i] = c.entries[name]
	}
	return out
}
