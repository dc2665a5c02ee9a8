package chain

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportFormat represents supported result export formats
type ExportFormat string

const (
	FormatText ExportFormat = "text"
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseFormat validates a format name (case-insensitive). Empty means text.
func ParseFormat(format string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(format))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: text, json, yaml)", format)
	}
}

// FormatForPath picks a format from a file extension, defaulting to text.
func FormatForPath(path string) ExportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// WriteResults writes results to w in the given format (case-insensitive).
func WriteResults(results []Result, format string, w io.Writer) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(results); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return writeText(results, w)
	}
}

// writeText prints only the response text, one result per paragraph.
func writeText(results []Result, w io.Writer) error {
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(r.Text, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// SortedInputs returns the result inputs as "key=value" pairs in key order.
func (r Result) SortedInputs() []string {
	keys := make([]string, 0, len(r.Inputs))
	for k := range r.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + r.Inputs[k]
	}
	return pairs
}
