// Package output provides machine-friendly formatters for task listings.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/model"
)

// Formats accepted by Write.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Write renders tasks to w in the given format.
func Write(w io.Writer, tasks []model.Task, format string) error {
	tasks = model.Clone(tasks)
	switch strings.ToLower(format) {
	case FormatPlain, "":
		for _, t := range tasks {
			FormatTask(w, t)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, must be one of: plain, json, yaml", format)
	}
}

// FormatTask writes one task line.
// Format: "{ID:>4}  [x] {NAME}\n"
func FormatTask(w io.Writer, t model.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", t.ID, box, normalizeName(t.Name))
}

// normalizeName replaces line breaks with spaces so each task stays on one line.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	return strings.ReplaceAll(name, "\n", " ")
}
