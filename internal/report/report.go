// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders integrity messages as text, JSON, YAML or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// FileResult holds the messages produced for one bibliography file.
type FileResult struct {
	Source   string          `json:"source" yaml:"source"`
	Dialect  types.Dialect   `json:"dialect" yaml:"dialect"`
	Entries  int             `json:"entries" yaml:"entries"`
	Cached   bool            `json:"cached,omitempty" yaml:"cached,omitempty"`
	Messages []types.Message `json:"messages" yaml:"messages"`

	// Lines maps entry indexes to source lines for the text renderer.
	Lines []int `json:"-" yaml:"-"`
}

// NewFileResult builds a result for c.
func NewFileResult(c *types.Collection, msgs []types.Message) FileResult {
	lines := make([]int, len(c.Entries))
	for i, e := range c.Entries {
		lines[i] = e.Line
	}
	return FileResult{
		Source:   c.Meta.Source,
		Dialect:  c.Dialect,
		Entries:  len(c.Entries),
		Messages: msgs,
		Lines:    lines,
	}
}

func (r FileResult) line(m types.Message) int {
	if m.EntryIndex < 0 || m.EntryIndex >= len(r.Lines) {
		return 0
	}
	return r.Lines[m.EntryIndex]
}

// Count returns the total number of messages across results.
func Count(results []FileResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Messages)
	}
	return n
}

// Write renders results to w in the given format.
func Write(w io.Writer, format string, results []FileResult, colored bool) error {
	switch format {
	case FormatText, "":
		return NewText(colored).Write(w, results)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		enc.SetIndent(2)
		return enc.Encode(results)
	case FormatCSV:
		return writeCSV(w, results)
	default:
		return fmt.Errorf("unsupported format %q: use text, json, yaml or csv", format)
	}
}

var csvHeader = []string{"source", "line", "entry_index", "citation_key", "field", "checker", "message"}

func writeCSV(w io.Writer, results []FileResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range results {
		for _, m := range r.Messages {
			rec := []string{
				r.Source,
				strconv.Itoa(r.line(m)),
				strconv.Itoa(m.EntryIndex),
				m.CitationKey,
				m.Field,
				m.Checker,
				m.Text,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing csv record: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text renders a human-readable report.
type Text struct {
	file    *color.Color
	pos     *color.Color
	key     *color.Color
	field   *color.Color
	checker *color.Color
	bad     *color.Color
	good    *color.Color
}

// NewText returns a text renderer. Colour escapes are emitted only when
// colored is true, regardless of the terminal.
func NewText(colored bool) *Text {
	t := &Text{
		file:    color.New(color.Bold),
		pos:     color.New(color.Faint),
		key:     color.New(color.FgCyan),
		field:   color.New(color.FgYellow),
		checker: color.New(color.Faint),
		bad:     color.New(color.FgRed, color.Bold),
		good:    color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{t.file, t.pos, t.key, t.field, t.checker, t.bad, t.good} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Write prints one block per file with messages, then a summary line.
func (t *Text) Write(w io.Writer, results []FileResult) error {
	files := 0
	for _, r := range results {
		if len(r.Messages) == 0 {
			continue
		}
		files++
		if _, err := fmt.Fprintln(w, t.file.Sprint(r.Source)); err != nil {
			return err
		}
		for _, m := range r.Messages {
			if _, err := fmt.Fprintln(w, t.message(r, m)); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}

	total := Count(results)
	if total == 0 {
		_, err := fmt.Fprintln(w, t.good.Sprintf("No problems found in %d file(s).", len(results)))
		return err
	}
	_, err := fmt.Fprintln(w, t.bad.Sprintf("%d problem(s) in %d of %d file(s).", total, files, len(results)))
	return err
}

func (t *Text) message(r FileResult, m types.Message) string {
	if m.IsCollectionScope() {
		return fmt.Sprintf("  %s  %s %s", t.pos.Sprint("-"), m.Text, t.checker.Sprintf("[%s]", m.Checker))
	}
	pos := fmt.Sprintf("#%d", m.EntryIndex+1)
	if l := r.line(m); l > 0 {
		pos = fmt.Sprintf("%d", l)
	}
	key := m.CitationKey
	if key == "" {
		key = "<no key>"
	}
	return fmt.Sprintf("  %s  %s %s: %s %s",
		t.pos.Sprint(pos), t.key.Sprint(key), t.field.Sprint(m.Field), m.Text, t.checker.Sprintf("[%s]", m.Checker))
}
