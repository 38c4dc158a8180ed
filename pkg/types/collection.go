package types

import (
	"fmt"
	"strings"
)

// Dialect selects the rule set applied to a collection.
type Dialect int

const (
	BibTeX Dialect = iota
	BibLaTeX
)

func (d Dialect) String() string {
	if d == BibLaTeX {
		return "biblatex"
	}
	return "bibtex"
}

// ParseDialect accepts "bibtex" or "biblatex" in any case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bibtex", "":
		return BibTeX, nil
	case "biblatex":
		return BibLaTeX, nil
	default:
		return BibTeX, fmt.Errorf("unknown dialect %q (want bibtex or biblatex)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(b []byte) error {
	v, err := ParseDialect(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Metadata carries collection-level settings read from the source file.
type Metadata struct {
	// Source is the path the collection was read from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// DialectDeclared is true when the file states its dialect explicitly.
	DialectDeclared bool `json:"dialect_declared,omitempty" yaml:"dialect_declared,omitempty"`

	// KeyPattern is the default citation-key pattern.
	KeyPattern string `json:"key_pattern,omitempty" yaml:"key_pattern,omitempty"`

	// TypeKeyPatterns overrides KeyPattern per entry type.
	TypeKeyPatterns map[string]string `json:"type_key_patterns,omitempty" yaml:"type_key_patterns,omitempty"`

	// FileDirectories are searched when resolving relative file links.
	FileDirectories []string `json:"file_directories,omitempty" yaml:"file_directories,omitempty"`

	// CustomTypes are entry types declared by the user.
	CustomTypes []string `json:"custom_types,omitempty" yaml:"custom_types,omitempty"`

	// Strings holds @string macro definitions.
	Strings map[string]string `json:"strings,omitempty" yaml:"strings,omitempty"`

	// Preamble is the concatenated @preamble text.
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
}

// Collection is an ordered set of entries checked as one unit.
type Collection struct {
	Entries []*Entry `json:"entries" yaml:"entries"`
	Dialect Dialect  `json:"dialect" yaml:"dialect"`
	Meta    Metadata `json:"meta" yaml:"meta"`
}

// KeyIndex maps each non-empty citation key to the entries that carry it.
// Keys compare case-sensitively.
func (c *Collection) KeyIndex() map[string][]*Entry {
	idx := make(map[string][]*Entry, len(c.Entries))
	for _, e := range c.Entries {
		if e.Key == "" {
			continue
		}
		idx[e.Key] = append(idx[e.Key], e)
	}
	return idx
}

// IsCustomType reports whether t was declared as a custom entry type.
func (c *Collection) IsCustomType(t string) bool {
	for _, ct := range c.Meta.CustomTypes {
		if strings.EqualFold(ct, t) {
			return true
		}
	}
	return false
}

// KeyPatternFor returns the key pattern that applies to entries of type t.
func (c *Collection) KeyPatternFor(t string) string {
	if p, ok := c.Meta.TypeKeyPatterns[strings.ToLower(t)]; ok && p != "" {
		return p
	}
	return c.Meta.KeyPattern
}
