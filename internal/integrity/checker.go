// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package integrity checks bibliography collections for malformed values,
// inconsistent citation keys and duplicate identifiers. Rules come in three
// shapes: ValueChecker inspects one raw field value, EntryChecker one whole
// entry, CollectionChecker the collection as a whole. Engine composes them.
package integrity

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// ValueChecker validates a single field value. CheckValue returns the
// message text and true on a violation. Implementations are pure.
type ValueChecker interface {
	ID() string
	CheckValue(value string) (string, bool)
}

// Finding is an entry-level result before it is bound to a position.
type Finding struct {
	Field string
	Text  string
}

// Scope is the read-only view of the collection an entry checker gets.
type Scope struct {
	Collection *types.Collection

	// Keys is Collection.KeyIndex, computed once per run.
	Keys map[string][]*types.Entry
}

// EntryChecker validates one entry, possibly consulting other entries.
type EntryChecker interface {
	ID() string
	Check(e *types.Entry, s *Scope) []Finding
}

// CollectionChecker validates properties of the collection as a whole.
type CollectionChecker interface {
	ID() string
	Check(c *types.Collection) []types.Message
}

// AbbreviationLookup answers journal-name questions.
type AbbreviationLookup interface {
	IsKnownName(name string) bool
	IsAbbreviatedName(name string) bool
	IsFullName(name string) bool
}

// PredatoryLookup matches venue names against a denylist.
type PredatoryLookup interface {
	Match(name string) (string, bool)
}

// FileLocator reports whether a linked file exists.
type FileLocator interface {
	Exists(path string) bool
}

// OSLocator checks the local filesystem.
type OSLocator struct{}

// Exists implements FileLocator.
func (OSLocator) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FSLocator checks an fs.FS. Paths are made relative to the FS root.
type FSLocator struct {
	FS fs.FS
}

// Exists implements FileLocator.
func (l FSLocator) Exists(path string) bool {
	p := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	if p == "" {
		p = "."
	}
	_, err := fs.Stat(l.FS, p)
	return err == nil
}

// Preferences configures an Engine. The zero value checks everything that
// needs no external data.
type Preferences struct {
	// AllowIntegerEdition accepts editions such as "2" in BibTeX mode.
	AllowIntegerEdition bool

	// CitationKeyPattern is the default key pattern used when the collection
	// declares none. Empty disables the key-deviation check.
	CitationKeyPattern string

	// KeyPatterns overrides CitationKeyPattern per entry type.
	KeyPatterns map[string]string

	// Abbreviations enables the abbreviation and journal-in-list checks.
	Abbreviations AbbreviationLookup

	// PredatoryJournals enables the predatory-venue check.
	PredatoryJournals PredatoryLookup

	// FileDirectories are searched for relative file links, after the
	// directories declared by the collection and the bib file's own.
	FileDirectories []string

	// Files enables the file-link check.
	Files FileLocator

	// StrictBibtexNames rejects BibTeX name lists with more than one
	// person written "First Last".
	StrictBibtexNames bool

	// Jobs bounds the number of entries checked concurrently; 0 or less
	// means one per CPU.
	Jobs int

	// Disabled lists checker ids to skip.
	Disabled []string

	Logger *slog.Logger
}

func (p Preferences) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p Preferences) disabled(id string) bool {
	for _, d := range p.Disabled {
		if strings.EqualFold(strings.TrimSpace(d), id) {
			return true
		}
	}
	return false
}
