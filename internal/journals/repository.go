// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journals holds journal-name reference data: the abbreviation
// repository and the predatory-journal denylist.
package journals

import (
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/bibcheck/internal/textnorm"
)

// Abbreviation pairs a full journal name with its abbreviation.
type Abbreviation struct {
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`

	// ShortestUnique is the shortest abbreviation that still identifies the
	// journal; optional.
	ShortestUnique string `json:"shortest_unique,omitempty" yaml:"shortest_unique,omitempty"`
}

// Repository answers journal-name questions. It is safe for concurrent
// use; lookups never block each other.
type Repository struct {
	mu       sync.RWMutex
	byName   map[string]Abbreviation
	byAbbrev map[string]Abbreviation
}

// NewRepository returns a repository holding list.
func NewRepository(list ...Abbreviation) *Repository {
	r := &Repository{
		byName:   make(map[string]Abbreviation),
		byAbbrev: make(map[string]Abbreviation),
	}
	for _, a := range list {
		r.Add(a)
	}
	return r
}

// lookupKey trims s, unescapes "\&" and removes LaTeX braces. Matching is
// otherwise exact.
func lookupKey(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), `\&`, "&")
	return strings.TrimSpace(textnorm.StripLatex(s))
}

// dotless returns s without periods, so "J. Comput." matches "J Comput".
func dotless(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, ".", " ")), " ")
}

// Add registers a. Entries without a name or abbreviation are ignored; a
// later entry for the same name replaces the earlier one.
func (r *Repository) Add(a Abbreviation) {
	name, abbr := lookupKey(a.Name), lookupKey(a.Abbreviation)
	if name == "" || abbr == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = a
	r.byAbbrev[abbr] = a
	r.byAbbrev[dotless(abbr)] = a
	if su := lookupKey(a.ShortestUnique); su != "" {
		r.byAbbrev[su] = a
	}
}

// Len returns the number of distinct full names.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// IsFullName reports whether s is a known full journal name.
func (r *Repository) IsFullName(s string) bool {
	k := lookupKey(s)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[k]
	return ok
}

// IsAbbreviatedName reports whether s is a known abbreviation, with or
// without periods.
func (r *Repository) IsAbbreviatedName(s string) bool {
	k := lookupKey(s)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byAbbrev[k]; ok {
		return true
	}
	_, ok := r.byAbbrev[dotless(k)]
	return ok
}

// IsKnownName reports whether s is a known full name or abbreviation.
func (r *Repository) IsKnownName(s string) bool {
	return r.IsFullName(s) || r.IsAbbreviatedName(s)
}

// Lookup returns the record for a full name or abbreviation.
func (r *Repository) Lookup(s string) (Abbreviation, bool) {
	k := lookupKey(s)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.byName[k]; ok {
		return a, true
	}
	if a, ok := r.byAbbrev[k]; ok {
		return a, true
	}
	a, ok := r.byAbbrev[dotless(k)]
	return a, ok
}

// All returns every record sorted by full name.
func (r *Repository) All() []Abbreviation {
	r.mu.RLock()
	out := make([]Abbreviation, 0, len(r.byName))
	for _, a := range r.byName {
		out = append(out, a)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
