// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"fmt"
	"strings"

	"github.com/pdiddy/bibcheck/internal/identifier"
	"github.com/pdiddy/bibcheck/internal/keypattern"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Entry checker ids.
const (
	IDEntryType      = "entry-type"
	IDKeyDeviation   = "key-deviation"
	IDCrossRef       = "cross-reference"
	IDAbbreviation   = "abbreviation"
	IDJournalInList  = "journal-in-list"
	IDEmptyKey       = "empty-key"
	IDBiblatexField  = "no-biblatex-field"
	IDEprint         = "eprint"
	IDDuplicateDOI   = "duplicate-doi"
	IDDuplicateKey   = "duplicate-key"
	internalErrorFmt = "internal error in %s"
)

var bibtexTypes = map[string]bool{
	"article":       true,
	"book":          true,
	"booklet":       true,
	"conference":    true,
	"inbook":        true,
	"incollection":  true,
	"inproceedings": true,
	"manual":        true,
	"mastersthesis": true,
	"misc":          true,
	"phdthesis":     true,
	"proceedings":   true,
	"techreport":    true,
	"unpublished":   true,
}

// forbiddenFields lists fields an entry type must not carry.
var forbiddenFields = map[string][]string{
	"proceedings":   {"pages"},
	"mvproceedings": {"pages"},
}

type entryTypeChecker struct {
	dialect types.Dialect
}

func (entryTypeChecker) ID() string { return IDEntryType }

func (c entryTypeChecker) Check(e *types.Entry, s *Scope) []Finding {
	var out []Finding
	if c.dialect == types.BibTeX && !bibtexTypes[e.Type] && !s.Collection.IsCustomType(e.Type) {
		out = append(out, Finding{
			Field: types.FieldEntryType.Name,
			Text:  fmt.Sprintf("entry type %s is not defined for BibTeX", e.Type),
		})
	}
	for _, f := range forbiddenFields[e.Type] {
		if e.Has(f) {
			out = append(out, Finding{
				Field: f,
				Text:  fmt.Sprintf("wrong entry type as %s has %s", e.Type, f),
			})
		}
	}
	return out
}

// keyDeviationChecker regenerates the citation key and compares it to the
// stored one. Collection patterns take precedence over preferences.
type keyDeviationChecker struct {
	defaultPattern string
	typePatterns   map[string]string
}

func (keyDeviationChecker) ID() string { return IDKeyDeviation }

func (c keyDeviationChecker) Check(e *types.Entry, s *Scope) []Finding {
	if e.Key == "" {
		return nil
	}
	g := keypattern.ForCollection(s.Collection, s.Keys, e.Type, c.typePatterns, c.defaultPattern)
	if g == nil {
		return nil
	}
	base := g.Generate(e)
	if base == "" {
		return nil
	}
	if want := keypattern.Unique(base, e, s.Keys); want != e.Key {
		return []Finding{{Field: types.FieldKey.Name, Text: "Citation key deviates from generated key"}}
	}
	return nil
}

type crossRefChecker struct{}

func (crossRefChecker) ID() string { return IDCrossRef }

func (crossRefChecker) Check(e *types.Entry, s *Scope) []Finding {
	var out []Finding
	for _, fv := range e.Fields {
		props := fv.Field.Properties()
		var refs []string
		switch {
		case props.Has(types.PropEntryReference):
			refs = []string{strings.TrimSpace(fv.Value)}
		case props.Has(types.PropEntryReferences):
			refs = strings.Split(fv.Value, ",")
		default:
			continue
		}
		for _, ref := range refs {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				continue
			}
			if _, ok := s.Keys[ref]; !ok {
				out = append(out, Finding{
					Field: fv.Field.Name,
					Text:  fmt.Sprintf("Referenced citation key '%s' does not exist", ref),
				})
			}
		}
	}
	return out
}

var venueFields = []string{"journal", "journaltitle", "booktitle"}

// abbreviationChecker flags venues given as a known abbreviation. A value
// that is also some journal's full name is accepted.
type abbreviationChecker struct {
	repo AbbreviationLookup
}

func (abbreviationChecker) ID() string { return IDAbbreviation }

func (c abbreviationChecker) Check(e *types.Entry, _ *Scope) []Finding {
	var out []Finding
	for _, name := range venueFields {
		v := strings.TrimSpace(e.Value(name))
		if v == "" {
			continue
		}
		if c.repo.IsAbbreviatedName(v) && !c.repo.IsFullName(v) {
			out = append(out, Finding{Field: name, Text: "abbreviation detected"})
		}
	}
	return out
}

type journalInListChecker struct {
	repo AbbreviationLookup
}

func (journalInListChecker) ID() string { return IDJournalInList }

func (c journalInListChecker) Check(e *types.Entry, _ *Scope) []Finding {
	var out []Finding
	for _, name := range []string{"journal", "journaltitle"} {
		v := strings.TrimSpace(e.Value(name))
		if v == "" {
			continue
		}
		if !c.repo.IsKnownName(v) {
			out = append(out, Finding{Field: name, Text: "journal not found in abbreviation list"})
		}
	}
	return out
}

// emptyKeyChecker flags entries that are complete enough to be cited but
// have no key.
type emptyKeyChecker struct{}

func (emptyKeyChecker) ID() string { return IDEmptyKey }

func (emptyKeyChecker) Check(e *types.Entry, _ *Scope) []Finding {
	if strings.TrimSpace(e.Key) != "" {
		return nil
	}
	if !e.Has("author") || !e.Has("title") || !e.Has("year") {
		return nil
	}
	text, _ := citationKeyChecker{}.CheckValue(e.Key)
	return []Finding{{Field: types.FieldKey.Name, Text: text}}
}

type biblatexFieldChecker struct{}

func (biblatexFieldChecker) ID() string { return IDBiblatexField }

func (biblatexFieldChecker) Check(e *types.Entry, _ *Scope) []Finding {
	var out []Finding
	for _, fv := range e.Fields {
		if strings.TrimSpace(fv.Value) == "" {
			continue
		}
		if fv.Field.Properties().Has(types.PropBiblatexOnly) {
			out = append(out, Finding{Field: fv.Field.Name, Text: "BibLaTeX field only"})
		}
	}
	return out
}

// utf8EntryChecker runs the UTF-8 check over every field of an entry.
type utf8EntryChecker struct{}

func (utf8EntryChecker) ID() string { return IDUTF8 }

func (utf8EntryChecker) Check(e *types.Entry, _ *Scope) []Finding {
	var out []Finding
	for _, fv := range e.Fields {
		if text, bad := (utf8Checker{}).CheckValue(fv.Value); bad {
			out = append(out, Finding{Field: fv.Field.Name, Text: text})
		}
	}
	return out
}

// eprintChecker validates arXiv identifiers when the entry says the eprint
// is one.
type eprintChecker struct{}

func (eprintChecker) ID() string { return IDEprint }

func (eprintChecker) Check(e *types.Entry, _ *Scope) []Finding {
	v := strings.TrimSpace(e.Value("eprint"))
	if v == "" {
		return nil
	}
	kind := e.FirstOf("eprinttype", "archiveprefix")
	if !strings.EqualFold(strings.TrimSpace(kind), "arxiv") {
		return nil
	}
	if !identifier.IsArxiv(v) {
		return []Finding{{Field: "eprint", Text: "should be a valid arXiv identifier"}}
	}
	return nil
}
