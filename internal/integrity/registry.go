// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"github.com/pdiddy/bibcheck/pkg/types"
)

// rule binds a value checker to the fields it applies to.
type rule struct {
	checker ValueChecker
	applies func(f types.Field, p types.FieldProperty) bool
}

func notComment(_ types.Field, p types.FieldProperty) bool {
	return !p.Has(types.PropComment)
}

func notVerbatim(_ types.Field, p types.FieldProperty) bool {
	return !p.Has(types.PropVerbatim) && !p.Has(types.PropCitationKey)
}

// escapable selects fields checked for TeX escaping. Year values are left to
// the year checker, which accepts trailing punctuation such as "1986}%".
func escapable(f types.Field, p types.FieldProperty) bool {
	return notVerbatim(f, p) && !p.Has(types.PropYear)
}

func hasProp(q types.FieldProperty) func(types.Field, types.FieldProperty) bool {
	return func(_ types.Field, p types.FieldProperty) bool { return p.Has(q) }
}

func named(names ...string) func(types.Field, types.FieldProperty) bool {
	return func(f types.Field, _ types.FieldProperty) bool {
		for _, n := range names {
			if f.Name == n {
				return true
			}
		}
		return false
	}
}

// valueRules is the dispatch table from field traits to value checkers for
// one dialect. Rules needing external data are omitted when the data is
// absent; the file rule is bound per collection by the engine.
func valueRules(p Preferences, d types.Dialect) []rule {
	rules := []rule{
		{nfcChecker{}, notComment},
		{bracesChecker{}, escapable},
		{ampersandChecker{}, escapable},
		{hashChecker{}, notVerbatim},
		{htmlChecker{}, func(f types.Field, q types.FieldProperty) bool {
			return notVerbatim(f, q) && !q.Has(types.PropURL)
		}},
		{latexChecker{}, func(f types.Field, q types.FieldProperty) bool {
			return escapable(f, q) && notComment(f, q)
		}},
		{bareURLChecker{}, hasProp(types.PropProse)},
		{personNamesChecker{dialect: d, strict: p.StrictBibtexNames}, hasProp(types.PropPersonNames)},
		{doiChecker{}, hasProp(types.PropDOI)},
		{isbnChecker{}, hasProp(types.PropISBN)},
		{issnChecker{}, hasProp(types.PropISSN)},
		{urlChecker{}, hasProp(types.PropURL)},
		{pagesChecker{dialect: d}, hasProp(types.PropPages)},
		{yearChecker{}, hasProp(types.PropYear)},
		{dateChecker{}, hasProp(types.PropDate)},
		{monthChecker{dialect: d}, hasProp(types.PropMonth)},
		{editionChecker{dialect: d, allowInteger: p.AllowIntegerEdition}, hasProp(types.PropEdition)},
		{booktitleChecker{}, named("booktitle")},
		{citationKeyChecker{}, hasProp(types.PropCitationKey)},
	}
	if d == types.BibTeX {
		rules = append(rules,
			rule{asciiChecker{}, notComment},
			rule{titleCaseChecker{}, named("title")},
			rule{capitalStartChecker{id: IDNote}, named("note")},
			rule{capitalStartChecker{id: IDHowPub}, named("howpublished")},
		)
	}
	if p.PredatoryJournals != nil {
		rules = append(rules, rule{predatoryChecker{list: p.PredatoryJournals}, func(f types.Field, q types.FieldProperty) bool {
			return q.Has(types.PropJournalName) || f.Name == "publisher"
		}})
	}
	return rules
}

// fileRule is bound per collection since relative links resolve against
// the collection's own directories.
func fileRule(files FileLocator, dirs []string) rule {
	return rule{fileChecker{files: files, dirs: dirs}, hasProp(types.PropFileList)}
}

func entryCheckers(p Preferences, d types.Dialect) []EntryChecker {
	checkers := []EntryChecker{
		entryTypeChecker{dialect: d},
		keyDeviationChecker{defaultPattern: p.CitationKeyPattern, typePatterns: p.KeyPatterns},
		crossRefChecker{},
		emptyKeyChecker{},
		eprintChecker{},
	}
	switch d {
	case types.BibTeX:
		checkers = append(checkers, biblatexFieldChecker{})
	case types.BibLaTeX:
		checkers = append(checkers, utf8EntryChecker{})
	}
	if p.Abbreviations != nil {
		checkers = append(checkers,
			abbreviationChecker{repo: p.Abbreviations},
			journalInListChecker{repo: p.Abbreviations},
		)
	}
	return checkers
}

func collectionCheckers() []CollectionChecker {
	return []CollectionChecker{duplicateDOIChecker{}, duplicateKeyChecker{}}
}
