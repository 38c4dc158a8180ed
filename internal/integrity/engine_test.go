// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/internal/journals"
	"github.com/pdiddy/bibcheck/pkg/types"
)

func quietPrefs() Preferences {
	return Preferences{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func collectionOf(d types.Dialect, entries ...*types.Entry) *types.Collection {
	return &types.Collection{Entries: entries, Dialect: d}
}

func checkOf(t *testing.T, p Preferences, c *types.Collection) []types.Message {
	t.Helper()
	msgs, err := NewEngine(p, c.Dialect).Check(context.Background(), c)
	require.NoError(t, err)
	return msgs
}

func byChecker(msgs []types.Message, id string) []types.Message {
	var out []types.Message
	for _, m := range msgs {
		if m.Checker == id {
			out = append(out, m)
		}
	}
	return out
}

func TestEngine_DuplicateDOI(t *testing.T) {
	c := collectionOf(types.BibTeX,
		types.NewEntry("article", "A").Set("doi", "10.1000/182"),
		types.NewEntry("article", "B").Set("doi", "10.1000/182"),
		types.NewEntry("article", "C").Set("doi", "10.1000/183"),
	)
	msgs := checkOf(t, quietPrefs(), c)

	require.Len(t, msgs, 2)
	assert.Equal(t, "A", msgs[0].CitationKey)
	assert.Equal(t, "B", msgs[1].CitationKey)
	for _, m := range msgs {
		assert.Equal(t, IDDuplicateDOI, m.Checker)
		assert.Equal(t, "doi", m.Field)
	}
}

func TestEngine_CitationKeyDeviation(t *testing.T) {
	p := quietPrefs()
	p.CitationKeyPattern = "[auth][year]"

	good := collectionOf(types.BibTeX,
		types.NewEntry("article", "Knuth2014").Set("author", "Knuth").Set("year", "2014"))
	assert.Empty(t, checkOf(t, p, good))

	bad := collectionOf(types.BibTeX,
		types.NewEntry("article", "Knuth2014a").Set("author", "Knuth").Set("year", "2014"))
	msgs := checkOf(t, p, bad)
	require.Len(t, msgs, 1)
	assert.Equal(t, IDKeyDeviation, msgs[0].Checker)
	assert.Equal(t, types.FieldKey.Name, msgs[0].Field)
	assert.Equal(t, 0, msgs[0].EntryIndex)
}

func TestEngine_DialectGating(t *testing.T) {
	patent := types.NewEntry("patent", "p1").Set("title", "A patent")
	assert.Len(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibTeX, patent)), IDEntryType), 1)
	assert.Empty(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibLaTeX, patent)), IDEntryType))

	title := types.NewEntry("article", "t").Set("title", "This is a Title")
	assert.Len(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibTeX, title)), IDTitleCase), 1)
	assert.Empty(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibLaTeX, title)), IDTitleCase))

	umlaut := types.NewEntry("article", "u").Set("title", "Schön")
	assert.Len(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibTeX, umlaut)), IDASCII), 1)
	assert.Empty(t, byChecker(checkOf(t, quietPrefs(), collectionOf(types.BibLaTeX, umlaut)), IDASCII))
}

func TestEngine_ProceedingsPages(t *testing.T) {
	in := types.NewEntry("inproceedings", "a").Set("pages", "11--15")
	assert.Empty(t, checkOf(t, quietPrefs(), collectionOf(types.BibTeX, in)))

	proc := types.NewEntry("proceedings", "b").Set("pages", "11--15")
	msgs := checkOf(t, quietPrefs(), collectionOf(types.BibTeX, proc))
	require.Len(t, msgs, 1)
	assert.Equal(t, "pages", msgs[0].Field)
	assert.Equal(t, IDEntryType, msgs[0].Checker)
}

func TestEngine_Journaltitle(t *testing.T) {
	p := quietPrefs()
	p.Abbreviations = journals.NewRepository(journals.Abbreviation{Name: "IEEE Software", Abbreviation: "IEEE SW"})

	for _, d := range []types.Dialect{types.BibTeX, types.BibLaTeX} {
		t.Run(d.String(), func(t *testing.T) {
			e := types.NewEntry("article", "a").Set("journaltitle", "A journal")
			assert.NotEmpty(t, checkOf(t, p, collectionOf(d, e)))
		})
	}

	sw := types.NewEntry("article", "a").Set("journal", "IEEE SW")
	msgs := checkOf(t, p, collectionOf(types.BibTeX, sw))
	require.Len(t, msgs, 1)
	assert.Equal(t, IDAbbreviation, msgs[0].Checker)

	full := types.NewEntry("article", "a").Set("journal", "IEEE Software")
	assert.Empty(t, checkOf(t, p, collectionOf(types.BibTeX, full)))
}

func TestEngine_VerbatimFieldsSkipEscapingRules(t *testing.T) {
	e := types.NewEntry("misc", "a").
		Set("url", "http://www.thinkmind.org/index.php?view=article&amp;articleid=cloud_computing_2013_1_20_20130").
		Set("file", ":one & another.pdf:PDF")
	assert.Empty(t, checkOf(t, quietPrefs(), collectionOf(types.BibTeX, e)))

	e.Set("title", "A single &")
	msgs := checkOf(t, quietPrefs(), collectionOf(types.BibTeX, e))
	assert.Len(t, byChecker(msgs, IDAmpersand), 1)
}

func TestEngine_YearPunctuation(t *testing.T) {
	for _, d := range []types.Dialect{types.BibTeX, types.BibLaTeX} {
		for _, year := range []string{"1986}%", "1986(){},.;!?<>%&$", "(around 1986)"} {
			e := types.NewEntry("misc", "a").Set("year", year)
			assert.Empty(t, checkOf(t, quietPrefs(), collectionOf(d, e)), "%s year=%q", d, year)
		}
	}

	for _, year := range []string{"19.86", "1(9)86", "1,986"} {
		e := types.NewEntry("misc", "a").Set("year", year)
		msgs := checkOf(t, quietPrefs(), collectionOf(types.BibTeX, e))
		assert.Len(t, byChecker(msgs, IDYear), 1, "year=%q", year)
	}
}

func TestEngine_FileLinksRelativeToBibFile(t *testing.T) {
	p := quietPrefs()
	p.Files = FSLocator{FS: fstest.MapFS{"lib/file.pdf": {Data: []byte("%PDF")}}}

	c := collectionOf(types.BibTeX, types.NewEntry("misc", "a").Set("file", ":file.pdf:PDF"))
	c.Meta.Source = "lib/lit.bib"
	assert.Empty(t, checkOf(t, p, c))

	c.Entries[0].Set("file", ":asflakjfwofja:PDF")
	msgs := checkOf(t, p, c)
	require.Len(t, msgs, 1)
	assert.Equal(t, IDFile, msgs[0].Checker)
}

func TestEngine_Predatory(t *testing.T) {
	p := quietPrefs()
	p.PredatoryJournals = journals.NewPredatoryList("Journal of Bad Science")

	e := types.NewEntry("article", "a").Set("journal", "International Journal of Bad Science")
	msgs := byChecker(checkOf(t, p, collectionOf(types.BibLaTeX, e)), IDPredatory)
	require.Len(t, msgs, 1)
	assert.Equal(t, "journal", msgs[0].Field)
}

func TestEngine_Disabled(t *testing.T) {
	p := quietPrefs()
	p.Disabled = []string{"ascii", " Title-Case "}

	e := types.NewEntry("article", "a").Set("title", "Schön Title")
	assert.Empty(t, checkOf(t, p, collectionOf(types.BibTeX, e)))
}

func TestEngine_Checkers(t *testing.T) {
	bibtex := NewEngine(quietPrefs(), types.BibTeX).Checkers()
	assert.True(t, slices.IsSorted(bibtex))
	assert.Contains(t, bibtex, IDTitleCase)
	assert.Contains(t, bibtex, IDBiblatexField)
	assert.NotContains(t, bibtex, IDUTF8)
	assert.NotContains(t, bibtex, IDAbbreviation)

	biblatex := NewEngine(quietPrefs(), types.BibLaTeX).Checkers()
	assert.Contains(t, biblatex, IDUTF8)
	assert.NotContains(t, biblatex, IDTitleCase)

	p := quietPrefs()
	p.Disabled = []string{IDDuplicateDOI}
	assert.NotContains(t, NewEngine(p, types.BibTeX).Checkers(), IDDuplicateDOI)
}

func TestEngine_EntryIsUnchangedAfterChecks(t *testing.T) {
	e := types.NewEntry("article", "Some Key")
	for _, name := range []string{
		"author", "editor", "title", "journal", "journaltitle", "year", "date", "month", "pages",
		"doi", "isbn", "issn", "url", "file", "edition", "crossref", "related", "note", "x-custom",
	} {
		e.Set(name, "0b2c8c7e-3f0a-4d9e-8a51-{&}#")
	}
	before := *e
	before.Fields = slices.Clone(e.Fields)

	p := quietPrefs()
	p.CitationKeyPattern = "[auth][year]"
	p.Abbreviations = journals.NewRepository(journals.Abbreviation{Name: "IEEE Software", Abbreviation: "IEEE SW"})
	msgs := checkOf(t, p, collectionOf(types.BibTeX, e))

	assert.NotEmpty(t, msgs)
	assert.Equal(t, before, *e)
}

func TestEngine_Deterministic(t *testing.T) {
	var entries []*types.Entry
	for _, key := range []string{"dup", "dup", "x y", "z"} {
		entries = append(entries, types.NewEntry("article", key).
			Set("title", "A Title with & and http://x.org").
			Set("year", "86").
			Set("doi", "10.1000/1"))
	}
	c := collectionOf(types.BibTeX, entries...)

	serial := quietPrefs()
	serial.Jobs = 1
	parallel := quietPrefs()
	parallel.Jobs = 8

	first := checkOf(t, serial, c)
	assert.Equal(t, first, checkOf(t, serial, c))
	assert.Equal(t, first, checkOf(t, parallel, c))

	assert.True(t, slices.IsSortedFunc(first, func(a, b types.Message) int {
		return cmp.Or(cmp.Compare(a.EntryIndex, b.EntryIndex), cmp.Compare(a.Field, b.Field), cmp.Compare(a.Checker, b.Checker))
	}))
}

func TestEngine_CollectionScopeSortsLast(t *testing.T) {
	msgs := []types.Message{
		{EntryIndex: types.CollectionScope, Checker: "z"},
		{EntryIndex: 1, Field: "b", Checker: "a"},
		{EntryIndex: 0, Field: "title", Checker: "b"},
		{EntryIndex: 0, Field: "title", Checker: "a"},
		{EntryIndex: 0, Field: "", Checker: "c"},
	}
	sortMessages(msgs)
	assert.Equal(t, []types.Message{
		{EntryIndex: 0, Field: "", Checker: "c"},
		{EntryIndex: 0, Field: "title", Checker: "a"},
		{EntryIndex: 0, Field: "title", Checker: "b"},
		{EntryIndex: 1, Field: "b", Checker: "a"},
		{EntryIndex: types.CollectionScope, Checker: "z"},
	}, msgs)
}

type boomValue struct{}

func (boomValue) ID() string { return "boom" }

func (boomValue) CheckValue(string) (string, bool) { panic("parser exploded") }

type boomEntry struct{}

func (boomEntry) ID() string { return "boom-entry" }

func (boomEntry) Check(*types.Entry, *Scope) []Finding { panic("nil map") }

type boomCollection struct{}

func (boomCollection) ID() string { return "boom-collection" }

func (boomCollection) Check(*types.Collection) []types.Message { panic("out of range") }

func TestEngine_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	p := Preferences{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	en := NewEngine(p, types.BibTeX)
	en.values = append(en.values, rule{boomValue{}, named("title")})
	en.entries = append(en.entries, boomEntry{})
	en.collections = append(en.collections, boomCollection{})

	c := collectionOf(types.BibTeX,
		types.NewEntry("article", "a").Set("title", "Fine"),
		types.NewEntry("article", "b").Set("title", "Also fine").Set("year", "86"),
	)
	msgs, err := en.Check(context.Background(), c)
	require.NoError(t, err)

	boom := byChecker(msgs, "boom")
	require.Len(t, boom, 2)
	assert.Equal(t, "title", boom[0].Field)
	assert.Equal(t, "internal error in boom", boom[0].Text)

	assert.Len(t, byChecker(msgs, "boom-entry"), 2)
	coll := byChecker(msgs, "boom-collection")
	require.Len(t, coll, 1)
	assert.True(t, coll[0].IsCollectionScope())

	assert.Len(t, byChecker(msgs, IDYear), 1, "other checkers keep running")
	assert.Contains(t, logs.String(), "checker panicked")
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := collectionOf(types.BibTeX, types.NewEntry("article", "a").Set("title", "x"))
	msgs, err := NewEngine(quietPrefs(), types.BibTeX).Check(ctx, c)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, msgs)
}

func TestEngine_EmptyCollection(t *testing.T) {
	msgs, err := NewEngine(quietPrefs(), types.BibLaTeX).Check(context.Background(), &types.Collection{})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestEngine_CheckEntry(t *testing.T) {
	c := collectionOf(types.BibTeX,
		types.NewEntry("article", "a").Set("doi", "10.1000/1"),
		types.NewEntry("article", "a").Set("year", "86").Set("doi", "10.1000/1"),
	)
	msgs := NewEngine(quietPrefs(), types.BibTeX).CheckEntry(c, 1)
	require.Len(t, msgs, 1)
	assert.Equal(t, IDYear, msgs[0].Checker)
	assert.Equal(t, 1, msgs[0].EntryIndex)
}
