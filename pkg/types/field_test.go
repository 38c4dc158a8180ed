package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldByName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind FieldKind
		wantProp FieldProperty
	}{
		{"author is person names", "Author", KindStandard, PropPersonNames},
		{"doi is verbatim", "doi", KindStandard, PropDOI | PropVerbatim},
		{"journaltitle biblatex only", "journaltitle", KindStandard, PropJournalName | PropBiblatexOnly},
		{"crossref references one entry", "crossref", KindStandard, PropEntryReference},
		{"date is a date", "date", KindStandard, PropDate},
		{"user comment", "comment-alice", KindUserDefined, PropComment | PropVerbatim},
		{"unknown field", "mynote", KindUserDefined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FieldByName(tt.input)
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.True(t, f.Properties().Has(tt.wantProp), "properties %b lack %b", f.Properties(), tt.wantProp)
		})
	}
}

func TestFieldKeyIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, FieldKey.Kind)
	assert.True(t, FieldKey.Properties().Has(PropCitationKey))
	assert.NotEqual(t, FieldKey, FieldByName("citationkey"))
}

func TestEntrySetReplacesInPlace(t *testing.T) {
	e := NewEntry("Article", "k")
	e.Set("author", "A").Set("title", "T").Set("AUTHOR", "B")

	assert.Equal(t, "article", e.Type)
	assert.Len(t, e.Fields, 2)
	assert.Equal(t, "author", e.Fields[0].Field.Name)
	assert.Equal(t, "B", e.Value("author"))

	e.Remove("author")
	assert.False(t, e.Has("author"))
	assert.Equal(t, "T", e.FirstOf("journal", "title"))
}

func TestCollectionKeyIndex(t *testing.T) {
	c := &Collection{Entries: []*Entry{
		NewEntry("article", "a"),
		NewEntry("article", "A"),
		NewEntry("article", "a"),
		NewEntry("article", ""),
	}}

	idx := c.KeyIndex()
	assert.Len(t, idx["a"], 2)
	assert.Len(t, idx["A"], 1)
	_, hasEmpty := idx[""]
	assert.False(t, hasEmpty)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("BibLaTeX")
	assert.NoError(t, err)
	assert.Equal(t, BibLaTeX, d)

	_, err = ParseDialect("amsrefs")
	assert.Error(t, err)
}
