package types

import "strings"

// FieldKind distinguishes standard bibliography fields from fields that
// only the checker itself or the user defines.
type FieldKind int

const (
	// KindStandard is a field known to BibTeX or BibLaTeX.
	KindStandard FieldKind = iota
	// KindInternal is a pseudo-field such as the citation key or entry type.
	KindInternal
	// KindUserDefined is any field name not in the standard tables.
	KindUserDefined
)

func (k FieldKind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindInternal:
		return "internal"
	default:
		return "user"
	}
}

// FieldProperty is a bitset of traits that select which checkers apply to
// a field.
type FieldProperty uint32

const (
	PropPersonNames FieldProperty = 1 << iota
	PropVerbatim
	PropSingleValued
	PropDate
	PropJournalName
	PropBookName
	PropEntryReference
	PropEntryReferences
	PropFileList
	PropURL
	PropDOI
	PropISBN
	PropISSN
	PropYear
	PropMonth
	PropPages
	PropEdition
	PropBiblatexOnly
	PropComment
	PropCitationKey
	PropProse
)

// Has reports whether every bit of q is set in p.
func (p FieldProperty) Has(q FieldProperty) bool {
	return p&q == q
}

// Field identifies a bibliography field. Identity is name plus kind; names
// are stored lower-case.
type Field struct {
	Name string    `json:"name" yaml:"name"`
	Kind FieldKind `json:"kind" yaml:"kind"`
}

// Pseudo-fields used by entry-level diagnostics.
var (
	FieldKey       = Field{Name: "citationkey", Kind: KindInternal}
	FieldEntryType = Field{Name: "entrytype", Kind: KindInternal}
)

// commentPrefix marks user-specific comment fields such as comment-alice.
const commentPrefix = "comment-"

// FieldByName resolves a raw field name to a Field, classifying it against
// the standard table.
func FieldByName(name string) Field {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := standardFields[name]; ok {
		return Field{Name: name, Kind: KindStandard}
	}
	return Field{Name: name, Kind: KindUserDefined}
}

// Properties returns the trait set for f.
func (f Field) Properties() FieldProperty {
	if f.Kind == KindInternal {
		if f == FieldKey {
			return PropCitationKey | PropSingleValued
		}
		return PropSingleValued
	}
	if p, ok := standardFields[f.Name]; ok {
		return p
	}
	if strings.HasPrefix(f.Name, commentPrefix) {
		return PropComment | PropVerbatim
	}
	return 0
}

// IsUserComment reports whether f is a per-user comment field.
func (f Field) IsUserComment() bool {
	return strings.HasPrefix(f.Name, commentPrefix)
}

func (f Field) String() string {
	return f.Name
}

const (
	names   = PropPersonNames
	verb    = PropVerbatim
	single  = PropSingleValued
	bltx    = PropBiblatexOnly
	prose   = PropProse
	refOne  = PropEntryReference | PropSingleValued
	refMany = PropEntryReferences
	date    = PropDate | PropSingleValued
)

// standardFields lists every field known to BibTeX or BibLaTeX with its
// traits.
var standardFields = map[string]FieldProperty{
	"abstract":        0,
	"addendum":        bltx,
	"address":         0,
	"afterword":       names | bltx,
	"annotation":      bltx,
	"annotator":       names | bltx,
	"annote":          0,
	"archiveprefix":   single,
	"author":          names,
	"bookauthor":      names | bltx,
	"bookpagination":  bltx,
	"booksubtitle":    bltx | prose,
	"booktitle":       PropBookName | prose,
	"booktitleaddon":  bltx | prose,
	"chapter":         0,
	"comment":         PropComment | verb,
	"commentator":     names | bltx,
	"crossref":        refOne,
	"date":            date | bltx,
	"doi":             PropDOI | verb | single,
	"edition":         PropEdition | single,
	"editor":          names,
	"editora":         names | bltx,
	"editorb":         names | bltx,
	"editorc":         names | bltx,
	"editortype":      bltx,
	"eid":             bltx,
	"entryset":        refMany | bltx,
	"eprint":          verb | single,
	"eprintclass":     bltx,
	"eprinttype":      bltx,
	"eventdate":       date | bltx,
	"eventtitle":      bltx | prose,
	"eventtitleaddon": bltx | prose,
	"file":            PropFileList | verb,
	"foreword":        names | bltx,
	"holder":          names | bltx,
	"howpublished":    0,
	"institution":     0,
	"introduction":    names | bltx,
	"isan":            bltx,
	"isbn":            PropISBN | single,
	"ismn":            bltx,
	"isrn":            bltx,
	"issn":            PropISSN | single,
	"issue":           bltx,
	"issuesubtitle":   bltx | prose,
	"issuetitle":      bltx | prose,
	"iswc":            bltx,
	"journal":         PropJournalName | prose,
	"journalsubtitle": bltx | prose,
	"journaltitle":    PropJournalName | bltx | prose,
	"key":             single,
	"keywords":        0,
	"label":           bltx,
	"langid":          bltx,
	"language":        bltx,
	"library":         bltx,
	"location":        bltx,
	"mainsubtitle":    bltx | prose,
	"maintitle":       bltx | prose,
	"maintitleaddon":  bltx | prose,
	"month":           PropMonth | single,
	"nameaddon":       bltx,
	"note":            0,
	"number":          single,
	"organization":    0,
	"origdate":        date | bltx,
	"origlanguage":    bltx,
	"origlocation":    bltx,
	"origpublisher":   bltx,
	"origtitle":       bltx | prose,
	"pages":           PropPages | single,
	"pagetotal":       bltx,
	"pagination":      bltx,
	"part":            bltx,
	"pdf":             verb,
	"pubstate":        bltx,
	"publisher":       0,
	"related":         refMany | bltx,
	"relatedtype":     bltx,
	"reprinttitle":    bltx | prose,
	"school":          0,
	"series":          prose,
	"shortauthor":     names | bltx,
	"shorteditor":     names | bltx,
	"shorthand":       bltx,
	"shortjournal":    bltx,
	"shortseries":     bltx,
	"shorttitle":      bltx | prose,
	"subtitle":        bltx | prose,
	"title":           prose,
	"titleaddon":      bltx | prose,
	"translator":      names | bltx,
	"type":            0,
	"url":             PropURL | verb | single,
	"urldate":         date | bltx,
	"venue":           bltx,
	"verba":           verb | bltx,
	"verbb":           verb | bltx,
	"verbc":           verb | bltx,
	"version":         bltx,
	"volume":          single,
	"volumes":         bltx,
	"xdata":           refMany | bltx,
	"xref":            refOne | bltx,
	"year":            PropYear | single,
}
