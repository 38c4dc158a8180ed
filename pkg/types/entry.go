package types

import "strings"

// FieldValue is one field of an entry as written in the source.
type FieldValue struct {
	Field Field  `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// Entry is a single bibliographic record. Fields keep their source order and
// hold at most one value per name.
type Entry struct {
	// ID is a stable identifier assigned when the entry is loaded.
	ID string `json:"id" yaml:"id"`

	// Type is the lower-case entry type (article, book, ...).
	Type string `json:"type" yaml:"type"`

	// Key is the citation key; empty when the record has none.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Line is the 1-based source line of the entry header, 0 when unknown.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`

	Fields []FieldValue `json:"fields" yaml:"fields"`
}

// NewEntry returns an empty entry of the given type.
func NewEntry(entryType, key string) *Entry {
	return &Entry{Type: strings.ToLower(entryType), Key: key}
}

// Set stores value under name, replacing any existing value in place.
func (e *Entry) Set(name, value string) *Entry {
	f := FieldByName(name)
	for i := range e.Fields {
		if e.Fields[i].Field.Name == f.Name {
			e.Fields[i].Value = value
			return e
		}
	}
	e.Fields = append(e.Fields, FieldValue{Field: f, Value: value})
	return e
}

// Get returns the value stored under name.
func (e *Entry) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, fv := range e.Fields {
		if fv.Field.Name == name {
			return fv.Value, true
		}
	}
	return "", false
}

// Value returns the value stored under name or the empty string.
func (e *Entry) Value(name string) string {
	v, _ := e.Get(name)
	return v
}

// Has reports whether name is present with a non-blank value.
func (e *Entry) Has(name string) bool {
	v, ok := e.Get(name)
	return ok && strings.TrimSpace(v) != ""
}

// Remove deletes the field stored under name.
func (e *Entry) Remove(name string) {
	name = strings.ToLower(name)
	for i := range e.Fields {
		if e.Fields[i].Field.Name == name {
			e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
			return
		}
	}
}

// FirstOf returns the first non-blank value among names, in order.
func (e *Entry) FirstOf(names ...string) string {
	for _, n := range names {
		if v := e.Value(n); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
