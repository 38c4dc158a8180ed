package types

// CollectionScope is the EntryIndex of messages about the whole collection.
const CollectionScope = -1

// Message is a single integrity diagnostic. Messages are values and are never
// changed after creation.
type Message struct {
	// EntryID is the ID of the offending entry; empty for collection scope.
	EntryID string `json:"entry_id,omitempty" yaml:"entry_id,omitempty" msgpack:"entry_id"`

	// EntryIndex is the entry's position in the collection, or CollectionScope.
	EntryIndex int `json:"entry_index" yaml:"entry_index" msgpack:"entry_index"`

	// CitationKey is the entry's key at the time of the check.
	CitationKey string `json:"citation_key,omitempty" yaml:"citation_key,omitempty" msgpack:"citation_key"`

	// Field is the offending field name; empty for entry-level findings.
	Field string `json:"field,omitempty" yaml:"field,omitempty" msgpack:"field"`

	// Checker is the id of the rule that produced the message.
	Checker string `json:"checker" yaml:"checker" msgpack:"checker"`

	// Text is the human-readable description.
	Text string `json:"text" yaml:"text" msgpack:"text"`
}

// NewMessage creates a message about field f of entry e at position idx.
func NewMessage(e *Entry, idx int, field, checker, text string) Message {
	return Message{
		EntryID:     e.ID,
		EntryIndex:  idx,
		CitationKey: e.Key,
		Field:       field,
		Checker:     checker,
		Text:        text,
	}
}

// IsCollectionScope reports whether m describes the collection as a whole.
func (m Message) IsCollectionScope() bool {
	return m.EntryIndex == CollectionScope
}
