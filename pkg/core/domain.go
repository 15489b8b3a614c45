// Package core defines the document-store domain: collection paths, documents,
// change events and the Service that fronts a storage adapter.
package core

import "fmt"

// Fields represents the flexible key-value pairs stored in a document.
type Fields map[string]any

// Clone returns a shallow copy of f. A nil map clones to an empty one.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a copy of f with every key of patch applied on top.
func (f Fields) Merge(patch Fields) Fields {
	out := f.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// String returns the value of key when it holds a string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Document is the central entity of the domain.
// It is a set of fields identified by an ID inside a collection.
type Document struct {
	ID     string
	Fields Fields
}

// EventType represents the type of change in a collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of one document in a collection.
type Event struct {
	Type       EventType
	Collection Path
	ID         string
	Timestamp  int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Collection, e.ID)
}
