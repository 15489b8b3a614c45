package grove

import (
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
	"github.com/aretw0/grove/pkg/typed"
)

// DocumentModel pairs a document ID with its fields decoded into T.
type DocumentModel[T any] = typed.DocumentModel[T]

// Category, Topic and Note are the three levels of the tree.
type (
	Category = tree.Category
	Topic    = tree.Topic
	Note     = tree.Note
)

// Decode converts the fields of doc into T.
func Decode[T any](doc core.Document) (DocumentModel[T], error) {
	return typed.Decode[T](doc)
}

// DecodeAll decodes docs in order, skipping the ones that fail.
func DecodeAll[T any](docs []core.Document) ([]DocumentModel[T], []error) {
	return typed.DecodeAll[T](docs)
}

// Encode converts v into document fields.
func Encode[T any](v T) (core.Fields, error) {
	return typed.Encode(v)
}
