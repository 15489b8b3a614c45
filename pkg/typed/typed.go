// Package typed converts between schemaless core documents and Go structs.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/grove/pkg/core"
)

// DocumentModel is a typed view of a core.Document.
type DocumentModel[T any] struct {
	ID   string
	Data T
}

// Decode converts the fields of doc into T through a JSON round-trip.
// Unknown fields are ignored and missing ones keep their zero value.
func Decode[T any](doc core.Document) (DocumentModel[T], error) {
	var model DocumentModel[T]
	model.ID = doc.ID

	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return model, fmt.Errorf("failed to marshal fields of %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(data, &model.Data); err != nil {
		return model, fmt.Errorf("failed to decode %s: %w", doc.ID, err)
	}
	return model, nil
}

// DecodeAll decodes docs in order. Documents that do not fit T are skipped and
// reported through the returned error list.
func DecodeAll[T any](docs []core.Document) ([]DocumentModel[T], []error) {
	out := make([]DocumentModel[T], 0, len(docs))
	var errs []error
	for _, doc := range docs {
		model, err := Decode[T](doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, model)
	}
	return out, errs
}

// Encode converts v into document fields.
func Encode[T any](v T) (core.Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	fields := make(core.Fields)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to fields: %w", err)
	}
	return fields, nil
}
