package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/grove/pkg/core"
)

// ValidationError rejects a write whose required field is empty after
// trimming. Nothing reaches the store.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Required returns value trimmed, or a ValidationError for field when
// nothing is left.
func Required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{Field: field}
	}
	return value, nil
}

// required lists the text fields each level must carry.
var required = map[string][]string{
	CategoriesCollection: {FieldName},
	TopicsCollection:     {FieldName},
	NotesCollection:      {FieldTitle, FieldContent},
}

// Normalize checks fields about to be written to coll and returns a copy
// with names and titles trimmed. Content is kept verbatim but must not be
// blank. A create (partial false) must carry every required field; a
// partial update only checks the ones it sets. Collections outside the tree
// pass through unchanged.
func Normalize(coll core.Path, fields core.Fields, partial bool) (core.Fields, error) {
	out := fields.Clone()
	for _, field := range required[coll.Collection()] {
		if _, ok := fields[field]; !ok && partial {
			continue
		}
		trimmed, err := Required(field, fields.String(field))
		if err != nil {
			return nil, err
		}
		if field != FieldContent {
			out[field] = trimmed
		}
	}
	return out, nil
}
