// Package blob stores note attachments and resolves them to fetchable URLs.
//
// Nothing ever deletes a blob: removing a note or replacing its image leaves
// the previous object in place.
package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Handle identifies a stored blob.
type Handle string

// Store is the blob storage collaborator.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (Handle, error)
	URL(ctx context.Context, h Handle) (string, error)
}

// UploadError reports a failed attachment upload.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	return fmt.Sprintf("upload %s failed: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

const maxNameLen = 64

// NewKey builds a collision-resistant key for data uploaded as filename:
// <prefix>/<uuidv7>-<sha256[:12]>-<sanitized filename>.
func NewKey(prefix, filename string, data []byte) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	sum := sha256.Sum256(data)
	name := fmt.Sprintf("%s-%s-%s", id, hex.EncodeToString(sum[:])[:12], sanitize(filename))
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func sanitize(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "blob"
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = string(runes[len(runes)-maxNameLen:])
	}
	return name
}

// Upload stores data under a fresh key and returns its URL.
func Upload(ctx context.Context, store Store, prefix, filename string, data []byte) (string, error) {
	key := NewKey(prefix, filename, data)
	h, err := store.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	url, err := store.URL(ctx, h)
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	return url, nil
}
