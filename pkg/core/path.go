package core

import (
	"fmt"
	"strings"
)

// Path addresses a collection of documents, e.g. "categories" or
// "categories/{id}/topics". Segments alternate collection name and document
// ID, so a valid Path always has an odd number of segments.
type Path string

// Validate reports whether p is a well formed collection path.
func (p Path) Validate() error {
	if p == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	segs := strings.Split(string(p), "/")
	if len(segs)%2 == 0 {
		return fmt.Errorf("%w: %q addresses a document, not a collection", ErrInvalidPath, p)
	}
	for _, s := range segs {
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `\`) {
			return fmt.Errorf("%w: bad segment in %q", ErrInvalidPath, p)
		}
	}
	return nil
}

// Segments splits p on "/".
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), "/")
}

// Collection returns the collection name (the last segment).
func (p Path) Collection() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Depth is the number of collections from the root, starting at 1.
func (p Path) Depth() int {
	return (len(p.Segments()) + 1) / 2
}

// DocPath returns the path of document id inside p.
func (p Path) DocPath(id string) string {
	return string(p) + "/" + id
}

// Child returns the sub-collection named collection of document docID.
func (p Path) Child(docID, collection string) Path {
	return Path(p.DocPath(docID) + "/" + collection)
}

// Parent returns the collection holding the document that owns p, and that
// document's ID. ok is false for top-level collections.
func (p Path) Parent() (parent Path, docID string, ok bool) {
	segs := p.Segments()
	if len(segs) < 3 {
		return "", "", false
	}
	return Path(strings.Join(segs[:len(segs)-2], "/")), segs[len(segs)-2], true
}

func (p Path) String() string {
	return string(p)
}
