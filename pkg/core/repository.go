package core

import "context"

// Repository defines the contract for storing and retrieving documents.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, SQL, ...).
type Repository interface {
	// Save persists a document in a collection. It creates if not exists, or replaces if it does.
	Save(ctx context.Context, coll Path, doc Document) error

	// Get retrieves a document by its ID.
	Get(ctx context.Context, coll Path, id string) (Document, error)

	// List returns every document of a collection ordered by ID.
	// Sub-collections are not included.
	List(ctx context.Context, coll Path) ([]Document, error)

	// Delete removes one document. Sub-collections owned by it are left untouched.
	Delete(ctx context.Context, coll Path, id string) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that push change events.
type Watchable interface {
	// Watch emits an Event for every change in coll until ctx is done.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context, coll Path) (<-chan Event, error)
}

// Patcher is implemented by repositories able to merge fields natively.
type Patcher interface {
	Patch(ctx context.Context, coll Path, id string, fields Fields) error
}

// Closer is implemented by repositories holding resources (db handles).
type Closer interface {
	Close() error
}
