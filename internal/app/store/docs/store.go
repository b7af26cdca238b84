// internal/app/store/docs/store.go
package docs

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetByID when no document has the given key.
var ErrNotFound = errors.New("document not found")

// Store is the document database as the reconciliation core consumes it:
// named collections plus cross-collection write batches. Production runs
// use the Mongo implementation; tests use an in-memory one.
type Store interface {
	Collection(name string) Collection
	NewBatch() Batch
}

// Collection is one named set of documents keyed by string ID.
type Collection interface {
	Name() string

	// GetByID loads one document, or ErrNotFound.
	GetByID(ctx context.Context, id string) (Document, error)

	// FindByField returns all documents whose field equals value exactly.
	FindByField(ctx context.Context, field string, value any) ([]Document, error)

	// ScanPage returns up to limit documents with ID greater than afterID,
	// in ascending ID order. An empty afterID starts from the beginning;
	// an empty result means the scan is exhausted.
	ScanPage(ctx context.Context, afterID string, limit int) ([]Document, error)

	// Replace writes the document under id, fully overwriting any existing
	// document (create-or-replace, never merge).
	Replace(ctx context.Context, id string, doc Document) error

	// Apply applies a patch to an existing document: DeleteField entries
	// remove fields, everything else sets them. Applying an empty patch is
	// a no-op.
	Apply(ctx context.Context, id string, p Patch) error

	// DeleteByID removes the document. Deleting a missing document is not
	// an error.
	DeleteByID(ctx context.Context, id string) error
}

// Batch accumulates writes across collections and commits them as one
// unit. A document migration queues its destination copy and its source
// delete into the same batch so a crash can never leave the document in
// both places or neither.
type Batch interface {
	Set(collection, id string, doc Document)
	Delete(collection, id string)

	// Len is the number of queued operations.
	Len() int

	// Commit applies every queued operation, then resets the batch.
	Commit(ctx context.Context) error
}
