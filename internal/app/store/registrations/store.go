// internal/app/store/registrations/store.go
package registrations

import (
	"context"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/domain/models"
)

// CollectionName is the live registration collection.
const CollectionName = "registrations"

// Store wraps the registrations collection with typed operations. The
// documents themselves stay schema-less; this layer only knows which
// fields matter for each operation.
type Store struct {
	col docs.Collection
}

// New builds the store over a document store.
func New(s docs.Store) *Store {
	return &Store{col: s.Collection(CollectionName)}
}

// Collection exposes the raw collection for batch passes.
func (s *Store) Collection() docs.Collection { return s.col }

// GetByUniqueID loads one registration, or docs.ErrNotFound.
func (s *Store) GetByUniqueID(ctx context.Context, uniqueID string) (docs.Document, error) {
	return s.col.GetByID(ctx, uniqueID)
}

// Replace writes a registration as a full document replace.
func (s *Store) Replace(ctx context.Context, uniqueID string, doc docs.Document) error {
	return s.col.Replace(ctx, uniqueID, doc)
}

// SetStatus updates the status of one registration in place. Returns
// docs.ErrNotFound (wrapped) when the identifier does not exist; callers
// tally and continue.
func (s *Store) SetStatus(ctx context.Context, uniqueID, status string) error {
	return s.col.Apply(ctx, uniqueID, docs.Patch{
		fieldmap.FieldStatus:    status,
		fieldmap.FieldUpdatedAt: time.Now().UTC(),
	})
}

// Summary extracts the typed projection of a registration document.
// Documents that predate canonicalization may miss the uniqueId field;
// the document key stands in.
func Summary(doc docs.Document) models.RegistrationSummary {
	uid := doc.TrimStr(fieldmap.FieldUniqueID)
	if uid == "" {
		uid = doc.ID()
	}
	return models.RegistrationSummary{
		UniqueID: uid,
		Name:     doc.TrimStr(fieldmap.FieldName),
		Email:    doc.TrimStr(fieldmap.FieldEmail),
	}
}
