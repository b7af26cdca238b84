// internal/app/store/emailindex/store.go
package emailindex

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/domain/models"
)

// CollectionName holds the email → registration-IDs index, keyed by the
// normalized email.
const CollectionName = "email_index"

type Store struct {
	col docs.Collection
}

func New(s docs.Store) *Store {
	return &Store{col: s.Collection(CollectionName)}
}

// Get loads one index entry, or docs.ErrNotFound.
func (s *Store) Get(ctx context.Context, email string) (models.EmailIndexEntry, error) {
	doc, err := s.col.GetByID(ctx, email)
	if err != nil {
		return models.EmailIndexEntry{}, err
	}
	return fromDoc(doc), nil
}

// MergeUIDs unions uids into the entry for email, creating the entry if
// absent. Used by the import pipeline's incremental maintenance; the
// reconciliation rebuild uses ReplaceEntry instead.
func (s *Store) MergeUIDs(ctx context.Context, email string, uids []string) error {
	existing, err := s.col.GetByID(ctx, email)
	if err != nil && !errors.Is(err, docs.ErrNotFound) {
		return err
	}
	merged := uids
	if existing != nil {
		merged = append(merged, uidList(existing)...)
	}
	return s.ReplaceEntry(ctx, email, merged)
}

// ReplaceEntry overwrites the entry for email with exactly this uid set
// (deduplicated and sorted), discarding whatever was stored before.
func (s *Store) ReplaceEntry(ctx context.Context, email string, uids []string) error {
	set := dedupeSorted(uids)
	return s.col.Replace(ctx, email, docs.Document{
		"email":     email,
		"uids":      set,
		"count":     len(set),
		"updatedAt": time.Now().UTC(),
	})
}

// ScanAll returns every index entry.
func (s *Store) ScanAll(ctx context.Context, pageSize int) ([]models.EmailIndexEntry, error) {
	var out []models.EmailIndexEntry
	afterID := ""
	for {
		page, err := s.col.ScanPage(ctx, afterID, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return out, nil
		}
		for _, doc := range page {
			out = append(out, fromDoc(doc))
		}
		afterID = page[len(page)-1].ID()
	}
}

func fromDoc(doc docs.Document) models.EmailIndexEntry {
	entry := models.EmailIndexEntry{
		Email: doc.Str("email"),
		UIDs:  uidList(doc),
	}
	if entry.Email == "" {
		entry.Email = doc.ID()
	}
	entry.Count = len(entry.UIDs)
	if t, ok := doc.Time("updatedAt"); ok {
		entry.UpdatedAt = t
	}
	return entry
}

// uidList tolerates the value shapes the driver hands back for arrays.
func uidList(doc docs.Document) []string {
	switch v := doc["uids"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func dedupeSorted(uids []string) []string {
	seen := make(map[string]bool, len(uids))
	out := make([]string, 0, len(uids))
	for _, uid := range uids {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}
