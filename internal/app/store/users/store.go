// internal/app/store/users/store.go
package userstore

import (
	"context"
	"sort"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
	"github.com/sevakendra/regdesk/internal/domain/models"
)

// CollectionName holds local user-account profiles, keyed by the opaque
// identity-provider account ID.
const CollectionName = "users"

type Store struct {
	col docs.Collection
}

func New(s docs.Store) *Store {
	return &Store{col: s.Collection(CollectionName)}
}

// Create writes a new profile document for a provisioned account.
func (s *Store) Create(ctx context.Context, accountID, email, name string) error {
	now := time.Now().UTC()
	return s.col.Replace(ctx, accountID, docs.Document{
		"email":     normalize.Email(email),
		"name":      normalize.Name(name),
		"createdAt": now,
		"updatedAt": now,
	})
}

// DeleteByEmail removes every profile stored under the normalized email.
// Returns the number removed.
func (s *Store) DeleteByEmail(ctx context.Context, email string) (int, error) {
	matches, err := s.FindByEmail(ctx, email, 0)
	if err != nil {
		return 0, err
	}
	for _, doc := range matches {
		if err := s.col.DeleteByID(ctx, doc.ID()); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// FindByEmail resolves accounts whose email normalizes to the given key.
// A direct equality lookup runs first; when it finds nothing, a full
// collection scan re-checks every document under normalization, because
// older accounts were stored with unnormalized emails. pageSize bounds
// the fallback scan's pages; zero means the default.
func (s *Store) FindByEmail(ctx context.Context, email string, pageSize int) ([]docs.Document, error) {
	key := normalize.Email(email)
	direct, err := s.col.FindByField(ctx, "email", key)
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		return direct, nil
	}

	if pageSize <= 0 {
		pageSize = 3000
	}
	var matches []docs.Document
	afterID := ""
	for {
		page, err := s.col.ScanPage(ctx, afterID, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return matches, nil
		}
		for _, doc := range page {
			if normalize.Email(doc.Str("email")) == key {
				matches = append(matches, doc)
			}
		}
		afterID = page[len(page)-1].ID()
	}
}

// AssociatedUIDs reads the uniqueId set currently cached on a profile.
func AssociatedUIDs(doc docs.Document) []string {
	var out []string
	switch v := doc["associatedRegistrations"].(type) {
	case []any:
		for _, e := range v {
			switch entry := e.(type) {
			case map[string]any:
				out = append(out, docs.Document(entry).Str("uniqueId"))
			case docs.Document:
				out = append(out, entry.Str("uniqueId"))
			}
		}
	case []models.RegistrationSummary:
		for _, r := range v {
			out = append(out, r.UniqueID)
		}
	}
	return out
}

// UpdateAssociatedRegistrations overwrites the cached projection on one
// profile, but only when the uniqueId set actually changed. The
// comparison is order-insensitive; skipping no-op writes keeps the
// store's downstream watchers quiet.
func (s *Store) UpdateAssociatedRegistrations(ctx context.Context, accountID string, regs []models.RegistrationSummary) (bool, error) {
	doc, err := s.col.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	current := AssociatedUIDs(doc)
	next := make([]string, 0, len(regs))
	for _, r := range regs {
		next = append(next, r.UniqueID)
	}
	if sameSet(current, next) {
		return false, nil
	}

	return true, s.col.Apply(ctx, accountID, docs.Patch{
		"associatedRegistrations": regs,
		"updatedAt":               time.Now().UTC(),
	})
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
