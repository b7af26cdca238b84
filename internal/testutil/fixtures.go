// internal/testutil/fixtures.go
package testutil

import (
	"testing"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	store *MemStore
	t     *testing.T
}

// NewFixtures creates a Fixtures instance over an in-memory store.
func NewFixtures(t *testing.T, store *MemStore) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() *MemStore { return f.store }

// CreateRegistration seeds a canonical registration document.
func (f *Fixtures) CreateRegistration(uniqueID, name, email string) docs.Document {
	f.t.Helper()

	now := time.Now().UTC()
	doc := docs.Document{
		"uniqueId":     uniqueID,
		"normalizedId": normalize.ID(uniqueID),
		"name":         name,
		"email":        email,
		"createdAt":    now,
		"importedAt":   now,
	}
	f.store.Seed("registrations", uniqueID, doc)
	return doc
}

// CreateRegistrationDoc seeds a registration with arbitrary extra fields
// merged over the canonical base.
func (f *Fixtures) CreateRegistrationDoc(uniqueID string, extra docs.Document) docs.Document {
	f.t.Helper()

	doc := f.CreateRegistration(uniqueID, "", "")
	for k, v := range extra {
		doc[k] = v
	}
	f.store.Seed("registrations", uniqueID, doc)
	return doc
}

// CreateUser seeds a user-account profile document.
func (f *Fixtures) CreateUser(id, email string) docs.Document {
	f.t.Helper()

	doc := docs.Document{
		"email":     email,
		"createdAt": time.Now().UTC(),
	}
	f.store.Seed("users", id, doc)
	return doc
}
