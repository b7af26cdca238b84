// internal/app/pipeline/cleanup/cleanup_test.go
package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/testutil"
	"go.uber.org/zap"
)

func newPasses(store *testutil.MemStore) *Passes {
	log := zap.NewNop()
	runner := batch.New(log)
	runner.Delay = 0
	p := New(registrations.New(store), fieldmap.New(fieldmap.DefaultLegacy, log), runner, log)
	p.now = func() time.Time { return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC) }
	return p
}

func seed(store *testutil.MemStore, id string, fields docs.Document) {
	doc := docs.Document{"uniqueId": id}
	for k, v := range fields {
		doc[k] = v
	}
	store.Seed(registrations.CollectionName, id, doc)
}

func getDoc(t *testing.T, store *testutil.MemStore, id string) docs.Document {
	t.Helper()
	doc, err := store.Collection(registrations.CollectionName).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return doc
}

func TestCanonicalizeFields(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"Full Name": "Asha Patel"})
	seed(store, "UKAA0002", docs.Document{"name": "Ravi Shah"})

	p := newPasses(store)
	tally, err := p.CanonicalizeFields(context.Background())
	if err != nil {
		t.Fatalf("CanonicalizeFields: %v", err)
	}
	if tally.Updated != 2 || tally.Failed != 0 {
		t.Fatalf("tally = %+v", tally)
	}

	doc := getDoc(t, store, "UKAA0001")
	if got := doc.Str("name"); got != "Asha Patel" {
		t.Errorf("name = %q", got)
	}
	if _, still := doc["Full Name"]; still {
		t.Errorf("legacy key survived canonicalization")
	}
}

func TestRemoveLegacyDuplicates(t *testing.T) {
	store := testutil.NewMemStore()
	// Canonical already populated: legacy copy is a pure duplicate.
	seed(store, "UKAA0001", docs.Document{"name": "Asha Patel", "Full Name": "Asha P"})
	// Canonical empty: legacy key is the only copy and must stay.
	seed(store, "UKAA0002", docs.Document{"Email Address": "ravi@example.org"})

	p := newPasses(store)
	tally, err := p.RemoveLegacyDuplicates(context.Background())
	if err != nil {
		t.Fatalf("RemoveLegacyDuplicates: %v", err)
	}
	if tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %+v, want 1 updated 1 skipped", tally)
	}

	first := getDoc(t, store, "UKAA0001")
	if _, still := first["Full Name"]; still {
		t.Errorf("duplicate legacy key survived")
	}
	if got := first.Str("name"); got != "Asha Patel" {
		t.Errorf("canonical value disturbed: %q", got)
	}
	second := getDoc(t, store, "UKAA0002")
	if got := second.Str("Email Address"); got != "ravi@example.org" {
		t.Errorf("sole copy removed: %q", got)
	}
}

func TestRemoveFields(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"scratch": "x", "name": "Asha"})
	seed(store, "UKAA0002", docs.Document{"name": "Ravi"})

	p := newPasses(store)
	tally, err := p.RemoveFields(context.Background(), []string{"scratch"})
	if err != nil {
		t.Fatalf("RemoveFields: %v", err)
	}
	if tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %+v, want 1 updated 1 skipped", tally)
	}
	if _, still := getDoc(t, store, "UKAA0001")["scratch"]; still {
		t.Errorf("field not removed")
	}
}

func TestRemoveFieldsRejectsBadNames(t *testing.T) {
	p := newPasses(testutil.NewMemStore())
	if _, err := p.RemoveFields(context.Background(), []string{"uniqueId"}); err == nil {
		t.Errorf("protected field accepted")
	}
	if _, err := p.RemoveFields(context.Background(), []string{"bad[name]"}); err == nil {
		t.Errorf("unaddressable field accepted")
	}
	if _, err := p.RemoveFields(context.Background(), nil); err == nil {
		t.Errorf("empty field list accepted")
	}
}

func TestFindNegativePhones(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"phone": float64(-9194425550199)})
	seed(store, "UKAA0002", docs.Document{"phone": "+91 9444 255 501"})
	seed(store, "UKAA0003", docs.Document{"whatsapp": "-42"})
	seed(store, "UKAA0004", nil)

	p := newPasses(store)
	hits, err := p.FindNegativePhones(context.Background())
	if err != nil {
		t.Fatalf("FindNegativePhones: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2: %v", len(hits), hits)
	}
	if hits[0].UniqueID != "UKAA0001" || hits[0].Field != "phone" {
		t.Errorf("first hit = %+v", hits[0])
	}
	if hits[1].UniqueID != "UKAA0003" || hits[1].Field != "whatsapp" {
		t.Errorf("second hit = %+v", hits[1])
	}
}

func TestSetStatus(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", nil)
	seed(store, "UKAA0002", nil)

	p := newPasses(store)
	tally := p.SetStatus(context.Background(), []string{"UKAA0001", "UKZZ9999", "UKAA0002"}, "Approved")
	if tally.Updated != 2 || tally.NotFound != 1 || tally.Failed != 0 {
		t.Fatalf("tally = %+v", tally)
	}
	if got := getDoc(t, store, "UKAA0001").Str("status"); got != "Approved" {
		t.Errorf("status = %q", got)
	}
}

func TestNormalizeZones(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"zone": "United Kingdom"})
	seed(store, "UKAA0002", docs.Document{"zone": "EU"})

	p := newPasses(store)
	tally, err := p.NormalizeZones(context.Background())
	if err != nil {
		t.Fatalf("NormalizeZones: %v", err)
	}
	if tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %+v, want 1 updated 1 skipped", tally)
	}
	doc := getDoc(t, store, "UKAA0001")
	if got := doc.Str("zone"); got != "UK" {
		t.Errorf("zone = %q", got)
	}
	if _, stamped := doc["normalizedAt"]; !stamped {
		t.Errorf("normalizedAt missing after a value change")
	}
}

func TestNormalizeDates(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"arrivalDate": "2025-12-14", "departureDate": "not a date"})
	seed(store, "UKAA0002", docs.Document{"arrivalDate": "14-DEC-2025"})

	p := newPasses(store)
	tally, failures, err := p.NormalizeDates(context.Background())
	if err != nil {
		t.Fatalf("NormalizeDates: %v", err)
	}
	if tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %+v, want 1 updated 1 skipped", tally)
	}

	doc := getDoc(t, store, "UKAA0001")
	if got := doc.Str("arrivalDate"); got != "14-DEC-2025" {
		t.Errorf("arrivalDate = %q", got)
	}
	if got := doc.Str("departureDate"); got != "not a date" {
		t.Errorf("unparseable value disturbed: %q", got)
	}
	if len(failures) != 1 || failures[0].UniqueID != "UKAA0001" || failures[0].Field != "departureDate" {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestNormalizePickupLocations(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{"arrivalPlace": "SC", "departurePlace": "rgia airport"})

	p := newPasses(store)
	tally, err := p.NormalizePickupLocations(context.Background())
	if err != nil {
		t.Fatalf("NormalizePickupLocations: %v", err)
	}
	if tally.Updated != 1 {
		t.Fatalf("tally = %+v", tally)
	}
	doc := getDoc(t, store, "UKAA0001")
	if got := doc.Str("arrivalPlace"); got != "Other" {
		t.Errorf("bare station code arrivalPlace = %q", got)
	}
	if got := doc.Str("departurePlace"); got != "Rajiv Gandhi International Airport" {
		t.Errorf("departurePlace = %q", got)
	}
}

func TestNormalizeAll(t *testing.T) {
	store := testutil.NewMemStore()
	seed(store, "UKAA0001", docs.Document{
		"zone":        "southeast asia",
		"arrivalDate": "45275",
		"postTour":    "going to shirdi",
	})

	p := newPasses(store)
	failures, err := p.NormalizeAll(context.Background())
	if err != nil {
		t.Fatalf("NormalizeAll: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %+v", failures)
	}
	doc := getDoc(t, store, "UKAA0001")
	if got := doc.Str("zone"); got != "AS" {
		t.Errorf("zone = %q", got)
	}
	if got := doc.Str("arrivalDate"); got != "15-DEC-2023" {
		t.Errorf("arrivalDate = %q", got)
	}
	if got := doc.Str("postTour"); got != "Shirdi Tour" {
		t.Errorf("postTour = %q", got)
	}
}
