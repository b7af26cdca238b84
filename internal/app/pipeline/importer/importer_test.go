package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/sevakendra/regdesk/internal/app/pipeline/importer"
	"github.com/sevakendra/regdesk/internal/app/pipeline/reconcile"
	"github.com/sevakendra/regdesk/internal/app/store/emailindex"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/testutil"
	"go.uber.org/zap"
)

func newImporter(store *testutil.MemStore) *importer.Importer {
	log := zap.NewNop()
	runner := batch.New(log)
	runner.Delay = time.Millisecond
	regs := registrations.New(store)
	idx := emailindex.New(store)
	users := userstore.New(store)
	rec := reconcile.New(regs, idx, users, runner, log)
	return importer.New(regs, idx, rec, log)
}

func TestRunImportsRows(t *testing.T) {
	store := testutil.NewMemStore()
	im := newImporter(store)

	rows := []importer.Row{
		{
			"Unique Id": "ARKK1187",
			"Full Name": "Asha Rao",
			"Email":     "Asha@Example.com",
			"Country":   "India",
			"Zone":      "AS",
		},
		{
			"Unique Id": "EULN0042",
			"Full Name": "Lena Novak",
			"Email":     "lena@example.org",
		},
		{
			// no identifier under any known header
			"Full Name": "Ghost Row",
		},
	}

	res, err := im.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if res.Errors != 1 {
		t.Errorf("errors = %d, want 1 (row without identifier)", res.Errors)
	}

	doc, err := store.Collection("registrations").GetByID(context.Background(), "ARKK1187")
	if err != nil {
		t.Fatalf("registration missing: %v", err)
	}
	if got := doc.Str("normalizedId"); got != "arkk1187" {
		t.Errorf("normalizedId = %q, want arkk1187", got)
	}
	if got := doc.Str("name"); got != "Asha Rao" {
		t.Errorf("name = %q", got)
	}
	if got := doc.Str("email"); got != "asha@example.com" {
		t.Errorf("email = %q, want normalized", got)
	}
	// Raw columns survive verbatim for later canonicalization.
	if got := doc.Str("Full Name"); got != "Asha Rao" {
		t.Errorf("raw column lost: Full Name = %q", got)
	}
	if _, ok := doc.Time("importedAt"); !ok {
		t.Error("importedAt not stamped")
	}
}

func TestRunReplacesNotMerges(t *testing.T) {
	store := testutil.NewMemStore()
	f := testutil.NewFixtures(t, store)
	f.CreateRegistrationDoc("ARKK1187", map[string]any{"staleField": "stale"})

	im := newImporter(store)
	_, err := im.Run(context.Background(), []importer.Row{
		{"Unique Id": "ARKK1187", "Full Name": "Asha Rao", "Email": "asha@example.com"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	doc, err := store.Collection("registrations").GetByID(context.Background(), "ARKK1187")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["staleField"]; ok {
		t.Error("re-import must fully replace, not accrete old fields")
	}
}

func TestRunSeedsAndRebuildsEmailIndex(t *testing.T) {
	store := testutil.NewMemStore()
	im := newImporter(store)

	rows := []importer.Row{
		{"Unique Id": "ARKK1187", "Email": "shared@example.com"},
		{"Unique Id": "EULN0042", "Email": "Shared@Example.COM"},
		{"Unique Id": "NAXX9001", "Email": "solo@example.com"},
	}
	if _, err := im.Run(context.Background(), rows); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	idx := emailindex.New(store)
	entry, err := idx.Get(context.Background(), "shared@example.com")
	if err != nil {
		t.Fatalf("index entry missing: %v", err)
	}
	if len(entry.UIDs) != 2 {
		t.Fatalf("uids = %v, want both registrations under one normalized email", entry.UIDs)
	}
	if entry.UIDs[0] != "ARKK1187" || entry.UIDs[1] != "EULN0042" {
		t.Errorf("uids = %v, want sorted [ARKK1187 EULN0042]", entry.UIDs)
	}
}

func TestRunRebuildCatchesLegacyEmailColumns(t *testing.T) {
	// A pre-existing document whose email lives only under a legacy
	// header is invisible to row-time derivation but must appear in the
	// post-import rebuild.
	store := testutil.NewMemStore()
	store.Seed("registrations", "LEGACY01", map[string]any{
		"uniqueId":      "LEGACY01",
		"Email Address": "old@example.com",
	})

	im := newImporter(store)
	if _, err := im.Run(context.Background(), []importer.Row{
		{"Unique Id": "ARKK1187", "Email": "new@example.com"},
	}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	idx := emailindex.New(store)
	entry, err := idx.Get(context.Background(), "old@example.com")
	if err != nil {
		t.Fatalf("legacy email missing from rebuilt index: %v", err)
	}
	if len(entry.UIDs) != 1 || entry.UIDs[0] != "LEGACY01" {
		t.Errorf("uids = %v, want [LEGACY01]", entry.UIDs)
	}
}
