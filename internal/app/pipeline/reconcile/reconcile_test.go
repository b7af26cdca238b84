package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/sevakendra/regdesk/internal/app/pipeline/reconcile"
	"github.com/sevakendra/regdesk/internal/app/store/emailindex"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/testutil"
	"go.uber.org/zap"
)

func newReconciler(store *testutil.MemStore) *reconcile.Reconciler {
	log := zap.NewNop()
	runner := batch.New(log)
	runner.Delay = time.Millisecond
	return reconcile.New(
		registrations.New(store),
		emailindex.New(store),
		userstore.New(store),
		runner,
		log,
	)
}

func TestRebuildEmailIndexExact(t *testing.T) {
	store := testutil.NewMemStore()
	f := testutil.NewFixtures(t, store)
	f.CreateRegistration("ARKK1187", "Asha Rao", "shared@example.com")
	f.CreateRegistration("EULN0042", "Lena Novak", "Shared@Example.COM") // differently cased
	f.CreateRegistration("NAXX9001", "Sam Ortiz", "solo@example.com")
	f.CreateRegistration("NOEMAIL1", "No Email", "")

	// A stale entry pointing at a registration that no longer carries
	// this email must be corrected by the full replace.
	idx := emailindex.New(store)
	ctx := context.Background()
	if err := idx.ReplaceEntry(ctx, "shared@example.com", []string{"GONE0001"}); err != nil {
		t.Fatal(err)
	}

	stats, err := newReconciler(store).RebuildEmailIndex(ctx)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if stats.Emails != 2 {
		t.Errorf("emails = %d, want 2", stats.Emails)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (registration without email)", stats.Skipped)
	}

	entry, err := idx.Get(ctx, "shared@example.com")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ARKK1187", "EULN0042"}
	if len(entry.UIDs) != 2 || entry.UIDs[0] != want[0] || entry.UIDs[1] != want[1] {
		t.Errorf("uids = %v, want exactly %v", entry.UIDs, want)
	}
}

func TestSyncUsersWritesProjection(t *testing.T) {
	store := testutil.NewMemStore()
	f := testutil.NewFixtures(t, store)
	f.CreateRegistration("ARKK1187", "Asha Rao", "asha@example.com")
	f.CreateRegistration("EULN0042", "Asha Rao", "asha@example.com")
	f.CreateUser("acct-1", "asha@example.com")

	rec := newReconciler(store)
	ctx := context.Background()
	if _, err := rec.RebuildEmailIndex(ctx); err != nil {
		t.Fatal(err)
	}

	stats, err := rec.SyncUsers(ctx)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if stats.Written != 1 {
		t.Errorf("written = %d, want 1", stats.Written)
	}

	doc, err := store.Collection("users").GetByID(ctx, "acct-1")
	if err != nil {
		t.Fatal(err)
	}
	uids := userstore.AssociatedUIDs(doc)
	if len(uids) != 2 {
		t.Fatalf("associated uids = %v, want 2 entries", uids)
	}

	// A second pass with nothing changed must not rewrite.
	stats, err = rec.SyncUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Written != 0 {
		t.Errorf("written = %d on unchanged second pass, want 0", stats.Written)
	}
}

func TestSyncUsersStubsMissingRegistrations(t *testing.T) {
	store := testutil.NewMemStore()
	f := testutil.NewFixtures(t, store)
	f.CreateUser("acct-1", "asha@example.com")

	idx := emailindex.New(store)
	ctx := context.Background()
	if err := idx.ReplaceEntry(ctx, "asha@example.com", []string{"MISSING1"}); err != nil {
		t.Fatal(err)
	}

	stats, err := newReconciler(store).SyncUsers(ctx)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if stats.Stubs != 1 {
		t.Errorf("stubs = %d, want 1", stats.Stubs)
	}

	doc, err := store.Collection("users").GetByID(ctx, "acct-1")
	if err != nil {
		t.Fatal(err)
	}
	uids := userstore.AssociatedUIDs(doc)
	if len(uids) != 1 || uids[0] != "MISSING1" {
		t.Errorf("uids = %v, want identifier-only stub", uids)
	}
}
