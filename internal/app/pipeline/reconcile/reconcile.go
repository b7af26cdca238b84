// internal/app/pipeline/reconcile/reconcile.go
//
// Ground-truth reconciliation: rebuild the email index from the live
// registration collection, then propagate it into each user account's
// associated-registrations cache.
package reconcile

import (
	"context"
	"errors"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/emailindex"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
	"github.com/sevakendra/regdesk/internal/domain/models"
	"go.uber.org/zap"
)

type Reconciler struct {
	regs   *registrations.Store
	index  *emailindex.Store
	users  *userstore.Store
	runner *batch.Runner
	log    *zap.Logger
}

func New(regs *registrations.Store, index *emailindex.Store, users *userstore.Store, runner *batch.Runner, log *zap.Logger) *Reconciler {
	return &Reconciler{regs: regs, index: index, users: users, runner: runner, log: log}
}

// RebuildStats summarizes one index rebuild.
type RebuildStats struct {
	Emails        int // distinct normalized emails written
	Registrations int // registrations scanned
	Skipped       int // registrations with no usable email
}

// RebuildEmailIndex scans every registration and writes each email's
// entry as a full replace. Emails are gathered from the canonical field
// first, falling back to legacy column names that earlier imports left
// behind. Entries for emails that no longer appear on any registration
// are left alone; the invariant binds only emails that appear.
func (r *Reconciler) RebuildEmailIndex(ctx context.Context) (RebuildStats, error) {
	all, err := r.runner.ScanAll(ctx, r.regs.Collection())
	if err != nil {
		return RebuildStats{}, err
	}

	byEmail := make(map[string][]string)
	stats := RebuildStats{Registrations: len(all)}
	for _, doc := range all {
		email := registrationEmail(doc)
		uid := doc.TrimStr(fieldmap.FieldUniqueID)
		if uid == "" {
			uid = doc.ID()
		}
		if email == "" || uid == "" {
			stats.Skipped++
			continue
		}
		byEmail[email] = append(byEmail[email], uid)
	}

	for email, uids := range byEmail {
		if err := r.index.ReplaceEntry(ctx, email, uids); err != nil {
			return stats, err
		}
		stats.Emails++
	}

	r.log.Info("email index rebuilt",
		zap.Int("registrations", stats.Registrations),
		zap.Int("emails", stats.Emails),
		zap.Int("withoutEmail", stats.Skipped))
	return stats, nil
}

// legacyEmailFields are the historical column names an email may hide
// under on documents that predate field canonicalization.
var legacyEmailFields = []string{"Email", "Email Address", "E-mail"}

func registrationEmail(doc docs.Document) string {
	if e := normalize.Email(doc.Str(fieldmap.FieldEmail)); e != "" {
		return e
	}
	for _, field := range legacyEmailFields {
		if e := normalize.Email(doc.Str(field)); e != "" {
			return e
		}
	}
	return ""
}

// SyncStats summarizes one associated-registrations propagation.
type SyncStats struct {
	Entries  int // index entries visited
	Accounts int // accounts matched
	Written  int // accounts whose cache actually changed
	Stubs    int // summaries degraded to identifier-only stubs
}

// SyncUsers propagates the email index into each matching user account.
// A registration missing from the live collection degrades to a stub
// summary carrying just the identifier and the index email; it is not an
// error. Account writes are skipped when the cached uniqueId set already
// matches.
func (r *Reconciler) SyncUsers(ctx context.Context) (SyncStats, error) {
	entries, err := r.index.ScanAll(ctx, r.runner.PageSize)
	if err != nil {
		return SyncStats{}, err
	}

	var stats SyncStats
	for _, entry := range entries {
		stats.Entries++
		accounts, err := r.users.FindByEmail(ctx, entry.Email, r.runner.PageSize)
		if err != nil {
			return stats, err
		}
		if len(accounts) == 0 {
			continue
		}

		summaries, stubs := r.summaries(ctx, entry)
		stats.Stubs += stubs

		for _, account := range accounts {
			stats.Accounts++
			wrote, err := r.users.UpdateAssociatedRegistrations(ctx, account.ID(), summaries)
			if err != nil {
				r.log.Error("associated registrations update failed",
					zap.String("accountId", account.ID()),
					zap.String("email", entry.Email),
					zap.Error(err))
				continue
			}
			if wrote {
				stats.Written++
			}
		}
	}

	r.log.Info("user projections synced",
		zap.Int("entries", stats.Entries),
		zap.Int("accounts", stats.Accounts),
		zap.Int("written", stats.Written),
		zap.Int("stubs", stats.Stubs))
	return stats, nil
}

// summaries resolves an index entry's uids to registration summaries,
// deduplicated by identifier.
func (r *Reconciler) summaries(ctx context.Context, entry models.EmailIndexEntry) ([]models.RegistrationSummary, int) {
	seen := make(map[string]bool, len(entry.UIDs))
	out := make([]models.RegistrationSummary, 0, len(entry.UIDs))
	stubs := 0
	for _, uid := range entry.UIDs {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true

		doc, err := r.regs.GetByUniqueID(ctx, uid)
		if err != nil {
			if !errors.Is(err, docs.ErrNotFound) {
				r.log.Error("registration fetch failed",
					zap.String("uniqueId", uid), zap.Error(err))
			}
			out = append(out, models.RegistrationSummary{UniqueID: uid, Email: entry.Email})
			stubs++
			continue
		}
		out = append(out, registrations.Summary(doc))
	}
	return out, stubs
}
