// internal/app/pipeline/migrate/migrate.go
//
// Relocation of registrations that no longer belong in the live
// collection: staff shrenis move to the staff collection, cancelled and
// rejected registrations move to the graveyard. Each document's copy and
// delete ride the same batch unit, so a crash never duplicates or loses
// one.
package migrate

import (
	"context"
	"strings"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/app/system/status"
	"go.uber.org/zap"
)

// Destination collections.
const (
	StaffCollection     = "staff"
	CancelledCollection = "cancelled_registrations"
)

// FlushEvery bounds how many moved documents accumulate before a
// commit. Each moved document queues two operations, a copy and a
// delete, which always land in the same commit.
const FlushEvery = 500

// Predicate selects documents to move.
type Predicate func(doc docs.Document) bool

// staffShrenis are the categories that mark a record as working staff
// rather than a participant.
var staffShrenis = []string{"sevak", "seva", "staff", "volunteer", "karyakarta"}

// NonParticipant reports whether the shreni/category marks staff.
func NonParticipant(doc docs.Document) bool {
	shreni := strings.ToLower(doc.TrimStr(fieldmap.FieldShreni))
	if shreni == "" {
		return false
	}
	for _, s := range staffShrenis {
		if strings.Contains(shreni, s) {
			return true
		}
	}
	return false
}

// Terminated reports whether the status marks a cancelled or rejected
// registration.
func Terminated(doc docs.Document) bool {
	return status.IsTerminal(doc.TrimStr(fieldmap.FieldStatus))
}

// Result tallies one migration run.
type Result struct {
	Moved   int
	Kept    int
	Flushes int
}

type Migrator struct {
	store  docs.Store
	regs   *registrations.Store
	runner *batch.Runner
	log    *zap.Logger
	now    func() time.Time
}

func New(store docs.Store, regs *registrations.Store, runner *batch.Runner, log *zap.Logger) *Migrator {
	return &Migrator{store: store, regs: regs, runner: runner, log: log, now: time.Now}
}

// Run partitions the live collection by pred and moves every selected
// document to dest. The augmented copy carries migration provenance:
// when it was moved, where from, and the status it held at the time.
func (m *Migrator) Run(ctx context.Context, pred Predicate, dest string) (Result, error) {
	all, err := m.runner.ScanAll(ctx, m.regs.Collection())
	if err != nil {
		return Result{}, err
	}

	var res Result
	b := m.store.NewBatch()
	movedAt := m.now().UTC()
	pending := 0

	for _, doc := range all {
		if !pred(doc) {
			res.Kept++
			continue
		}

		id := doc.ID()
		copyDoc := doc.Clone()
		copyDoc["migratedAt"] = movedAt
		copyDoc["sourceCollection"] = registrations.CollectionName
		if st := doc.TrimStr(fieldmap.FieldStatus); st != "" {
			copyDoc["originalStatus"] = st
		}

		// Copy and delete belong to the same unit: never one without
		// the other.
		b.Set(dest, id, copyDoc)
		b.Delete(registrations.CollectionName, id)
		res.Moved++
		pending++

		if pending >= FlushEvery {
			if err := b.Commit(ctx); err != nil {
				return res, err
			}
			res.Flushes++
			pending = 0
		}
	}

	if b.Len() > 0 {
		if err := b.Commit(ctx); err != nil {
			return res, err
		}
		res.Flushes++
	}

	m.log.Info("migration complete",
		zap.String("destination", dest),
		zap.Int("moved", res.Moved),
		zap.Int("kept", res.Kept),
		zap.Int("flushes", res.Flushes))
	return res, nil
}
