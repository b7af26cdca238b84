// internal/app/system/batch/batch.go
//
// The one pagination / rate-limited-apply / tally abstraction every bulk
// pass shares. A pass supplies a per-document patch function; the runner
// owns grouping, pacing, and failure accounting.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"go.uber.org/zap"
)

// Defaults tuned to the store's rate limits on large collections.
const (
	DefaultGroupSize = 10
	DefaultDelay     = 500 * time.Millisecond
	DefaultPageSize  = 3000
)

// Tally is the outcome of one run.
type Tally struct {
	Updated int
	Skipped int
	Failed  int
}

// Runner paginates a collection and applies per-document patches in
// fixed-size groups with an inter-group delay.
type Runner struct {
	GroupSize int
	Delay     time.Duration
	PageSize  int
	Log       *zap.Logger
}

// New returns a Runner with the default pacing.
func New(log *zap.Logger) *Runner {
	return &Runner{
		GroupSize: DefaultGroupSize,
		Delay:     DefaultDelay,
		PageSize:  DefaultPageSize,
		Log:       log,
	}
}

// ScanAll exhaustively paginates a collection: pages of PageSize, each
// cursor continuing from the last document of the previous page, until an
// empty page comes back.
func (r *Runner) ScanAll(ctx context.Context, col docs.Collection) ([]docs.Document, error) {
	var all []docs.Document
	afterID := ""
	for {
		page, err := col.ScanPage(ctx, afterID, r.PageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		afterID = page[len(page)-1].ID()
	}
}

// PatchFunc computes the patch for one document. A nil or empty patch
// (ignoring updatedAt) means nothing to write.
type PatchFunc func(doc docs.Document) docs.Patch

// Run applies fn to every document, writing non-empty patches back to col
// in groups of GroupSize. Each group completes fully before the next
// starts, with Delay in between. A single document's failure is logged
// with its identifier and tallied; it never aborts the run.
func (r *Runner) Run(ctx context.Context, col docs.Collection, all []docs.Document, fn PatchFunc) Tally {
	var tally Tally

	type job struct {
		id    string
		patch docs.Patch
	}

	var pending []job
	for _, doc := range all {
		patch := fn(doc)
		if patch == nil || patch.Empty(fieldmap.FieldUpdatedAt) {
			tally.Skipped++
			continue
		}
		pending = append(pending, job{id: doc.ID(), patch: patch})
	}

	for start := 0; start < len(pending); start += r.GroupSize {
		end := start + r.GroupSize
		if end > len(pending) {
			end = len(pending)
		}
		group := pending[start:end]

		results := make([]error, len(group))
		var wg sync.WaitGroup
		for i, j := range group {
			wg.Add(1)
			go func(i int, j job) {
				defer wg.Done()
				results[i] = col.Apply(ctx, j.id, j.patch)
			}(i, j)
		}
		wg.Wait()

		for i, err := range results {
			if err != nil {
				tally.Failed++
				r.Log.Error("patch apply failed",
					zap.String("collection", col.Name()),
					zap.String("uniqueId", group[i].id),
					zap.Error(err))
				continue
			}
			tally.Updated++
		}

		if end < len(pending) && r.Delay > 0 {
			time.Sleep(r.Delay)
		}
	}

	r.Log.Info("batch run complete",
		zap.String("collection", col.Name()),
		zap.Int("updated", tally.Updated),
		zap.Int("skipped", tally.Skipped),
		zap.Int("failed", tally.Failed))
	return tally
}
