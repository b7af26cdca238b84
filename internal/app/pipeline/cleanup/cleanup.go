// internal/app/pipeline/cleanup/cleanup.go
//
// The maintenance passes that mutate the live collection in place:
// field-name canonicalization, legacy-duplicate removal, targeted field
// removal, status updates, and the value normalization sweeps. Every
// pass composes the same batch runner; none of them ever deletes a
// registration.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Passes bundles the shared collaborators of every maintenance pass.
type Passes struct {
	regs   *registrations.Store
	canon  *fieldmap.Canonicalizer
	runner *batch.Runner
	log    *zap.Logger
	now    func() time.Time

	zones     normalize.ZoneTable
	locations normalize.LocationTable
	tours     normalize.PostTourTable
}

func New(regs *registrations.Store, canon *fieldmap.Canonicalizer, runner *batch.Runner, log *zap.Logger) *Passes {
	return &Passes{
		regs:      regs,
		canon:     canon,
		runner:    runner,
		log:       log,
		now:       time.Now,
		zones:     normalize.DefaultZones,
		locations: normalize.DefaultLocations,
		tours:     normalize.DefaultPostTours,
	}
}

func (p *Passes) scan(ctx context.Context) ([]docs.Document, error) {
	return p.runner.ScanAll(ctx, p.regs.Collection())
}

// CanonicalizeFields migrates legacy field names on every registration:
// copy non-empty legacy values into empty canonical slots, retire the
// legacy keys (the "normalize" command).
func (p *Passes) CanonicalizeFields(ctx context.Context) (batch.Tally, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, p.canon.BuildPatch), nil
}

// RemoveLegacyDuplicates deletes legacy keys whose canonical counterpart
// already holds a value (the "cleanup" command). Unlike the
// canonicalization pass it never writes values, only removals, so it is
// safe on documents the canonicalizer has already visited.
func (p *Passes) RemoveLegacyDuplicates(ctx context.Context) (batch.Tally, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		patch := docs.Patch{}
		for legacyKey, canonicalKey := range fieldmap.DefaultLegacy {
			if legacyKey == canonicalKey {
				continue
			}
			if _, present := doc[legacyKey]; !present {
				continue
			}
			if doc.TrimStr(canonicalKey) == "" {
				// Canonical slot still empty: the legacy key is the only
				// copy, so the canonicalization pass has to run first.
				continue
			}
			if fieldmap.IsProtected(legacyKey) || !docs.IsValidFieldName(legacyKey) {
				p.log.Warn("legacy duplicate cannot be removed",
					zap.String("uniqueId", doc.ID()),
					zap.String("field", legacyKey))
				continue
			}
			patch[legacyKey] = docs.DeleteField
		}
		patch[fieldmap.FieldUpdatedAt] = p.now().UTC()
		return patch
	}), nil
}

// RemoveFields deletes the named fields from every registration that
// carries them. Protected and unaddressable names fail the whole run up
// front: asking for them is misconfiguration, not bad data.
func (p *Passes) RemoveFields(ctx context.Context, names []string) (batch.Tally, error) {
	for _, name := range names {
		if !docs.IsValidFieldName(name) {
			return batch.Tally{}, fmt.Errorf("field name %q fails the store constraint", name)
		}
		if fieldmap.IsProtected(name) {
			return batch.Tally{}, fmt.Errorf("field %q is protected", name)
		}
	}
	if len(names) == 0 {
		return batch.Tally{}, errors.New("no field names given")
	}

	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		patch := docs.Patch{}
		for _, name := range names {
			if _, present := doc[name]; present {
				patch[name] = docs.DeleteField
			}
		}
		patch[fieldmap.FieldUpdatedAt] = p.now().UTC()
		return patch
	}), nil
}

// phoneFields are the canonical fields the negative-phone report checks.
var phoneFields = []string{
	fieldmap.FieldPhone,
	fieldmap.FieldWhatsapp,
	fieldmap.FieldEmergency,
}

// PhoneHit is one negative phone value found by the report.
type PhoneHit struct {
	UniqueID string
	Field    string
	Value    any
}

// FindNegativePhones scans for phone-like values that coerce to a
// number below zero, a known artifact of spreadsheet exports. Read-only.
func (p *Passes) FindNegativePhones(ctx context.Context) ([]PhoneHit, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return nil, err
	}
	var hits []PhoneHit
	for _, doc := range all {
		for _, field := range phoneFields {
			if normalize.NegativePhone(doc[field]) {
				hits = append(hits, PhoneHit{UniqueID: doc.ID(), Field: field, Value: doc[field]})
				p.log.Warn("negative phone value",
					zap.String("uniqueId", doc.ID()),
					zap.String("field", field))
			}
		}
	}
	return hits, nil
}

// StatusTally accounts for one targeted status update run.
type StatusTally struct {
	Updated  int
	NotFound int
	Failed   int
}

// SetStatus applies the given status to the explicitly listed
// identifiers. A missing identifier is tallied and skipped, never fatal.
func (p *Passes) SetStatus(ctx context.Context, ids []string, status string) StatusTally {
	var tally StatusTally
	for _, id := range ids {
		err := p.regs.SetStatus(ctx, id, status)
		switch {
		case err == nil:
			tally.Updated++
		case errors.Is(err, docs.ErrNotFound):
			tally.NotFound++
			p.log.Warn("status target not found", zap.String("uniqueId", id))
		default:
			tally.Failed++
			p.log.Error("status update failed", zap.String("uniqueId", id), zap.Error(err))
		}
	}
	p.log.Info("status run complete",
		zap.String("status", status),
		zap.Int("updated", tally.Updated),
		zap.Int("notFound", tally.NotFound),
		zap.Int("failed", tally.Failed))
	return tally
}

// valuePatch wraps a per-field rewrite into a runner patch: changed
// values get stamped with normalizedAt; an unchanged document yields a
// timestamp-only patch the runner skips.
func (p *Passes) valuePatch(doc docs.Document, fields []string, rewrite func(doc docs.Document, field, raw string) (string, bool)) docs.Patch {
	patch := docs.Patch{}
	for _, field := range fields {
		raw := doc.TrimStr(field)
		if raw == "" {
			continue
		}
		canonical, ok := rewrite(doc, field, raw)
		if ok && canonical != raw {
			patch[field] = canonical
		}
	}
	if !patch.Empty() {
		patch[fieldmap.FieldNormalizedAt] = p.now().UTC()
	}
	patch[fieldmap.FieldUpdatedAt] = p.now().UTC()
	return patch
}

// NormalizeZones canonicalizes the zone field to its 2-letter code.
func (p *Passes) NormalizeZones(ctx context.Context) (batch.Tally, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		return p.valuePatch(doc, []string{fieldmap.FieldZone},
			func(_ docs.Document, _ string, raw string) (string, bool) {
				return p.zones.Zone(raw), true
			})
	}), nil
}

// DateFailure records an unparseable date for manual follow-up.
type DateFailure struct {
	UniqueID string
	Field    string
	Value    string
}

var dateFields = []string{fieldmap.FieldArrivalDate, fieldmap.FieldDepartDate}

// NormalizeDates rewrites the arrival and departure dates into the
// canonical DD-MON-YYYY form. Values that cannot be parsed are left
// untouched and returned for manual follow-up.
func (p *Passes) NormalizeDates(ctx context.Context) (batch.Tally, []DateFailure, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, nil, err
	}
	var failures []DateFailure
	tally := p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		return p.valuePatch(doc, dateFields,
			func(doc docs.Document, field, raw string) (string, bool) {
				canonical, ok := normalize.Date(raw)
				if !ok {
					failures = append(failures, DateFailure{UniqueID: doc.ID(), Field: field, Value: raw})
					p.log.Warn("date not normalizable",
						zap.String("uniqueId", doc.ID()),
						zap.String("field", field),
						zap.String("value", raw))
				}
				return canonical, ok
			})
	})
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].UniqueID != failures[j].UniqueID {
			return failures[i].UniqueID < failures[j].UniqueID
		}
		return failures[i].Field < failures[j].Field
	})
	return tally, failures, nil
}

var placeFields = []string{fieldmap.FieldArrivalPlace, fieldmap.FieldDepartPlace}

// NormalizePickupLocations canonicalizes the arrival and departure
// places against the location alias table.
func (p *Passes) NormalizePickupLocations(ctx context.Context) (batch.Tally, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		return p.valuePatch(doc, placeFields,
			func(_ docs.Document, _ string, raw string) (string, bool) {
				return p.locations.Location(raw), true
			})
	}), nil
}

// NormalizePostTours canonicalizes the post-tour choice.
func (p *Passes) NormalizePostTours(ctx context.Context) (batch.Tally, error) {
	all, err := p.scan(ctx)
	if err != nil {
		return batch.Tally{}, err
	}
	return p.runner.Run(ctx, p.regs.Collection(), all, func(doc docs.Document) docs.Patch {
		return p.valuePatch(doc, []string{fieldmap.FieldPostTour},
			func(_ docs.Document, _ string, raw string) (string, bool) {
				return p.tours.PostTour(raw), true
			})
	}), nil
}

// NormalizeAll runs the four value passes in sequence: zones, dates,
// pickup locations, post tours.
func (p *Passes) NormalizeAll(ctx context.Context) ([]DateFailure, error) {
	if _, err := p.NormalizeZones(ctx); err != nil {
		return nil, err
	}
	_, failures, err := p.NormalizeDates(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := p.NormalizePickupLocations(ctx); err != nil {
		return nil, err
	}
	if _, err := p.NormalizePostTours(ctx); err != nil {
		return nil, err
	}
	return failures, nil
}
