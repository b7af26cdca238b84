// internal/app/pipeline/importer/importer.go
//
// Spreadsheet import: one registration document per row, full replace,
// with incremental email-index maintenance followed by a ground-truth
// rebuild.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/sevakendra/regdesk/internal/app/pipeline/reconcile"
	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/emailindex"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Row is one spreadsheet row: header name → cell value.
type Row map[string]string

// Column resolution lists, highest priority first. Spreadsheets from
// different years used different headers for the same logical field.
var (
	idColumns = []string{
		fieldmap.FieldUniqueID, "Unique Id", "Unique ID",
		"Registration No", "Registration Number", "Reg No",
	}
	nameColumns = []string{
		fieldmap.FieldName, "Full Name", "Name of Participant", "Name",
	}
	emailColumns = []string{
		fieldmap.FieldEmail, "Email", "Email Address", "E-mail",
	}
	countryColumns = []string{fieldmap.FieldCountry, "Country"}
	shreniColumns  = []string{
		fieldmap.FieldShreni, "Shreni", "Shreni/Category", "Category",
	}
	barcodeColumns = []string{fieldmap.FieldBarcode, "Barcode", "Bar Code"}
	departColumns  = []string{
		fieldmap.FieldDepartPlace, "Departure Place", "Departure From",
	}
)

// Result tallies one import run.
type Result struct {
	Imported int
	Errors   int // rows without a resolvable identifier, or failed writes
	Emails   int // distinct emails seen at row time
}

type Importer struct {
	regs       *registrations.Store
	index      *emailindex.Store
	reconciler *reconcile.Reconciler
	log        *zap.Logger
	now        func() time.Time
}

func New(regs *registrations.Store, index *emailindex.Store, reconciler *reconcile.Reconciler, log *zap.Logger) *Importer {
	return &Importer{
		regs:       regs,
		index:      index,
		reconciler: reconciler,
		log:        log,
		now:        time.Now,
	}
}

// Run imports every row, then merges the row-time email map into the
// index, then rebuilds the index from the now-current collection. The
// rebuild catches emails hiding under legacy headers the row-time
// derivation does not know about.
func (im *Importer) Run(ctx context.Context, rows []Row) (Result, error) {
	var res Result
	emailToUIDs := make(map[string][]string)

	for i, row := range rows {
		uid := firstNonEmpty(row, idColumns)
		if uid == "" {
			res.Errors++
			im.log.Warn("row has no registration identifier, skipped",
				zap.Int("row", i+2)) // +2: 1-based with header row
			continue
		}

		doc := im.buildDocument(uid, row)
		if err := im.regs.Replace(ctx, uid, doc); err != nil {
			res.Errors++
			im.log.Error("registration write failed",
				zap.String("uniqueId", uid), zap.Error(err))
			continue
		}
		res.Imported++

		if email := normalize.Email(firstNonEmpty(row, emailColumns)); email != "" {
			emailToUIDs[email] = append(emailToUIDs[email], uid)
		}
	}
	res.Emails = len(emailToUIDs)

	for email, uids := range emailToUIDs {
		if err := im.index.MergeUIDs(ctx, email, uids); err != nil {
			return res, fmt.Errorf("merge email index %q: %w", email, err)
		}
	}

	if _, err := im.reconciler.RebuildEmailIndex(ctx); err != nil {
		return res, fmt.Errorf("rebuild email index: %w", err)
	}

	im.log.Info("import complete",
		zap.Int("imported", res.Imported),
		zap.Int("errors", res.Errors),
		zap.Int("emails", res.Emails))
	return res, nil
}

// buildDocument merges the derived canonical fields over every raw row
// column. Raw columns are kept verbatim, legacy names included, so later
// canonicalization passes can migrate them; the import must not lose
// columns it does not understand.
func (im *Importer) buildDocument(uid string, row Row) docs.Document {
	doc := docs.Document{}
	for header, value := range row {
		if header == "" {
			continue
		}
		doc[header] = value
	}

	doc[fieldmap.FieldUniqueID] = uid
	doc[fieldmap.FieldNormalizedID] = normalize.ID(uid)
	setDerived(doc, fieldmap.FieldName, normalize.Name(firstNonEmpty(row, nameColumns)))
	setDerived(doc, fieldmap.FieldEmail, normalize.Email(firstNonEmpty(row, emailColumns)))
	setDerived(doc, fieldmap.FieldCountry, firstNonEmpty(row, countryColumns))
	setDerived(doc, fieldmap.FieldShreni, firstNonEmpty(row, shreniColumns))
	setDerived(doc, fieldmap.FieldBarcode, firstNonEmpty(row, barcodeColumns))
	setDerived(doc, fieldmap.FieldDepartPlace, firstNonEmpty(row, departColumns))
	doc[fieldmap.FieldImportedAt] = im.now().UTC()
	return doc
}

func setDerived(doc docs.Document, field, value string) {
	if value != "" {
		doc[field] = value
	}
}

func firstNonEmpty(row Row, columns []string) string {
	for _, col := range columns {
		if v, ok := row[col]; ok {
			if trimmed := normalize.Name(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
