// internal/app/system/fieldmap/fieldmap.go
//
// Canonicalization of legacy field names. Several generations of imports
// wrote the same logical value under display-style headers ("Full Name")
// as well as canonical keys ("name"); this package computes the patch
// that copies legacy values forward and retires the legacy keys.
package fieldmap

import (
	"sort"
	"time"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Canonical field names for registration documents.
const (
	FieldUniqueID     = "uniqueId"
	FieldNormalizedID = "normalizedId"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldWhatsapp     = "whatsapp"
	FieldEmergency    = "emergencyContact"
	FieldCountry      = "country"
	FieldZone         = "zone"
	FieldShreni       = "shreni"
	FieldBarcode      = "barcode"
	FieldStatus       = "status"
	FieldArrivalDate  = "arrivalDate"
	FieldArrivalTime  = "arrivalTime"
	FieldArrivalPlace = "arrivalPlace"
	FieldArrivalMode  = "arrivalMode"
	FieldArrivalNum   = "arrivalTransportNumber"
	FieldDepartDate   = "departureDate"
	FieldDepartTime   = "departureTime"
	FieldDepartPlace  = "departurePlace"
	FieldDepartMode   = "departureMode"
	FieldDepartNum    = "departureTransportNumber"
	FieldPickup       = "pickupRequired"
	FieldDropoff      = "dropoffRequired"
	FieldPostTour     = "postTour"
	FieldTourUpdated  = "tourUpdatedAt"
	FieldCreatedAt    = "createdAt"
	FieldImportedAt   = "importedAt"
	FieldUpdatedAt    = "updatedAt"
	FieldNormalizedAt = "normalizedAt"
)

// LegacyMap maps a legacy field name to its canonical counterpart.
type LegacyMap map[string]string

// DefaultLegacy covers every header variant seen across the historical
// schema versions. Keys that the store cannot address (they contain
// reserved characters) still appear here: their values can be copied
// forward even though the keys themselves can never be deleted.
var DefaultLegacy = LegacyMap{
	"Full Name":            FieldName,
	"Name of Participant":  FieldName,
	"Email":                FieldEmail,
	"Email Address":        FieldEmail,
	"E-mail":               FieldEmail,
	"Phone":                FieldPhone,
	"Phone Number":         FieldPhone,
	"Whatsapp Number":      FieldWhatsapp,
	"Whatsapp/Phone":       FieldWhatsapp,
	"Emergency Contact":    FieldEmergency,
	"Country":              FieldCountry,
	"Zone":                 FieldZone,
	"Shreni":               FieldShreni,
	"Shreni/Category":      FieldShreni,
	"Barcode":              FieldBarcode,
	"Arrival Date":         FieldArrivalDate,
	"Arrival Time":         FieldArrivalTime,
	"Arrival Place":        FieldArrivalPlace,
	"Arrival Mode":         FieldArrivalMode,
	"Train/Flight Number":  FieldArrivalNum,
	"Departure Date":       FieldDepartDate,
	"Departure Time":       FieldDepartTime,
	"Departure Place":      FieldDepartPlace,
	"Departure Mode":       FieldDepartMode,
	"Pickup Required":      FieldPickup,
	"Drop Required":        FieldDropoff,
	"Post Tour":            FieldPostTour,
	"Post Yatra Tour":      FieldPostTour,
}

// protected are system fields a canonicalization patch must never delete
// or overwrite, even if one of them somehow shows up as a legacy key.
var protected = map[string]bool{
	"_id":             true,
	FieldUniqueID:     true,
	FieldNormalizedID: true,
	FieldStatus:       true,
	FieldCreatedAt:    true,
	FieldImportedAt:   true,
	FieldUpdatedAt:    true,
	FieldNormalizedAt: true,
	FieldTourUpdated:  true,
}

// IsProtected reports whether name is a system field.
func IsProtected(name string) bool { return protected[name] }

// Canonicalizer builds field-name migration patches against a legacy map.
type Canonicalizer struct {
	legacy LegacyMap
	log    *zap.Logger
	now    func() time.Time
}

// New builds a Canonicalizer. The clock is fixed here so passes stamp a
// consistent updatedAt.
func New(legacy LegacyMap, log *zap.Logger) *Canonicalizer {
	return &Canonicalizer{legacy: legacy, log: log, now: time.Now}
}

// BuildPatch computes the canonicalization patch for one document.
//
// For every legacy key present with a non-empty value whose canonical
// counterpart is absent or empty, the value is copied to the canonical
// key. Legacy keys are visited in lexical order and the first non-empty
// value claims the canonical slot, so documents carrying several variants
// of the same field produce the same patch on every run. Legacy keys that
// differ from their canonical counterpart are deleted, except protected
// fields and keys the store cannot address. All decisions read the
// original snapshot, never partial patch state.
//
// The patch always stamps updatedAt; the batch driver is responsible for
// treating a timestamp-only patch as a skip.
func (c *Canonicalizer) BuildPatch(doc docs.Document) docs.Patch {
	snap := doc.Clone()
	patch := docs.Patch{}

	legacyKeys := make([]string, 0, len(c.legacy))
	for k := range c.legacy {
		legacyKeys = append(legacyKeys, k)
	}
	sort.Strings(legacyKeys)

	for _, legacyKey := range legacyKeys {
		canonicalKey := c.legacy[legacyKey]
		if _, present := snap[legacyKey]; !present {
			continue
		}
		if IsProtected(legacyKey) {
			continue
		}

		legacyVal := snap.TrimStr(legacyKey)

		// Copy-forward: a non-empty legacy value fills an empty canonical
		// slot. The canonical name must be addressable.
		if legacyVal != "" && snap.TrimStr(canonicalKey) == "" {
			if !docs.IsValidFieldName(canonicalKey) {
				c.log.Warn("canonical field name fails store constraint; value not copied",
					zap.String("uniqueId", snap.ID()),
					zap.String("field", canonicalKey))
			} else if !IsProtected(canonicalKey) {
				if _, claimed := patch[canonicalKey]; !claimed {
					patch[canonicalKey] = legacyVal
				}
			}
		}

		// Retire legacy keys whose name differs from the canonical one,
		// unless the store cannot address them, in which case they have
		// to stay (a documented gap, not an error).
		if legacyKey == canonicalKey {
			continue
		}
		if !docs.IsValidFieldName(legacyKey) {
			c.log.Warn("legacy field name cannot be deleted",
				zap.String("uniqueId", snap.ID()),
				zap.String("field", legacyKey))
			continue
		}
		patch[legacyKey] = docs.DeleteField
	}

	// normalizedId is a pure function of uniqueId and is repaired here.
	if uid := snap.TrimStr(FieldUniqueID); uid != "" {
		want := normalize.ID(uid)
		if snap.Str(FieldNormalizedID) != want {
			patch[FieldNormalizedID] = want
		}
	}

	patch[FieldUpdatedAt] = c.now().UTC()
	return patch
}
