// internal/app/system/normalize/zone.go
package normalize

import "strings"

// ZoneTable maps raw region names and abbreviations onto the short zone
// codes used on registrations. The table is data, not logic: a different
// event swaps in different codes and keeps the same resolution rules.
type ZoneTable struct {
	// Codes are the recognized 2-letter zone codes, uppercase.
	Codes []string
	// Names maps lowercased region names/abbreviations to a code.
	Names map[string]string
}

// DefaultZones covers the six geographic zones of the current event.
var DefaultZones = ZoneTable{
	Codes: []string{"AF", "AR", "AS", "EU", "NA", "UK"},
	Names: map[string]string{
		"af":             "AF",
		"africa":         "AF",
		"south africa":   "AF",
		"ar":             "AR",
		"arab region":    "AR",
		"middle east":    "AR",
		"gulf":           "AR",
		"as":             "AS",
		"asia":           "AS",
		"asia pacific":   "AS",
		"southeast asia": "AS",
		"south east asia": "AS",
		"eu":             "EU",
		"europe":         "EU",
		"na":             "NA",
		"north america":  "NA",
		"usa":            "NA",
		"united states":  "NA",
		"canada":         "NA",
		"uk":             "UK",
		"united kingdom": "UK",
	},
}

// Zone resolves a raw zone value to a code. Resolution order: exact
// case-insensitive name lookup; then a prefix check against the codes
// (registration IDs embed their zone, e.g. "ARKK1187"); otherwise the
// trimmed input is uppercased and kept verbatim. Unrecognized zones are
// preserved, never rejected.
func (t ZoneTable) Zone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if code, ok := t.Names[lower]; ok {
		return code
	}
	for _, code := range t.Codes {
		if strings.HasPrefix(lower, strings.ToLower(code)) {
			return code
		}
	}
	return strings.ToUpper(s)
}
