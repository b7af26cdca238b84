// internal/app/system/normalize/location.go
package normalize

import (
	"sort"
	"strings"
)

// LocationOther is the catch-all pickup/dropoff label.
const LocationOther = "Other"

// LocationTable holds the canonical pickup location labels and the alias
// phrases that resolve to them. Facility names are event data; only the
// matching rules below are fixed.
type LocationTable struct {
	// Canonical is the closed list of labels, including LocationOther.
	Canonical []string
	// AmbiguousCodes are bare station/airport codes that must NOT be
	// resolved: the same code is painted on several nearby facilities, so
	// a standalone code maps to Other.
	AmbiguousCodes []string
	// Aliases maps lowercased phrases to a canonical label. Phrases must
	// match on word boundaries; longer phrases win over shorter ones.
	Aliases map[string]string
}

// DefaultLocations covers the arrival points for the current venue.
var DefaultLocations = LocationTable{
	Canonical: []string{
		"Secunderabad Railway Station",
		"Hyderabad Deccan (Nampally) Station",
		"Kacheguda Railway Station",
		"Lingampally Station",
		"Rajiv Gandhi International Airport",
		"MGBS Bus Station",
		"JBS Bus Station",
		LocationOther,
	},
	AmbiguousCodes: []string{"sc", "hyd"},
	Aliases: map[string]string{
		"secunderabad":        "Secunderabad Railway Station",
		"secbad":              "Secunderabad Railway Station",
		"nampally":            "Hyderabad Deccan (Nampally) Station",
		"hyderabad deccan":    "Hyderabad Deccan (Nampally) Station",
		"kacheguda":           "Kacheguda Railway Station",
		"kcg":                 "Kacheguda Railway Station",
		"lingampally":         "Lingampally Station",
		"lpi":                 "Lingampally Station",
		"airport":             "Rajiv Gandhi International Airport",
		"rgia":                "Rajiv Gandhi International Airport",
		"shamshabad":          "Rajiv Gandhi International Airport",
		"rajiv gandhi":        "Rajiv Gandhi International Airport",
		"mgbs":                "MGBS Bus Station",
		"imlibun":             "MGBS Bus Station",
		"mahatma gandhi bus":  "MGBS Bus Station",
		"jbs":                 "JBS Bus Station",
		"jubilee bus":         "JBS Bus Station",
	},
}

// Location canonicalizes a raw pickup/dropoff value.
//
// Order matters: an exact canonical label passes through unchanged; a
// standalone ambiguous code is deliberately demoted to Other; then alias
// phrases are tried longest-first on word boundaries so the most specific
// phrase wins; anything left is Other.
func (t LocationTable) Location(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LocationOther
	}
	for _, label := range t.Canonical {
		if strings.EqualFold(s, label) {
			return label
		}
	}
	lower := strings.ToLower(s)
	for _, code := range t.AmbiguousCodes {
		if lower == code {
			return LocationOther
		}
	}
	for _, alias := range t.aliasesByLength() {
		if containsPhrase(lower, alias) {
			return t.Aliases[alias]
		}
	}
	return LocationOther
}

// aliasesByLength returns alias keys longest-first, ties broken
// alphabetically so matching is deterministic.
func (t LocationTable) aliasesByLength() []string {
	keys := make([]string, 0, len(t.Aliases))
	for k := range t.Aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// containsPhrase reports whether phrase occurs in s bounded by string
// edges, whitespace, or parentheses. "sc" must not match inside
// "scenic", but "secunderabad station (sc)" does contain "secunderabad".
func containsPhrase(s, phrase string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if boundary(s, i-1) && boundary(s, end) {
			return true
		}
		start = i + 1
	}
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	switch s[i] {
	case ' ', '\t', '\n', '(', ')', ',':
		return true
	}
	return false
}
