// internal/app/system/normalize/posttour.go
package normalize

import "strings"

// PostTourNone is the canonical "not going on a tour" option.
const PostTourNone = "None"

// PostTourRule maps a keyword to the canonical tour option it implies.
type PostTourRule struct {
	Keyword string
	Option  string
}

// PostTourTable is an ordered rule list: the first keyword contained in
// the input wins, so declaration order is part of the data.
type PostTourTable struct {
	Rules []PostTourRule
}

// DefaultPostTours covers the tours offered after the current event.
var DefaultPostTours = PostTourTable{
	Rules: []PostTourRule{
		{Keyword: "shirdi", Option: "Shirdi Tour"},
		{Keyword: "statue", Option: "Statue of Unity Tour"},
		{Keyword: "unity", Option: "Statue of Unity Tour"},
		{Keyword: "kevadia", Option: "Statue of Unity Tour"},
		{Keyword: "both", Option: "Both Tours"},
		{Keyword: "none", Option: PostTourNone},
		{Keyword: "not", Option: PostTourNone},
		{Keyword: "no", Option: PostTourNone},
	},
}

// options returns the distinct canonical option values.
func (t PostTourTable) options() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Rules {
		if !seen[r.Option] {
			seen[r.Option] = true
			out = append(out, r.Option)
		}
	}
	return out
}

// PostTour canonicalizes a raw post-tour choice. Already-canonical values
// pass through verbatim; otherwise the first rule whose keyword appears
// (case-insensitive substring) decides; empty or unrecognized input
// falls back to None.
func (t PostTourTable) PostTour(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return PostTourNone
	}
	for _, opt := range t.options() {
		if strings.EqualFold(s, opt) {
			return opt
		}
	}
	lower := strings.ToLower(s)
	for _, r := range t.Rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Option
		}
	}
	return PostTourNone
}
