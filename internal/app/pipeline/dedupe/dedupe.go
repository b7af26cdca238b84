// internal/app/pipeline/dedupe/dedupe.go
//
// Read-only duplicate detection. Two independent strategies surface
// likely duplicate registrations; neither ever mutates data.
package dedupe

import (
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	"github.com/sevakendra/regdesk/internal/domain/models"
)

// Cluster is a group of registrations sharing a detection key.
type Cluster struct {
	Key     string
	Members []models.RegistrationSummary
}

// ByNameEmail groups registrations by the pair (case-folded name,
// case-folded email) and reports every group with more than one member.
// Registrations missing either half are not clustered.
func ByNameEmail(all []docs.Document) []Cluster {
	groups := make(map[string][]models.RegistrationSummary)
	for _, doc := range all {
		s := registrations.Summary(doc)
		name := text.Fold(strings.TrimSpace(s.Name))
		email := text.Fold(strings.TrimSpace(s.Email))
		if name == "" || email == "" {
			continue
		}
		key := name + "|" + email
		groups[key] = append(groups[key], s)
	}
	return clusters(groups)
}

// ByLast4 groups registrations by the final four characters of the
// identifier, restricted to identifiers whose last four characters are
// all digits. Shorter or letter-suffixed identifiers are excluded
// entirely.
func ByLast4(all []docs.Document) []Cluster {
	groups := make(map[string][]models.RegistrationSummary)
	for _, doc := range all {
		s := registrations.Summary(doc)
		if len(s.UniqueID) < 4 {
			continue
		}
		suffix := s.UniqueID[len(s.UniqueID)-4:]
		if !allDigits(suffix) {
			continue
		}
		groups[suffix] = append(groups[suffix], s)
	}
	return clusters(groups)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// clusters keeps only multi-member groups, ordered by key with members
// ordered by identifier, so reports are stable run to run.
func clusters(groups map[string][]models.RegistrationSummary) []Cluster {
	var out []Cluster
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return members[i].UniqueID < members[j].UniqueID
		})
		out = append(out, Cluster{Key: key, Members: members})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
