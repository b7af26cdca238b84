// internal/app/system/normalize/normalize.go
//
// Pure value normalizers for registration data. Each function maps the
// family of raw representations seen in historical imports onto one
// canonical form. None of them touch the store.
package normalize

import (
	"strconv"
	"strings"
)

// Email lowercases and trims an email for use as an index key.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// ID derives the normalized participant identifier from a uniqueId:
// lowercased with "/" and "-" separators stripped. It is a pure function
// of the uniqueId and the two must always agree on a stored document.
func ID(uniqueID string) string {
	s := strings.ToLower(strings.TrimSpace(uniqueID))
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// NegativePhone reports whether a phone-like value is a valid number
// strictly less than zero. Empty, absent, and non-numeric values are not
// flagged; they are someone else's problem.
func NegativePhone(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case float64:
		return n < 0
	case float32:
		return n < 0
	case int:
		return n < 0
	case int32:
		return n < 0
	case int64:
		return n < 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return false
		}
		return f < 0
	}
	return false
}
