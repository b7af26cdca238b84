// internal/app/system/normalize/date.go
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical date form: two-digit day, uppercase three-letter month,
// four-digit year, e.g. "14-DEC-2025".

const (
	minYear = 1900
	maxYear = 2100
)

var monthAbbr = [13]string{"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthByAbbr = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Date normalizes a raw date string to canonical form. On failure it
// returns the input unchanged with ok=false so callers can tell "nothing
// to do" from "needs manual follow-up".
//
// Accepted inputs, tried in order:
//  1. already-canonical DD-MON-YYYY (validated, re-emitted canonically)
//  2. a spreadsheet serial day count, possibly as a numeric string
//  3. ISO YYYY-MM-DD
//  4. slash-delimited P1/P2/YYYY with ambiguous part order
//  5. a short list of generic layouts, years bounded 1900-2100
func Date(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw, false
	}

	if out, ok := parseCanonical(s); ok {
		return out, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if out, ok := DateFromSerial(f); ok {
			return out, true
		}
		return raw, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return formatDate(t)
	}
	if strings.Count(s, "/") == 2 {
		// The slash form settles or fails here; the generic layouts must
		// never reinterpret an ambiguous slash date.
		if out, ok := parseSlash(s); ok {
			return out, true
		}
		return raw, false
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatDate(t)
		}
	}
	return raw, false
}

var genericLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006.01.02",
	time.RFC3339,
}

// DateFromSerial converts a spreadsheet serial day count. Serial 1 is
// 1 Jan 1900, and the count honors the historical convention that 1900
// was (wrongly) a leap year: serials of 60 and above sit one day later
// than plain arithmetic from the epoch would put them.
func DateFromSerial(f float64) (string, bool) {
	n := int(f) // drop any time-of-day fraction
	if n < 1 {
		return "", false
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	if n >= 60 {
		base = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	}
	t := base.AddDate(0, 0, n)
	out, ok := formatDate(t)
	if !ok {
		return "", false
	}
	return out, true
}

func parseCanonical(s string) (string, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return "", false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	month, ok := monthByAbbr[strings.ToUpper(parts[1])]
	if !ok {
		return "", false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < minYear || year > maxYear {
		return "", false
	}
	return fmt.Sprintf("%02d-%s-%04d", day, monthAbbr[month], year), true
}

// parseSlash handles P1/P2/YYYY where the month/day order is unknown.
// Both readings are computed; if exactly one is a real calendar date it
// wins, and if both are real and distinct the input is rejected rather
// than guessed at. Changing this tie-break would silently reinterpret
// historical ambiguous dates, so it stays as-is.
func parseSlash(s string) (string, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}
	p1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	p2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}

	monthFirstOK := validCalendarDate(year, p1, p2)
	dayFirstOK := validCalendarDate(year, p2, p1)

	switch {
	case monthFirstOK && dayFirstOK:
		if p1 == p2 {
			return fmt.Sprintf("%02d-%s-%04d", p2, monthAbbr[p1], year), true
		}
		return "", false
	case monthFirstOK:
		return fmt.Sprintf("%02d-%s-%04d", p2, monthAbbr[p1], year), true
	case dayFirstOK:
		return fmt.Sprintf("%02d-%s-%04d", p1, monthAbbr[p2], year), true
	}
	return "", false
}

func validCalendarDate(year, month, day int) bool {
	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func formatDate(t time.Time) (string, bool) {
	if t.Year() < minYear || t.Year() > maxYear {
		return "", false
	}
	return fmt.Sprintf("%02d-%s-%04d", t.Day(), monthAbbr[t.Month()], t.Year()), true
}
