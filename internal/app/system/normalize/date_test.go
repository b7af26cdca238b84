package normalize

import "testing"

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"canonical round-trip", "14-DEC-2025", "14-DEC-2025", true},
		{"canonical lowercase month", "14-dec-2025", "14-DEC-2025", true},
		{"canonical single-digit day", "3-JAN-2026", "03-JAN-2026", true},
		{"iso", "2025-12-14", "14-DEC-2025", true},
		{"slash no valid reading", "13/14/2025", "", false},
		{"slash unambiguous day-first", "14/12/2025", "14-DEC-2025", true},
		{"slash unambiguous month-first", "12/14/2025", "14-DEC-2025", true},
		{"slash ambiguous", "05/06/2025", "05/06/2025", false},
		{"slash same both ways", "07/07/2025", "07-JUL-2025", true},
		{"serial string", "45275", "15-DEC-2023", true},
		{"serial with fraction", "45275.75", "15-DEC-2023", true},
		{"generic", "14 Dec 2025", "14-DEC-2025", true},
		{"year too early", "1899-12-31", "1899-12-31", false},
		{"day out of range", "32-DEC-2025", "32-DEC-2025", false},
		{"bad month", "14-DEK-2025", "14-DEK-2025", false},
		{"garbage", "sometime next week", "sometime next week", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Date(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				// Failures must hand the original text back for follow-up.
				if got != tt.input {
					t.Errorf("Date(%q) failure returned %q, want input back", tt.input, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Date(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateSlashOverTwelve(t *testing.T) {
	// When one part cannot be a month, the other part must be: a single
	// over-twelve part with a valid partner resolves unambiguously, and a
	// pair of over-twelve parts has no reading at all.
	got, ok := Date("25/12/2025")
	if !ok || got != "25-DEC-2025" {
		t.Errorf("Date(25/12/2025) = %q, %v; want 25-DEC-2025, true", got, ok)
	}
	got, ok = Date("12/25/2025")
	if !ok || got != "25-DEC-2025" {
		t.Errorf("Date(12/25/2025) = %q, %v; want 25-DEC-2025, true", got, ok)
	}
	if _, ok := Date("13/14/2025"); ok {
		t.Error("13/14/2025 has no valid reading and must fail")
	}
}

func TestDateFromSerial(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		want   string
		wantOK bool
	}{
		{"serial one", 1, "01-JAN-1900", true},
		{"before leap bug", 59, "28-FEB-1900", true},
		{"after leap bug", 61, "01-MAR-1900", true},
		{"modern date", 45275, "15-DEC-2023", true},
		{"zero", 0, "", false},
		{"negative", -5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateFromSerial(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("DateFromSerial(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DateFromSerial(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
