package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ARKK1187", "arkk1187"},
		{"AR/KK-1187", "arkk1187"},
		{"  EU-LN-0042  ", "euln0042"},
		{"already-lower/case", "alreadylowercase"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ID(tt.input)
			if got != tt.want {
				t.Errorf("ID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNegativePhone(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  bool
	}{
		{"negative int", -1, true},
		{"negative string", "-5", true},
		{"negative fraction", -0.5, true},
		{"zero", 0, false},
		{"positive", 9876543210.0, false},
		{"positive string", "9876543210", false},
		{"empty string", "", false},
		{"nil", nil, false},
		{"non-numeric", "not a phone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NegativePhone(tt.input)
			if got != tt.want {
				t.Errorf("NegativePhone(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
