package htmlsanitize_test

import (
	"testing"

	"github.com/sevakendra/regdesk/internal/app/system/htmlsanitize"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"tags removed", "<p><strong>Bold</strong> text</p>", "Bold text"},
		{"script removed", "Hello<script>alert('xss')</script>", "Hello"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"whitespace trimmed", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Strip(tt.input); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
