// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Sanitization of user-submitted text. Contact-form content is relayed
// into email, so markup is stripped entirely rather than filtered.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all markup from s, leaving plain text with entities
// decoded.
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
