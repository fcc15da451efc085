package postgate

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	// postPolicy is the constrained safe tag set applied to post
	// content before it is handed to the host.
	postPolicy = bluemonday.UGCPolicy()
)

// SanitizeText reduces a value to a single line of plain text: markup
// stripped, control characters removed, whitespace collapsed, ends
// trimmed. Used for titles and status values.
func SanitizeText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// drop
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizePostContent filters a post body through the content
// allow-list policy.
func SanitizePostContent(s string) string {
	return postPolicy.Sanitize(s)
}
