// AngelaMos | 2026
// text.go

package core

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainText = bluemonday.StrictPolicy()

// PlainText strips all markup from user supplied text and trims it.
// bluemonday escapes entities on the way out, so they are unescaped again
// to store the text the member actually typed.
func PlainText(s string) string {
	cleaned := plainText.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
