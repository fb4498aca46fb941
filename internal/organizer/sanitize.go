package organizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var namePolicy = bluemonday.StrictPolicy()

// SanitizeName strips HTML from a user-supplied display name, trims
// whitespace and caps the length in runes. An empty result means the input
// had no usable content and must be rejected by the caller.
func SanitizeName(name string, maxLen int) string {
	cleaned := html.UnescapeString(namePolicy.Sanitize(name))
	trimmed := strings.TrimSpace(cleaned)
	runes := []rune(trimmed)
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
