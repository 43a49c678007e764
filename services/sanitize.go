package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds decoding of nested entity layers such as &amp;lt;
const maxSanitizePasses = 4

// SanitizeText strips markup from free-text input shown on the order board.
// Entities are decoded before sanitizing so encoded markup is stripped too; the result stays
// HTML-escaped.
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	out := strictPolicy.Sanitize(html.UnescapeString(s))
	for i := 1; i < maxSanitizePasses; i++ {
		next := strictPolicy.Sanitize(html.UnescapeString(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
