// Package sanitize cleans user-submitted rich text before it reaches an HTML
// context. Stored content is always raw; callers sanitize at render time so a
// policy change applies to everything already stored.
package sanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags is the formatting whitelist for post bodies and bios.
var AllowedTags = []string{
	"p", "strong", "em", "u",
	"h1", "h2", "h3",
	"br", "span",
	"ol", "ul", "li",
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowAttrs("class").OnElements(AllowedTags...)
	return p
}

// Sanitize strips every element and attribute outside the whitelist.
// The result is deterministic for a given input.
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}

// HTML sanitizes raw and marks the result safe for html/template.
func HTML(raw string) template.HTML {
	return template.HTML(Sanitize(raw))
}
