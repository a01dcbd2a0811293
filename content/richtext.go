package content

import (
	"html"
	"regexp"
	"strings"
)

// leadingTag matches text that already opens with an HTML element.
var leadingTag = regexp.MustCompile(`^\s*<[A-Za-z][A-Za-z0-9-]*(\s[^>]*)?/?>`)

// NormalizeRichText turns a plain-text block into a single escaped paragraph.
// Blank input yields "" and input that already starts with a tag is returned
// as is, so applying it twice is the same as applying it once.
func NormalizeRichText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if leadingTag.MatchString(text) {
		return text
	}
	return "<p>" + html.EscapeString(strings.TrimSpace(text)) + "</p>"
}

// NormalizeBlocks normalizes every block and drops the ones that end up empty.
func NormalizeBlocks(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if n := NormalizeRichText(b); n != "" {
			out = append(out, n)
		}
	}
	return out
}
