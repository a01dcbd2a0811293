package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
	nonCodeRun = regexp.MustCompile(`[^A-Z0-9]+`)
)

// foldDiacritics decomposes the text and strips combining marks ("é" -> "e").
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify lowercases s, collapses every run of non-alphanumerics into a single
// "-" and trims separators from both ends. It may return "".
func Slugify(s string) string {
	s = strings.ToLower(foldDiacritics(s))
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeInternalCode uppercases code and collapses separators the same way
// Slugify does.
func NormalizeInternalCode(code string) string {
	code = strings.ToUpper(foldDiacritics(code))
	code = nonCodeRun.ReplaceAllString(code, "-")
	return strings.Trim(code, "-")
}
