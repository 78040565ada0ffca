package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength matches the CMS slug field limit.
const MaxLength = 96

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from a document title, the same shape
// the CMS produces for its slug fields. Diacritics are folded to ASCII and
// the result is cut to MaxLength without leaving a trailing hyphen.
//
// Examples:
//   - "Premium Manufacturing Unit A1" → "premium-manufacturing-unit-a1"
//   - "Crème  Brûlée!" → "creme-brulee"
func Generate(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(folded)), "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && len(s) <= MaxLength && Generate(s) == s
}
