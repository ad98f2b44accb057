package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts s to a URL-safe ASCII slug: accents are folded, characters other than
// letters, digits, underscores and hyphens are dropped, and runs of spaces and hyphens
// collapse into one hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	ascii = slugInvalidChars.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = strings.TrimSpace(ascii)
	ascii = slugSeparators.ReplaceAllString(ascii, "-")
	return strings.Trim(ascii, "-_")
}
