// Package glyph replaces characters that bitmap and SDF fonts commonly lack
// with their closest ASCII-compatible form.
package glyph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReplacePragma is the pragma that asks lookups to strip diacritics.
const ReplacePragma = "ReplaceTMPInvalidChars"

// Letters with no canonical decomposition.
var letters = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
)

// Strip removes combining marks and maps the remaining special letters,
// e.g. "Şarkı söyle" becomes "Sarki soyle".
func Strip(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return letters.Replace(out)
}
