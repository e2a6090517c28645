package conflicts

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// enye is kept as-is by Normalize. Firms treat "Muñoz" and "Munoz" as
// distinct surnames.
const enye = "ñ"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a name for comparison: lower-case, accents removed
// (except ñ), whitespace collapsed and trimmed. It is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// Compose first so a decomposed "n" + U+0303 is recognized as ñ.
	s := norm.NFC.String(strings.ToLower(text))

	parts := strings.Split(s, enye)
	for i, p := range parts {
		folded, _, err := transform.String(stripMarks, p)
		if err == nil {
			parts[i] = folded
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, enye)), " ")
}
