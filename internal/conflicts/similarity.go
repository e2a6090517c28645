package conflicts

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Score returns a 0-100 similarity between two names that ignores word order,
// so "García Juan" and "Juan García" score 100. Both inputs are normalized
// first; an empty side scores 0.
//
// The score is the indel ratio 2*LCS/(len(a)+len(b)) over runes. A missing
// token costs only its own length: "Juan Garcia" against "Juan García López"
// scores about 78.6.
func Score(a, b string) float64 {
	return similarity(prepare(a), prepare(b))
}

// EditDistance is the Levenshtein distance between the canonical forms of a
// and b, counted in runes.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(prepare(a), prepare(b))
}

// prepare normalizes s and puts its tokens in canonical order. Tokens are
// split on anything that is not a letter or digit, so punctuation such as
// "Corp." or "García-Rivera" does not count against a match.
func prepare(s string) string {
	s = Normalize(s)
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// similarity scores two prepared strings.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	return 100 * float64(2*lcsLen(ra, rb)) / float64(len(ra)+len(rb))
}

// lcsLen is the length of the longest common subsequence of a and b. Only two
// rows of the table are kept.
func lcsLen(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
