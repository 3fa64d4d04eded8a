package match

import "strings"

// Normalize canonicalizes a string for comparison: lowercased, leading and
// trailing whitespace removed, and every internal whitespace run collapsed
// to a single space. Idempotent.
//
// No Unicode folding is applied, so accented and unaccented variants of the
// same title do not normalize to the same string.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
