package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Directional marks and zero-width characters removed even if the Unicode
// tables in use classify them outside category C.
var invisibleMarks = map[rune]bool{
	'\u200e': true, // left-to-right mark
	'\u200f': true, // right-to-left mark
	'\u202a': true, // left-to-right embedding
	'\u202b': true, // right-to-left embedding
	'\u202c': true, // pop directional formatting
	'\u202d': true, // left-to-right override
	'\u202e': true, // right-to-left override
	'\u200b': true, // zero width space
	'\u200c': true, // zero width non-joiner
	'\u200d': true, // zero width joiner
	'\ufeff': true, // zero width no-break space / BOM
}

// visibleCategories are every general category group except C. A rune in
// none of them is Cc, Cf, Cs, Co or unassigned.
var visibleCategories = []*unicode.RangeTable{
	unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z,
}

func isInvisible(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return invisibleMarks[r] || !unicode.In(r, visibleCategories...)
}

// Normalize strips control, format and other invisible characters from a
// title and trims surrounding whitespace. Newlines, carriage returns and
// tabs inside the text are kept.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(runes.Remove(runes.Predicate(isInvisible)), s)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if isInvisible(r) {
				return -1
			}
			return r
		}, s)
	}
	return strings.TrimSpace(out)
}
