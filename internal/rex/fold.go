package rex

import "golang.org/x/text/cases"

// foldCaser is the Unicode case folder backing ignore-case comparisons
// (spec.md §4.5: "Unicode and ignore-case aware matcher"), used instead
// of hand-rolled ASCII-only folding so accented and non-Latin letters
// fold correctly.
var foldCaser = cases.Fold()

// foldRune returns r's Unicode case-fold form. Folding can in general
// expand to more than one rune (e.g. German ß → "ss"); the matcher only
// needs single-rune comparisons, so the first rune of the folded form
// is the canonical representative.
func foldRune(r rune) rune {
	for _, fr := range foldCaser.String(string(r)) {
		return fr
	}
	return r
}
