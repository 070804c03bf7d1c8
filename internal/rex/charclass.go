package rex

import "unicode"

// CharClassItem is a min/max rune range (OX_ReCharClassItem), normalized
// so min <= max (spec.md §4.5: "Ranges in classes normalize min≤max").
type CharClassItem struct {
	Min, Max rune
}

// Shorthand classes resolve to a predicate instead of a range, matching
// ox_re.c's OX_RE_CHAR_S/NS/D/ND/W/NW sentinel values for \s \S \d \D
// \w \W.
type shorthand uint8

const (
	shorthandNone shorthand = iota
	shorthandSpace
	shorthandNotSpace
	shorthandDigit
	shorthandNotDigit
	shorthandWord
	shorthandNotWord
)

// CharClass is `[...]`: a possibly-negated union of ranges and
// shorthand predicates (OX_ReCharClass). OR semantics for an inclusive
// class, AND semantics (via negation) for `[^...]`.
type CharClass struct {
	Negate     bool
	Items      []CharClassItem
	Shorthands []shorthand
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (sh shorthand) matches(r rune) bool {
	switch sh {
	case shorthandSpace:
		return unicode.IsSpace(r)
	case shorthandNotSpace:
		return !unicode.IsSpace(r)
	case shorthandDigit:
		return unicode.IsDigit(r)
	case shorthandNotDigit:
		return !unicode.IsDigit(r)
	case shorthandWord:
		return isWordChar(r)
	case shorthandNotWord:
		return !isWordChar(r)
	}
	return false
}

// Matches reports whether r is in the class, honoring ignoreCase by
// also testing r's case-folded form and its upper-case form against each
// range; the range endpoints themselves are not folded.
func (c *CharClass) Matches(r rune, ignoreCase bool) bool {
	found := false
	for _, sh := range c.Shorthands {
		if sh.matches(r) {
			found = true
			break
		}
	}
	if !found {
		for _, it := range c.Items {
			if rangeContains(it, r, ignoreCase) {
				found = true
				break
			}
		}
	}
	if c.Negate {
		return !found
	}
	return found
}

func rangeContains(it CharClassItem, r rune, ignoreCase bool) bool {
	if r >= it.Min && r <= it.Max {
		return true
	}
	if !ignoreCase {
		return false
	}
	lo, hi := foldRune(r), unicode.ToUpper(r)
	if lo != r && lo >= it.Min && lo <= it.Max {
		return true
	}
	if hi != r && hi >= it.Min && hi <= it.Max {
		return true
	}
	return false
}
