package rex

// contFunc is the success continuation a term's match passes forward:
// given the position just past what it consumed, does the remainder of
// the pattern also match? Returning false asks the caller to try the
// next alternative for this term (backtrack), mirroring ox_re.c's
// reject/resume-at-saved-PC without needing an explicit state stack —
// Go's call stack plays that role here.
type contFunc func(pos int) bool

// matchState is one attempt's mutable match data: the decoded source,
// the active flags, and capture group boundaries (index 0 is the whole
// match, written by the caller after a successful attempt).
type matchState struct {
	runes      []rune
	ignoreCase bool
	multiline  bool
	dotAll     bool
	groups     [][2]int
}

func runeEqual(a, b rune, ignoreCase bool) bool {
	if a == b {
		return true
	}
	if !ignoreCase {
		return false
	}
	return foldRune(a) == foldRune(b)
}

func (m *matchState) matchPattern(pat *Pattern, pos int, cont contFunc) bool {
	for _, alt := range pat.Alternatives {
		if m.matchAlt(alt, 0, pos, cont) {
			return true
		}
	}
	return false
}

func (m *matchState) matchAlt(alt Alternative, idx, pos int, cont contFunc) bool {
	if idx == len(alt) {
		return cont(pos)
	}
	t := &alt[idx]
	return m.matchTerm(t, pos, func(newPos int) bool {
		return m.matchAlt(alt, idx+1, newPos, cont)
	})
}

// matchTerm applies t's repetition (min, max, greedy) around a single
// atomic match, the lowering gen_term performs onto a loop in the
// original's command array.
func (m *matchState) matchTerm(t *Term, pos int, cont contFunc) bool {
	return m.matchRepeat(t, pos, 0, cont)
}

func (m *matchState) matchRepeat(t *Term, pos, count int, cont contFunc) bool {
	if count < t.Min {
		return m.matchAtom(t, pos, func(newPos int) bool {
			return m.matchRepeat(t, newPos, count+1, cont)
		})
	}
	if t.Max >= 0 && count >= t.Max {
		return cont(pos)
	}

	more := func() bool {
		return m.matchAtom(t, pos, func(newPos int) bool {
			if newPos == pos {
				// A zero-width atom inside an open-ended quantifier
				// would loop forever; treat "no progress" as the end
				// of this repetition instead.
				return false
			}
			return m.matchRepeat(t, newPos, count+1, cont)
		})
	}
	if t.Greedy {
		if more() {
			return true
		}
		return cont(pos)
	}
	if cont(pos) {
		return true
	}
	return more()
}

// matchAtom matches exactly one occurrence of t's atom kind.
func (m *matchState) matchAtom(t *Term, pos int, cont contFunc) bool {
	switch t.Type {
	case TermChar:
		if pos < len(m.runes) && runeEqual(m.runes[pos], t.Char, m.ignoreCase) {
			return cont(pos + 1)
		}
		return false
	case TermAny:
		if pos < len(m.runes) && (m.dotAll || m.runes[pos] != '\n') {
			return cont(pos + 1)
		}
		return false
	case TermClass:
		if pos < len(m.runes) && t.Class.Matches(m.runes[pos], m.ignoreCase) {
			return cont(pos + 1)
		}
		return false
	case TermLineStart:
		if pos == 0 || (m.multiline && m.runes[pos-1] == '\n') {
			return cont(pos)
		}
		return false
	case TermLineEnd:
		if pos == len(m.runes) || (m.multiline && m.runes[pos] == '\n') {
			return cont(pos)
		}
		return false
	case TermWordBoundary:
		if m.atWordBoundary(pos) {
			return cont(pos)
		}
		return false
	case TermNotWordBound:
		if !m.atWordBoundary(pos) {
			return cont(pos)
		}
		return false
	case TermGroup:
		return m.matchGroup(t, pos, cont)
	case TermLookahead:
		ok := m.matchPattern(t.Group, pos, func(int) bool { return true })
		if ok {
			return cont(pos)
		}
		return false
	case TermLookaheadNeg:
		ok := m.matchPattern(t.Group, pos, func(int) bool { return true })
		if !ok {
			return cont(pos)
		}
		return false
	case TermLookbehind:
		if m.matchesEndingAt(t.Group, pos) {
			return cont(pos)
		}
		return false
	case TermLookbehindNeg:
		if !m.matchesEndingAt(t.Group, pos) {
			return cont(pos)
		}
		return false
	case TermBackref:
		return m.matchBackref(t, pos, cont)
	}
	return false
}

func (m *matchState) atWordBoundary(pos int) bool {
	before := pos > 0 && isWordChar(m.runes[pos-1])
	after := pos < len(m.runes) && isWordChar(m.runes[pos])
	return before != after
}

// matchGroup runs the group's sub-pattern. Capturing groups stash the
// span right before calling the outer continuation and restore the
// previous span if that continuation ultimately fails, so a later
// alternative's capture isn't left behind after backtracking out of it.
func (m *matchState) matchGroup(t *Term, pos int, cont contFunc) bool {
	if !t.Capturing {
		return m.matchPattern(t.Group, pos, cont)
	}
	prev := m.groups[t.GroupID]
	ok := m.matchPattern(t.Group, pos, func(end int) bool {
		m.groups[t.GroupID] = [2]int{pos, end}
		if cont(end) {
			return true
		}
		m.groups[t.GroupID] = prev
		return false
	})
	if !ok {
		m.groups[t.GroupID] = prev
	}
	return ok
}

// matchesEndingAt reports whether pat can match some substring ending
// exactly at pos, trying every start <= pos. ox_re.c implements
// look-behind by compiling a reversed command sequence and scanning
// backward from pos; trying each candidate start forward is the
// straightforward equivalent without a reverse-execution mode, at the
// cost of O(pos) candidate starts instead of O(1).
func (m *matchState) matchesEndingAt(pat *Pattern, pos int) bool {
	for start := pos; start >= 0; start-- {
		if m.matchPattern(pat, start, func(end int) bool { return end == pos }) {
			return true
		}
	}
	return false
}

func (m *matchState) matchBackref(t *Term, pos int, cont contFunc) bool {
	if t.Backref >= len(m.groups) {
		return false
	}
	g := m.groups[t.Backref]
	if g[0] < 0 {
		// An unmatched group's backreference matches the empty string.
		return cont(pos)
	}
	text := m.runes[g[0]:g[1]]
	if pos+len(text) > len(m.runes) {
		return false
	}
	for i, r := range text {
		if !runeEqual(m.runes[pos+i], r, m.ignoreCase) {
			return false
		}
	}
	return cont(pos + len(text))
}
