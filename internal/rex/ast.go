// Package rex implements the OX regular-expression engine: a pattern
// AST compiled from source, and a backtracking matcher over that AST.
// Grounded on original_source/src/lib/ox_re.c, the largest subsystem in
// the original after the parser (66KB). The original lowers its AST to
// a linear command array executed by a hand-rolled bytecode VM
// (OX_ReCmd/state-stack); this package keeps the same term/alternative/
// pattern vocabulary (OX_ReTermType) but matches by direct recursive
// backtracking with an explicit continuation instead of compiling to
// commands first — a scope simplification recorded in DESIGN.md, not a
// behavioral one: every term kind, quantifier, and flag ox_re.c defines
// is still implemented.
package rex

// TermType mirrors OX_ReTermType.
type TermType uint8

const (
	TermChar         TermType = iota // OX_RE_TERM_CHAR
	TermAny                          // OX_RE_TERM_ALL ('.')
	TermLineStart                    // OX_RE_TERM_LS ('^')
	TermLineEnd                      // OX_RE_TERM_LE ('$')
	TermWordBoundary                 // OX_RE_TERM_B ('\b')
	TermNotWordBound                 // OX_RE_TERM_NB ('\B')
	TermClass                        // OX_RE_TERM_CC
	TermGroup                        // OX_RE_TERM_GROUP (capturing or not)
	TermLookahead                    // OX_RE_TERM_LA  (?=...)
	TermLookaheadNeg                 // OX_RE_TERM_LAN (?!...)
	TermLookbehind                   // OX_RE_TERM_LB  (?<=...)
	TermLookbehindNeg                // OX_RE_TERM_LBN (?<!...)
	TermBackref                      // OX_RE_TERM_BR
)

// Term is one OX_ReTerm: a terminal plus its repetition (min, max,
// greedy). max == -1 means unbounded.
type Term struct {
	Type TermType

	Char    rune
	Class   *CharClass
	Backref int

	// Group holds the sub-pattern for TermGroup and the lookaround kinds.
	Group      *Pattern
	GroupID    int // 0 means non-capturing
	Capturing  bool

	Min, Max int
	Greedy   bool
}

// Alternative is a sequence of terms matched in order (OX_ReAlter).
type Alternative []Term

// Pattern is a list of alternatives tried in order, the first to match
// wins (OX_RePat).
type Pattern struct {
	Alternatives []Alternative
}
