package rex

import "ox/internal/heap"

// Match is spec.md §3's match object: "the source string, start/end
// byte offsets, and a per-group slice array; lazily materializes
// substring and slice-object arrays." Offsets here are rune indices
// into the decoded source, not bytes — the Go-native analogue of the
// original's byte offsets, since every consumer in this module already
// works in runes.
type Match struct {
	Source     string
	Start, End int

	runes        []rune
	groups       [][2]int // index 0 is the whole match
	groupStrings []string // lazily filled cache, same indexing as groups
}

// Text is the whole match's substring, group 0.
func (m *Match) Text() string { return string(m.runes[m.Start:m.End]) }

// GroupCount is the number of capturing groups, excluding the implicit
// whole-match group 0.
func (m *Match) GroupCount() int { return len(m.groups) - 1 }

// GroupRange returns group i's [start, end) rune offsets. ok is false
// if i is out of range or the group didn't participate in the match.
func (m *Match) GroupRange(i int) (start, end int, ok bool) {
	if i < 0 || i >= len(m.groups) {
		return 0, 0, false
	}
	g := m.groups[i]
	if g[0] < 0 {
		return 0, 0, false
	}
	return g[0], g[1], true
}

// Group lazily materializes group i's substring on first access.
func (m *Match) Group(i int) (string, bool) {
	start, end, ok := m.GroupRange(i)
	if !ok {
		return "", false
	}
	if m.groupStrings == nil {
		m.groupStrings = make([]string, len(m.groups))
	}
	if m.groupStrings[i] == "" && start != end {
		m.groupStrings[i] = string(m.runes[start:end])
	}
	return m.groupStrings[i], true
}

func matchOps() *heap.Ops {
	return &heap.Ops{
		Kind: "match",
		Scan: func(*heap.Object, func(*heap.Object)) {}, // leaf: plain Go data, no heap refs
		Free: func(*heap.Object) {},
	}
}

// NewMatchValue allocates m as a heap value.
func NewMatchValue(h *heap.Heap, m *Match) heap.Value {
	ho := h.Alloc(matchOps(), m, 32)
	return heap.Ref(ho)
}

// AsMatch returns v's *Match payload, if v is a match-kind heap ref.
func AsMatch(v heap.Value) (*Match, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	m, ok := v.Object().Data.(*Match)
	return m, ok
}
