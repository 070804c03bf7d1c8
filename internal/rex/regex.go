package rex

import "ox/internal/heap"

// Regex is the immutable compiled-pattern object of spec.md §3: "stores
// the source string, flag bits..., group count, and a compiled command
// array" — here, the command array is the AST the matcher walks
// directly instead of a linear bytecode (see ast.go's package doc).
type Regex struct {
	Src        heap.Value // the source OX string, kept for re-inspection/GC
	Source     string
	Flags      Flags
	Pattern    *Pattern
	GroupCount int
}

// NewRegex compiles source under flagStr into an immutable Regex.
func NewRegex(source, flagStr string) (*Regex, error) {
	flags, err := ParseFlags(flagStr)
	if err != nil {
		return nil, err
	}
	pat, groupNum, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return &Regex{Source: source, Flags: flags, Pattern: pat, GroupCount: groupNum}, nil
}

// Match implements spec.md §4.5's public operation: "match(string,
// start_offset, extra_flags) → match | null," without the extra_flags
// argument: only re.Flags apply. Non-anchored mode (the
// default) retries from each position start..len(s) on failure;
// Perfect mode requires the whole string to be consumed by one match
// attempt starting exactly at start.
func (re *Regex) Match(s string, start int) (*Match, bool) {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		return nil, false
	}

	attempt := func(from int) (*Match, bool) {
		ms := &matchState{
			runes: runes, ignoreCase: re.Flags.IgnoreCase,
			multiline: re.Flags.Multiline, dotAll: re.Flags.DotAll,
			groups: make([][2]int, re.GroupCount+1),
		}
		for i := range ms.groups {
			ms.groups[i] = [2]int{-1, -1}
		}
		var end int
		ok := ms.matchPattern(re.Pattern, from, func(e int) bool {
			if re.Flags.Perfect && e != len(runes) {
				return false
			}
			end = e
			return true
		})
		if !ok {
			return nil, false
		}
		ms.groups[0] = [2]int{from, end}
		return &Match{Source: s, runes: runes, Start: from, End: end, groups: ms.groups}, true
	}

	if re.Flags.Perfect {
		return attempt(start)
	}
	for from := start; from <= len(runes); from++ {
		if m, ok := attempt(from); ok {
			return m, true
		}
	}
	return nil, false
}

// String renders re the way spec.md §8 requires: "/" + source + "/" +
// flags, flags in the fixed i/m/s/u/p order Flags.String encodes.
func (re *Regex) String() string {
	return "/" + re.Source + "/" + re.Flags.String()
}

func regexOps() *heap.Ops {
	return &heap.Ops{
		Kind: "regex",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			re := ho.Data.(*Regex)
			if re.Src.IsRef() && re.Src.Object() != nil {
				mark(re.Src.Object())
			}
		},
		Free: func(*heap.Object) {},
	}
}

// NewRegexValue compiles source and allocates it as a heap value.
func NewRegexValue(h *heap.Heap, srcVal heap.Value, source, flagStr string) (heap.Value, error) {
	re, err := NewRegex(source, flagStr)
	if err != nil {
		return heap.Null(), err
	}
	re.Src = srcVal
	ho := h.Alloc(regexOps(), re, 48)
	return heap.Ref(ho), nil
}

// AsRegex returns v's *Regex payload, if v is a regex-kind heap ref.
func AsRegex(v heap.Value) (*Regex, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	re, ok := v.Object().Data.(*Regex)
	return re, ok
}
