package object

import "ox/internal/heap"

// String is a UTF-8 string object with cached rune length. Grounded on
// spec.md §3 ("String: UTF-8 byte sequence with cached length; opt-in
// interning via a process-wide singleton hash so literal strings
// compare by pointer").
type String struct {
	Text   string
	Length int // rune count, cached once at construction
}

func stringOps() *heap.Ops {
	return &heap.Ops{
		Kind: "string",
		Scan: func(*heap.Object, func(*heap.Object)) {}, // leaf: no outgoing references
		Free: func(*heap.Object) {},
	}
}

// Pool is the process-wide singleton table spec.md §3 describes:
// identical literal text interns to the same heap object, so
// pointer-identity comparison (and hashing by identity) works for
// interned strings the way the original's singleton hash intends.
// ScanRoots marks every entry, so an interned string stays alive as
// long as the pool does: a collection never frees it, and the pool does
// not drop an entry whose only referent is the pool itself.
type Pool struct {
	heap    *heap.Heap
	entries map[string]heap.Value
}

func NewPool(h *heap.Heap) *Pool {
	return &Pool{heap: h, entries: make(map[string]heap.Value)}
}

// Intern returns the canonical heap value for text, allocating it on
// first use.
func (p *Pool) Intern(text string) heap.Value {
	if v, ok := p.entries[text]; ok {
		return v
	}
	v := NewString(p.heap, text)
	p.entries[text] = v
	return v
}

// ScanRoots implements heap.RootProvider: every interned string is a GC
// root as long as the pool itself is alive (spec.md §4.1 step 1 lists
// "the interned-string table" explicitly).
func (p *Pool) ScanRoots(mark func(*heap.Object)) {
	for _, v := range p.entries {
		scanValue(v, mark)
	}
}

// Sweep drops pool entries whose heap object live reports as dead.
// Because ScanRoots marks every entry, a collection never leaves one
// dead, and nothing in this module calls Sweep.
func (p *Pool) Sweep(live func(*heap.Object) bool) {
	for text, v := range p.entries {
		if ref := v.Object(); ref != nil && !live(ref) {
			delete(p.entries, text)
		}
	}
}

func NewString(h *heap.Heap, text string) heap.Value {
	s := &String{Text: text, Length: len([]rune(text))}
	ho := h.Alloc(stringOps(), s, len(text)+16)
	return heap.Ref(ho)
}

// AsString returns v's *String payload, if v is a string-kind heap ref.
func AsString(v heap.Value) (*String, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	s, ok := v.Object().Data.(*String)
	return s, ok
}
