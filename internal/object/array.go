package object

import "ox/internal/heap"

// Array is a growable vector of values with null-fill on sparse set
// (spec.md §3: "Growable vector of values with a length accessor;
// supports item set beyond end (nulls filled in)"). Grounded on
// ox_internal.h's OX_Vector used by the original's array object.
type Array struct {
	items []heap.Value
}

func NewArray() *Array { return &Array{} }

func (a *Array) Length() int { return len(a.items) }

// Get returns the element at i, or Null if i is out of range — arrays
// never raise on out-of-bounds read, only assignment extends them.
func (a *Array) Get(i int) heap.Value {
	if i < 0 || i >= len(a.items) {
		return heap.Null()
	}
	return a.items[i]
}

// Set stores v at i, null-filling any gap if i is beyond the current
// length.
func (a *Array) Set(i int, v heap.Value) {
	if i < 0 {
		return
	}
	for len(a.items) <= i {
		a.items = append(a.items, heap.Null())
	}
	a.items[i] = v
}

func (a *Array) Push(v heap.Value) { a.items = append(a.items, v) }

// Pop removes and returns the last element, or Null if the array is
// empty.
func (a *Array) Pop() heap.Value {
	if len(a.items) == 0 {
		return heap.Null()
	}
	n := len(a.items) - 1
	v := a.items[n]
	a.items = a.items[:n]
	return v
}

func (a *Array) Items() []heap.Value { return a.items }

func (a *Array) Truncate(n int) {
	if n < len(a.items) {
		a.items = a.items[:n]
	}
}

func arrayOps() *heap.Ops {
	return &heap.Ops{
		Kind: "array",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			arr := ho.Data.(*Array)
			for _, v := range arr.items {
				scanValue(v, mark)
			}
		},
		Free: func(*heap.Object) {},
	}
}

func NewArrayValue(h *heap.Heap) heap.Value {
	ho := h.Alloc(arrayOps(), NewArray(), 32)
	return heap.Ref(ho)
}

// AsArray returns v's *Array payload, if v is an array-kind heap ref.
func AsArray(v heap.Value) (*Array, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	a, ok := v.Object().Data.(*Array)
	return a, ok
}
