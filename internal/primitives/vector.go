package primitives

import "golang.org/x/exp/constraints"

// Vector is a growable contiguous array, the generic analogue of the
// original's OX_Vector and the teacher's bare growable-slice idiom seen
// in bytecode.Chunk.Code.
type Vector[T any] struct {
	items []T
}

func NewVector[T any](capacity int) *Vector[T] {
	return &Vector[T]{items: make([]T, 0, capacity)}
}

func (v *Vector[T]) Len() int      { return len(v.items) }
func (v *Vector[T]) Cap() int      { return cap(v.items) }
func (v *Vector[T]) Items() []T    { return v.items }

func (v *Vector[T]) Push(item T) int {
	v.items = append(v.items, item)
	return len(v.items) - 1
}

// Pop removes and returns the last item. Panics if the vector is empty;
// callers (GC mark stack) always check Len() first.
func (v *Vector[T]) Pop() T {
	n := len(v.items) - 1
	item := v.items[n]
	v.items = v.items[:n]
	return item
}

func (v *Vector[T]) At(i int) T { return v.items[i] }

func (v *Vector[T]) Set(i int, item T) { v.items[i] = item }

// SetCapacity grows the backing array to capacity n, preserving
// contents; an n at or below the current capacity leaves it unchanged.
// Used by the GC to double its mark stack under repeated overflow.
func (v *Vector[T]) SetCapacity(n int) {
	if n <= cap(v.items) {
		return
	}
	fresh := make([]T, len(v.items), n)
	copy(fresh, v.items)
	v.items = fresh
}

func (v *Vector[T]) Truncate(n int) {
	v.items = v.items[:n]
}

// Ordered is re-exported so callers of primitives don't need a second
// import just to declare a numeric-keyed vector.
type Ordered = constraints.Ordered
