package object

import "ox/internal/heap"

// Iterator protocol names, grounded on ox_iterator.c: three required
// method calls (end, value, next) plus an optional close hook. This
// mirrors that exact shape rather than inventing a differently-named Go
// interface, per SPEC_FULL.md's supplemented-features note on
// ox_iterator.c.
const (
	methodIter  = "$iter"
	methodEnd   = "end"
	methodValue = "value"
	methodNext  = "next"
	methodClose = "$close"
)

// GetIterator calls v's $iter() to produce an iterator value, the
// entry point `for x as expr { }` drives (spec.md §4.4).
func GetIterator(caller Caller, v heap.Value) (heap.Value, error) {
	obj, ok := asGettable(v)
	if !ok {
		return heap.Null(), nil
	}
	return callMethod(caller, v, obj, methodIter, nil)
}

// IterEnd, IterValue, and IterNext call the corresponding protocol
// method on an iterator value.
func IterEnd(caller Caller, it heap.Value) (bool, error) {
	obj, ok := asGettable(it)
	if !ok {
		return true, nil
	}
	v, err := callMethod(caller, it, obj, methodEnd, nil)
	if err != nil {
		return true, err
	}
	return v.Kind() == heap.KindBool && v.Bool(), nil
}

func IterValue(caller Caller, it heap.Value) (heap.Value, error) {
	obj, ok := asGettable(it)
	if !ok {
		return heap.Null(), nil
	}
	return callMethod(caller, it, obj, methodValue, nil)
}

func IterNext(caller Caller, it heap.Value) error {
	obj, ok := asGettable(it)
	if !ok {
		return nil
	}
	_, err := callMethod(caller, it, obj, methodNext, nil)
	return err
}

// IterClose invokes $close if the iterator defines one. Status-stack
// unwinding (internal/vmctx) calls this unconditionally on every scope
// exit of a `for…as…` loop — normal, break, return, or throw — per
// spec.md §4.4 and §4.7.
func IterClose(caller Caller, it heap.Value) error {
	obj, ok := asGettable(it)
	if !ok || !obj.Has(methodClose) {
		return nil
	}
	_, err := callMethod(caller, it, obj, methodClose, nil)
	return err
}

// mapState and selectState (built by NewMapIterator/NewSelectIterator)
// are the lazy wrappers spec.md §4.4 names: "map(fn) and select(fn)
// build lazy wrappers that hold and forward to an inner iterator."
// They are plain Go structs with
// End/Value/Next methods, not heap Objects with their own property maps,
// so they are driven from Go rather than through GetIterator/IterEnd/...
type mapState struct {
	inner heap.Value
	fn    heap.Value
}

type selectState struct {
	inner heap.Value
	fn    heap.Value
	caller Caller
	// cached holds the next value satisfying fn, found eagerly by
	// advance() so End()/Value() can be pure reads — select must skip
	// ahead past rejected elements, unlike map which is a 1:1 transform.
	cached  heap.Value
	atEnd   bool
	primed  bool
}

// NewMapIterator wraps inner so that Value() applies fn to the inner
// iterator's current value; End()/Next() just forward.
func NewMapIterator(inner, fn heap.Value) *mapState {
	return &mapState{inner: inner, fn: fn}
}

func (m *mapState) End(caller Caller) (bool, error)   { return IterEnd(caller, m.inner) }
func (m *mapState) Next(caller Caller) error          { return IterNext(caller, m.inner) }
func (m *mapState) Value(caller Caller) (heap.Value, error) {
	v, err := IterValue(caller, m.inner)
	if err != nil {
		return heap.Null(), err
	}
	return caller.Call(m.fn, heap.Null(), []heap.Value{v})
}

// NewSelectIterator wraps inner so iteration skips elements for which
// fn(value) is falsy.
func NewSelectIterator(caller Caller, inner, fn heap.Value) (*selectState, error) {
	s := &selectState{inner: inner, fn: fn, caller: caller}
	if err := s.advance(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *selectState) advance() error {
	for {
		end, err := IterEnd(s.caller, s.inner)
		if err != nil {
			return err
		}
		if end {
			s.atEnd = true
			s.primed = true
			return nil
		}
		v, err := IterValue(s.caller, s.inner)
		if err != nil {
			return err
		}
		res, err := s.caller.Call(s.fn, heap.Null(), []heap.Value{v})
		if err != nil {
			return err
		}
		truthy := !(res.Kind() == heap.KindNull || (res.Kind() == heap.KindBool && !res.Bool()))
		if err := IterNext(s.caller, s.inner); err != nil {
			return err
		}
		if truthy {
			s.cached = v
			s.atEnd = false
			s.primed = true
			return nil
		}
	}
}

func (s *selectState) End(Caller) (bool, error)            { return s.atEnd, nil }
func (s *selectState) Value(Caller) (heap.Value, error)    { return s.cached, nil }
func (s *selectState) Next(caller Caller) error            { return s.advance() }
