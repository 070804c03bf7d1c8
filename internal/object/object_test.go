package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
)

// stubCaller is a minimal Caller that treats every callable as a Go
// closure keyed by identity, enough to exercise accessor/$init dispatch
// without needing the real execution engine.
type stubCaller struct {
	fns map[heap.Value]func(this heap.Value, args []heap.Value) (heap.Value, error)
}

func newStubCaller() *stubCaller {
	return &stubCaller{fns: make(map[heap.Value]func(heap.Value, []heap.Value) (heap.Value, error))}
}

func (c *stubCaller) register(h *heap.Heap, fn func(this heap.Value, args []heap.Value) (heap.Value, error)) heap.Value {
	ho := h.Alloc(&heap.Ops{Kind: "native-fn", Scan: func(*heap.Object, func(*heap.Object)) {}}, fn, 8)
	v := heap.Ref(ho)
	c.fns[v] = fn
	return v
}

func (c *stubCaller) Call(callee, this heap.Value, args []heap.Value) (heap.Value, error) {
	if fn, ok := c.fns[callee]; ok {
		return fn(this, args)
	}
	return heap.Null(), nil
}

func TestObjectGetSetOwnProperty(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())
	obj := objVal.Object().Data.(*Object)

	err := obj.Set(caller, objVal, "x", heap.Number(1))
	require.NoError(t, err)

	v, err := obj.Get(caller, objVal, "x")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.Num())
}

func TestObjectConstRejectsAssignment(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())
	obj := objVal.Object().Data.(*Object)
	obj.Props.DeclareConst("pi", heap.Number(3))

	err := obj.Set(caller, objVal, "pi", heap.Number(4))
	assert.Error(t, err)

	v, _ := obj.Get(caller, objVal, "pi")
	assert.Equal(t, float64(3), v.Num())
}

func TestObjectAccessorGetterSetter(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())
	obj := objVal.Object().Data.(*Object)

	var backing float64 = 10
	getter := caller.register(h, func(this heap.Value, args []heap.Value) (heap.Value, error) {
		return heap.Number(backing), nil
	})
	setter := caller.register(h, func(this heap.Value, args []heap.Value) (heap.Value, error) {
		backing = args[0].Num()
		return heap.Null(), nil
	})
	obj.Props.DeclareAccessor("v", getter, setter)

	got, err := obj.Get(caller, objVal, "v")
	require.NoError(t, err)
	assert.Equal(t, float64(10), got.Num())

	require.NoError(t, obj.Set(caller, objVal, "v", heap.Number(20)))
	assert.Equal(t, float64(20), backing)
}

func TestObjectGetWalksInterfaceChain(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	ifaceVal := NewInterfaceValue(h, "Base")
	interfaceOf(ifaceVal).Props.DeclareVar("greeting", heap.Number(42))

	objVal := New(h, ifaceVal)
	obj := objVal.Object().Data.(*Object)

	v, err := obj.Get(caller, objVal, "greeting")
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.Num())

	// absent names resolve to null, not an error, via the plain Get path.
	v, err = obj.Get(caller, objVal, "nope")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	_, err = obj.GetThrow(caller, objVal, "nope")
	assert.Error(t, err)
}

func TestObjectSetNeverWritesThroughInheritedSlot(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	ifaceVal := NewInterfaceValue(h, "Base")
	interfaceOf(ifaceVal).Props.DeclareVar("shared", heap.Number(1))

	objVal := New(h, ifaceVal)
	obj := objVal.Object().Data.(*Object)

	require.NoError(t, obj.Set(caller, objVal, "shared", heap.Number(99)))

	// the write created an own slot; the interface's copy is untouched.
	ifaceShared, _ := interfaceOf(ifaceVal).Props.Lookup("shared")
	assert.Equal(t, float64(1), ifaceShared.Value.Num())

	own, ok := obj.Props.Lookup("shared")
	require.True(t, ok)
	assert.Equal(t, float64(99), own.Value.Num())
}

func TestArrayNullFillsOnSparseSet(t *testing.T) {
	a := NewArray()
	a.Set(3, heap.Number(7))
	require.Equal(t, 4, a.Length())
	assert.True(t, a.Get(0).IsNull())
	assert.True(t, a.Get(2).IsNull())
	assert.Equal(t, float64(7), a.Get(3).Num())
}

func TestArrayPushPop(t *testing.T) {
	a := NewArray()
	a.Push(heap.Number(1))
	a.Push(heap.Number(2))
	assert.Equal(t, float64(2), a.Pop().Num())
	assert.Equal(t, 1, a.Length())
}
