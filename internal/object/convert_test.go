package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
	"ox/internal/rex"
)

func TestToStringPrimitives(t *testing.T) {
	caller := newStubCaller()
	s, err := ToString(caller, heap.Null())
	require.NoError(t, err)
	assert.Equal(t, "null", s)

	s, err = ToString(caller, heap.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	s, err = ToString(caller, heap.Number(3))
	require.NoError(t, err)
	assert.Equal(t, "3", s)
}

func TestToStringUsesToStrMethod(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())
	obj := objVal.Object().Data.(*Object)
	toStr := caller.register(h, func(this heap.Value, args []heap.Value) (heap.Value, error) {
		return NewString(h, "custom"), nil
	})
	obj.Props.DeclareVar("$to_str", toStr)

	s, err := ToString(caller, objVal)
	require.NoError(t, err)
	assert.Equal(t, "custom", s)
}

func TestToStringFallsBackToObjectName(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())

	s, err := ToString(caller, objVal)
	require.NoError(t, err)
	assert.Equal(t, "Object:object", s)
}

// TestToStringRendersRegex covers spec.md §8's `to_str(R) == "/" + T +
// "/" + F` property through the shared ToString entry point, not just
// rex.Regex.String() directly — a regex-kind heap value has no
// *Object payload, so it must not fall through to the generic
// "Object:<kind>" fallback.
func TestToStringRendersRegex(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	reVal, err := rex.NewRegexValue(h, heap.Null(), `[a-z]+`, "i")
	require.NoError(t, err)

	s, err := ToString(caller, reVal)
	require.NoError(t, err)
	assert.Equal(t, `/[a-z]+/i`, s)
}

func TestToNumberNaNWithoutHook(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	objVal := New(h, heap.Null())

	n, err := ToNumber(caller, objVal)
	require.NoError(t, err)
	assert.True(t, n != n) // NaN
}

func TestEqualStringContent(t *testing.T) {
	h := heap.NewHeap()
	a := NewString(h, "hi")
	b := NewString(h, "hi")
	assert.True(t, Equal(a, b))
}

func TestEqualHeapRefIdentity(t *testing.T) {
	h := heap.NewHeap()
	a := New(h, heap.Null())
	b := New(h, heap.Null())
	assert.False(t, Equal(a, b))
	assert.True(t, Equal(a, a))
}
