package fiber

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
)

// entryCaller drives a fiber's body straight from a test-supplied Go
// closure, standing in for the eventual bytecode dispatch loop.
type entryCaller struct {
	fn func(y *Yielder, args []heap.Value) (heap.Value, error)
}

func (c entryCaller) CallFiber(y *Yielder, fn, this heap.Value, args []heap.Value) (heap.Value, error) {
	return c.fn(y, args)
}

func TestFiberYieldsThenEnds(t *testing.T) {
	caller := entryCaller{fn: func(y *Yielder, args []heap.Value) (heap.Value, error) {
		y.Yield(heap.Number(1))
		y.Yield(heap.Number(2))
		return heap.Number(3), nil
	}}
	f := New(caller, heap.Null(), heap.Null(), nil)

	assert.Equal(t, StateInit, f.State())

	v, err := f.Next(heap.Null())
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.Num())
	assert.Equal(t, StateRun, f.State())
	assert.False(t, f.End())

	v, err = f.Next(heap.Null())
	require.NoError(t, err)
	assert.Equal(t, float64(2), v.Num())

	v, err = f.Next(heap.Null())
	require.NoError(t, err)
	assert.Equal(t, float64(3), v.Num())
	assert.True(t, f.End())
	assert.Equal(t, StateEnd, f.State())

	v, err = f.Next(heap.Null())
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestFiberResumeValueFlowsBackIntoYield(t *testing.T) {
	caller := entryCaller{fn: func(y *Yielder, args []heap.Value) (heap.Value, error) {
		got := y.Yield(heap.Number(10))
		return heap.Number(got.Num() * 2), nil
	}}
	f := New(caller, heap.Null(), heap.Null(), nil)

	v, err := f.Next(heap.Null())
	require.NoError(t, err)
	assert.Equal(t, float64(10), v.Num())

	v, err = f.Next(heap.Number(21))
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.Num())
}

func TestFiberErrorStatePropagatesAndSticks(t *testing.T) {
	boom := errors.New("boom")
	caller := entryCaller{fn: func(y *Yielder, args []heap.Value) (heap.Value, error) {
		return heap.Null(), boom
	}}
	f := New(caller, heap.Null(), heap.Null(), nil)

	_, err := f.Next(heap.Null())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, f.State())

	_, err = f.Next(heap.Null())
	assert.ErrorIs(t, err, boom)
}

func TestFiberArgsPassedToEntry(t *testing.T) {
	caller := entryCaller{fn: func(y *Yielder, args []heap.Value) (heap.Value, error) {
		require.Len(t, args, 1)
		return heap.Number(args[0].Num() + 1), nil
	}}
	f := New(caller, heap.Null(), heap.Null(), []heap.Value{heap.Number(41)})

	v, err := f.Next(heap.Null())
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.Num())
}

func TestAsFiberRoundTrip(t *testing.T) {
	h := heap.NewHeap()
	caller := entryCaller{fn: func(y *Yielder, args []heap.Value) (heap.Value, error) {
		return heap.Null(), nil
	}}
	fb := New(caller, heap.Null(), heap.Null(), nil)
	v := NewValue(h, fb)

	got, ok := AsFiber(v)
	require.True(t, ok)
	assert.Same(t, fb, got)

	_, ok = AsFiber(heap.Number(1))
	assert.False(t, ok)
}
