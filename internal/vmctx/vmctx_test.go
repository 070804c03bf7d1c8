package vmctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/bytecode"
	"ox/internal/heap"
	"ox/internal/langerr"
	"ox/internal/object"
	"ox/internal/script"
)

func TestAcquireReleaseRegistersAndUnregistersRoot(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()
	assert.Len(t, vm.Contexts(), 1)

	vm.Release(ctx)
	assert.Len(t, vm.Contexts(), 0)
}

func TestCallNativeFunction(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	fn := &script.Function{
		Name:       "double",
		ParamCount: 1,
		Native: func(this heap.Value, args []heap.Value) (heap.Value, error) {
			return heap.Number(args[0].Num() * 2), nil
		},
	}
	fnVal := script.NewFunctionValue(vm.Heap, fn)

	rv, err := ctx.Call(fnVal, heap.Null(), []heap.Value{heap.Number(21)})
	require.NoError(t, err)
	assert.Equal(t, float64(42), rv.Num())
}

func TestCallBytecodeWithoutDispatcherErrors(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	fn := &script.Function{Name: "f", RegisterCount: 1}
	fnVal := script.NewFunctionValue(vm.Heap, fn)

	_, err := ctx.Call(fnVal, heap.Null(), nil)
	assert.Error(t, err)
}

type recordingDispatcher struct {
	ranIP int
}

func (d *recordingDispatcher) Run(ctx *Context, frame *script.Frame) (heap.Value, error) {
	d.ranIP = frame.IP
	return heap.Number(7), nil
}

func TestCallBytecodeDelegatesToDispatcherAndRestoresFrame(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()
	disp := &recordingDispatcher{}
	ctx.SetDispatcher(disp)

	fn := &script.Function{Name: "f", ParamCount: 2, RegisterCount: 3}
	fnVal := script.NewFunctionValue(vm.Heap, fn)

	assert.Nil(t, ctx.Frame)
	rv, err := ctx.Call(fnVal, heap.Null(), []heap.Value{heap.Number(1), heap.Number(2)})
	require.NoError(t, err)
	assert.Equal(t, float64(7), rv.Num())
	assert.Nil(t, ctx.Frame, "frame should be popped once the call returns")
}

func TestClassIsCallableAllocator(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	var initCalled bool
	classVal := object.NewClass(vm.Heap, "Point", heap.Null())
	cls, _ := object.ClassOf(classVal)
	cls.Init = script.NewFunctionValue(vm.Heap, &script.Function{
		Name: "$init",
		Native: func(this heap.Value, args []heap.Value) (heap.Value, error) {
			initCalled = true
			obj, _ := object.AsObject(this)
			obj.Props.DeclareVar("x", args[0])
			return heap.Null(), nil
		},
	})

	instVal, err := ctx.Call(classVal, heap.Null(), []heap.Value{heap.Number(5)})
	require.NoError(t, err)
	assert.True(t, initCalled)
	assert.True(t, object.InstanceOf(instVal, cls))

	x, ok := object.AsObject(instVal)
	require.True(t, ok)
	got, getErr := x.Get(ctx, instVal, "x")
	require.NoError(t, getErr)
	assert.Equal(t, float64(5), got.Num())
}

func TestThrowWithoutHandlerSurfacesToHost(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	err := ctx.Throw(langerr.TypeError, "boom")
	require.Error(t, err)
	assert.False(t, ctx.CurrentErrorValue().IsNull())
}

// TestThrowCapturesStackFromBytecodeFrame covers spec.md §7's "attaches
// a message plus (when available) file/line/function metadata from the
// active frame chain" through a real internal/bytecode.Chunk: debug
// info written via WriteOpWithDebug must come back out through a
// thrown error's Location and CallStack, not just sit unread in the
// chunk.
func TestThrowCapturesStackFromBytecodeFrame(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	outer := bytecode.NewChunk()
	outer.WriteOpWithDebug(bytecode.OpCall, bytecode.DebugInfo{File: "main.ox", Line: 10, Column: 2, Function: "main"})
	outerFn := &script.Function{Name: "main", Chunk: outer}
	ctx.PushFrame(script.NewFunctionValue(vm.Heap, outerFn), heap.Null(), 0).IP = 0

	inner := bytecode.NewChunk()
	inner.WriteOpWithDebug(bytecode.OpNil, bytecode.DebugInfo{File: "main.ox", Line: 3, Column: 5, Function: "f"})
	inner.WriteOpWithDebug(bytecode.OpThrow, bytecode.DebugInfo{File: "main.ox", Line: 4, Column: 1, Function: "f"})
	innerFn := &script.Function{Name: "f", Chunk: inner}
	ctx.PushFrame(script.NewFunctionValue(vm.Heap, innerFn), heap.Null(), 0).IP = 1

	err := ctx.Throw(langerr.RangeError, "bad index")
	require.Error(t, err)

	se, ok := err.(*langerr.ScriptError)
	require.True(t, ok)
	assert.Equal(t, "main.ox", se.Location.File)
	assert.Equal(t, 4, se.Location.Line)
	assert.Equal(t, 1, se.Location.Column)
	require.Len(t, se.CallStack, 1)
	assert.Equal(t, "main", se.CallStack[0].Function)
	assert.Equal(t, 10, se.CallStack[0].Line)
}

func TestThrowCaughtByEnclosingTry(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	ctx.EnterTry(true, false)
	depth := ctx.StatusLen() - 1

	ctx.PushStatus(StatusEntry{Kind: StatusCall})
	ctx.PushStatus(StatusEntry{Kind: StatusArray, Partial: object.NewArrayValue(vm.Heap)})

	err := ctx.Throw(langerr.RangeError, "out of range")
	assert.NoError(t, err, "a found try entry absorbs the throw, returning nil")

	// Unwinding should have popped everything above the try entry,
	// leaving only the try entry itself, now in catch phase.
	assert.Equal(t, depth+1, ctx.StatusLen())
	top, ok := ctx.StatusTop()
	require.True(t, ok)
	assert.Equal(t, StatusTry, top.Kind)
	assert.Equal(t, TryPhaseCatch, top.Try.Phase)
	assert.False(t, top.Try.CaughtError.IsNull())
}

func TestFinallyCancelsPendingJumpOnRethrow(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	ctx.EnterTry(false, true)
	depth := ctx.StatusLen() - 1
	ctx.EnterFinally(depth, &PendingAction{Kind: "return", Value: heap.Number(1)})

	top, ok := ctx.StatusTop()
	require.True(t, ok)
	assert.Equal(t, TryPhaseFinally, top.Try.Phase)
	require.NotNil(t, top.Try.Pending)

	// A throw from inside the finally block finds no try entry still in
	// TryPhaseTry (this one has already moved to Finally), so it
	// propagates outward — discarding the entry and its pending jump.
	err := ctx.Throw(langerr.TypeError, "finally failed")
	require.Error(t, err)
	assert.Equal(t, 0, ctx.StatusLen())
}

func TestIterCloseInvokedOnPop(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	var closed bool
	itVal := object.New(vm.Heap, heap.Null())
	it, _ := object.AsObject(itVal)
	it.Props.DeclareVar("$close", script.NewFunctionValue(vm.Heap, &script.Function{
		Native: func(this heap.Value, args []heap.Value) (heap.Value, error) {
			closed = true
			return heap.Null(), nil
		},
	}))

	ctx.PushStatus(StatusEntry{Kind: StatusIter, Iterator: itVal})
	ctx.PopStatus()

	assert.True(t, closed)
}

func TestStackPushPopRoundTrip(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	idx := ctx.StackPush()
	ctx.SetAt(idx, heap.Number(99))
	assert.Equal(t, float64(99), ctx.At(idx).Num())
	assert.Equal(t, heap.Number(99), ctx.StackPop())
	assert.Equal(t, 0, ctx.StackLen())
}

func TestGetPropertyForwardsPrimitiveToGlobalClass(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	numClass := vm.BuiltinClass(ClassNumber)
	cls, _ := object.ClassOf(numClass)
	cls.Instance.Object().Data.(*object.Interface).Props.DeclareConst("isPositive", script.NewFunctionValue(vm.Heap, &script.Function{
		Native: func(this heap.Value, args []heap.Value) (heap.Value, error) {
			return heap.Bool(this.Num() > 0), nil
		},
	}))

	fn, err := ctx.GetProperty(heap.Number(5), "isPositive")
	require.NoError(t, err)
	rv, callErr := ctx.Call(fn, heap.Number(5), nil)
	require.NoError(t, callErr)
	assert.True(t, rv.Bool())
}

func TestGetPropertyOnNullErrors(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	_, err := ctx.GetProperty(heap.Null(), "x")
	assert.Error(t, err)
}

func TestSetPropertyRejectsPrimitive(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	assert.Error(t, ctx.SetProperty(heap.Number(1), "x", heap.Number(2)))
	assert.Error(t, ctx.SetProperty(heap.Bool(true), "x", heap.Number(2)))
}

func TestGetPropertyStringLengthAndObjectOwnProperty(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	strVal := object.NewString(vm.Heap, "hello")
	length, err := ctx.GetProperty(strVal, "length")
	require.NoError(t, err)
	assert.Equal(t, float64(5), length.Num())

	objVal := object.New(vm.Heap, heap.Null())
	obj, _ := object.AsObject(objVal)
	obj.Props.DeclareVar("n", heap.Number(9))
	got, err := ctx.GetProperty(objVal, "n")
	require.NoError(t, err)
	assert.Equal(t, float64(9), got.Num())
}

func TestContextScanRootsReachesFrameChainAndValueStack(t *testing.T) {
	vm := New()
	ctx := vm.Acquire()

	held := object.New(vm.Heap, heap.Null())
	idx := ctx.StackPush()
	ctx.SetAt(idx, held)

	framed := object.New(vm.Heap, heap.Null())
	ctx.PushFrame(heap.Null(), framed, 0)

	// Force a collection; both objects should survive since the context
	// is a registered root provider reaching the value stack and the
	// current frame's `this`.
	before := vm.Heap.ObjectCount()
	vm.Heap.Collect()

	assert.Equal(t, before, vm.Heap.ObjectCount())
	assert.NotNil(t, held.Object())
	assert.NotNil(t, framed.Object())
}
