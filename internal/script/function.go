// Package script ties the external bytecode compiler's output
// (internal/bytecode.Chunk) to the callable values and call-stack
// frames the execution engine (internal/vmctx) pushes and pops, plus
// the top-level script/module unit and its cross-script reference
// table. Grounded on the teacher's internal/vm.Function/EnhancedCallFrame
// and on original_source/src/lib/ox_frame.c for the frame's exact field
// set.
package script

import (
	"ox/internal/bytecode"
	"ox/internal/heap"
)

// NativeFunc backs a native-function-kind value: a function implemented
// directly in Go rather than compiled OX bytecode, the Go analogue of
// the original's dynamically loaded native module entry points.
type NativeFunc func(this heap.Value, args []heap.Value) (heap.Value, error)

// Function is the immutable, shared part of a callable value — what the
// teacher's Function/EnhancedCallFrame split calls "function being
// executed" versus its per-call frame. A bytecode function carries a
// Chunk and RegisterCount (the dense register file the external
// compiler sized); a native function carries a Go closure instead.
type Function struct {
	Name          string
	ParamCount    int
	RegisterCount int

	Chunk  *bytecode.Chunk // nil for a native function
	Native NativeFunc      // nil for a bytecode function

	Outer heap.Value // enclosing function's closure frame, for captures; Null at module scope
}

// IsNative reports whether this function is a native-function-kind
// value rather than a bytecode-script one.
func (f *Function) IsNative() bool { return f.Native != nil }

func functionOps() *heap.Ops {
	return &heap.Ops{
		Kind: "function",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			f := ho.Data.(*Function)
			scanIfRef(f.Outer, mark)
		},
		Free: func(*heap.Object) {},
	}
}

func scanIfRef(v heap.Value, mark func(*heap.Object)) {
	if v.IsRef() && v.Object() != nil {
		mark(v.Object())
	}
}

// NewFunctionValue allocates fn as a heap value.
func NewFunctionValue(h *heap.Heap, fn *Function) heap.Value {
	ho := h.Alloc(functionOps(), fn, 48)
	return heap.Ref(ho)
}

// AsFunction returns v's *Function payload, if v is a function-kind
// heap ref (native or bytecode — callers that care which use IsNative).
func AsFunction(v heap.Value) (*Function, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	fn, ok := v.Object().Data.(*Function)
	return fn, ok
}
