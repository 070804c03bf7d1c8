package script

import (
	"ox/internal/bytecode"
	"ox/internal/heap"
)

// Frame is one activation record, grounded field-for-field on
// ox_frame.c's OX_Frame: Func is f->func, IP is f->ip, Registers is
// f->v sized to the function's declared register count, This is
// f->thiz, and Caller is f->bot, the back-link to the frame that made
// this call. A Frame is a plain Go struct; NewFrameValue wraps one as a
// heap object when a closure or a suspended fiber must keep it alive
// after its caller has returned.
type Frame struct {
	Func      heap.Value
	IP        int
	Registers []heap.Value
	This      heap.Value
	Caller    *Frame
}

// NewFrame allocates a frame for calling fn with the given this and a
// zero-filled register file of regCount slots, linking back to caller.
func NewFrame(fn, this heap.Value, regCount int, caller *Frame) *Frame {
	regs := make([]heap.Value, regCount)
	for i := range regs {
		regs[i] = heap.Null()
	}
	return &Frame{Func: fn, IP: -1, Registers: regs, This: this, Caller: caller}
}

func frameOps() *heap.Ops {
	return &heap.Ops{
		Kind: "frame",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			f := ho.Data.(*Frame)
			scanIfRef(f.Func, mark)
			scanIfRef(f.This, mark)
			for _, r := range f.Registers {
				scanIfRef(r, mark)
			}
			if f.Caller != nil {
				// The caller frame is reached through its own heap
				// value elsewhere on the context's frame chain; nothing
				// to mark here directly since Frame itself, not *Frame,
				// is what the collector tracks via NewFrameValue.
				_ = f.Caller
			}
		},
		Free: func(*heap.Object) {},
	}
}

// NewFrameValue wraps an already-built frame as a heap value, for the
// cases (closures, fibers) where a frame must be reachable by the
// collector independent of the context's active frame-chain pointer.
func NewFrameValue(h *heap.Heap, f *Frame) heap.Value {
	ho := h.Alloc(frameOps(), f, 64+len(f.Registers)*8)
	return heap.Ref(ho)
}

// AsFrame returns v's *Frame payload, if v is a frame-kind heap ref.
func AsFrame(v heap.Value) (*Frame, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	f, ok := v.Object().Data.(*Frame)
	return f, ok
}

// DebugInfo looks up the source location of the instruction this frame
// is currently stopped at, via its function's Chunk — the one place
// internal/bytecode's Chunk/DebugInfo carrier is actually read back out
// once an external compiler has populated it. A native frame, or a
// frame not (yet) parked on a real instruction, has nothing to report.
func (f *Frame) DebugInfo() (bytecode.DebugInfo, bool) {
	fn, ok := AsFunction(f.Func)
	if !ok || fn.Chunk == nil {
		return bytecode.DebugInfo{}, false
	}
	if f.IP < 0 || f.IP >= len(fn.Chunk.Debug) {
		return bytecode.DebugInfo{}, false
	}
	return fn.Chunk.GetDebugInfo(f.IP), true
}
