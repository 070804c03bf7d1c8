package vmctx

import (
	"github.com/google/uuid"

	"ox/internal/fiber"
	"ox/internal/heap"
	"ox/internal/script"
)

// Context is the per-OS-thread execution state spec.md §4.7 defines:
// "pointer to current value stack ..., pointer to current status
// stack, current frame chain, error-frame chain (captured on throw),
// main-frame chain (used to unwind to module scope), current thrown
// value, current script, lock counter." The fields below are the
// context's own stacks. SwapValueStack/SwapStatusStack can replace them,
// but internal/fiber does not call either: a fiber runs on its own
// goroutine against these same stacks.
type Context struct {
	id uuid.UUID
	vm *VM

	values []heap.Value
	status []StatusEntry

	Frame      *script.Frame // current frame chain
	ErrorFrame *script.Frame // captured on throw, for stack-trace production
	MainFrame  *script.Frame // unwind target back to module scope

	CurrentError heap.Value
	CurrentScript *script.Script

	lockCount  int
	schedCount int

	// dispatcher, if set, runs a bytecode function to completion. The
	// bytecode dispatch loop itself is out of this core's scope (spec.md
	// §1); Call only needs somewhere to hand off to one when a callee
	// turns out to be a compiled function rather than a native one.
	dispatcher Dispatcher

	// yielder is the Yielder for whichever fiber is currently running on
	// this context, or nil outside any fiber (see call.go's CallFiber).
	yielder *fiber.Yielder
}

// Dispatcher is the hook an external bytecode interpreter (out of
// scope, spec.md §1) registers so Context.Call can run compiled
// functions, not just native ones. It receives the pushed frame and
// must return its result or a thrown error.
type Dispatcher interface {
	Run(ctx *Context, frame *script.Frame) (heap.Value, error)
}

func newContext(vm *VM) *Context {
	return &Context{
		id:           uuid.New(),
		vm:           vm,
		CurrentError: heap.Null(),
	}
}

func (ctx *Context) ID() uuid.UUID { return ctx.id }
func (ctx *Context) VM() *VM       { return ctx.vm }

// SetDispatcher installs the bytecode runner Call delegates to for
// non-native functions.
func (ctx *Context) SetDispatcher(d Dispatcher) { ctx.dispatcher = d }

// Lock/Unlock implement spec.md §4.7's per-context lock counter,
// reentrant the way ox_vm.c's lock_cnt guards against a native callback
// recursively re-entering a locked section.
func (ctx *Context) Lock()   { ctx.lockCount++ }
func (ctx *Context) Unlock() { ctx.lockCount-- }
func (ctx *Context) Locked() bool { return ctx.lockCount > 0 }

// PushFrame allocates and links a new frame for calling fn, the
// ox_frame_push shape: f->bot = ctxt->frames; ctxt->frames = f.
func (ctx *Context) PushFrame(fn, this heap.Value, regCount int) *script.Frame {
	f := script.NewFrame(fn, this, regCount, ctx.Frame)
	ctx.Frame = f
	if ctx.MainFrame == nil {
		ctx.MainFrame = f
	}
	return f
}

// PopFrame unlinks the current frame, restoring its caller.
func (ctx *Context) PopFrame() {
	if ctx.Frame != nil {
		ctx.Frame = ctx.Frame.Caller
	}
}

// ScanRoots implements heap.RootProvider: spec.md §4.1 step 1's "its
// value stack, its status stack ..., its current frame chain, its
// error-frame chain, its main-frame chain, its current error value."
func (ctx *Context) ScanRoots(mark func(*heap.Object)) {
	for _, v := range ctx.values {
		scanIfRef(v, mark)
	}
	for i := range ctx.status {
		scanStatusEntry(&ctx.status[i], mark)
	}
	scanFrameChain(ctx.Frame, mark)
	scanFrameChain(ctx.ErrorFrame, mark)
	scanFrameChain(ctx.MainFrame, mark)
	scanIfRef(ctx.CurrentError, mark)
}

func scanFrameChain(f *script.Frame, mark func(*heap.Object)) {
	for ; f != nil; f = f.Caller {
		scanIfRef(f.Func, mark)
		scanIfRef(f.This, mark)
		for _, r := range f.Registers {
			scanIfRef(r, mark)
		}
	}
}

func scanStatusEntry(e *StatusEntry, mark func(*heap.Object)) {
	scanIfRef(e.Iterator, mark)
	scanIfRef(e.Partial, mark)
	scanIfRef(e.Param, mark)
	scanIfRef(e.Decl, mark)
	if e.Frame != nil {
		scanFrameChain(e.Frame, mark)
	}
	if e.Try != nil {
		scanIfRef(e.Try.CaughtError, mark)
		if e.Try.Pending != nil {
			scanIfRef(e.Try.Pending.Value, mark)
		}
	}
}

func scanIfRef(v heap.Value, mark func(*heap.Object)) {
	if v.IsRef() && v.Object() != nil {
		mark(v.Object())
	}
}
