package vmctx

import (
	"ox/internal/fiber"
	"ox/internal/heap"
	"ox/internal/langerr"
	"ox/internal/object"
	"ox/internal/script"
)

// Call implements internal/object.Caller and internal/fiber.Caller's
// shared shape: invoke callee with this and args, routing a native
// function straight to its Go closure and a bytecode function through
// the registered Dispatcher (spec.md §1: the dispatch loop itself is an
// external collaborator; this core only owns "invoke callables, push/
// pop frames"). A class value is itself callable per spec.md §3 — it
// allocates a new instance and runs $init.
func (ctx *Context) Call(callee, this heap.Value, args []heap.Value) (heap.Value, error) {
	if cls, ok := object.ClassOf(callee); ok {
		return cls.NewInstance(ctx.vm.Heap, ctx, callee, args)
	}

	fn, ok := script.AsFunction(callee)
	if !ok {
		return heap.Null(), langerr.New(langerr.TypeError, "value is not callable")
	}

	if fn.IsNative() {
		return ctx.callNative(fn, this, args)
	}
	return ctx.callBytecode(fn, callee, this, args)
}

// CallFiber implements internal/fiber.Caller: it runs fn on the fiber's
// own goroutine, making the Yielder available to whatever dispatch loop
// executes a `yield` expression against this same context (only one of
// the context's goroutines is ever runnable at a time, per spec.md §5's
// cooperative scheduling, so a single ctx.yielder slot is safe to reuse
// across nested fiber calls via save/restore).
func (ctx *Context) CallFiber(y *fiber.Yielder, fn, this heap.Value, args []heap.Value) (heap.Value, error) {
	prev := ctx.yielder
	ctx.yielder = y
	defer func() { ctx.yielder = prev }()
	return ctx.Call(fn, this, args)
}

// Yielder returns the Yielder for the fiber currently running on this
// context, or nil outside any fiber — a `yield` expression reached
// outside a fiber body is a syntax-checked condition upstream (spec.md
// §4.3's parser context-flags), not something this core re-validates.
func (ctx *Context) Yielder() *fiber.Yielder { return ctx.yielder }

func (ctx *Context) callNative(fn *script.Function, this heap.Value, args []heap.Value) (heap.Value, error) {
	ctx.PushStatus(StatusEntry{Kind: StatusCall})
	rv, err := fn.Native(this, args)
	ctx.PopStatus()
	return rv, err
}

func (ctx *Context) callBytecode(fn *script.Function, callee, this heap.Value, args []heap.Value) (heap.Value, error) {
	if ctx.dispatcher == nil {
		return heap.Null(), langerr.New(langerr.SystemError,
			"no bytecode dispatcher registered: the dispatch loop is an external collaborator (spec.md §1)")
	}

	frame := ctx.PushFrame(callee, this, fn.RegisterCount)
	bindParams(frame, fn, args)

	ctx.PushStatus(StatusEntry{Kind: StatusReturn, Frame: frame})
	rv, err := ctx.dispatcher.Run(ctx, frame)
	ctx.PopStatus() // runs StatusReturn's release: ctx.PopFrame()

	return rv, err
}

// bindParams copies the leading fn.ParamCount arguments into frame's
// register file, null-filling any the caller omitted and discarding any
// excess — the loose calling convention the lexer/parser's declarations
// table (param vs var vs ref) assumes the register allocator already
// sized for.
func bindParams(frame *script.Frame, fn *script.Function, args []heap.Value) {
	n := fn.ParamCount
	if n > len(frame.Registers) {
		n = len(frame.Registers)
	}
	for i := 0; i < n; i++ {
		if i < len(args) {
			frame.Registers[i] = args[i]
		} else {
			frame.Registers[i] = heap.Null()
		}
	}
}
