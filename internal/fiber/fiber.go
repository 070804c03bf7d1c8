// Package fiber implements suspendable coroutine values (spec.md §4.6).
//
// The original represents a fiber's suspended computation by hand,
// swapping explicit value/status stacks and a saved frame chain in and
// out of the context on every next()/yield pair. Go already gives every
// goroutine its own growable stack managed by the runtime, so a fiber
// here is one goroutine plus a pair of unbuffered channels used purely
// as a hand-off: at most one side (the fiber or its caller) is ever
// runnable at a time, which is exactly the cooperative, non-preemptive
// scheduling spec.md §5 requires. This replaces the manual stack-swap
// with the Go-native mechanism for the same job, the way the teacher's
// own worker pools (internal/concurrency) use goroutines and channels
// rather than hand-rolled thread bookkeeping.
package fiber

import (
	"log"

	"github.com/google/uuid"

	"ox/internal/heap"
)

// Debug toggles the short diagnostic lines Next emits on each state
// change and resume (New emits none), matching internal/heap's package-level Debug toggle and the
// teacher's opt-in OX_LOG_D calls (SPEC_FULL.md ambient-stack note).
var Debug = false

// State is a fiber's lifecycle stage (OX_FIBER_STATE_* in fiber.oxn.c).
type State int

const (
	StateInit State = iota
	StateRun
	StateEnd
	StateError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRun:
		return "run"
	case StateEnd:
		return "end"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Caller invokes a fiber's entry function on the fiber's own goroutine.
// It is given the Yielder so the entry body can suspend via y.Yield.
// This mirrors internal/object.Caller: it lets this package drive a
// call without importing the execution engine (internal/vmctx) that
// implements it, avoiding an import cycle.
type Caller interface {
	CallFiber(y *Yielder, fn, this heap.Value, args []heap.Value) (heap.Value, error)
}

type yieldMsg struct {
	value heap.Value
	err   error
	final bool
}

// Fiber is the heap-resident coroutine value.
type Fiber struct {
	Func heap.Value
	This heap.Value
	Args []heap.Value
	RV   heap.Value

	state  State
	err    error
	caller Caller
	id     uuid.UUID

	resumeCh chan heap.Value
	yieldCh  chan yieldMsg
}

// New allocates a fiber in the init state. The entry function isn't
// invoked until the first Next call, per spec.md §4.6's "init → run on
// first next."
func New(caller Caller, fn, this heap.Value, args []heap.Value) *Fiber {
	return &Fiber{
		Func: fn, This: this, Args: args, RV: heap.Null(),
		state: StateInit, caller: caller, id: uuid.New(),
		resumeCh: make(chan heap.Value),
		yieldCh:  make(chan yieldMsg),
	}
}

func (f *Fiber) State() State      { return f.state }
func (f *Fiber) End() bool         { return f.state == StateEnd || f.state == StateError }
func (f *Fiber) Value() heap.Value { return f.RV }

// ID is the fiber's debug-correlation identifier (SPEC_FULL.md: "every
// VM, Context, and Fiber carries a google/uuid value used only for log
// correlation"); it plays no part in value identity or equality.
func (f *Fiber) ID() uuid.UUID { return f.id }

// Next drives the fiber one step: starts it on first call, otherwise
// delivers arg as the suspended Yield call's return value and resumes
// until the next yield, a return, or a thrown error.
func (f *Fiber) Next(arg heap.Value) (heap.Value, error) {
	switch f.state {
	case StateInit:
		f.state = StateRun
		if Debug {
			log.Printf("fiber[%s] init -> run", f.id)
		}
		go f.run()
		return f.await()
	case StateRun:
		if Debug {
			log.Printf("fiber[%s] resume", f.id)
		}
		f.resumeCh <- arg
		return f.await()
	case StateEnd:
		return heap.Null(), nil
	case StateError:
		return heap.Null(), f.err
	default:
		panic("fiber: unreachable state")
	}
}

func (f *Fiber) run() {
	y := &Yielder{resumeCh: f.resumeCh, yieldCh: f.yieldCh}
	rv, err := f.caller.CallFiber(y, f.Func, f.This, f.Args)
	if err != nil {
		f.yieldCh <- yieldMsg{err: err}
		return
	}
	f.yieldCh <- yieldMsg{value: rv, final: true}
}

func (f *Fiber) await() (heap.Value, error) {
	msg := <-f.yieldCh
	switch {
	case msg.err != nil:
		f.state = StateError
		f.err = msg.err
		f.RV = heap.Null()
		if Debug {
			log.Printf("fiber[%s] run -> error: %v", f.id, msg.err)
		}
		return heap.Null(), msg.err
	case msg.final:
		f.state = StateEnd
		f.RV = msg.value
		if Debug {
			log.Printf("fiber[%s] run -> end", f.id)
		}
		return msg.value, nil
	default:
		f.RV = msg.value
		return msg.value, nil
	}
}

// Yielder is handed to the entry function so it can suspend the fiber.
// Only the bytecode dispatch loop (external to this core, per spec.md
// §1) would actually call Yield at a `yield` expression; this package
// only provides the suspend/resume mechanics it needs.
type Yielder struct {
	resumeCh chan heap.Value
	yieldCh  chan yieldMsg
}

// Yield suspends the calling goroutine until the next Next(x) call,
// which becomes Yield's return value.
func (y *Yielder) Yield(v heap.Value) heap.Value {
	y.yieldCh <- yieldMsg{value: v}
	return <-y.resumeCh
}

func fiberOps() *heap.Ops {
	return &heap.Ops{
		Kind: "fiber",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			f := ho.Data.(*Fiber)
			scanIfRef(f.Func, mark)
			scanIfRef(f.This, mark)
			scanIfRef(f.RV, mark)
			for _, a := range f.Args {
				scanIfRef(a, mark)
			}
		},
		Free: func(*heap.Object) {},
	}
}

func scanIfRef(v heap.Value, mark func(*heap.Object)) {
	if v.IsRef() && v.Object() != nil {
		mark(v.Object())
	}
}

// NewValue allocates fb as a heap value.
func NewValue(h *heap.Heap, fb *Fiber) heap.Value {
	ho := h.Alloc(fiberOps(), fb, 64)
	return heap.Ref(ho)
}

// AsFiber returns v's *Fiber payload, if v is a fiber-kind heap ref.
func AsFiber(v heap.Value) (*Fiber, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	fb, ok := v.Object().Data.(*Fiber)
	return fb, ok
}
