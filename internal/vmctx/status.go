package vmctx

import (
	"ox/internal/heap"
	"ox/internal/object"
	"ox/internal/primitives"
	"ox/internal/script"
)

// StatusKind is one of the status-stack entry kinds spec.md §4.7
// catalogues: "str, call, try, iter, array-pattern, object-pattern,
// param, array, object, enum, bitfield, sched, return." Every kind has
// a scoped-release action invoked on pop, in reverse order, on any of
// {normal exit, break, return, throw}.
type StatusKind int

const (
	StatusStr StatusKind = iota
	StatusCall
	StatusTry
	StatusIter
	StatusArrayPattern
	StatusObjectPattern
	StatusParam
	StatusArray
	StatusObject
	StatusEnum
	StatusBitfield
	StatusSched
	StatusReturn
)

func (k StatusKind) String() string {
	switch k {
	case StatusStr:
		return "str"
	case StatusCall:
		return "call"
	case StatusTry:
		return "try"
	case StatusIter:
		return "iter"
	case StatusArrayPattern:
		return "array-pattern"
	case StatusObjectPattern:
		return "object-pattern"
	case StatusParam:
		return "param"
	case StatusArray:
		return "array"
	case StatusObject:
		return "object"
	case StatusEnum:
		return "enum"
	case StatusBitfield:
		return "bitfield"
	case StatusSched:
		return "sched"
	case StatusReturn:
		return "return"
	}
	return "unknown"
}

// TryPhase is a try entry's own little state machine, spec.md §4.7:
// "try (try/catch/finally state machine — tracks which block is active,
// jump targets for deep break/continue/return across finally)."
type TryPhase int

const (
	TryPhaseTry TryPhase = iota
	TryPhaseCatch
	TryPhaseFinally
)

// PendingAction is the deferred control transfer a `finally` block must
// honor once it finishes running: a break/continue/return/throw that
// was in flight when the finally block started. The exact jump target
// (an instruction offset) is the external bytecode dispatch loop's
// concern (spec.md §1); this core only needs to remember *that* one is
// pending and *what* value (if any) it carries, so PopStatus can hand
// it back to the driver once cleanup finishes.
type PendingAction struct {
	Kind  string // "break", "continue", "return", "throw", or "" for none
	Value heap.Value
	Err   error
}

// TryState is a StatusTry entry's payload.
type TryState struct {
	Phase       TryPhase
	HasCatch    bool
	HasFinally  bool
	CaughtError heap.Value
	Pending     *PendingAction // set when a finally block must resume a deferred jump
}

// StatusEntry is one status-stack row. Only the fields relevant to Kind
// are populated; the rest stay zero.
type StatusEntry struct {
	Kind StatusKind

	// StatusStr: the in-progress multi-part string literal accumulator.
	Buffer *primitives.CharBuffer

	// StatusCall / StatusReturn: the frame this entry's pop restores to.
	Frame *script.Frame

	// StatusIter: the iterator under a `for...as...` loop.
	Iterator heap.Value

	// StatusArray / StatusObject / StatusArrayPattern / StatusObjectPattern:
	// the partially built container, discarded on abnormal exit.
	Partial heap.Value

	// StatusParam: the callable whose named parameters are mid-resolution.
	Param heap.Value

	// StatusTry: the try/catch/finally machine.
	Try *TryState

	// StatusEnum / StatusBitfield: the declaration under assembly.
	Decl heap.Value
}

// PushStatus pushes a new status-stack entry, reserving a cleanup
// action to run on any scope exit.
func (ctx *Context) PushStatus(e StatusEntry) {
	ctx.status = append(ctx.status, e)
}

// StatusLen reports the current status-stack depth.
func (ctx *Context) StatusLen() int { return len(ctx.status) }

// StatusTop returns the entry on top of the status stack, if any.
func (ctx *Context) StatusTop() (*StatusEntry, bool) {
	if len(ctx.status) == 0 {
		return nil, false
	}
	return &ctx.status[len(ctx.status)-1], true
}

// PopStatus pops the top entry, running its scoped-release action, and
// returns it. Every pop runs its action regardless of how the scope
// exited — PopStatus itself doesn't know the reason; UnwindTo tells it
// by calling PopStatus in a loop.
func (ctx *Context) PopStatus() (StatusEntry, bool) {
	n := len(ctx.status)
	if n == 0 {
		return StatusEntry{}, false
	}
	e := ctx.status[n-1]
	ctx.status = ctx.status[:n-1]
	ctx.releaseStatus(&e)
	return e, true
}

// releaseStatus runs the kind-specific cleanup hook spec.md §4.7 assigns
// to each entry kind's pop.
func (ctx *Context) releaseStatus(e *StatusEntry) {
	switch e.Kind {
	case StatusIter:
		// "iter (holds the iterator for a for…as; pop invokes $close)."
		if e.Iterator.IsRef() {
			_ = object.IterClose(ctx, e.Iterator)
		}
	case StatusArray, StatusObject, StatusArrayPattern, StatusObjectPattern:
		// "array-pattern/object-pattern (destructuring construction);
		// array/object (literal under construction; on abnormal exit
		// discards partial)." Discarding is simply letting the partial
		// go unreferenced — the collector reclaims it on the next cycle
		// since nothing else on the stack or frame chain points at it.
		e.Partial = heap.Null()
	case StatusSched:
		// "sched (decrements the context's scheduling-enabled counter)."
		if ctx.schedCount > 0 {
			ctx.schedCount--
		}
	case StatusReturn:
		// "return (pops the most recent frame)."
		ctx.PopFrame()
	case StatusCall:
		// Call-in-progress bookkeeping; the frame itself is popped by a
		// paired StatusReturn entry or directly by the caller once the
		// call completes normally.
	case StatusStr:
		// The accumulator is a plain Go value with no heap-object
		// release of its own; dropping the reference is enough.
		e.Buffer = nil
	case StatusTry:
		// Discarding a try entry that's mid-finally with a pending
		// deferred jump cancels that jump — "finally blocks that
		// themselves throw replace the in-flight error" (spec.md §7).
	case StatusParam, StatusEnum, StatusBitfield:
		// No independent resource beyond what's already reachable
		// through the frame chain / other status entries.
	}
}

// UnwindTo pops status entries down to (and not including) depth,
// running each one's release action in reverse order — the mechanism
// every one of {normal exit, break, return, throw} uses (spec.md §4.7).
func (ctx *Context) UnwindTo(depth int) {
	for len(ctx.status) > depth {
		ctx.PopStatus()
	}
}

// FindTry searches the status stack from the top down for the nearest
// entry still in TryPhaseTry, the first step of spec.md §4.7's throw
// protocol: "walks the status stack popping entries until a try entry
// in state try is found." It returns the entry's index (not yet
// popped) so the caller can unwind everything above it first.
func (ctx *Context) FindTry() (int, bool) {
	for i := len(ctx.status) - 1; i >= 0; i-- {
		if ctx.status[i].Kind == StatusTry && ctx.status[i].Try.Phase == TryPhaseTry {
			return i, true
		}
	}
	return 0, false
}
