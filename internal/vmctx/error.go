package vmctx

import (
	"ox/internal/heap"
	"ox/internal/langerr"
	"ox/internal/script"
)

// Throw builds a built-in error of kind and runs it through ThrowValue
// — the common case (spec.md §7's seven built-in kinds).
func (ctx *Context) Throw(kind langerr.Kind, message string) error {
	return ctx.ThrowScriptError(langerr.New(kind, message))
}

// CaptureStack walks the context's current frame chain and renders it
// as langerr.StackFrame entries, reading each bytecode frame's source
// location through Frame.DebugInfo (internal/bytecode's Chunk/Debug
// carrier, populated by an external compiler). A native frame
// contributes only its function name, with no file/line.
func (ctx *Context) CaptureStack() []langerr.StackFrame {
	var frames []langerr.StackFrame
	for f := ctx.Frame; f != nil; f = f.Caller {
		fn, ok := script.AsFunction(f.Func)
		if !ok {
			continue
		}
		sf := langerr.StackFrame{Function: fn.Name}
		if di, ok := f.DebugInfo(); ok {
			sf.File = di.File
			sf.Line = di.Line
			sf.Column = di.Column
			if di.Function != "" {
				sf.Function = di.Function
			}
		}
		frames = append(frames, sf)
	}
	return frames
}

// ThrowScriptError converts se into a heap-resident error instance and
// throws it, the bridge between internal/langerr's Go-level carrier and
// the OX value a catch block actually binds. If se carries no location
// or call stack yet, they're filled in from the active frame chain
// (spec.md §7: "attaches a message plus (when available) file/line/
// function metadata from the active frame chain").
func (ctx *Context) ThrowScriptError(se *langerr.ScriptError) error {
	if se.Location.File == "" && se.Location.Line == 0 {
		if stack := ctx.CaptureStack(); len(stack) > 0 {
			top := stack[0]
			se.At(top.File, top.Line, top.Column)
			if len(se.CallStack) == 0 {
				se.WithStack(stack[1:])
			}
		}
	}
	v := ctx.errorValue(se)
	return ctx.ThrowValue(v, se)
}

// ThrowValue implements spec.md §4.7's error model: "Throw copies the
// error value to the context, stashes the current frame chain as
// error_frames ..., walks the status stack popping entries until a try
// entry in state try is found — that entry transitions to catch ... If
// no handler exists, the context surfaces the error to the caller of
// whichever public API initiated execution." cause, if non-nil, is the
// Go-level error returned to the embedding API when nothing catches —
// when nil, ThrowValue returns a generic TypeError ("uncaught error").
func (ctx *Context) ThrowValue(v heap.Value, cause error) error {
	ctx.CurrentError = v
	ctx.ErrorFrame = ctx.Frame

	idx, found := ctx.FindTry()
	if !found {
		ctx.UnwindTo(0)
		if cause != nil {
			return cause
		}
		return langerr.New(langerr.TypeError, "uncaught error")
	}

	ctx.UnwindTo(idx + 1)
	entry := &ctx.status[idx]
	entry.Try.Phase = TryPhaseCatch
	entry.Try.CaughtError = v
	return nil
}

// CurrentErrorValue returns the value a `catch e` clause should bind,
// i.e. whatever the nearest transitioned-to-catch try entry recorded.
func (ctx *Context) CurrentErrorValue() heap.Value { return ctx.CurrentError }

// ClearError resets the context's current-error slot once a catch block
// has bound it, so a subsequent unrelated throw doesn't see stale state.
func (ctx *Context) ClearError() {
	ctx.CurrentError = heap.Null()
	ctx.ErrorFrame = nil
}

// EnterTry pushes a fresh try entry in TryPhaseTry, hasCatch/hasFinally
// recording which clauses the construct declares (a bare `try { }` with
// neither is legal but pointless upstream; this core doesn't reject it).
func (ctx *Context) EnterTry(hasCatch, hasFinally bool) {
	ctx.PushStatus(StatusEntry{
		Kind: StatusTry,
		Try:  &TryState{Phase: TryPhaseTry, HasCatch: hasCatch, HasFinally: hasFinally},
	})
}

// EnterFinally transitions the try entry at depth (the index EnterTry's
// PushStatus left it at — callers track this via StatusLen()-1 right
// after EnterTry) into TryPhaseFinally, optionally recording a pending
// deferred jump a `return`/`break`/`continue` inside the try or catch
// block must resume once the finally block completes.
func (ctx *Context) EnterFinally(depth int, pending *PendingAction) {
	if depth < 0 || depth >= len(ctx.status) || ctx.status[depth].Kind != StatusTry {
		return
	}
	ctx.status[depth].Try.Phase = TryPhaseFinally
	ctx.status[depth].Try.Pending = pending
}
