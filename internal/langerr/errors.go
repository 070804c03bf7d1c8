// Package langerr defines the built-in thrown-error kinds, and carries
// them both as Go-level internal faults (via github.com/pkg/errors) and
// as the plain data a heap-resident error class instance is built from.
package langerr

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind is one of the built-in error classes a thrown value can carry.
type Kind string

const (
	TypeError      Kind = "TypeError"
	RangeError     Kind = "RangeError"
	ReferenceError Kind = "ReferenceError"
	SyntaxError    Kind = "SyntaxError"
	NullError      Kind = "NullError"
	SystemError    Kind = "SystemError"
	NoMemError     Kind = "NoMemError"
)

// Location pins an error to a source position.
type Location struct {
	File   string
	Line   int
	Column int
}

// StackFrame is one entry of the call-stack metadata attached to a
// thrown error when the active frame chain is available (spec.md §7).
type StackFrame struct {
	Function string
	File     string
	Line     int
	Column   int
}

// ScriptError is the Go-side carrier for an OX error: a kind, message,
// source location, and (if thrown from inside running script code) a
// captured call stack. internal/vmctx converts one of these into a heap
// error-class instance when a throw needs to produce an OX value;
// ScriptError itself is never an OX value.
type ScriptError struct {
	Kind      Kind
	Message   string
	Location  Location
	CallStack []StackFrame
	Source    string
}

func New(kind Kind, message string) *ScriptError {
	return &ScriptError{Kind: kind, Message: message}
}

func (e *ScriptError) At(file string, line, column int) *ScriptError {
	e.Location = Location{File: file, Line: line, Column: column}
	return e
}

func (e *ScriptError) WithSource(src string) *ScriptError {
	e.Source = src
	return e
}

func (e *ScriptError) WithStack(frames []StackFrame) *ScriptError {
	e.CallStack = frames
	return e
}

func (e *ScriptError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
		if e.Source != "" {
			marker := strings.Repeat(" ", max(e.Location.Column-1, 0)) + "^"
			sb.WriteString(fmt.Sprintf("\n  %d | %s\n      %s", e.Location.Line, e.Source, marker))
		}
	}
	for _, f := range e.CallStack {
		if f.Function != "" {
			sb.WriteString(fmt.Sprintf("\n  at %s (%s:%d:%d)", f.Function, f.File, f.Line, f.Column))
		} else {
			sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", f.File, f.Line, f.Column))
		}
	}
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Internal wraps a Go-level invariant violation (corrupt chunk, heap
// consistency failure, a file-input error surfaced before any script
// runs) with a stack trace via github.com/pkg/errors. This is distinct
// from ScriptError: it never becomes a thrown OX value, it's for the
// embedding API's host-facing Go error return.
func Internal(cause error, context string) error {
	return pkgerrors.Wrap(cause, context)
}

// NoMem constructs the no_mem error spec.md §4.1 says allocation
// failure raises through the current context. GC itself never fails;
// only the accounted allocator's caller can observe this if a host
// imposes a hard memory ceiling (not modeled by internal/heap itself,
// which only triggers collections — a ceiling is a host policy layered
// on top via Heap.BytesAllocated()).
func NoMem() *ScriptError {
	return New(NoMemError, "out of memory")
}
