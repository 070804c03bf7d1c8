// Package vmctx ties the substrates built elsewhere (internal/heap,
// internal/object, internal/script, internal/fiber) into the running
// machine spec.md §4.7 and §5 describe: a per-VM heap, string pool, and
// script registry shared by every OS thread that acquires a per-thread
// Context, plus the status-stack/error machinery that makes throw,
// try/catch/finally, and `for...as...` unwinding work uniformly.
//
// Grounded on original_source/src/lib/ox_vm.c (VM/context lifecycle,
// the global-reference table, the VM mutex) and ox_frame.c (the frame
// push/pop shape Context.PushFrame/PopFrame mirror).
package vmctx

import (
	"sync"

	"github.com/google/uuid"

	"ox/internal/heap"
	"ox/internal/object"
	"ox/internal/script"
)

// VM is the process-wide container spec.md's GLOSSARY defines it as: "a
// heap, a string pool, a script registry, and a set of contexts." A
// single VM-mutex serializes context creation/teardown and any global-
// reference table mutation (spec.md §5) — it is always the outermost
// lock; the collector never acquires it (§5's "Locking nesting").
type VM struct {
	id uuid.UUID

	Heap    *heap.Heap
	Strings *object.Pool
	Scripts *script.Registry

	mu       sync.Mutex
	contexts []*Context

	// globals is the named-object table (spec.md §4.1 step 1): scripting
	// names the host or a script's `public` declarations register at
	// VM scope, reachable by name rather than only by reference.
	globals map[string]heap.Value

	// globalRefs is the global-reference table (spec.md §4.1 step 1 and
	// §5's "Shared resources"): an opaque handle table for values a host
	// or native extension must pin beyond any one context's stacks,
	// keyed by a monotonically increasing id the way ox_vm.c's
	// OX_GlobalRef hash table is keyed by an allocated integer handle.
	globalRefs   map[int]heap.Value
	nextGlobalID int

	// errorClasses lazily builds the seven built-in error classes
	// spec.md §7 names, one per langerr.Kind, the first time Throw needs
	// one (ox_vm.c's create_strings pre-builds its singleton string set
	// eagerly at vm_new time; built-in classes are comparatively rarely
	// constructed compared to how often strings are interned, so this
	// package only pays for the ones a running script actually throws).
	errorClasses map[string]heap.Value

	// builtinClasses lazily builds the global Boolean/Number/String/Array
	// classes spec.md §4.4 names as the target of a primitive value's
	// property lookup: "primitive kinds synthesize an ops table that
	// forwards get to the corresponding global class's instance
	// interface." Built lazily for the same reason errorClasses is.
	builtinClasses map[string]heap.Value
}

// New allocates a VM with a fresh heap, string pool, and script
// registry, registering the pool and registry as GC roots the way
// ox_vm_new wires vm->strings and the script hash table in before any
// context runs.
func New() *VM {
	h := heap.NewHeap()
	vm := &VM{
		id:             uuid.New(),
		Heap:           h,
		Strings:        object.NewPool(h),
		Scripts:        script.NewRegistry(),
		globals:        make(map[string]heap.Value),
		globalRefs:     make(map[int]heap.Value),
		errorClasses:   make(map[string]heap.Value),
		builtinClasses: make(map[string]heap.Value),
	}
	h.AddRoot(vm.Strings)
	h.AddRoot(vm.Scripts)
	h.AddRoot(vm)
	return vm
}

func (vm *VM) ID() uuid.UUID { return vm.id }

// Lock/Unlock guard the global-reference table and context list the way
// ox_vm.c's vm->lock does; the collector itself never takes this lock
// (spec.md §5).
func (vm *VM) Lock()   { vm.mu.Lock() }
func (vm *VM) Unlock() { vm.mu.Unlock() }

// SetGlobal/Global implement the named-object table: VM-scope bindings
// reachable by name, guarded by the VM mutex since any OS thread sharing
// this VM may read or write them (spec.md §5).
func (vm *VM) SetGlobal(name string, v heap.Value) {
	vm.Lock()
	defer vm.Unlock()
	vm.globals[name] = v
}

func (vm *VM) Global(name string) (heap.Value, bool) {
	vm.Lock()
	defer vm.Unlock()
	v, ok := vm.globals[name]
	return v, ok
}

// AddGlobalRef pins v under a fresh handle in the global-reference
// table and returns that handle, mirroring ox_vm.c's global_ref_hash
// (a host or native module holds the handle, not the OX_Value itself,
// so the reference survives across calls without the host needing to
// be a GC root provider itself).
func (vm *VM) AddGlobalRef(v heap.Value) int {
	vm.Lock()
	defer vm.Unlock()
	id := vm.nextGlobalID
	vm.nextGlobalID++
	vm.globalRefs[id] = v
	return id
}

// GlobalRef resolves a handle previously returned by AddGlobalRef.
func (vm *VM) GlobalRef(id int) (heap.Value, bool) {
	vm.Lock()
	defer vm.Unlock()
	v, ok := vm.globalRefs[id]
	return v, ok
}

// RemoveGlobalRef releases a handle, the counterpart of ox_vm.c's
// vm_free sweeping the whole table at VM teardown but usable per-entry
// while the VM is still running.
func (vm *VM) RemoveGlobalRef(id int) {
	vm.Lock()
	defer vm.Unlock()
	delete(vm.globalRefs, id)
}

// ScanRoots implements heap.RootProvider for the parts of the VM itself
// that are roots: the named-object table, the global-reference table
// (spec.md §4.1 step 1), and the lazily built error and builtin class
// tables. The string pool and script registry are
// registered as their own root providers in New.
func (vm *VM) ScanRoots(mark func(*heap.Object)) {
	for _, v := range vm.globals {
		if v.IsRef() && v.Object() != nil {
			mark(v.Object())
		}
	}
	for _, v := range vm.globalRefs {
		if v.IsRef() && v.Object() != nil {
			mark(v.Object())
		}
	}
	for _, v := range vm.errorClasses {
		if v.IsRef() && v.Object() != nil {
			mark(v.Object())
		}
	}
	for _, v := range vm.builtinClasses {
		if v.IsRef() && v.Object() != nil {
			mark(v.Object())
		}
	}
}

// Acquire creates a new per-OS-thread Context bound to this VM and
// registers it as a GC root, the ox_context_init + ox_list_append pair
// in ox_vm.c's context_init. Every OS thread operating on a VM must
// call this before touching any OX value (spec.md §4.7).
func (vm *VM) Acquire() *Context {
	vm.Lock()
	defer vm.Unlock()

	ctxt := newContext(vm)
	vm.contexts = append(vm.contexts, ctxt)
	vm.Heap.AddRoot(ctxt)
	return ctxt
}

// Release tears a context down: unregisters it as a root and drops it
// from the VM's context list, mirroring ox_context_free's
// context_deinit (minus freeing memory, which Go's own GC handles for
// the Context struct itself — only the OX heap is traced manually).
func (vm *VM) Release(ctxt *Context) {
	vm.Lock()
	defer vm.Unlock()

	vm.Heap.RemoveRoot(ctxt)
	for i, c := range vm.contexts {
		if c == ctxt {
			vm.contexts = append(vm.contexts[:i], vm.contexts[i+1:]...)
			break
		}
	}
}

// Contexts returns a snapshot of the VM's currently acquired contexts.
func (vm *VM) Contexts() []*Context {
	vm.Lock()
	defer vm.Unlock()
	return append([]*Context(nil), vm.contexts...)
}
