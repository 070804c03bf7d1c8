package heap

import (
	"log"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"ox/internal/primitives"
)

// Debug toggles the collector's terse diagnostic lines, mirroring the
// teacher's OX_LOG_D usage in ox_gc.c — off by default, on for anyone
// debugging a collection.
var Debug = false

const (
	initialThreshold = 64 * 1024 // spec.md §4.1: 64 KiB
	growthNumerator   = 4
	growthDenominator = 3
	markStackInitCap  = 64
	overflowPassLimit = 5 // ox_gc.c: gc_scan_cnt > 5 doubles the mark stack
)

// RootProvider is implemented by anything the collector must scan as a
// root set member: contexts, the string pool, the script registry, the
// global-reference table (spec.md §4.1 step 1).
type RootProvider interface {
	ScanRoots(mark func(*Object))
}

// Heap is the per-VM managed object list, accounted allocator, and
// mark/sweep collector. One Heap belongs to one VM; every Context
// sharing that VM registers itself as a root provider.
type Heap struct {
	id uuid.UUID

	list *Object // head of the global object list (next-linked)
	count int

	bytesAllocated int64
	bytesAfterGC   int64

	markStack *primitives.Vector[*Object]
	markFull  bool
	scanPasses int

	roots []RootProvider

	collections int
}

func NewHeap() *Heap {
	return &Heap{
		id:        uuid.New(),
		markStack: primitives.NewVector[*Object](markStackInitCap),
	}
}

func (h *Heap) ID() uuid.UUID { return h.id }

func (h *Heap) AddRoot(r RootProvider) { h.roots = append(h.roots, r) }

func (h *Heap) RemoveRoot(r RootProvider) {
	for i, rr := range h.roots {
		if rr == r {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

func (h *Heap) BytesAllocated() int64 { return h.bytesAllocated }
func (h *Heap) ObjectCount() int      { return h.count }

// Alloc registers a new managed object, prepending it to the object
// list, and triggers a collection if the accounted bytes have crossed
// both the initial threshold and 4/3 of the bytes live after the
// previous collection — spec.md §4.1's trigger rule exactly.
func (h *Heap) Alloc(ops *Ops, data any, size int) *Object {
	o := &Object{Ops: ops, Data: data, size: size, next: h.list}
	h.list = o
	h.count++
	h.bytesAllocated += int64(size)

	if h.bytesAllocated >= initialThreshold &&
		h.bytesAllocated*growthDenominator > h.bytesAfterGC*growthNumerator {
		h.Collect()
	}
	return o
}

// Mark marks o reachable, pushing it onto the bounded mark stack. If the
// stack is full, it sets markFull instead of growing on the spot —
// ox_gc.c's ox_gc_mark_inner does the same, deferring the grow decision
// to the scan loop so marking itself never allocates.
func (h *Heap) Mark(o *Object) {
	if o == nil || o.marked() {
		return
	}
	o.flags |= flagMarked
	if h.markStack.Len() < h.markStack.Cap() {
		h.markStack.Push(o)
	} else {
		h.markFull = true
	}
}

// Collect runs one full mark/sweep cycle: scan roots, drain the mark
// stack (re-scanning the whole object list on overflow until nothing
// new turns up), then sweep unmarked objects.
func (h *Heap) Collect() {
	before := h.bytesAllocated
	if Debug {
		log.Printf("gc[%s] start, allocated: %s", h.id, humanize.Bytes(uint64(before)))
	}

	h.markFull = false
	h.scanPasses = 0

	h.scanRoots()
	h.scanObjects()
	h.sweep()

	h.bytesAfterGC = h.bytesAllocated
	h.collections++

	if Debug {
		log.Printf("gc[%s] end, collected %s", h.id, humanize.Bytes(uint64(before-h.bytesAllocated)))
	}
}

func (h *Heap) scanRoots() {
	for _, r := range h.roots {
		r.ScanRoots(h.Mark)
	}
}

// scanObjects drains the mark stack, invoking each object's Scan hook.
// Marking never recurses: Scan only calls h.Mark, which pushes onto this
// same bounded stack, so deep object graphs can't blow the Go call
// stack. If the stack overflowed while scanning, gc_scan_objects's
// fallback applies: make another full pass over the object list picking
// up anything marked-but-not-scanned, and after enough consecutive
// overflowing passes, double the stack capacity.
func (h *Heap) scanObjects() {
	for {
		for h.markStack.Len() > 0 {
			o := h.markStack.Pop()
			o.flags |= flagScanned
			if o.Ops.Scan != nil {
				o.Ops.Scan(o, h.Mark)
			}
		}

		if !h.markFull {
			return
		}

		h.markFull = false
		h.scanPasses++

		if h.scanPasses > overflowPassLimit {
			newCap := h.markStack.Cap() * 2
			if Debug {
				log.Printf("gc[%s] expand mark stack to %d entries", h.id, newCap)
			}
			h.markStack.SetCapacity(newCap)
			h.scanPasses = 0
		}

		for o := h.list; o != nil; o = o.next {
			if o.marked() && !o.scanned() {
				o.flags |= flagScanned
				if o.Ops.Scan != nil {
					o.Ops.Scan(o, h.Mark)
				}
			}
		}
	}
}

// sweep unlinks and frees every unmarked object, clearing flags on
// survivors so the next collection starts clean.
func (h *Heap) sweep() {
	pp := &h.list
	for o := *pp; o != nil; o = *pp {
		if o.marked() {
			o.flags &^= flagMarked | flagScanned
			pp = &o.next
		} else {
			*pp = o.next
			if o.Ops.Free != nil {
				o.Ops.Free(o)
			}
			h.bytesAllocated -= int64(o.size)
			h.count--
		}
	}
}

// Shutdown frees every managed object unconditionally, mirroring
// ox_gc_deinit — used when a VM is torn down, not during normal running.
func (h *Heap) Shutdown() {
	for o := h.list; o != nil; {
		no := o.next
		if o.Ops.Free != nil {
			o.Ops.Free(o)
		}
		o = no
	}
	h.list = nil
	h.count = 0
	h.bytesAllocated = 0
}
