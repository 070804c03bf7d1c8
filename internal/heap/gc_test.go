package heap

import (
	"testing"

	"ox/internal/primitives"
)

// node is a tiny cons-cell-like test object with one outgoing reference,
// enough to exercise cyclic and acyclic reachability.
type node struct {
	next *Object
}

var nodeOps = &Ops{
	Kind: "node",
	Scan: func(o *Object, mark func(*Object)) {
		n := o.Data.(*node)
		if n.next != nil {
			mark(n.next)
		}
	},
}

type fixedRoots struct{ roots []*Object }

func (f *fixedRoots) ScanRoots(mark func(*Object)) {
	for _, o := range f.roots {
		mark(o)
	}
}

func TestCollectReclaimsUnreachable(t *testing.T) {
	h := NewHeap()
	freed := 0
	ops := &Ops{
		Kind: "node",
		Scan: nodeOps.Scan,
		Free: func(o *Object) { freed++ },
	}

	keep := h.Alloc(ops, &node{}, 16)
	_ = h.Alloc(ops, &node{}, 16) // unreachable garbage

	roots := &fixedRoots{roots: []*Object{keep}}
	h.AddRoot(roots)

	h.Collect()

	if h.ObjectCount() != 1 {
		t.Fatalf("object count = %d, want 1", h.ObjectCount())
	}
	if freed != 1 {
		t.Fatalf("freed = %d, want 1", freed)
	}
}

func TestCollectKeepsCycleReachableFromRoot(t *testing.T) {
	h := NewHeap()
	ops := &Ops{Kind: "node", Scan: nodeOps.Scan}

	a := h.Alloc(ops, &node{}, 16)
	b := h.Alloc(ops, &node{}, 16)
	a.Data.(*node).next = b
	b.Data.(*node).next = a // cycle

	h.AddRoot(&fixedRoots{roots: []*Object{a}})
	h.Collect()

	if h.ObjectCount() != 2 {
		t.Fatalf("cyclic pair reachable from a root must survive, count = %d", h.ObjectCount())
	}
}

func TestCollectReclaimsUnrootedCycle(t *testing.T) {
	h := NewHeap()
	ops := &Ops{Kind: "node", Scan: nodeOps.Scan}

	a := h.Alloc(ops, &node{}, 16)
	b := h.Alloc(ops, &node{}, 16)
	a.Data.(*node).next = b
	b.Data.(*node).next = a

	h.AddRoot(&fixedRoots{}) // no roots at all
	h.Collect()

	if h.ObjectCount() != 0 {
		t.Fatalf("unrooted cycle must be reclaimed, count = %d", h.ObjectCount())
	}
}

func TestMarkStackOverflowStillMarksEverything(t *testing.T) {
	h := NewHeap()
	h.markStack = primitives.NewVector[*Object](1) // force overflow almost immediately
	ops := &Ops{Kind: "node", Scan: nodeOps.Scan}

	const n = 50
	objs := make([]*Object, n)
	for i := 0; i < n; i++ {
		objs[i] = h.Alloc(ops, &node{}, 16)
	}
	for i := 0; i < n-1; i++ {
		objs[i].Data.(*node).next = objs[i+1]
	}

	h.AddRoot(&fixedRoots{roots: []*Object{objs[0]}})
	h.Collect()

	if h.ObjectCount() != n {
		t.Fatalf("object count = %d, want %d (mark-stack overflow must not drop reachable objects)", h.ObjectCount(), n)
	}
}
