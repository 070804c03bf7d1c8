package object

import "ox/internal/heap"

// Interface is the shared prototype object kind, grounded on
// ox_interface.c. Unlike a plain Object, it tracks a flat "implemented
// by" set so instance_of is O(1) regardless of inheritance depth,
// mirroring add_inherit's choice to copy the parent's own recorded
// ancestors rather than walk a chain at query time.
type Interface struct {
	Name          string
	Props         *PropMap
	Parent        heap.Value // ref to the parent *Interface, or Null
	implementedBy map[*Interface]struct{}
}

func NewInterface(name string) *Interface {
	return &Interface{Name: name, Props: NewPropMap(), implementedBy: make(map[*Interface]struct{})}
}

// Inherit copies the parent's own properties (excluding $class/$scope,
// which are per-instance bookkeeping, not inherited data) into iface and
// records the parent plus everything the parent itself records into
// iface's own implemented-by set — ox_interface.c's add_inherit exactly:
// a flat reachability set, not a linked walk.
func (iface *Interface) Inherit(parentVal heap.Value) {
	iface.Parent = parentVal
	parent := interfaceOf(parentVal)
	if parent == nil {
		return
	}
	parent.Props.Each(func(name string, p *Property) bool {
		if name == "$class" || name == "$scope" {
			return true
		}
		iface.Props.SetRaw(name, p)
		return true
	})
	iface.implementedBy[parent] = struct{}{}
	for anc := range parent.implementedBy {
		iface.implementedBy[anc] = struct{}{}
	}
}

// InstanceOf reports whether iface is, or inherits from (directly or
// transitively), other.
func (iface *Interface) InstanceOf(other *Interface) bool {
	if iface == other {
		return true
	}
	_, ok := iface.implementedBy[other]
	return ok
}

func interfaceOps() *heap.Ops {
	return &heap.Ops{
		Kind: "interface",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			iface := ho.Data.(*Interface)
			scanValue(iface.Parent, mark)
			iface.Props.Each(func(_ string, p *Property) bool {
				scanValue(p.Value, mark)
				scanValue(p.Getter, mark)
				scanValue(p.Setter, mark)
				return true
			})
		},
		Free: func(*heap.Object) {},
	}
}

// NewInterfaceValue allocates iface on h and returns a ref to it, the
// form every other kind stores its interface/parent links as.
func NewInterfaceValue(h *heap.Heap, name string) heap.Value {
	ho := h.Alloc(interfaceOps(), NewInterface(name), 48)
	return heap.Ref(ho)
}
