package object

import "ox/internal/heap"

// Class is the allocator-bound-to-interface pair of spec.md §3: "A class
// is an allocator bound to its instance interface; a class object is
// itself a callable that allocates a new instance and invokes $init."
// Grounded on ox_interface.c's class/interface circular pair and
// ox_operation.c's call protocol for the allocator itself.
type Class struct {
	Name     string
	Super    heap.Value // ref to the parent *Class, or Null
	Instance heap.Value // ref to this class's instance *Interface
	Statics  *PropMap   // static (class-level) members
	Init     heap.Value // the $init callable, or Null
}

func classOps() *heap.Ops {
	return &heap.Ops{
		Kind: "class",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			c := ho.Data.(*Class)
			scanValue(c.Super, mark)
			scanValue(c.Instance, mark)
			scanValue(c.Init, mark)
			c.Statics.Each(func(_ string, p *Property) bool {
				scanValue(p.Value, mark)
				scanValue(p.Getter, mark)
				scanValue(p.Setter, mark)
				return true
			})
		},
		Free: func(*heap.Object) {},
	}
}

// NewClass allocates a class and its instance interface on h, inheriting
// super's instance interface into the new one when super is not Null
// (single inheritance — spec.md §3 names no multiple-superclass case;
// interfaces, not classes, are the multi-parent construct).
func NewClass(h *heap.Heap, name string, super heap.Value) heap.Value {
	instIface := NewInterfaceValue(h, name+".instance")
	if sup := classOf(super); sup != nil {
		interfaceOf(instIface).Inherit(sup.Instance)
	}
	c := &Class{Name: name, Super: super, Instance: instIface, Statics: NewPropMap(), Init: heap.Null()}
	ho := h.Alloc(classOps(), c, 64)
	return heap.Ref(ho)
}

func classOf(v heap.Value) *Class {
	if !v.IsRef() || v.Object() == nil {
		return nil
	}
	c, _ := v.Object().Data.(*Class)
	return c
}

// ClassOf is the exported accessor other packages (vmctx, script) use to
// reach the underlying *Class of a class-kind heap value.
func ClassOf(v heap.Value) (*Class, bool) {
	c := classOf(v)
	return c, c != nil
}

// NewInstance allocates a fresh instance bound to c's instance
// interface and, if $init is defined, invokes it with this set to the
// new instance and the given args — the "callable allocator" behavior
// of spec.md §3. The instance's own $class property is set to classVal
// so instance_of and reflection can recover the originating class.
func (c *Class) NewInstance(h *heap.Heap, caller Caller, classVal heap.Value, args []heap.Value) (heap.Value, error) {
	instVal := New(h, c.Instance)
	inst := instVal.Object().Data.(*Object)
	inst.Props.DeclareConst("$class", classVal)

	if !c.Init.IsNull() {
		if _, err := caller.Call(c.Init, instVal, args); err != nil {
			return heap.Null(), err
		}
	}
	return instVal, nil
}

// InstanceOf reports whether v is an instance whose interface chain
// implements c's instance interface (spec.md §4.4, §3).
func InstanceOf(v heap.Value, c *Class) bool {
	if !v.IsRef() || v.Object() == nil {
		return false
	}
	obj, ok := v.Object().Data.(*Object)
	if !ok {
		return false
	}
	iface := interfaceOf(obj.Iface)
	target := interfaceOf(c.Instance)
	if iface == nil || target == nil {
		return false
	}
	return iface.InstanceOf(target)
}
