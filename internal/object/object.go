package object

import (
	"fmt"

	"ox/internal/heap"
	"ox/internal/langerr"
)

// Caller lets the object model invoke callables (accessor getters/
// setters, $init, method bodies) without importing the engine that
// drives them. internal/vmctx implements this; wiring it back here
// would be a cycle (vmctx needs the object model, not the reverse).
type Caller interface {
	Call(callee heap.Value, this heap.Value, args []heap.Value) (heap.Value, error)
}

// Object is a plain instance: an ordered property map plus an optional
// interface (shared prototype) reference. Every `class`-declared
// instance shares this same shape (spec.md §3); a Class itself is a
// separate struct.
type Object struct {
	Props *PropMap
	Iface heap.Value // ref to an *Interface heap object, or Null
}

func NewObject(iface heap.Value) *Object {
	return &Object{Props: NewPropMap(), Iface: iface}
}

// AsObject returns v's *Object payload, if v is a plain-object-kind
// heap ref (this also covers class instances, which are plain objects
// bound to their class's instance interface).
func AsObject(v heap.Value) (*Object, bool) {
	return asGettable(v)
}

func interfaceOf(v heap.Value) *Interface {
	if !v.IsRef() || v.Object() == nil {
		return nil
	}
	iface, _ := v.Object().Data.(*Interface)
	return iface
}

// Has reports whether name resolves anywhere in the lookup chain: own
// property, then each ancestor interface in turn (spec.md §4.4 step 1-2).
func (o *Object) Has(name string) bool {
	if _, ok := o.Props.Lookup(name); ok {
		return true
	}
	for iface := interfaceOf(o.Iface); iface != nil; iface = interfaceOf(iface.Parent) {
		if _, ok := iface.Props.Lookup(name); ok {
			return true
		}
	}
	return false
}

// Get implements the `get` protocol of spec.md §4.4: own property first
// (invoking the getter if it's an accessor), then the interface chain,
// else null.
func (o *Object) Get(caller Caller, this heap.Value, name string) (heap.Value, error) {
	if p, ok := o.Props.Lookup(name); ok {
		return resolveGet(caller, this, p)
	}
	for iface := interfaceOf(o.Iface); iface != nil; iface = interfaceOf(iface.Parent) {
		if p, ok := iface.Props.Lookup(name); ok {
			return resolveGet(caller, this, p)
		}
	}
	return heap.Null(), nil
}

// GetThrow is `get`'s strict sibling: absence is a reference error
// instead of null (spec.md §4.4: "the caller chooses whether absent is
// an error; get_throw raises").
func (o *Object) GetThrow(caller Caller, this heap.Value, name string) (heap.Value, error) {
	if !o.Has(name) {
		return heap.Null(), langerr.New(langerr.ReferenceError, fmt.Sprintf("%q is not defined", name))
	}
	return o.Get(caller, this, name)
}

// GetViaInterface walks ifaceVal's ancestor chain looking up name,
// binding this for any accessor getter it finds along the way. It is
// Object.Get's own-property-less sibling, used to resolve a property on
// a value that has no property map of its own — a primitive forwarding
// to its global class's instance interface (spec.md §4.4).
func GetViaInterface(caller Caller, this heap.Value, ifaceVal heap.Value, name string) (heap.Value, error) {
	for iface := interfaceOf(ifaceVal); iface != nil; iface = interfaceOf(iface.Parent) {
		if p, ok := iface.Props.Lookup(name); ok {
			return resolveGet(caller, this, p)
		}
	}
	return heap.Null(), nil
}

func resolveGet(caller Caller, this heap.Value, p *Property) (heap.Value, error) {
	if p.Kind != KindAccessor {
		return p.Value, nil
	}
	if p.Getter.IsNull() {
		return heap.Null(), nil
	}
	return caller.Call(p.Getter, this, nil)
}

// Set implements the `set` protocol of spec.md §4.4: own const errors,
// own accessor invokes the setter (erroring if absent), own var stores
// in place, and anything else becomes a fresh own var appended in
// insertion order. Inherited properties never intercept a set — only an
// object's own slot does, matching the original's shallow-write rule.
func (o *Object) Set(caller Caller, this heap.Value, name string, v heap.Value) error {
	if p, ok := o.Props.Lookup(name); ok {
		switch p.Kind {
		case KindConst:
			return langerr.New(langerr.TypeError, fmt.Sprintf("cannot assign to const property %q", name))
		case KindAccessor:
			if p.Setter.IsNull() {
				return langerr.New(langerr.TypeError, fmt.Sprintf("property %q has no setter", name))
			}
			_, err := caller.Call(p.Setter, this, []heap.Value{v})
			return err
		default:
			p.Value = v
			return nil
		}
	}
	o.Props.DeclareVar(name, v)
	return nil
}

func (o *Object) Delete(name string) bool { return o.Props.Delete(name) }
func (o *Object) Keys() []string          { return o.Props.Keys() }

// Ops is the heap vtable for a plain object, grounded on
// ox_internal.h's OX_GcObjectOps applied to OX_Object.
func Ops() *heap.Ops {
	return &heap.Ops{
		Kind: "object",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			obj := ho.Data.(*Object)
			scanValue(obj.Iface, mark)
			obj.Props.Each(func(_ string, p *Property) bool {
				scanValue(p.Value, mark)
				scanValue(p.Getter, mark)
				scanValue(p.Setter, mark)
				return true
			})
		},
		Free: func(*heap.Object) {},
	}
}

// New allocates a plain object on h, bound to iface (which may be Null
// for an object with no prototype, e.g. a bare literal `{}`).
func New(h *heap.Heap, iface heap.Value) heap.Value {
	obj := NewObject(iface)
	ho := h.Alloc(Ops(), obj, 64)
	return heap.Ref(ho)
}
