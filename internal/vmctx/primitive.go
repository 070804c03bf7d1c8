package vmctx

import (
	"fmt"

	"ox/internal/heap"
	"ox/internal/langerr"
	"ox/internal/object"
)

// Names of the global classes spec.md §4.4 has every primitive kind
// forward property lookup to: "primitive kinds (bool, number, string)
// synthesize an ops table that forwards get to the corresponding global
// class's instance interface while rejecting set on the primitive
// itself." Arrays have no own property map either, so they forward the
// same way to a global Array class for the same reason, even though
// §4.4 only names the three scalar kinds explicitly.
const (
	ClassBoolean = "Boolean"
	ClassNumber  = "Number"
	ClassString  = "String"
	ClassArray   = "Array"
)

// builtinClass lazily allocates the named global class the first time a
// primitive value's property is looked up, the same pay-as-you-go
// approach errorClass takes for the built-in error hierarchy.
func (vm *VM) builtinClass(name string) heap.Value {
	vm.Lock()
	defer vm.Unlock()
	if v, ok := vm.builtinClasses[name]; ok {
		return v
	}
	v := object.NewClass(vm.Heap, name, heap.Null())
	vm.builtinClasses[name] = v
	return v
}

// BuiltinClass exposes the named global class so a host or a prelude
// script can populate its instance interface with methods (e.g.
// Number.instance.toString) before any script runs.
func (vm *VM) BuiltinClass(name string) heap.Value { return vm.builtinClass(name) }

// GetProperty implements spec.md §4.4's `get` protocol uniformly across
// every value kind: plain objects and class instances consult their own
// property map first, then their interface chain; strings, arrays, and
// the bool/number scalars have no property map of their own and instead
// forward straight to their corresponding global class's instance
// interface; null has no properties at all.
func (ctx *Context) GetProperty(v heap.Value, name string) (heap.Value, error) {
	switch v.Kind() {
	case heap.KindNull:
		return heap.Null(), langerr.New(langerr.NullError, fmt.Sprintf("cannot read property %q of null", name))
	case heap.KindBool:
		return ctx.primitiveGet(ClassBoolean, v, name)
	case heap.KindNumber:
		return ctx.primitiveGet(ClassNumber, v, name)
	}

	if !v.IsRef() || v.Object() == nil {
		return heap.Null(), nil
	}

	switch v.Object().Data.(type) {
	case *object.Object:
		obj, _ := object.AsObject(v)
		return obj.Get(ctx, v, name)
	case *object.String:
		s, _ := object.AsString(v)
		if name == "length" {
			return heap.Number(float64(s.Length)), nil
		}
		return ctx.primitiveGet(ClassString, v, name)
	case *object.Array:
		a, _ := object.AsArray(v)
		if name == "length" {
			return heap.Number(float64(a.Length())), nil
		}
		return ctx.primitiveGet(ClassArray, v, name)
	}
	return heap.Null(), nil
}

// primitiveGet resolves name against className's instance interface,
// binding this to v itself so an accessor getter sees the primitive
// value it was invoked against, not the class.
func (ctx *Context) primitiveGet(className string, v heap.Value, name string) (heap.Value, error) {
	classVal := ctx.vm.builtinClass(className)
	cls, _ := object.ClassOf(classVal)
	return object.GetViaInterface(ctx, v, cls.Instance, name)
}

// SetProperty rejects writes to a primitive's synthesized property view
// — spec.md §4.4's "rejecting set on the primitive itself" — and
// otherwise defers to the target's own Set protocol.
func (ctx *Context) SetProperty(v heap.Value, name string, val heap.Value) error {
	switch v.Kind() {
	case heap.KindNull:
		return langerr.New(langerr.NullError, fmt.Sprintf("cannot set property %q of null", name))
	case heap.KindBool, heap.KindNumber:
		return langerr.New(langerr.TypeError, fmt.Sprintf("cannot set property %q on a primitive value", name))
	}

	if !v.IsRef() || v.Object() == nil {
		return langerr.New(langerr.TypeError, fmt.Sprintf("cannot set property %q", name))
	}

	switch v.Object().Data.(type) {
	case *object.Object:
		obj, _ := object.AsObject(v)
		return obj.Set(ctx, v, name, val)
	case *object.String, *object.Array:
		return langerr.New(langerr.TypeError, fmt.Sprintf("cannot set property %q on a primitive value", name))
	}
	return langerr.New(langerr.TypeError, fmt.Sprintf("cannot set property %q", name))
}
