package vmctx

import (
	"ox/internal/heap"
	"ox/internal/langerr"
	"ox/internal/object"
)

// errorClass lazily allocates the built-in class backing kind, the
// bridge spec.md §7 describes: "Each kind is a built-in class; throwing
// attaches a message plus ... metadata from the active frame chain."
func (vm *VM) errorClass(kind langerr.Kind) heap.Value {
	vm.Lock()
	defer vm.Unlock()

	if v, ok := vm.errorClasses[string(kind)]; ok {
		return v
	}
	v := object.NewClass(vm.Heap, string(kind), heap.Null())
	vm.errorClasses[string(kind)] = v
	return v
}

// ErrorClass exposes the built-in error class for kind, e.g. so script
// code's `catch e` can compare `instance_of(e, TypeError)`.
func (vm *VM) ErrorClass(kind langerr.Kind) heap.Value { return vm.errorClass(kind) }

// errorValue builds the heap-resident error instance a throw of se
// produces: an instance of se.Kind's built-in class carrying message,
// name, and (if captured) location/stack fields as own const
// properties — not run through $init, since built-in error classes
// declare none.
func (ctx *Context) errorValue(se *langerr.ScriptError) heap.Value {
	classVal := ctx.vm.errorClass(se.Kind)
	cls, _ := object.ClassOf(classVal)

	instVal := object.New(ctx.vm.Heap, cls.Instance)
	inst, _ := object.AsObject(instVal)
	inst.Props.DeclareConst("$class", classVal)
	inst.Props.DeclareConst("name", object.NewString(ctx.vm.Heap, string(se.Kind)))
	inst.Props.DeclareConst("message", object.NewString(ctx.vm.Heap, se.Message))

	if se.Location.File != "" {
		inst.Props.DeclareConst("file", object.NewString(ctx.vm.Heap, se.Location.File))
		inst.Props.DeclareConst("line", heap.Number(float64(se.Location.Line)))
		inst.Props.DeclareConst("column", heap.Number(float64(se.Location.Column)))
	}
	if len(se.CallStack) > 0 {
		stack := object.NewArrayValue(ctx.vm.Heap)
		arr, _ := object.AsArray(stack)
		for _, f := range se.CallStack {
			frameVal := object.New(ctx.vm.Heap, heap.Null())
			fo, _ := object.AsObject(frameVal)
			fo.Props.DeclareConst("function", object.NewString(ctx.vm.Heap, f.Function))
			fo.Props.DeclareConst("file", object.NewString(ctx.vm.Heap, f.File))
			fo.Props.DeclareConst("line", heap.Number(float64(f.Line)))
			fo.Props.DeclareConst("column", heap.Number(float64(f.Column)))
			arr.Push(frameVal)
		}
		inst.Props.DeclareConst("stack", stack)
	}

	return instVal
}
