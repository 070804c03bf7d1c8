// Package object implements the OX object/class/interface model: ordered
// property maps, the get/set dispatch protocol, interning strings,
// growable arrays, and the iterator/conversion glue layered over
// internal/heap's tagged values. Grounded on original_source/src/lib/
// ox_operation.c (the get/set/call protocol) and ox_interface.c
// (inheritance and instance_of).
package object

import "ox/internal/heap"

// Kind is a property's storage discipline, spec.md §3: "Properties have
// a kind: const (assignment rejected), var (plain slot), accessor
// (getter+optional setter function pair)."
type Kind uint8

const (
	KindConst Kind = iota
	KindVar
	KindAccessor
)

// Property is one entry of an ordered property map. Getter/Setter are
// callable heap values (KindAccessor only); Value holds the slot for
// const/var. Both Getter and Setter may independently be Null — a
// setter-less accessor is legal (spec.md §4.4: "invoke setter (error if
// missing)").
type Property struct {
	Kind   Kind
	Value  heap.Value
	Getter heap.Value
	Setter heap.Value
}

func constProp(v heap.Value) *Property { return &Property{Kind: KindConst, Value: v} }
func varProp(v heap.Value) *Property   { return &Property{Kind: KindVar, Value: v} }
func accessorProp(getter, setter heap.Value) *Property {
	return &Property{Kind: KindAccessor, Getter: getter, Setter: setter}
}

// scanValue marks v's heap referent, if any. Shared by every kind's Scan
// hook since properties, array slots, and interface chains all carry
// plain heap.Value fields rather than typed Go pointers (spec.md §3's
// "a class and its interface form a circular pair... marking either
// reaches both" falls out of this for free: every cross-reference is
// just another Value the scanner marks).
func scanValue(v heap.Value, mark func(*heap.Object)) {
	if v.IsRef() {
		if ref := v.Object(); ref != nil {
			mark(ref)
		}
	}
}
