package object

import (
	"ox/internal/heap"
	"ox/internal/primitives"
)

// PropMap is the ordered, string-keyed property map every object,
// interface, and class instance shares. Grounded on ox_dict.c's
// insertion-order hash table, layered here with the const/var/accessor
// discipline ox_operation.c enforces on top of it.
type PropMap struct {
	entries *primitives.Hash[string, *Property]
}

func NewPropMap() *PropMap {
	return &PropMap{entries: primitives.NewHash[string, *Property](primitives.StringKeyOps)}
}

func (m *PropMap) Lookup(name string) (*Property, bool) { return m.entries.Get(name) }
func (m *PropMap) Len() int                             { return m.entries.Len() }
func (m *PropMap) Delete(name string) bool              { return m.entries.Delete(name) }

// Keys returns own property names in insertion order (spec.md §3:
// "Iteration preserves insertion order").
func (m *PropMap) Keys() []string { return m.entries.Keys() }

func (m *PropMap) Each(fn func(string, *Property) bool) { m.entries.Each(fn) }

// SetRaw installs p verbatim, used by interface inheritance to copy a
// parent's Property by reference rather than re-declaring it (so a
// later mutation of a shared var slot through either interface is
// visible through both, matching the original's property-copy-by-value
// semantics for the pointer-sized OX_Value payload).
func (m *PropMap) SetRaw(name string, p *Property) { m.entries.Set(name, p) }

func (m *PropMap) DeclareConst(name string, v heap.Value) { m.entries.Set(name, constProp(v)) }
func (m *PropMap) DeclareVar(name string, v heap.Value)   { m.entries.Set(name, varProp(v)) }
func (m *PropMap) DeclareAccessor(name string, getter, setter heap.Value) {
	m.entries.Set(name, accessorProp(getter, setter))
}
