package script

import "ox/internal/heap"

// ImportEntry is one row of a script's reference table: spec.md §3's
// "reference table describing imports from other scripts (file → list
// of (original, local, public?))."
type ImportEntry struct {
	Original string
	Local    string
	Public   bool
}

// ReferenceEntry groups the imports a script draws from a single other
// script file.
type ReferenceEntry struct {
	File    string
	Imports []ImportEntry
}

// Variant distinguishes the two concrete Script shapes spec.md §3
// names: a bytecode-script (constants/strings/line tables an external
// compiler populates) versus a native-script (a dynamically loaded
// shared object, out of this core's scope beyond carrying its handle).
type Variant int

const (
	VariantBytecode Variant = iota
	VariantNative
)

// Script is a top-level compilation unit: spec.md §3's "owns a function
// value representing the top-level body, a public-declaration table
// (name → register index), a reference table ... a text-domain name for
// localization, and the bottom frame holding module-scope bindings."
type Script struct {
	Variant Variant

	Name string
	Path string

	Func heap.Value // the top-level body, a function-kind heap ref

	Publics map[string]int // public declaration name -> register index

	References []ReferenceEntry

	TextDomain string

	Bottom *Frame // module-scope bindings frame

	// NativeHandle names the dynamically loaded shared object backing a
	// VariantNative script. Loading/symbol resolution is the host's job
	// (spec.md §1: dynamically loaded native modules are an external
	// collaborator) — the core only carries the handle so the bottom
	// frame and call machinery have somewhere to route through.
	NativeHandle string
}

// NewBytecodeScript builds a bytecode-script bound to fn, with an empty
// bottom frame sized to regCount module-scope registers.
func NewBytecodeScript(name, path string, fn heap.Value, regCount int) *Script {
	return &Script{
		Variant: VariantBytecode,
		Name:    name,
		Path:    path,
		Func:    fn,
		Publics: make(map[string]int),
		Bottom:  NewFrame(fn, heap.Null(), regCount, nil),
	}
}

// NewNativeScript builds a native-script bound to a dynamically loaded
// handle; fn is the Go-native entry point the host resolved.
func NewNativeScript(name, path, handle string, fn heap.Value) *Script {
	return &Script{
		Variant:      VariantNative,
		Name:         name,
		Path:         path,
		Func:         fn,
		Publics:      make(map[string]int),
		Bottom:       NewFrame(fn, heap.Null(), 0, nil),
		NativeHandle: handle,
	}
}

// DeclarePublic registers name as a public export bound to reg, the
// module-scope register index holding its value.
func (s *Script) DeclarePublic(name string, reg int) { s.Publics[name] = reg }

// AddReference records that this script imports from other, recording
// each (original, local, public) triple under that file's entry
// (creating it if this is the first import from that file).
func (s *Script) AddReference(file, original, local string, public bool) {
	for i := range s.References {
		if s.References[i].File == file {
			s.References[i].Imports = append(s.References[i].Imports, ImportEntry{Original: original, Local: local, Public: public})
			return
		}
	}
	s.References = append(s.References, ReferenceEntry{File: file, Imports: []ImportEntry{{Original: original, Local: local, Public: public}}})
}

// PublicValue reads the current value of a public export straight out
// of the bottom frame's register file.
func (s *Script) PublicValue(name string) (heap.Value, bool) {
	reg, ok := s.Publics[name]
	if !ok || reg < 0 || reg >= len(s.Bottom.Registers) {
		return heap.Null(), false
	}
	return s.Bottom.Registers[reg], true
}

func scriptOps() *heap.Ops {
	return &heap.Ops{
		Kind: "script",
		Scan: func(ho *heap.Object, mark func(*heap.Object)) {
			s := ho.Data.(*Script)
			scanIfRef(s.Func, mark)
			for _, r := range s.Bottom.Registers {
				scanIfRef(r, mark)
			}
		},
		Free: func(*heap.Object) {},
	}
}

// NewScriptValue allocates s as a heap value, so a fiber's captured
// closures or the script registry can keep it reachable independent of
// any one context's current-script pointer.
func NewScriptValue(h *heap.Heap, s *Script) heap.Value {
	ho := h.Alloc(scriptOps(), s, 96)
	return heap.Ref(ho)
}

// AsScript returns v's *Script payload, if v is a script-kind heap ref.
func AsScript(v heap.Value) (*Script, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	s, ok := v.Object().Data.(*Script)
	return s, ok
}

// Registry is the per-VM script registry spec.md §4.1 names as a root:
// scripts keyed by their resolved file path, so cross-script imports
// resolve the same instance instead of recompiling/reloading.
type Registry struct {
	byPath map[string]heap.Value
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byPath: make(map[string]heap.Value)}
}

// Register records script under path, replacing any prior entry.
func (r *Registry) Register(path string, script heap.Value) {
	if _, exists := r.byPath[path]; !exists {
		r.order = append(r.order, path)
	}
	r.byPath[path] = script
}

func (r *Registry) Lookup(path string) (heap.Value, bool) {
	v, ok := r.byPath[path]
	return v, ok
}

func (r *Registry) Paths() []string { return append([]string(nil), r.order...) }

// ScanRoots implements heap.RootProvider: every registered script is a
// root (spec.md §4.1 step 1: "the script registry").
func (r *Registry) ScanRoots(mark func(*heap.Object)) {
	for _, v := range r.byPath {
		scanIfRef(v, mark)
	}
}
