package heap

// flag bits for an object's mark/sweep state. The original packs these
// into the low bits of the next-link pointer (ox_internal.h's
// OX_GC_FL_MARKED/OX_GC_FL_SCANNED); Go has no safe, idiomatic way to
// steal bits out of a pointer the way C does, so they're kept as plain
// fields on the header instead. The behavioral invariant — every
// mark-reachable object visited exactly once per collection before
// sweep — is unaffected by where the bits physically live.
type flags uint8

const (
	flagMarked flags = 1 << iota
	flagScanned
)

// Ops is the per-kind operations vtable every heap object carries,
// grounded on ox_internal.h's OX_GcObjectOps. Kind-specific dispatch
// (get/set/call/keys/lookup) lives one layer up in internal/object;
// this vtable only carries what the collector itself needs.
type Ops struct {
	Kind  string
	Scan  func(o *Object, mark func(*Object))
	Free  func(o *Object)
}

// Object is the heap object header every managed value embeds. Data
// holds the kind-specific payload (an *object.Object, *object.String,
// *fiber.Fiber, ...); the collector never looks inside it except
// through Ops.Scan.
type Object struct {
	next  *Object
	flags flags
	size  int
	Ops   *Ops
	Data  any
}

func (o *Object) marked() bool  { return o.flags&flagMarked != 0 }
func (o *Object) scanned() bool { return o.flags&flagScanned != 0 }
