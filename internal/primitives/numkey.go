package primitives

import "math"

// NumberKeyOps hashes a float64 value key for use as an array/object
// numeric index. spec.md §9 flags that the original hashes a
// pointer-sized truncation of the number, which Go has no equivalent
// of; this hashes the IEEE-754 bit pattern instead (see DESIGN.md "Open
// Question decisions"), which is stable, deterministic, and distinct for
// any two values that are not bit-identical (so -0 and +0 hash
// differently, matching IEEE bit layout, even though they compare equal
// — callers that need OX's equal-by-IEEE-value semantics on a numeric
// key must normalize -0 to +0 before calling Set/Get).
var NumberKeyOps = KeyOps[float64]{
	Hash: func(f float64) uint64 {
		return math.Float64bits(f)
	},
	Equal: func(a, b float64) bool { return a == b },
}
