package primitives

// KeyOps lets a Hash be keyed on anything (string property names, number
// value keys, heap-reference identity) without the table itself knowing
// about those types, mirroring the original's pluggable ox_hash_ops.
type KeyOps[K any] struct {
	Hash  func(K) uint64
	Equal func(a, b K) bool
}

type hashEntry[K any, V any] struct {
	key      K
	value    V
	hash     uint64
	next     *hashEntry[K, V]
	occupied bool
}

// Hash is an open-chained hash table with insertion order preserved via
// a side list, matching spec.md §3's "Iteration preserves insertion
// order" invariant on property maps built over this table.
type Hash[K any, V any] struct {
	ops     KeyOps[K]
	buckets []*hashEntry[K, V]
	order   []*hashEntry[K, V]
	count   int
}

func NewHash[K any, V any](ops KeyOps[K]) *Hash[K, V] {
	return &Hash[K, V]{ops: ops, buckets: make([]*hashEntry[K, V], 8)}
}

func (h *Hash[K, V]) Len() int { return h.count }

func (h *Hash[K, V]) bucketFor(hash uint64) int {
	return int(hash % uint64(len(h.buckets)))
}

func (h *Hash[K, V]) find(key K, hash uint64) *hashEntry[K, V] {
	for e := h.buckets[h.bucketFor(hash)]; e != nil; e = e.next {
		if e.hash == hash && h.ops.Equal(e.key, key) {
			return e
		}
	}
	return nil
}

// Get reports whether key is present and its value.
func (h *Hash[K, V]) Get(key K) (V, bool) {
	hash := h.ops.Hash(key)
	if e := h.find(key, hash); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Set inserts or updates key. An update does not move the entry's
// position in insertion order (spec.md §3: "replacing a value for an
// existing key does not re-order").
func (h *Hash[K, V]) Set(key K, value V) {
	hash := h.ops.Hash(key)
	if e := h.find(key, hash); e != nil {
		e.value = value
		return
	}
	if h.count >= len(h.buckets) {
		h.rehash(len(h.buckets) * 2)
	}
	e := &hashEntry[K, V]{key: key, value: value, hash: hash, occupied: true}
	idx := h.bucketFor(hash)
	e.next = h.buckets[idx]
	h.buckets[idx] = e
	h.order = append(h.order, e)
	h.count++
}

func (h *Hash[K, V]) rehash(newSize int) {
	buckets := make([]*hashEntry[K, V], newSize)
	for _, e := range h.order {
		idx := int(e.hash % uint64(newSize))
		e.next = buckets[idx]
		buckets[idx] = e
	}
	h.buckets = buckets
}

// Delete removes key, if present. It reports whether it was present.
func (h *Hash[K, V]) Delete(key K) bool {
	hash := h.ops.Hash(key)
	idx := h.bucketFor(hash)
	var prev *hashEntry[K, V]
	for e := h.buckets[idx]; e != nil; e = e.next {
		if e.hash == hash && h.ops.Equal(e.key, key) {
			if prev != nil {
				prev.next = e.next
			} else {
				h.buckets[idx] = e.next
			}
			e.occupied = false
			h.removeFromOrder(e)
			h.count--
			return true
		}
		prev = e
	}
	return false
}

func (h *Hash[K, V]) removeFromOrder(e *hashEntry[K, V]) {
	for i, o := range h.order {
		if o == e {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

// Keys returns keys in insertion order.
func (h *Hash[K, V]) Keys() []K {
	keys := make([]K, 0, len(h.order))
	for _, e := range h.order {
		if e.occupied {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Each walks entries in insertion order, stopping early if fn returns
// false. Safe against deletion of the current entry mid-iteration: the
// caller should advance before deleting, matching spec.md §3's iterator
// invalidation rule.
func (h *Hash[K, V]) Each(fn func(K, V) bool) {
	for _, e := range append([]*hashEntry[K, V](nil), h.order...) {
		if !e.occupied {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// StringKeyOps hashes strings with FNV-1a, the same family of hash the
// original's ox_hash.c uses for string keys.
var StringKeyOps = KeyOps[string]{
	Hash: func(s string) uint64 {
		const offset, prime = 14695981039346656037, 1099511628211
		h := uint64(offset)
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= prime
		}
		return h
	},
	Equal: func(a, b string) bool { return a == b },
}
