// Package hash provides seeded hashing for arbitrary comparable keys.
//
// Persistent hash-bucketed structures in this module need a stable hash
// for any Go type usable as a map key: integers, strings, arrays such as
// uuid.UUID, and structs of those. Hasher wraps hash/maphash.Comparable
// with a seed chosen once per structure and kept across copy-on-write forks.
//
// # Self-unequal keys
//
// Go's == reports NaN != NaN, and maphash hashes NaN randomly. A key that
// is not equal to itself could therefore never be found again once stored.
// Hasher maps every such key to one fixed hash, and Equal compares them
// field by field with NaN matching NaN. A bare NaN is thus one key, while
// struct keys such as {NaN, 1} and {NaN, 2} stay distinct.
//
// # Usage
//
//	h := hash.New[string]()
//	bucket := h.Sum("alice")
//	if hash.Equal(a, b) { ... }
package hash
