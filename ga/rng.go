package ga

import "math/rand"

// childSeed derives a deterministic substream seed from a root seed and a
// (generation, row) pair, so that fitness functions sampling their own
// randomness reproduce under a fixed root seed regardless of worker count or
// scheduling order (spec requirement: determinism under parallel fitness
// evaluation). The mix is a splitmix64-style finalizer, chosen because it is
// a simple, well-distributed integer hash rather than a cryptographic one.
func childSeed(root int64, generation, row int) int64 {
	x := uint64(root) ^ uint64(generation)*0x9E3779B97F4A7C15 ^ uint64(row)*0xBF58476D1CE4E5B9
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}

// childRNG builds a fresh *rand.Rand for one (generation, row) task.
func childRNG(root int64, generation, row int) *rand.Rand {
	return rand.New(rand.NewSource(childSeed(root, generation, row)))
}
