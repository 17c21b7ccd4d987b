package ga

import (
	"math/rand"
	"testing"
)

func TestPermutationDomainSampleValid(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 6}
	rng := rand.New(rand.NewSource(1))
	ind := d.Sample(rng)
	if !d.Valid(ind) {
		t.Fatalf("sampled permutation failed Valid: %v", ind)
	}
}

func TestPermutationOrderCrossoverProducesValidChildren(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 8}
	rng := rand.New(rand.NewSource(2))
	p1 := d.Sample(rng)
	p2 := d.Sample(rng)
	for i := 0; i < 100; i++ {
		c1, c2 := permutationOrderCrossover(rng, d, p1, p2)
		if !d.Valid(c1) {
			t.Fatalf("OX1 child 1 invalid: %v", c1)
		}
		if !d.Valid(c2) {
			t.Fatalf("OX1 child 2 invalid: %v", c2)
		}
	}
}

func TestPermutationPMXCrossoverProducesValidChildren(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 8}
	rng := rand.New(rand.NewSource(3))
	p1 := d.Sample(rng)
	p2 := d.Sample(rng)
	for i := 0; i < 100; i++ {
		c1, c2 := permutationPMXCrossover(rng, d, p1, p2)
		if !d.Valid(c1) || !d.Valid(c2) {
			t.Fatalf("PMX children invalid: %v %v", c1, c2)
		}
	}
}

func TestPermutationCycleCrossoverProducesValidChildren(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 8}
	rng := rand.New(rand.NewSource(4))
	p1 := d.Sample(rng)
	p2 := d.Sample(rng)
	for i := 0; i < 100; i++ {
		c1, c2 := permutationCycleCrossover(rng, d, p1, p2)
		if !d.Valid(c1) || !d.Valid(c2) {
			t.Fatalf("cycle crossover children invalid: %v %v", c1, c2)
		}
	}
}

func TestPermutationSwapMutationPreservesValidity(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 10}
	rng := rand.New(rand.NewSource(5))
	ind := d.Sample(rng)
	for i := 0; i < 50; i++ {
		mutated := permutationSwapMutation(rng, d, ind)
		if !d.Valid(mutated) {
			t.Fatalf("swap mutation produced invalid permutation: %v", mutated)
		}
	}
}

func TestPermutationInsertionMutationPreservesValidity(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 10}
	rng := rand.New(rand.NewSource(6))
	ind := d.Sample(rng)
	for i := 0; i < 50; i++ {
		mutated := permutationInsertionMutation(rng, d, ind)
		if !d.Valid(mutated) {
			t.Fatalf("insertion mutation produced invalid permutation: %v", mutated)
		}
	}
}

func TestPermutationScrambleMutationPreservesValidity(t *testing.T) {
	d := PermutationDomain{Lower: 0, Upper: 10}
	rng := rand.New(rand.NewSource(7))
	ind := d.Sample(rng)
	for i := 0; i < 50; i++ {
		mutated := permutationScrambleMutation(rng, d, ind)
		if !d.Valid(mutated) {
			t.Fatalf("scramble mutation produced invalid permutation: %v", mutated)
		}
	}
}
