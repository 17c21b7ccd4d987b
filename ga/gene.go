// Package ga provides a genetic-algorithm optimizer core: a single-population
// (panmictic) driver and an island-model driver sharing one generation
// engine, pluggable selection/crossover/mutation operators, and three
// built-in encodings (Binary, RealValued, Permutation).
//
// Basic usage:
//
//	domain := ga.BinaryDomain{NBits: 10}
//	algorithm, err := ga.NewBinary(domain, fitness,
//	    ga.WithPopSize[bool](20),
//	    ga.WithMaxIter[bool](200),
//	    ga.WithRandomSeed[bool](1),
//	)
//	result, err := algorithm.Run(context.Background())
//	best := result.BestFitness
package ga

import "math"

// Gene is the set of primitive element types a chromosome row may be built
// from: bits for Binary, reals for RealValued, integers for Permutation.
type Gene interface {
	~bool | ~float64 | ~int
}

// Individual is a single candidate solution: an ordered row of genes. For
// Binary it is a bit string, for RealValued a vector inside declared bounds,
// for Permutation an ordering of a contiguous integer range.
type Individual[T Gene] []T

// Population is an ordered collection of individuals of identical shape.
// Order is significant: selection, elitism and migration all operate by
// index rather than identity.
type Population[T Gene] []Individual[T]

// FitnessVector holds one real score per individual of a Population, aligned
// by index. A missing score is represented with math.NaN and must never
// reach selection.
type FitnessVector []float64

func missing() float64 { return math.NaN() }

func isMissing(f float64) bool { return math.IsNaN(f) }

// Clone returns a deep copy of an individual.
func (ind Individual[T]) Clone() Individual[T] {
	out := make(Individual[T], len(ind))
	copy(out, ind)
	return out
}

// Clone returns a deep copy of a population, including every row.
func (p Population[T]) Clone() Population[T] {
	out := make(Population[T], len(p))
	for i, ind := range p {
		out[i] = ind.Clone()
	}
	return out
}

// Equal reports whether two individuals hold identical genes in the same
// order.
func (ind Individual[T]) Equal(other Individual[T]) bool {
	if len(ind) != len(other) {
		return false
	}
	for i := range ind {
		if ind[i] != other[i] {
			return false
		}
	}
	return true
}

// best returns the index of the row with the highest finite fitness, or -1
// if every entry is missing.
func (fv FitnessVector) best() int {
	idx := -1
	var bestVal float64
	for i, f := range fv {
		if isMissing(f) {
			continue
		}
		if idx == -1 || f > bestVal {
			idx, bestVal = i, f
		}
	}
	return idx
}

// sortedIndices returns the row indices in descending-fitness order; missing
// entries sort last and never appear before a non-missing one.
func (fv FitnessVector) sortedIndices() []int {
	idx := make([]int, len(fv))
	for i := range idx {
		idx[i] = i
	}
	sortIndicesByFitness(idx, fv)
	return idx
}
