package ga

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/optimize"
)

// LocalSearch refines a subset of a population in place, hybridizing the
// genetic search with a direct optimizer (memetic/Lamarckian hybridization,
// spec.md §4.4). Candidates to refine are chosen by rank-weighted sampling
// using the same selection-pressure formula as LinearRankSelection, so the
// fitter the individual the more likely it is picked for refinement.
type LocalSearch[T Gene] interface {
	Refine(ctx context.Context, domain Domain[T], ind Individual[T], score func(Individual[T]) (float64, error)) (Individual[T], error)
}

// noopLocalSearch leaves every individual untouched, for encodings with no
// natural continuous relaxation (Binary, Permutation). A GA built without
// WithLocalSearch runs no local search at all.
type noopLocalSearch[T Gene] struct{}

func (noopLocalSearch[T]) Refine(_ context.Context, _ Domain[T], ind Individual[T], _ func(Individual[T]) (float64, error)) (Individual[T], error) {
	return ind, nil
}

// NoLocalSearch returns a LocalSearch that performs no refinement.
func NoLocalSearch[T Gene]() LocalSearch[T] { return noopLocalSearch[T]{} }

// realNelderMeadSearch refines RealValued individuals with gonum's
// derivative-free Nelder-Mead simplex method, the right fit since the
// genetic algorithm's fitness function is a black box to the optimizer.
// gonum's optimize package has no native box-constrained method, so bounds
// are enforced by clipping each candidate point into range before it is
// scored, and clipping the optimizer's final point the same way (see
// DESIGN.md's Open-Question resolution).
type realNelderMeadSearch struct {
	domain    RealDomain
	maxIter   int
	maxEvals  int
	initSigma float64
}

// NewRealLocalSearch builds a Nelder-Mead-backed LocalSearch over domain,
// running for at most maxIter optimizer iterations per refined individual.
func NewRealLocalSearch(domain RealDomain, maxIter int) LocalSearch[float64] {
	if maxIter < 1 {
		maxIter = 50
	}
	return &realNelderMeadSearch{domain: domain, maxIter: maxIter, initSigma: 0.1}
}

func (s *realNelderMeadSearch) Refine(ctx context.Context, domain Domain[float64], ind Individual[float64], score func(Individual[float64]) (float64, error)) (Individual[float64], error) {
	rd, ok := domain.(RealDomain)
	if !ok {
		rd = s.domain
	}
	n := len(ind)
	x0 := make([]float64, n)
	copy(x0, ind)

	var evalErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if evalErr != nil {
				return math.Inf(1)
			}
			clipped := rd.Clip(Individual[float64](x))
			val, err := score(clipped)
			if err != nil {
				evalErr = err
				return math.Inf(1)
			}
			// optimize.Problem minimizes; the GA maximizes fitness.
			return -val
		},
	}

	settings := &optimize.Settings{
		MajorIterations: s.maxIter,
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil && evalErr == nil {
		// Nelder-Mead reports non-convergence for many benign stopping
		// reasons (iteration/function limits); only a real Func error or a
		// cancelled context is fatal to the caller.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if evalErr != nil {
		return nil, evalErr
	}
	if result == nil {
		return ind, nil
	}
	refined := rd.Clip(Individual[float64](result.X))
	return refined, nil
}

// pickForRefinement rank-weights the population (fittest most likely) and
// returns the row indices chosen for local search, at most k of them,
// without repeats.
func pickForRefinement[T Gene](rng *rand.Rand, population Population[T], fitness FitnessVector, k int, pressel float64) []int {
	idx, _ := selectPool(population, fitness)
	if len(idx) == 0 {
		return nil
	}
	order := append([]int(nil), idx...)
	sortIndicesByFitness(order, fitness)
	weights := rankWeights(len(order), pressel)
	cum := cumulative(weights)
	total := cum[len(cum)-1]
	chosen := make(map[int]bool, k)
	out := make([]int, 0, k)
	attempts := 0
	for len(out) < k && len(out) < len(order) && attempts < k*10+10 {
		attempts++
		r := rng.Float64() * total
		pick := searchCumulative(cum, r)
		row := order[pick]
		if chosen[row] {
			continue
		}
		chosen[row] = true
		out = append(out, row)
	}
	return out
}
