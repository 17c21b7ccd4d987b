package ga

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// FitnessFunc scores one individual. It may consult rng for stochastic
// objectives (noisy simulations, sampled benchmarks); rng is a deterministic
// per-(generation, row) substream regardless of whether evaluation runs
// serially or in parallel.
type FitnessFunc[T Gene] func(ctx context.Context, ind Individual[T], rng *rand.Rand) (float64, error)

// Evaluator fills in the missing fitness entries of a population, either
// serially or fanned out across a worker pool. Parallel evaluation is built
// on errgroup.Group, mirroring the teacher corpus's executor pattern: each
// row is one g.Go task, bounded by SetLimit, with the first error cancelling
// the shared context and aborting outstanding tasks.
type Evaluator[T Gene] struct {
	Fn       FitnessFunc[T]
	Workers  int
	rootSeed int64
}

// NewEvaluator builds an Evaluator. workers <= 1 means serial evaluation.
func NewEvaluator[T Gene](fn FitnessFunc[T], workers int, rootSeed int64) *Evaluator[T] {
	return &Evaluator[T]{Fn: fn, Workers: workers, rootSeed: rootSeed}
}

// normalizeFitness maps a non-finite result (+Inf/-Inf) from a FitnessFunc to
// the missing sentinel, so a fitness function that signals failure with an
// infinite score (rather than an error) still gets excluded from selection
// instead of corrupting RouletteSelection's weight normalization.
func normalizeFitness(v float64) float64 {
	if math.IsInf(v, 0) {
		return missing()
	}
	return v
}

// rowKey returns a stable string key for an individual, used to recognize
// duplicate rows within one generation (crossover/mutation often reproduce an
// existing row, especially once the population has mostly converged).
func rowKey[T Gene](ind Individual[T]) string {
	return fmt.Sprint([]T(ind))
}

// Evaluate scores every row of population whose aligned fitness entry is
// missing, in place. generation is folded into each row's RNG substream seed
// so that re-running the same generation (serial or parallel, any worker
// count) reproduces identical fitness values whenever Fn itself is
// deterministic given its rng draws. Duplicate rows within the same
// generation are evaluated once and their score is shared, keyed off the
// first occurrence's row index so the result does not depend on worker
// count.
func (e *Evaluator[T]) Evaluate(ctx context.Context, generation int, population Population[T], fitness FitnessVector) error {
	pending := make([]int, 0, len(population))
	for i, f := range fitness {
		if isMissing(f) {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	groupOf := make(map[string]int, len(pending)) // rowKey -> representative row
	var reps []int
	dupes := make(map[int]int, len(pending)) // row -> representative row
	for _, row := range pending {
		k := rowKey(population[row])
		if rep, ok := groupOf[k]; ok {
			dupes[row] = rep
			continue
		}
		groupOf[k] = row
		reps = append(reps, row)
	}

	if e.Workers <= 1 {
		for _, row := range reps {
			rng := childRNG(e.rootSeed, generation, row)
			val, err := e.Fn(ctx, population[row], rng)
			if err != nil {
				return err
			}
			fitness[row] = normalizeFitness(val)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Workers)
		results := make([]float64, len(reps))
		for k, row := range reps {
			k, row := k, row
			g.Go(func() error {
				rng := childRNG(e.rootSeed, generation, row)
				val, err := e.Fn(gctx, population[row], rng)
				if err != nil {
					return err
				}
				results[k] = normalizeFitness(val)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for k, row := range reps {
			fitness[row] = results[k]
		}
	}

	for row, rep := range dupes {
		fitness[row] = fitness[rep]
	}
	return nil
}
