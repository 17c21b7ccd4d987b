package ga

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// IslandOption configures an IslandGA before it is run.
type IslandOption[T Gene] func(*IslandGA[T])

// IslandMonitor is invoked once per completed migration epoch, after
// migration, with each island's current best fitness.
type IslandMonitor[T Gene] func(epoch int, bestPerIsland []float64, globalBest float64)

type islandConfig[T Gene] struct {
	numIslands        int
	migrationInterval int
	migrationRate     float64
	popSize           int
	maxEpochs         int
	maxNoImprove      int
	maxFitness        *float64
	seed              int64
	seedSet           bool
	islandOpts        []Option[T]
	monitor           IslandMonitor[T]
}

// defaultIslandConfig's popSize (200) and numIslands (4) combine via
// islandSize to the same 50 each island would get if sized independently,
// matching the panmictic driver's own default popSize.
func defaultIslandConfig[T Gene]() islandConfig[T] {
	return islandConfig[T]{
		numIslands:        4,
		migrationInterval: 10,
		migrationRate:     0.10,
		popSize:           200,
		maxEpochs:         20,
		maxNoImprove:      10,
	}
}

// WithNumIslands sets how many independent subpopulations evolve in
// parallel.
func WithNumIslands[T Gene](n int) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.numIslands = n }
}

// WithMigrationInterval sets the number of generations each island evolves,
// via the panmictic engine, between migration events.
func WithMigrationInterval[T Gene](n int) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.migrationInterval = n }
}

// WithMigrationRate sets the fraction of each island's own population that
// migrates to the next island in the ring at every migration event:
// migPop = max(1, floor(migrationRate * islSize)), spec.md §4.6.
func WithMigrationRate[T Gene](rate float64) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.migrationRate = rate }
}

// WithIslandPopSize sets the total population budget split evenly across
// islands: each island's own size is islSize = max(10, popSize/numIslands),
// spec.md §3/§4.6. An explicit WithPopSize inside WithIslandOptions overrides
// this for that run, since per-island options are applied after it.
func WithIslandPopSize[T Gene](popSize int) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.popSize = popSize }
}

// islandSize computes spec.md §3's islSize = max(10, floor(popSize/numIslands)).
func islandSize(popSize, numIslands int) int {
	if numIslands < 1 {
		numIslands = 1
	}
	return max(10, popSize/numIslands)
}

// WithMaxEpochs sets the maximum number of migration epochs.
func WithMaxEpochs[T Gene](n int) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.maxEpochs = n }
}

// WithMaxNoImprove stops the run once the global best fitness has gone this
// many epochs without improving.
func WithMaxNoImprove[T Gene](n int) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.maxNoImprove = n }
}

// WithIslandMaxFitness sets a target fitness; the run stops once the global
// best reaches or exceeds it.
func WithIslandMaxFitness[T Gene](v float64) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.maxFitness = &v }
}

// WithIslandSeed pins the root RNG seed for every island's substreams.
func WithIslandSeed[T Gene](seed int64) IslandOption[T] {
	return func(g *IslandGA[T]) {
		g.cfg.seed = seed
		g.cfg.seedSet = true
	}
}

// WithIslandMonitor registers a callback invoked after every migration
// epoch.
func WithIslandMonitor[T Gene](m IslandMonitor[T]) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.monitor = m }
}

// WithIslandOptions passes through panmictic Options applied to every
// island's underlying GA (population size, operators, crossover/mutation
// rates, elitism, local search, and so on).
func WithIslandOptions[T Gene](opts ...Option[T]) IslandOption[T] {
	return func(g *IslandGA[T]) { g.cfg.islandOpts = append(g.cfg.islandOpts, opts...) }
}

// IslandGA is an island-model genetic algorithm: numIslands independent
// populations, each evolved by the same generation engine used by GA, with
// periodic ring migration of each island's fittest individuals to its
// neighbor.
type IslandGA[T Gene] struct {
	domain   Domain[T]
	registry func() *Registry[T]
	fitness  FitnessFunc[T]
	cfg      islandConfig[T]
}

func newIslandGA[T Gene](domain Domain[T], registry func() *Registry[T], fitness FitnessFunc[T], opts ...IslandOption[T]) (*IslandGA[T], error) {
	g := &IslandGA[T]{
		domain:   domain,
		registry: registry,
		fitness:  fitness,
		cfg:      defaultIslandConfig[T](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.cfg.seedSet {
		g.cfg.seed = time.Now().UnixNano()
	}
	if g.cfg.numIslands < 1 {
		return nil, &InvalidParameter{Name: "numIslands", Value: g.cfg.numIslands, Reason: "must be at least 1"}
	}
	if g.cfg.migrationInterval < 1 {
		return nil, &InvalidParameter{Name: "migrationInterval", Value: g.cfg.migrationInterval, Reason: "must be at least 1"}
	}
	if g.cfg.migrationRate <= 0 || g.cfg.migrationRate > 1 {
		return nil, &InvalidParameter{Name: "migrationRate", Value: g.cfg.migrationRate, Reason: "must be in (0,1]"}
	}
	return g, nil
}

// NewBinaryIsland builds an island-model GA over the Binary encoding.
func NewBinaryIsland(domain BinaryDomain, fitness FitnessFunc[bool], opts ...IslandOption[bool]) (*IslandGA[bool], error) {
	return newIslandGA[bool](domain, BinaryRegistry, fitness, opts...)
}

// NewRealIsland builds an island-model GA over the RealValued encoding.
func NewRealIsland(domain RealDomain, fitness FitnessFunc[float64], opts ...IslandOption[float64]) (*IslandGA[float64], error) {
	return newIslandGA[float64](domain, RealRegistry, fitness, opts...)
}

// NewPermutationIsland builds an island-model GA over the Permutation
// encoding.
func NewPermutationIsland(domain PermutationDomain, fitness FitnessFunc[int], opts ...IslandOption[int]) (*IslandGA[int], error) {
	return newIslandGA[int](domain, PermutationRegistry, fitness, opts...)
}

// Run evolves every island for MaxEpochs migration epochs (or until the
// global stopping predicate fires: MaxFitness reached, MaxNoImprove epochs
// without a global-best improvement, or ctx cancelled), ring-migrating the
// fittest individuals between islands after each epoch.
func (g *IslandGA[T]) Run(ctx context.Context) (*IslandResult[T], error) {
	islands := make([]*GA[T], g.cfg.numIslands)
	states := make([]*SearchState[T], g.cfg.numIslands)
	engines := make([]*engine[T], g.cfg.numIslands)
	islSize := islandSize(g.cfg.popSize, g.cfg.numIslands)
	migrationRNG := childRNG(g.cfg.seed, -2, 0)

	for i := range islands {
		islandSeed := childSeed(g.cfg.seed, -1, i)
		opts := append([]Option[T]{WithPopSize[T](islSize)}, g.cfg.islandOpts...)
		opts = append(opts,
			WithRandomSeed[T](islandSeed),
			WithMaxIter[T](g.cfg.migrationInterval),
		)
		ga, err := newGA[T](g.domain, g.registry(), g.fitness, opts...)
		if err != nil {
			return nil, fmt.Errorf("ga: island %d: %w", i, err)
		}
		islands[i] = ga
		eng := ga.newEngine()
		state, err := eng.init(ctx, ga.cfg.suggestions)
		if err != nil {
			return nil, fmt.Errorf("ga: island %d init: %w", i, err)
		}
		engines[i] = eng
		states[i] = state
	}

	var globalBest float64 = missing()
	var globalBestInd Individual[T]
	noImprove := 0

	for epoch := 0; epoch < g.cfg.maxEpochs; epoch++ {
		for i := range islands {
			for gen := 0; gen < islands[i].cfg.maxIter; gen++ {
				if err := ctx.Err(); err != nil {
					return g.buildResult(states, globalBestInd, globalBest), err
				}
				if err := engines[i].step(ctx, states[i]); err != nil {
					return nil, fmt.Errorf("ga: island %d epoch %d: %w", i, epoch, err)
				}
			}
		}

		g.migrate(states, islands, migrationRNG)

		bestPerIsland := make([]float64, len(states))
		improved := false
		for i, s := range states {
			bestPerIsland[i] = s.BestFitness
			if isMissing(s.BestFitness) {
				continue
			}
			if isMissing(globalBest) || s.BestFitness > globalBest {
				globalBest = s.BestFitness
				globalBestInd = s.BestIndividual.Clone()
				improved = true
			}
		}
		if improved {
			noImprove = 0
		} else {
			noImprove++
		}
		if g.cfg.monitor != nil {
			g.cfg.monitor(epoch, bestPerIsland, globalBest)
		}
		if g.cfg.maxFitness != nil && !isMissing(globalBest) && globalBest >= *g.cfg.maxFitness {
			break
		}
		if g.cfg.maxNoImprove > 0 && noImprove >= g.cfg.maxNoImprove {
			break
		}
	}

	return g.buildResult(states, globalBestInd, globalBest), nil
}

// migrate implements ring migration: each island's top migPop individuals
// (migPop = max(1, floor(migrationRate*islSize)), spec.md §4.6) replace
// migPop of the next island's non-elite rows (island i -> island i+1 mod
// numIslands), chosen uniformly at random among that island's own non-elite
// rows so improving genes circulate without ever fully merging the
// populations. Elites (each island's own top-elitism rows by current
// fitness) are protected from replacement.
func (g *IslandGA[T]) migrate(states []*SearchState[T], islands []*GA[T], rng *rand.Rand) {
	n := len(states)
	if n < 2 || g.cfg.migrationRate <= 0 {
		return
	}
	emigrants := make([]Population[T], n)
	emigrantFit := make([]FitnessVector, n)
	for i, s := range states {
		order := s.Fitness.sortedIndices()
		k := migrantCount(g.cfg.migrationRate, len(s.Population))
		if k > len(order) {
			k = len(order)
		}
		pop := make(Population[T], k)
		fit := make(FitnessVector, k)
		for j := 0; j < k; j++ {
			pop[j] = s.Population[order[j]].Clone()
			fit[j] = s.Fitness[order[j]]
		}
		emigrants[i] = pop
		emigrantFit[i] = fit
	}
	for i, s := range states {
		src := (i - 1 + n) % n
		incoming := emigrants[src]
		incomingFit := emigrantFit[src]

		order := s.Fitness.sortedIndices()
		elite := islands[i].cfg.elitism
		if elite > len(order) {
			elite = len(order)
		}
		protected := make(map[int]bool, elite)
		for j := 0; j < elite; j++ {
			protected[order[j]] = true
		}
		candidates := make([]int, 0, len(s.Population)-elite)
		for row := range s.Population {
			if !protected[row] {
				candidates = append(candidates, row)
			}
		}
		rng.Shuffle(len(candidates), func(a, b int) { candidates[a], candidates[b] = candidates[b], candidates[a] })

		k := len(incoming)
		if k > len(candidates) {
			k = len(candidates)
		}
		for j := 0; j < k; j++ {
			slot := candidates[j]
			s.Population[slot] = incoming[j]
			s.Fitness[slot] = incomingFit[j]
		}
	}
}

// migrantCount implements spec.md §4.6's migPop = max(1, floor(migrationRate
// * islSize)).
func migrantCount(rate float64, islSize int) int {
	n := int(rate * float64(islSize))
	if n < 1 {
		n = 1
	}
	return n
}

func (g *IslandGA[T]) buildResult(states []*SearchState[T], best Individual[T], bestFitness float64) *IslandResult[T] {
	results := make([]Result[T], len(states))
	for i, s := range states {
		results[i] = *newResult(s)
	}
	return &IslandResult[T]{
		Islands:     results,
		Best:        best,
		BestFitness: bestFitness,
	}
}
