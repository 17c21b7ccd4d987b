package ga

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Option configures a GA before it is run. Options follow the teacher
// corpus's functional-options idiom: each With* call returns a closure over
// the GA under construction rather than mutating a long constructor
// signature.
type Option[T Gene] func(*GA[T])

// Monitor is invoked once after initialization and once per completed
// generation, before that generation's stopping check, with a read-only view
// of its state.
type Monitor[T Gene] func(iter int, population Population[T], fitness FitnessVector, summary SummaryRow)

// gaConfig holds the tunable knobs of a single-population genetic algorithm
// run over encoding T.
type gaConfig[T Gene] struct {
	popSize            int
	maxIter            int
	maxFitness         *float64
	elitism            int
	elitismSet         bool
	pCrossover         float64
	pMutation          float64
	seed               int64
	seedSet            bool
	workers            int
	initName           string
	selName            string
	cxName             string
	mutName            string
	suggestions        Population[T]
	localSearch        LocalSearch[T]
	localSearchN       int
	localSearchPoptim  float64
	localSearchPressel float64
	monitor            Monitor[T]
	postFitness        func(iter int, population Population[T], fitness FitnessVector)
}

// defaultConfig seeds a fresh gaConfig from the package's mutable control
// defaults (see defaults.go). Changing the control defaults after a GA is
// constructed never affects that GA, since the values are copied here.
func defaultConfig[T Gene]() gaConfig[T] {
	return defaultConfigFromControl[T]()
}

// WithPopSize sets the number of individuals maintained each generation.
func WithPopSize[T Gene](n int) Option[T] { return func(g *GA[T]) { g.cfg.popSize = n } }

// WithMaxIter sets the maximum number of generations to evolve.
func WithMaxIter[T Gene](n int) Option[T] { return func(g *GA[T]) { g.cfg.maxIter = n } }

// WithMaxFitness sets a target fitness; the run stops once the best-so-far
// fitness reaches or exceeds it.
func WithMaxFitness[T Gene](v float64) Option[T] {
	return func(g *GA[T]) { g.cfg.maxFitness = &v }
}

// WithElitism sets how many of the fittest individuals survive each
// generation unconditionally. 0 disables elitism. Without this option, the
// default is derived from popSize at construction time (see newGA).
func WithElitism[T Gene](n int) Option[T] {
	return func(g *GA[T]) {
		g.cfg.elitism = n
		g.cfg.elitismSet = true
	}
}

// WithPCrossover sets the probability that two selected parents are crossed
// rather than cloned.
func WithPCrossover[T Gene](p float64) Option[T] { return func(g *GA[T]) { g.cfg.pCrossover = p } }

// WithPMutation sets the probability that a child is mutated.
func WithPMutation[T Gene](p float64) Option[T] { return func(g *GA[T]) { g.cfg.pMutation = p } }

// WithRandomSeed pins the root RNG seed, the basis for every deterministic
// per-(generation, row) substream. Without it, the seed is derived from the
// current time, as in the teacher's WithRandomSeed.
func WithRandomSeed[T Gene](seed int64) Option[T] {
	return func(g *GA[T]) {
		g.cfg.seed = seed
		g.cfg.seedSet = true
	}
}

// WithParallel sets the number of fitness-evaluation workers. workers <= 1
// means serial evaluation.
func WithParallel[T Gene](workers int) Option[T] { return func(g *GA[T]) { g.cfg.workers = workers } }

// WithOperators names the init/selection/crossover/mutation operators to use
// from the encoding's registry. An empty string keeps that category's
// registry default.
func WithOperators[T Gene](initName, selName, cxName, mutName string) Option[T] {
	return func(g *GA[T]) {
		g.cfg.initName = initName
		g.cfg.selName = selName
		g.cfg.cxName = cxName
		g.cfg.mutName = mutName
	}
}

// WithSuggestions seeds the initial population with known-good rows; any
// remaining slots are filled by the registry's init operator.
func WithSuggestions[T Gene](suggestions Population[T]) Option[T] {
	return func(g *GA[T]) { g.cfg.suggestions = suggestions }
}

// WithLocalSearch hybridizes the generation engine with a direct optimizer,
// refining up to n individuals per generation it fires on (memetic/Lamarckian
// search, see DESIGN.md). n <= 0 defaults to 1, matching spec.md §4.4's
// single-individual hybridization step. Whether it fires at all in a given
// generation is governed by WithLocalSearchPoptim (default 0.05).
func WithLocalSearch[T Gene](ls LocalSearch[T], n int) Option[T] {
	if n <= 0 {
		n = 1
	}
	return func(g *GA[T]) {
		g.cfg.localSearch = ls
		g.cfg.localSearchN = n
	}
}

// WithLocalSearchPoptim sets the per-generation probability that local search
// hybridization fires at all (spec.md §4.4 optimArgs.poptim, default 0.05).
func WithLocalSearchPoptim[T Gene](p float64) Option[T] {
	return func(g *GA[T]) { g.cfg.localSearchPoptim = p }
}

// WithLocalSearchPressel sets the rank-based selection pressure used to pick
// which individual(s) local search refines each time it fires (spec.md §4.4
// optimArgs.pressel, default 0.5).
func WithLocalSearchPressel[T Gene](p float64) Option[T] {
	return func(g *GA[T]) { g.cfg.localSearchPressel = p }
}

// WithMonitor registers a callback invoked after every completed generation.
func WithMonitor[T Gene](m Monitor[T]) Option[T] { return func(g *GA[T]) { g.cfg.monitor = m } }

// WithPostFitnessHook registers a callback invoked immediately after fitness
// evaluation, before elitism/selection act on the generation.
func WithPostFitnessHook[T Gene](fn func(iter int, population Population[T], fitness FitnessVector)) Option[T] {
	return func(g *GA[T]) { g.cfg.postFitness = fn }
}

// WithRegistry overrides the encoding's default operator registry (for
// registering custom named operators before constructing the GA).
func WithRegistry[T Gene](r *Registry[T]) Option[T] {
	return func(g *GA[T]) { g.registry = r }
}

// GA is a panmictic (single-population) genetic algorithm driver over
// encoding T. Construct one with NewBinary, NewReal, or NewPermutation.
type GA[T Gene] struct {
	domain   Domain[T]
	registry *Registry[T]
	fitness  FitnessFunc[T]
	cfg      gaConfig[T]
}

func newGA[T Gene](domain Domain[T], registry *Registry[T], fitness FitnessFunc[T], opts ...Option[T]) (*GA[T], error) {
	g := &GA[T]{
		domain:   domain,
		registry: registry,
		fitness:  fitness,
		cfg:      defaultConfig[T](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.cfg.seedSet {
		g.cfg.seed = time.Now().UnixNano()
	}
	if !g.cfg.elitismSet {
		g.cfg.elitism = defaultElitism(g.cfg.popSize)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// defaultElitism implements spec.md §6's default elitism=max(1,
// round(0.05*popSize)), applied whenever a GA is built without WithElitism.
func defaultElitism(popSize int) int {
	n := int(math.Round(0.05 * float64(popSize)))
	if n < 1 {
		n = 1
	}
	return n
}

// NewBinary builds a panmictic GA over the Binary encoding.
func NewBinary(domain BinaryDomain, fitness FitnessFunc[bool], opts ...Option[bool]) (*GA[bool], error) {
	return newGA[bool](domain, BinaryRegistry(), fitness, opts...)
}

// NewReal builds a panmictic GA over the RealValued encoding.
func NewReal(domain RealDomain, fitness FitnessFunc[float64], opts ...Option[float64]) (*GA[float64], error) {
	return newGA[float64](domain, RealRegistry(), fitness, opts...)
}

// NewPermutation builds a panmictic GA over the Permutation encoding.
func NewPermutation(domain PermutationDomain, fitness FitnessFunc[int], opts ...Option[int]) (*GA[int], error) {
	return newGA[int](domain, PermutationRegistry(), fitness, opts...)
}

func (g *GA[T]) validate() error {
	if g.cfg.popSize < 2 {
		return &InvalidParameter{Name: "popSize", Value: g.cfg.popSize, Reason: "must be at least 2"}
	}
	if g.cfg.maxIter < 1 {
		return &InvalidParameter{Name: "maxIter", Value: g.cfg.maxIter, Reason: "must be at least 1"}
	}
	if g.cfg.pCrossover < 0 || g.cfg.pCrossover > 1 {
		return &InvalidParameter{Name: "pCrossover", Value: g.cfg.pCrossover, Reason: "must be in [0,1]"}
	}
	if g.cfg.pMutation < 0 || g.cfg.pMutation > 1 {
		return &InvalidParameter{Name: "pMutation", Value: g.cfg.pMutation, Reason: "must be in [0,1]"}
	}
	if g.cfg.elitism < 0 || g.cfg.elitism > g.cfg.popSize {
		return &InvalidParameter{Name: "elitism", Value: g.cfg.elitism, Reason: "must be between 0 and popSize"}
	}
	if g.cfg.localSearchPoptim < 0 || g.cfg.localSearchPoptim > 1 {
		return &InvalidParameter{Name: "localSearchPoptim", Value: g.cfg.localSearchPoptim, Reason: "must be in [0,1]"}
	}
	if g.cfg.localSearchPressel < 0 || g.cfg.localSearchPressel > 1 {
		return &InvalidParameter{Name: "localSearchPressel", Value: g.cfg.localSearchPressel, Reason: "must be in [0,1]"}
	}
	if g.fitness == nil {
		return &InvalidParameter{Name: "fitness", Value: nil, Reason: "must not be nil"}
	}
	return nil
}

func (g *GA[T]) newEngine() *engine[T] {
	return &engine[T]{
		domain:             g.domain,
		evaluator:          NewEvaluator(g.fitness, g.cfg.workers, g.cfg.seed),
		registry:           g.registry,
		popSize:            g.cfg.popSize,
		elitism:            g.cfg.elitism,
		pCrossover:         g.cfg.pCrossover,
		pMutation:          g.cfg.pMutation,
		initName:           g.cfg.initName,
		selName:            g.cfg.selName,
		cxName:             g.cfg.cxName,
		mutName:            g.cfg.mutName,
		localSearch:        g.cfg.localSearch,
		localSearchN:       g.cfg.localSearchN,
		localSearchPoptim:  g.cfg.localSearchPoptim,
		localSearchPressel: g.cfg.localSearchPressel,
		postFitness:        g.cfg.postFitness,
		rng:                childRNG(g.cfg.seed, -1, 0),
		rootSeed:           g.cfg.seed,
	}
}

// Run evolves the population for up to MaxIter generations, stopping early
// if MaxFitness is reached or ctx is cancelled.
func (g *GA[T]) Run(ctx context.Context) (*Result[T], error) {
	eng := g.newEngine()
	state, err := eng.init(ctx, g.cfg.suggestions)
	if err != nil {
		return nil, fmt.Errorf("ga: init: %w", err)
	}
	if g.reportAndCheckStop(state) {
		return newResult(state), nil
	}
	for i := 0; i < g.cfg.maxIter; i++ {
		if err := ctx.Err(); err != nil {
			return newResult(state), err
		}
		if err := eng.step(ctx, state); err != nil {
			return nil, fmt.Errorf("ga: generation %d: %w", state.Iter, err)
		}
		if g.reportAndCheckStop(state) {
			break
		}
	}
	return newResult(state), nil
}

func (g *GA[T]) reportAndCheckStop(state *SearchState[T]) bool {
	if g.cfg.monitor != nil && len(state.History) > 0 {
		g.cfg.monitor(state.Iter, state.Population, state.Fitness, state.History[len(state.History)-1])
	}
	if g.cfg.maxFitness != nil && !isMissing(state.BestFitness) && state.BestFitness >= *g.cfg.maxFitness {
		return true
	}
	return false
}
