package ga

import (
	"context"
	"math/rand"
)

// engine is the generation loop shared by the panmictic and island drivers.
// One engine instance owns one population's worth of operators; an island
// driver constructs one engine per island.
type engine[T Gene] struct {
	domain    Domain[T]
	evaluator *Evaluator[T]
	registry  *Registry[T]

	popSize            int
	elitism            int
	pCrossover         float64
	pMutation          float64
	initName           string
	selName            string
	cxName             string
	mutName            string
	localSearch        LocalSearch[T]
	localSearchN       int
	localSearchPoptim  float64
	localSearchPressel float64
	postFitness        func(iter int, population Population[T], fitness FitnessVector)
	rng                *rand.Rand
	rootSeed           int64
}

// init builds the starting population and scores it.
func (e *engine[T]) init(ctx context.Context, suggestions Population[T]) (*SearchState[T], error) {
	initFn, err := e.registry.resolveInit(e.initName)
	if err != nil {
		return nil, err
	}
	pop, err := initFn(e.rng, e.domain, e.popSize, suggestions)
	if err != nil {
		return nil, err
	}
	for _, ind := range pop {
		if !e.domain.Valid(ind) {
			return nil, &OperatorDomainViolation{Operator: "init:" + e.initName, Generation: 0}
		}
	}
	state := newSearchState(pop)
	if err := e.evaluator.Evaluate(ctx, 0, state.Population, state.Fitness); err != nil {
		return nil, err
	}
	if err := e.checkMissing(state, 0); err != nil {
		return nil, err
	}
	if e.postFitness != nil {
		e.postFitness(0, state.Population, state.Fitness)
	}
	state.updateBest()
	state.recordSummary()
	return state, nil
}

// step advances state by exactly one generation, implementing the ten-stage
// contract: evaluate missing fitness, run the post-fitness hook, refresh
// best-so-far/runSince, snapshot elites, select parents, cross them over,
// mutate the offspring, reinsert the elite snapshot, optionally hybridize
// with local search, then leave the stopping check to the caller.
func (e *engine[T]) step(ctx context.Context, state *SearchState[T]) error {
	iter := state.Iter + 1

	if err := e.evaluator.Evaluate(ctx, iter, state.Population, state.Fitness); err != nil {
		return err
	}
	if err := e.checkMissing(state, iter); err != nil {
		return err
	}
	if e.postFitness != nil {
		e.postFitness(iter, state.Population, state.Fitness)
	}
	state.updateBest()

	elitePop, eliteFit := e.snapshotElites(state)

	selFn, err := e.registry.resolveSelection(e.selName)
	if err != nil {
		return err
	}
	parents, _ := selFn(e.rng, state.Population, state.Fitness, e.popSize)

	cxFn, err := e.registry.resolveCrossover(e.cxName)
	if err != nil {
		return err
	}
	mutFn, err := e.registry.resolveMutation(e.mutName)
	if err != nil {
		return err
	}

	children := make(Population[T], 0, e.popSize)
	childFit := make(FitnessVector, 0, e.popSize)
	for i := 0; i < e.popSize; i += 2 {
		p1 := parents[i]
		p2 := p1
		if i+1 < e.popSize {
			p2 = parents[i+1]
		}
		var c1, c2 Individual[T]
		if e.rng.Float64() < e.pCrossover {
			c1, c2 = cxFn(e.rng, e.domain, p1, p2)
		} else {
			c1, c2 = p1.Clone(), p2.Clone()
		}
		if e.rng.Float64() < e.pMutation {
			c1 = mutFn(e.rng, e.domain, c1)
		}
		if e.rng.Float64() < e.pMutation {
			c2 = mutFn(e.rng, e.domain, c2)
		}
		if !e.domain.Valid(c1) {
			return &OperatorDomainViolation{Operator: e.cxName + "/" + e.mutName, Generation: iter}
		}
		children = append(children, c1)
		childFit = append(childFit, missing())
		if len(children) < e.popSize {
			if !e.domain.Valid(c2) {
				return &OperatorDomainViolation{Operator: e.cxName + "/" + e.mutName, Generation: iter}
			}
			children = append(children, c2)
			childFit = append(childFit, missing())
		}
	}

	e.reinsertElites(children, childFit, elitePop, eliteFit)

	state.Population = children
	state.Fitness = childFit
	state.Iter = iter

	// Score the new generation now rather than deferring to the next step's
	// evaluate-missing stage: both the local-search rank-weighting below and
	// the summary row need real fitness values, not the NaN placeholders
	// left by crossover/mutation.
	if err := e.evaluator.Evaluate(ctx, iter, state.Population, state.Fitness); err != nil {
		return err
	}
	if err := e.checkMissing(state, iter); err != nil {
		return err
	}

	if e.localSearch != nil && e.localSearchN > 0 && e.rng.Float64() < e.localSearchPoptim {
		if err := e.hybridize(ctx, state); err != nil {
			return err
		}
	}

	state.recordSummary()
	return nil
}

// snapshotElites copies the top-Elitism individuals of the current
// generation, to be spliced back into the offspring before the stopping
// check, guaranteeing fitness is monotone non-decreasing across generations.
func (e *engine[T]) snapshotElites(state *SearchState[T]) (Population[T], FitnessVector) {
	if e.elitism <= 0 {
		return nil, nil
	}
	order := state.Fitness.sortedIndices()
	n := e.elitism
	if n > len(order) {
		n = len(order)
	}
	pop := make(Population[T], n)
	fit := make(FitnessVector, n)
	for i := 0; i < n; i++ {
		pop[i] = state.Population[order[i]].Clone()
		fit[i] = state.Fitness[order[i]]
	}
	return pop, fit
}

// reinsertElites overwrites the last entries of children with the elite
// snapshot, keeping children's length unchanged.
func (e *engine[T]) reinsertElites(children Population[T], childFit FitnessVector, elitePop Population[T], eliteFit FitnessVector) {
	if len(elitePop) == 0 {
		return
	}
	n := len(elitePop)
	if n > len(children) {
		n = len(children)
	}
	for i := 0; i < n; i++ {
		slot := len(children) - 1 - i
		children[slot] = elitePop[i]
		childFit[slot] = eliteFit[i]
	}
}

// hybridize refines a rank-weighted sample of the new generation with the
// configured LocalSearch, re-scoring each refined individual so its improved
// fitness is visible to the next generation's elitism/selection. A refined
// row only replaces the original if the optimizer's score strictly improves
// on it (spec.md §4.4); a non-improving step leaves the row untouched.
func (e *engine[T]) hybridize(ctx context.Context, state *SearchState[T]) error {
	rows := pickForRefinement(e.rng, state.Population, state.Fitness, e.localSearchN, e.localSearchPressel)
	score := func(ind Individual[T]) (float64, error) {
		rng := childRNG(e.rootSeed, state.Iter, -1)
		return e.evaluator.Fn(ctx, ind, rng)
	}
	for _, row := range rows {
		refined, err := e.localSearch.Refine(ctx, e.domain, state.Population[row], score)
		if err != nil {
			return err
		}
		if !e.domain.Valid(refined) {
			return &OperatorDomainViolation{Operator: "localsearch", Generation: state.Iter}
		}
		val, err := score(refined)
		if err != nil {
			return err
		}
		if val > state.Fitness[row] {
			state.Population[row] = refined
			state.Fitness[row] = val
		}
	}
	return nil
}

func (e *engine[T]) checkMissing(state *SearchState[T], generation int) error {
	for _, f := range state.Fitness {
		if !isMissing(f) {
			return nil
		}
	}
	return &MissingFitness{Generation: generation}
}
