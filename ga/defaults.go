package ga

import "sync"

// controlDefaults holds package-level default parameters, mirroring the
// "gaControl" global-defaults design note: values here seed every new GA's
// gaConfig at construction time, but each run then owns an independent copy
// and is unaffected by later changes to the package defaults. elitism has no
// entry here: its default is proportional to popSize and is computed by
// newGA (see defaultElitism in panmictic.go), not carried as a flat constant.
type controlDefaults struct {
	mu         sync.RWMutex
	popSize    int
	maxIter    int
	pCrossover float64
	pMutation  float64
}

var control = &controlDefaults{
	popSize:    50,
	maxIter:    100,
	pCrossover: 0.8,
	pMutation:  0.1,
}

// SetDefaultPopSize overrides the package-wide default population size used
// by GA constructors that do not specify WithPopSize.
func SetDefaultPopSize(n int) {
	control.mu.Lock()
	defer control.mu.Unlock()
	control.popSize = n
}

// SetDefaultMaxIter overrides the package-wide default generation budget.
func SetDefaultMaxIter(n int) {
	control.mu.Lock()
	defer control.mu.Unlock()
	control.maxIter = n
}

// SetDefaultRates overrides the package-wide default crossover/mutation
// probabilities.
func SetDefaultRates(pCrossover, pMutation float64) {
	control.mu.Lock()
	defer control.mu.Unlock()
	control.pCrossover = pCrossover
	control.pMutation = pMutation
}

func defaultConfigFromControl[T Gene]() gaConfig[T] {
	control.mu.RLock()
	defer control.mu.RUnlock()
	return gaConfig[T]{
		popSize:            control.popSize,
		maxIter:            control.maxIter,
		pCrossover:         control.pCrossover,
		pMutation:          control.pMutation,
		workers:            1,
		localSearchPoptim:  0.05,
		localSearchPressel: 0.5,
	}
}
