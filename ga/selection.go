package ga

import "math/rand"

// selectPool gathers the candidate rows/fitnesses eligible for selection:
// every index whose fitness is not missing. Callers of the concrete
// selection operators below use this so that a row with missing fitness can
// never be returned, per the Selection contract in spec.md §4.1.
func selectPool[T Gene](population Population[T], fitness FitnessVector) ([]int, []float64) {
	idx := make([]int, 0, len(population))
	vals := make([]float64, 0, len(population))
	for i, f := range fitness {
		if isMissing(f) {
			continue
		}
		idx = append(idx, i)
		vals = append(vals, f)
	}
	return idx, vals
}

// TournamentSelection returns a SelectionFunc that repeatedly samples
// tournamentSize individuals (with replacement) and keeps the fittest,
// generalizing the teacher's TournamentSelector to an arbitrary pool size
// and an explicit domain-agnostic element type.
func TournamentSelection[T Gene](tournamentSize int) SelectionFunc[T] {
	if tournamentSize < 1 {
		tournamentSize = 2
	}
	return func(rng *rand.Rand, population Population[T], fitness FitnessVector, popSize int) (Population[T], FitnessVector) {
		idx, _ := selectPool(population, fitness)
		parents := make(Population[T], popSize)
		parentFit := make(FitnessVector, popSize)
		size := tournamentSize
		if size > len(idx) {
			size = len(idx)
		}
		for i := 0; i < popSize; i++ {
			best := idx[rng.Intn(len(idx))]
			bestVal := fitness[best]
			for j := 1; j < size; j++ {
				cand := idx[rng.Intn(len(idx))]
				if fitness[cand] > bestVal {
					best, bestVal = cand, fitness[cand]
				}
			}
			parents[i] = population[best].Clone()
			parentFit[i] = bestVal
		}
		return parents, parentFit
	}
}

// RouletteSelection implements fitness-proportional (roulette-wheel)
// selection: each individual's chance of being picked is proportional to its
// fitness. Fitness values are shifted to be non-negative before weighting,
// since the core allows arbitrary real-valued fitness (including negative
// scores, as in the Rastrigin/TSP scenarios).
func RouletteSelection[T Gene]() SelectionFunc[T] {
	return func(rng *rand.Rand, population Population[T], fitness FitnessVector, popSize int) (Population[T], FitnessVector) {
		idx, vals := selectPool(population, fitness)
		minVal := vals[0]
		for _, v := range vals {
			if v < minVal {
				minVal = v
			}
		}
		weights := make([]float64, len(vals))
		var total float64
		for i, v := range vals {
			w := v - minVal + 1e-12
			weights[i] = w
			total += w
		}
		parents := make(Population[T], popSize)
		parentFit := make(FitnessVector, popSize)
		for i := 0; i < popSize; i++ {
			r := rng.Float64() * total
			var cum float64
			pick := len(idx) - 1
			for j, w := range weights {
				cum += w
				if r <= cum {
					pick = j
					break
				}
			}
			parents[i] = population[idx[pick]].Clone()
			parentFit[i] = fitness[idx[pick]]
		}
		return parents, parentFit
	}
}

// LinearRankSelection assigns selection probability by rank rather than raw
// fitness value, using the rank-weighting formula from spec.md §4.4's
// selection-pressure model (pressel in [0,1]; 0.5 is near-uniform, values
// near 1 concentrate on the best individuals).
func LinearRankSelection[T Gene](pressel float64) SelectionFunc[T] {
	if pressel < 0 {
		pressel = 0
	}
	if pressel > 1 {
		pressel = 1
	}
	return func(rng *rand.Rand, population Population[T], fitness FitnessVector, popSize int) (Population[T], FitnessVector) {
		idx, _ := selectPool(population, fitness)
		order := append([]int(nil), idx...)
		sortIndicesByFitness(order, fitness)
		n := len(order)
		weights := rankWeights(n, pressel)
		parents := make(Population[T], popSize)
		parentFit := make(FitnessVector, popSize)
		cum := cumulative(weights)
		total := cum[len(cum)-1]
		for i := 0; i < popSize; i++ {
			r := rng.Float64() * total
			pick := searchCumulative(cum, r)
			row := order[pick]
			parents[i] = population[row].Clone()
			parentFit[i] = fitness[row]
		}
		return parents, parentFit
	}
}

// NonlinearRankSelection is LinearRankSelection's nonlinear counterpart: rank
// weights decay geometrically (rate in (0,1)) rather than linearly, giving a
// sharper bias toward the best-ranked individuals for a given pressel.
func NonlinearRankSelection[T Gene](pressel, rate float64) SelectionFunc[T] {
	if rate <= 0 || rate >= 1 {
		rate = 0.25
	}
	if pressel < 0 {
		pressel = 0
	}
	if pressel > 1 {
		pressel = 1
	}
	return func(rng *rand.Rand, population Population[T], fitness FitnessVector, popSize int) (Population[T], FitnessVector) {
		idx, _ := selectPool(population, fitness)
		order := append([]int(nil), idx...)
		sortIndicesByFitness(order, fitness)
		n := len(order)
		weights := make([]float64, n)
		for r := 0; r < n; r++ {
			geometric := rate * pow1m(rate, r)
			uniform := 1.0 / float64(n)
			weights[r] = pressel*geometric + (1-pressel)*uniform
		}
		cum := cumulative(weights)
		total := cum[len(cum)-1]
		parents := make(Population[T], popSize)
		parentFit := make(FitnessVector, popSize)
		for i := 0; i < popSize; i++ {
			r := rng.Float64() * total
			pick := searchCumulative(cum, r)
			row := order[pick]
			parents[i] = population[row].Clone()
			parentFit[i] = fitness[row]
		}
		return parents, parentFit
	}
}

// rankWeights implements w_i ∝ (2*pressel + 2*(1-2*pressel)*(r_i-1)/(N-1))
// from spec.md §4.4, indexed by rank r=0 (best) .. n-1 (worst).
func rankWeights(n int, pressel float64) []float64 {
	weights := make([]float64, n)
	if n == 1 {
		weights[0] = 1
		return weights
	}
	for r := 0; r < n; r++ {
		// spec's r_i is 1-based with 1=best; here r is 0-based best-first,
		// so (r_i - 1) == r directly.
		weights[r] = 2*pressel + 2*(1-2*pressel)*float64(r)/float64(n-1)
		if weights[r] < 0 {
			weights[r] = 0
		}
	}
	return weights
}

func cumulative(weights []float64) []float64 {
	cum := make([]float64, len(weights))
	var sum float64
	for i, w := range weights {
		sum += w
		cum[i] = sum
	}
	return cum
}

func searchCumulative(cum []float64, r float64) int {
	for i, c := range cum {
		if r <= c {
			return i
		}
	}
	return len(cum) - 1
}

func pow1m(rate float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= (1 - rate)
	}
	return out
}
