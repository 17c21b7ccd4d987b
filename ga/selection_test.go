package ga

import (
	"math/rand"
	"testing"
)

func samplePopulation() (Population[int], FitnessVector) {
	pop := Population[int]{{1}, {2}, {3}, {4}, {5}}
	fit := FitnessVector{10, 20, missing(), 40, 50}
	return pop, fit
}

func TestTournamentSelectionNeverPicksMissing(t *testing.T) {
	pop, fit := samplePopulation()
	sel := TournamentSelection[int](3)
	rng := rand.New(rand.NewSource(1))
	parents, parentFit := sel(rng, pop, fit, 20)
	for i, p := range parents {
		if p.Equal(Individual[int]{3}) {
			t.Fatalf("tournament selected missing-fitness individual at %d", i)
		}
		if isMissing(parentFit[i]) {
			t.Fatalf("tournament returned missing fitness at %d", i)
		}
	}
}

func TestRouletteSelectionHandlesNegativeFitness(t *testing.T) {
	pop := Population[int]{{1}, {2}, {3}}
	fit := FitnessVector{-10, -5, -1}
	sel := RouletteSelection[int]()
	rng := rand.New(rand.NewSource(2))
	parents, parentFit := sel(rng, pop, fit, 10)
	if len(parents) != 10 || len(parentFit) != 10 {
		t.Fatalf("expected 10 parents, got %d", len(parents))
	}
}

func TestLinearRankSelectionBiasesTowardBest(t *testing.T) {
	pop := Population[int]{{1}, {2}, {3}, {4}, {5}}
	fit := FitnessVector{1, 2, 3, 4, 1000}
	sel := LinearRankSelection[int](0.9)
	rng := rand.New(rand.NewSource(3))
	counts := make(map[int]int)
	for i := 0; i < 500; i++ {
		parents, _ := sel(rng, pop, fit, 1)
		counts[parents[0][0]]++
	}
	if counts[5] < counts[1] {
		t.Fatalf("expected rank selection to favor the best individual: counts=%v", counts)
	}
}

func TestNonlinearRankSelectionRespectsPresselExtremes(t *testing.T) {
	pop := Population[int]{{1}, {2}, {3}}
	fit := FitnessVector{1, 2, 1000}
	rng := rand.New(rand.NewSource(4))
	sel := NonlinearRankSelection[int](1.0, 0.5)
	counts := make(map[int]int)
	for i := 0; i < 300; i++ {
		parents, _ := sel(rng, pop, fit, 1)
		counts[parents[0][0]]++
	}
	if counts[3] == 0 {
		t.Fatalf("expected best-ranked individual to be selected at least once")
	}
}

func TestRankWeightsMonotoneDecreasing(t *testing.T) {
	w := rankWeights(5, 0.8)
	for i := 1; i < len(w); i++ {
		if w[i] > w[i-1] {
			t.Fatalf("rankWeights not monotone decreasing: %v", w)
		}
	}
}
