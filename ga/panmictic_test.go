package ga

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func maxOnesFitness(ctx context.Context, ind Individual[bool], rng *rand.Rand) (float64, error) {
	var score float64
	for _, bit := range ind {
		if bit {
			score++
		}
	}
	return score, nil
}

func TestPanmicticBinaryMaxOnesConverges(t *testing.T) {
	domain := BinaryDomain{NBits: 20}
	algorithm, err := NewBinary(domain, maxOnesFitness,
		WithPopSize[bool](40),
		WithMaxIter[bool](150),
		WithRandomSeed[bool](1),
		WithMaxFitness[bool](20),
	)
	if err != nil {
		t.Fatalf("NewBinary: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.BestFitness < 18 {
		t.Fatalf("best fitness = %v, want >= 18 out of 20", result.BestFitness)
	}
}

// concaveFitness is a single-peaked concave function over [0, 10] with its
// maximum at x=4.
func concaveFitness(ctx context.Context, ind Individual[float64], rng *rand.Rand) (float64, error) {
	x := ind[0]
	return -((x - 4) * (x - 4)), nil
}

func TestPanmicticRealConcaveFindsPeak(t *testing.T) {
	domain := RealDomain{Lower: []float64{0}, Upper: []float64{10}}
	algorithm, err := NewReal(domain, concaveFitness,
		WithPopSize[float64](40),
		WithMaxIter[float64](100),
		WithRandomSeed[float64](2),
	)
	if err != nil {
		t.Fatalf("NewReal: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(result.Best[0]-4) > 0.5 {
		t.Fatalf("best x = %v, want close to 4", result.Best[0])
	}
}

// rastriginFitness is the negated 2-D Rastrigin function; its global maximum
// (fitness 0) is at the origin.
func rastriginFitness(ctx context.Context, ind Individual[float64], rng *rand.Rand) (float64, error) {
	const A = 10.0
	sum := A * float64(len(ind))
	for _, x := range ind {
		sum += x*x - A*math.Cos(2*math.Pi*x)
	}
	return -sum, nil
}

func TestPanmicticRastriginImprovesOverInit(t *testing.T) {
	domain := RealDomain{Lower: []float64{-5.12, -5.12}, Upper: []float64{5.12, 5.12}}
	algorithm, err := NewReal(domain, rastriginFitness,
		WithPopSize[float64](60),
		WithMaxIter[float64](150),
		WithRandomSeed[float64](3),
	)
	if err != nil {
		t.Fatalf("NewReal: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Summary) < 2 {
		t.Fatalf("expected at least 2 generations of history")
	}
	first := result.Summary[0]
	last := result.Summary[len(result.Summary)-1]
	if last.Max < first.Max {
		t.Fatalf("best fitness regressed: first=%v last=%v", first.Max, last.Max)
	}
}

func TestPanmicticRastriginWithLocalSearchMeetsOptimThreshold(t *testing.T) {
	domain := RealDomain{Lower: []float64{-5.12, -5.12}, Upper: []float64{5.12, 5.12}}
	localSearch := NewRealLocalSearch(domain, 50)
	algorithm, err := NewReal(domain, rastriginFitness,
		WithPopSize[float64](60),
		WithMaxIter[float64](150),
		WithRandomSeed[float64](6),
		WithLocalSearch[float64](localSearch, 3),
		WithLocalSearchPoptim[float64](1.0),
	)
	if err != nil {
		t.Fatalf("NewReal: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.BestFitness <= -1.0 {
		t.Fatalf("best fitness = %v, want > -1.0 with local search enabled", result.BestFitness)
	}
}

func TestPanmicticRastriginWithoutLocalSearchMeetsBaseThreshold(t *testing.T) {
	domain := RealDomain{Lower: []float64{-5.12, -5.12}, Upper: []float64{5.12, 5.12}}
	algorithm, err := NewReal(domain, rastriginFitness,
		WithPopSize[float64](60),
		WithMaxIter[float64](150),
		WithRandomSeed[float64](6),
	)
	if err != nil {
		t.Fatalf("NewReal: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.BestFitness <= -5.0 {
		t.Fatalf("best fitness = %v, want > -5.0", result.BestFitness)
	}
}

func TestElitismNeverLosesBestIndividual(t *testing.T) {
	domain := BinaryDomain{NBits: 16}
	lastBest := math.Inf(-1)
	algorithm, err := NewBinary(domain, maxOnesFitness,
		WithPopSize[bool](30),
		WithMaxIter[bool](80),
		WithRandomSeed[bool](4),
		WithElitism[bool](2),
		WithMonitor[bool](func(iter int, _ Population[bool], _ FitnessVector, summary SummaryRow) {
			if summary.Max < lastBest {
				t.Fatalf("generation %d: best fitness regressed: %v -> %v", iter, lastBest, summary.Max)
			}
			lastBest = summary.Max
		}),
	)
	if err != nil {
		t.Fatalf("NewBinary: %v", err)
	}
	if _, err := algorithm.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestMonitorCalledEveryGeneration(t *testing.T) {
	domain := BinaryDomain{NBits: 8}
	calls := 0
	algorithm, err := NewBinary(domain, maxOnesFitness,
		WithPopSize[bool](10),
		WithMaxIter[bool](5),
		WithRandomSeed[bool](5),
		WithMonitor[bool](func(iter int, population Population[bool], fitness FitnessVector, summary SummaryRow) {
			calls++
		}),
	)
	if err != nil {
		t.Fatalf("NewBinary: %v", err)
	}
	if _, err := algorithm.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One call after initialization plus one per generation of MaxIter(5).
	if calls != 6 {
		t.Fatalf("monitor called %d times, want 6 (init + 5 generations)", calls)
	}
}

func TestInvalidParameterRejected(t *testing.T) {
	domain := BinaryDomain{NBits: 8}
	_, err := NewBinary(domain, maxOnesFitness, WithPCrossover[bool](1.5))
	if _, ok := err.(*InvalidParameter); !ok {
		t.Fatalf("expected *InvalidParameter, got %v", err)
	}
}
