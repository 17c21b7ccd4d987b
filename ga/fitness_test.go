package ga

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func noisyFitness(ctx context.Context, ind Individual[float64], rng *rand.Rand) (float64, error) {
	return ind[0] + rng.NormFloat64()*0.001, nil
}

func TestEvaluatorSerialAndParallelAgree(t *testing.T) {
	pop := Population[float64]{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}

	serial := NewEvaluator(FitnessFunc[float64](noisyFitness), 1, 42)
	fitSerial := make(FitnessVector, len(pop))
	for i := range fitSerial {
		fitSerial[i] = missing()
	}
	if err := serial.Evaluate(context.Background(), 3, pop, fitSerial); err != nil {
		t.Fatalf("serial evaluate: %v", err)
	}

	parallel := NewEvaluator(FitnessFunc[float64](noisyFitness), 4, 42)
	fitParallel := make(FitnessVector, len(pop))
	for i := range fitParallel {
		fitParallel[i] = missing()
	}
	if err := parallel.Evaluate(context.Background(), 3, pop, fitParallel); err != nil {
		t.Fatalf("parallel evaluate: %v", err)
	}

	for i := range fitSerial {
		if fitSerial[i] != fitParallel[i] {
			t.Fatalf("row %d: serial=%v parallel=%v, expected identical substreams", i, fitSerial[i], fitParallel[i])
		}
	}
}

func TestEvaluatorSkipsAlreadyScoredRows(t *testing.T) {
	pop := Population[float64]{{1}, {2}}
	fit := FitnessVector{99, missing()}
	ev := NewEvaluator(FitnessFunc[float64](noisyFitness), 1, 7)
	if err := ev.Evaluate(context.Background(), 0, pop, fit); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fit[0] != 99 {
		t.Fatalf("row 0 should not be recomputed, got %v", fit[0])
	}
	if isMissing(fit[1]) {
		t.Fatalf("row 1 should have been scored")
	}
}

func TestEvaluatorSharesScoreAcrossDuplicateRows(t *testing.T) {
	calls := 0
	countingFitness := func(_ context.Context, ind Individual[float64], _ *rand.Rand) (float64, error) {
		calls++
		return ind[0], nil
	}
	pop := Population[float64]{{1}, {1}, {2}, {1}}
	fit := FitnessVector{missing(), missing(), missing(), missing()}
	ev := NewEvaluator(FitnessFunc[float64](countingFitness), 1, 11)
	if err := ev.Evaluate(context.Background(), 0, pop, fit); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 fitness calls for 2 distinct rows, got %d", calls)
	}
	if fit[0] != 1 || fit[1] != 1 || fit[3] != 1 || fit[2] != 2 {
		t.Fatalf("unexpected fitness values: %v", fit)
	}
}

func TestEvaluatorNormalizesInfiniteFitnessToMissing(t *testing.T) {
	infiniteFitness := func(_ context.Context, ind Individual[float64], _ *rand.Rand) (float64, error) {
		if ind[0] < 0 {
			return math.Inf(1), nil
		}
		return ind[0], nil
	}
	pop := Population[float64]{{1}, {-1}, {2}, {-2}}
	fit := FitnessVector{missing(), missing(), missing(), missing()}
	ev := NewEvaluator(FitnessFunc[float64](infiniteFitness), 1, 5)
	if err := ev.Evaluate(context.Background(), 0, pop, fit); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fit[0] != 1 || fit[2] != 2 {
		t.Fatalf("unexpected fitness for finite rows: %v", fit)
	}
	if !isMissing(fit[1]) || !isMissing(fit[3]) {
		t.Fatalf("rows with infinite fitness should be normalized to missing: %v", fit)
	}

	pool, _ := selectPool(pop, fit)
	for _, row := range pool {
		if row == 1 || row == 3 {
			t.Fatalf("selectPool must exclude rows normalized to missing, got %v", pool)
		}
	}
}

func TestEvaluatorNormalizesNegativeInfiniteFitness(t *testing.T) {
	ev := NewEvaluator(FitnessFunc[float64](func(_ context.Context, _ Individual[float64], _ *rand.Rand) (float64, error) {
		return math.Inf(-1), nil
	}), 1, 5)
	pop := Population[float64]{{1}}
	fit := FitnessVector{missing()}
	if err := ev.Evaluate(context.Background(), 0, pop, fit); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !isMissing(fit[0]) {
		t.Fatalf("-Inf fitness should be normalized to missing, got %v", fit[0])
	}
}

func TestChildSeedDeterministicAndWellDistributed(t *testing.T) {
	a := childSeed(1, 0, 0)
	b := childSeed(1, 0, 0)
	if a != b {
		t.Fatalf("childSeed not deterministic: %d != %d", a, b)
	}
	c := childSeed(1, 0, 1)
	if a == c {
		t.Fatalf("childSeed collided across rows: %d", a)
	}
	d := childSeed(1, 1, 0)
	if a == d {
		t.Fatalf("childSeed collided across generations: %d", a)
	}
}
