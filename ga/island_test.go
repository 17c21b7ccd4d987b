package ga

import (
	"context"
	"testing"
)

func TestIslandDeterministicAcrossWorkerCounts(t *testing.T) {
	domain := BinaryDomain{NBits: 16}

	runIslands := func(workers int) *IslandResult[bool] {
		algorithm, err := NewBinaryIsland(domain, maxOnesFitness,
			WithNumIslands[bool](3),
			WithMigrationInterval[bool](5),
			WithMaxEpochs[bool](4),
			WithIslandSeed[bool](11),
			WithIslandOptions[bool](
				WithPopSize[bool](16),
				WithParallel[bool](workers),
			),
		)
		if err != nil {
			t.Fatalf("NewBinaryIsland: %v", err)
		}
		result, err := algorithm.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result
	}

	serial := runIslands(1)
	parallel := runIslands(4)

	if serial.BestFitness != parallel.BestFitness {
		t.Fatalf("global best differs: serial=%v parallel=%v", serial.BestFitness, parallel.BestFitness)
	}
	for i := range serial.Islands {
		if serial.Islands[i].BestFitness != parallel.Islands[i].BestFitness {
			t.Fatalf("island %d best differs: serial=%v parallel=%v", i, serial.Islands[i].BestFitness, parallel.Islands[i].BestFitness)
		}
	}
}

func TestIslandRunWithMigrationFindsPositiveBest(t *testing.T) {
	domain := BinaryDomain{NBits: 12}
	algorithm, err := NewBinaryIsland(domain, maxOnesFitness,
		WithNumIslands[bool](2),
		WithMigrationInterval[bool](3),
		WithMaxEpochs[bool](5),
		WithIslandSeed[bool](21),
		WithIslandOptions[bool](WithPopSize[bool](12)),
	)
	if err != nil {
		t.Fatalf("NewBinaryIsland: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.BestFitness <= 0 {
		t.Fatalf("expected positive best fitness, got %v", result.BestFitness)
	}
}

func TestIslandStopsOnMaxFitness(t *testing.T) {
	domain := BinaryDomain{NBits: 10}
	algorithm, err := NewBinaryIsland(domain, maxOnesFitness,
		WithNumIslands[bool](2),
		WithMigrationInterval[bool](2),
		WithMaxEpochs[bool](200),
		WithIslandMaxFitness[bool](10),
		WithIslandSeed[bool](31),
		WithIslandOptions[bool](WithPopSize[bool](20)),
	)
	if err != nil {
		t.Fatalf("NewBinaryIsland: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.BestFitness < 10 {
		t.Fatalf("best fitness = %v, want >= 10", result.BestFitness)
	}
}
