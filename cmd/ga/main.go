package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/kerneldump/gacore/config"
	"github.com/kerneldump/gacore/ga"
)

func main() {
	example := flag.String("example", "onemax", "The example to run (onemax, rastrigin, or tsp)")
	islands := flag.Bool("islands", false, "Use the island-model driver instead of the panmictic driver")
	configPath := flag.String("config", "", "Path to a TOML preset file (defaults if empty or missing)")
	citiesPath := flag.String("cities", "examples/tsp.csv", "CSV of cities for the tsp example (name,x,y)")
	flag.Parse()

	preset := config.DefaultPreset()
	if *configPath != "" {
		loaded, err := config.LoadPreset(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		preset = loaded
	}

	switch *example {
	case "onemax":
		runOneMax(preset, *islands)
	case "rastrigin":
		runRastrigin(preset, *islands)
	case "tsp":
		runTSP(preset, *islands, *citiesPath)
	default:
		log.Fatalf("unknown example: %s", *example)
	}
}

func maxOnes(_ context.Context, ind ga.Individual[bool], _ *rand.Rand) (float64, error) {
	var score float64
	for _, bit := range ind {
		if bit {
			score++
		}
	}
	return score, nil
}

func runOneMax(preset config.Preset, islands bool) {
	domain := ga.BinaryDomain{NBits: 40}
	monitor := func(iter int, _ ga.Population[bool], _ ga.FitnessVector, summary ga.SummaryRow) {
		if iter%20 == 0 {
			fmt.Printf("generation %d: best=%.0f mean=%.2f\n", iter, summary.Max, summary.Mean)
		}
	}

	if islands {
		opts := append(config.IslandOptions[bool](preset), ga.WithIslandMonitor[bool](func(epoch int, bestPerIsland []float64, globalBest float64) {
			fmt.Printf("epoch %d: global best=%.0f islands=%v\n", epoch, globalBest, bestPerIsland)
		}))
		algorithm, err := ga.NewBinaryIsland(domain, maxOnes, opts...)
		if err != nil {
			log.Fatalf("NewBinaryIsland: %v", err)
		}
		result, err := algorithm.Run(context.Background())
		if err != nil {
			log.Fatalf("Run: %v", err)
		}
		fmt.Printf("best fitness: %v\n", result.BestFitness)
		return
	}

	opts := append(config.Options[bool](preset), ga.WithMonitor[bool](monitor))
	algorithm, err := ga.NewBinary(domain, maxOnes, opts...)
	if err != nil {
		log.Fatalf("NewBinary: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		log.Fatalf("Run: %v", err)
	}
	fmt.Printf("best fitness: %v\n", result.BestFitness)
}

func rastrigin(_ context.Context, ind ga.Individual[float64], _ *rand.Rand) (float64, error) {
	const A = 10.0
	sum := A * float64(len(ind))
	for _, x := range ind {
		sum += x*x - A*math.Cos(2*math.Pi*x)
	}
	return -sum, nil
}

func runRastrigin(preset config.Preset, islands bool) {
	domain := ga.RealDomain{Lower: []float64{-5.12, -5.12}, Upper: []float64{5.12, 5.12}}
	localSearch := ga.NewRealLocalSearch(domain, 50)

	if islands {
		opts := append(config.IslandOptions[float64](preset), ga.WithIslandOptions[float64](ga.WithLocalSearch[float64](localSearch, 2)))
		algorithm, err := ga.NewRealIsland(domain, rastrigin, opts...)
		if err != nil {
			log.Fatalf("NewRealIsland: %v", err)
		}
		result, err := algorithm.Run(context.Background())
		if err != nil {
			log.Fatalf("Run: %v", err)
		}
		fmt.Printf("best fitness: %v at %v\n", result.BestFitness, result.Best)
		return
	}

	opts := append(config.Options[float64](preset), ga.WithLocalSearch[float64](localSearch, 2))
	algorithm, err := ga.NewReal(domain, rastrigin, opts...)
	if err != nil {
		log.Fatalf("NewReal: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		log.Fatalf("Run: %v", err)
	}
	fmt.Printf("best fitness: %v at %v\n", result.BestFitness, result.Best)
}

func runTSP(preset config.Preset, islands bool, citiesPath string) {
	stops, err := loadCities(citiesPath)
	if err != nil {
		fmt.Printf("no city file at %s (%v), generating a random instance\n", citiesPath, err)
		stops = randomCities(20)
	}
	fmt.Printf("running TSP over %d cities\n", len(stops))

	domain := ga.PermutationDomain{Lower: 0, Upper: len(stops)}
	fitness := func(_ context.Context, ind ga.Individual[int], _ *rand.Rand) (float64, error) {
		return -ga.RouteDistance(stops, ind), nil
	}

	if islands {
		opts := config.IslandOptions[int](preset)
		algorithm, err := ga.NewPermutationIsland(domain, fitness, opts...)
		if err != nil {
			log.Fatalf("NewPermutationIsland: %v", err)
		}
		result, err := algorithm.Run(context.Background())
		if err != nil {
			log.Fatalf("Run: %v", err)
		}
		fmt.Printf("best distance: %.2f\n", -result.BestFitness)
		if err := ga.VisualizeRoute(stops, result.Best, "tsp_route.svg"); err != nil {
			log.Fatalf("VisualizeRoute: %v", err)
		}
		return
	}

	opts := config.Options[int](preset)
	algorithm, err := ga.NewPermutation(domain, fitness, opts...)
	if err != nil {
		log.Fatalf("NewPermutation: %v", err)
	}
	result, err := algorithm.Run(context.Background())
	if err != nil {
		log.Fatalf("Run: %v", err)
	}
	fmt.Printf("best distance: %.2f\n", -result.BestFitness)
	if err := ga.VisualizeRoute(stops, result.Best, "tsp_route.svg"); err != nil {
		log.Fatalf("VisualizeRoute: %v", err)
	}
	fmt.Println("route visualization saved to tsp_route.svg")
}

func loadCities(filename string) ([]ga.RouteLabel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv must have a header and at least one row")
	}

	stops := make([]ga.RouteLabel, 0, len(records)-1)
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: expected name,x,y", i+1)
		}
		var x, y float64
		if _, err := fmt.Sscanf(record[1], "%f", &x); err != nil {
			return nil, fmt.Errorf("row %d: bad x: %w", i+1, err)
		}
		if _, err := fmt.Sscanf(record[2], "%f", &y); err != nil {
			return nil, fmt.Errorf("row %d: bad y: %w", i+1, err)
		}
		stops = append(stops, ga.RouteLabel{Name: record[0], X: x, Y: y})
	}
	return stops, nil
}

func randomCities(n int) []ga.RouteLabel {
	rng := rand.New(rand.NewSource(1))
	stops := make([]ga.RouteLabel, n)
	for i := range stops {
		stops[i] = ga.RouteLabel{
			Name: fmt.Sprintf("city-%d", i),
			X:    rng.Float64() * 100,
			Y:    rng.Float64() * 100,
		}
	}
	return stops
}
