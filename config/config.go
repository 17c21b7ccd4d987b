// Package config loads and saves genetic-algorithm run parameters from a
// TOML preset file, so a tuned configuration can be shared or versioned
// independently of the code that calls ga.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kerneldump/gacore/ga"
)

// Preset holds the tunable parameters of a panmictic or island GA run. Zero
// values are filled in from DefaultPreset by LoadPreset when a field is
// absent from the TOML file. Elitism left at 0 means "use ga's own
// popSize-proportional default" (see ga.WithElitism), not "disable elitism";
// an explicit Elitism of 0 in a loaded TOML file is indistinguishable from an
// absent field, which is an accepted limitation of the flat preset format.
type Preset struct {
	PopSize    int     `toml:"pop_size"`
	MaxIter    int     `toml:"max_iter"`
	Elitism    int     `toml:"elitism"`
	PCrossover float64 `toml:"p_crossover"`
	PMutation  float64 `toml:"p_mutation"`
	Workers    int     `toml:"workers"`
	Seed       int64   `toml:"seed"`

	Init      string `toml:"init"`
	Selection string `toml:"selection"`
	Crossover string `toml:"crossover"`
	Mutation  string `toml:"mutation"`

	LocalSearchPoptim  float64 `toml:"local_search_poptim"`
	LocalSearchPressel float64 `toml:"local_search_pressel"`

	NumIslands        int     `toml:"num_islands"`
	MigrationInterval int     `toml:"migration_interval"`
	MigrationRate     float64 `toml:"migration_rate"`
	MaxEpochs         int     `toml:"max_epochs"`
	MaxNoImprove      int     `toml:"max_no_improve"`
}

// DefaultPreset returns the built-in defaults, matching ga's own panmictic
// package defaults so a panmictic GA built from it behaves identically to one
// built with no options at all. For the island driver, PopSize (50) is passed
// as the total budget across islands, whereas an island GA built with no
// options uses a total of 200.
func DefaultPreset() Preset {
	return Preset{
		PopSize:    50,
		MaxIter:    100,
		PCrossover: 0.8,
		PMutation:  0.1,
		Workers:    1,

		LocalSearchPoptim:  0.05,
		LocalSearchPressel: 0.5,

		NumIslands:        4,
		MigrationInterval: 10,
		MigrationRate:     0.10,
		MaxEpochs:         20,
		MaxNoImprove:      10,
	}
}

// LoadPreset reads a TOML preset from path. A missing file is not an error:
// the defaults are returned instead, so a first run can save its own
// tuned preset without requiring one to already exist.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreset(), nil
		}
		return DefaultPreset(), fmt.Errorf("config: read %s: %w", path, err)
	}
	preset := DefaultPreset()
	if err := toml.Unmarshal(data, &preset); err != nil {
		return DefaultPreset(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	return preset, nil
}

// SavePreset writes preset to path as TOML, creating parent directories as
// needed.
func SavePreset(path string, preset Preset) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(preset); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}

// Options translates a Preset into panmictic ga.Options. Zero-valued rate
// fields are not applied, so a Preset loaded from a partial TOML file does
// not silently zero out a GA's population size or rates. The island fields
// (NumIslands, Migration*, MaxEpochs, MaxNoImprove) are ignored entirely.
func Options[T ga.Gene](p Preset) []ga.Option[T] {
	var opts []ga.Option[T]
	if p.PopSize > 0 {
		opts = append(opts, ga.WithPopSize[T](p.PopSize))
	}
	opts = append(opts, ratesAndOperatorOptions[T](p)...)
	return opts
}

// ratesAndOperatorOptions is the part of Options shared with IslandOptions's
// per-island suboptions: every panmictic knob except PopSize, which the
// island driver derives itself from PopSize/NumIslands (spec.md §4.6 islSize)
// rather than applying the flat preset value to every island verbatim.
func ratesAndOperatorOptions[T ga.Gene](p Preset) []ga.Option[T] {
	var opts []ga.Option[T]
	if p.MaxIter > 0 {
		opts = append(opts, ga.WithMaxIter[T](p.MaxIter))
	}
	if p.Elitism > 0 {
		opts = append(opts, ga.WithElitism[T](p.Elitism))
	}
	if p.PCrossover > 0 {
		opts = append(opts, ga.WithPCrossover[T](p.PCrossover))
	}
	if p.PMutation > 0 {
		opts = append(opts, ga.WithPMutation[T](p.PMutation))
	}
	if p.Workers > 0 {
		opts = append(opts, ga.WithParallel[T](p.Workers))
	}
	if p.Seed != 0 {
		opts = append(opts, ga.WithRandomSeed[T](p.Seed))
	}
	if p.Init != "" || p.Selection != "" || p.Crossover != "" || p.Mutation != "" {
		opts = append(opts, ga.WithOperators[T](p.Init, p.Selection, p.Crossover, p.Mutation))
	}
	if p.LocalSearchPoptim > 0 {
		opts = append(opts, ga.WithLocalSearchPoptim[T](p.LocalSearchPoptim))
	}
	if p.LocalSearchPressel > 0 {
		opts = append(opts, ga.WithLocalSearchPressel[T](p.LocalSearchPressel))
	}
	return opts
}

// IslandOptions translates a Preset into island-model ga.IslandOptions,
// passing the rest of the preset through as the per-island panmictic
// Options.
func IslandOptions[T ga.Gene](p Preset) []ga.IslandOption[T] {
	var opts []ga.IslandOption[T]
	if p.NumIslands > 0 {
		opts = append(opts, ga.WithNumIslands[T](p.NumIslands))
	}
	if p.MigrationInterval > 0 {
		opts = append(opts, ga.WithMigrationInterval[T](p.MigrationInterval))
	}
	if p.MigrationRate > 0 {
		opts = append(opts, ga.WithMigrationRate[T](p.MigrationRate))
	}
	if p.MaxEpochs > 0 {
		opts = append(opts, ga.WithMaxEpochs[T](p.MaxEpochs))
	}
	if p.MaxNoImprove > 0 {
		opts = append(opts, ga.WithMaxNoImprove[T](p.MaxNoImprove))
	}
	if p.Seed != 0 {
		opts = append(opts, ga.WithIslandSeed[T](p.Seed))
	}
	if p.PopSize > 0 {
		opts = append(opts, ga.WithIslandPopSize[T](p.PopSize))
	}
	opts = append(opts, ga.WithIslandOptions[T](ratesAndOperatorOptions[T](p)...))
	return opts
}
