package puzzle

import (
	"math/rand/v2"

	apperrors "github.com/matzehuels/balleat/pkg/errors"
)

// Config controls instance generation.
type Config struct {
	MinTargets   int     // lower bound for the number of targets (inclusive)
	MaxTargets   int     // upper bound for the number of targets (inclusive)
	GrowthFactor float64 // eater size multiplier after each consumption
	MinSize      float64 // smallest allowed ball diameter
	MaxSize      float64 // largest allowed ball diameter
	Width        float64 // canvas width
	Height       float64 // canvas height
	MaxAttempts  int     // solver retry budget, 0 for DefaultMaxAttempts
}

// DefaultConfig returns the configuration used by the dataset generator.
func DefaultConfig() Config {
	return Config{
		MinTargets:   2,
		MaxTargets:   6,
		GrowthFactor: 1.4,
		MinSize:      20,
		MaxSize:      150,
		Width:        512,
		Height:       512,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// Stats describes how an instance was obtained.
type Stats struct {
	SolveAttempts      int // constructions needed by Solve
	PlacementFallbacks int // balls that fell back to the canvas center
}

// Generate builds a solvable instance: sizes and order from Solve, then
// positions from Place. The eater is placed first and each target is added
// to the occupancy list before the next one is placed.
func Generate(rng *rand.Rand, cfg Config) (Instance, Stats, error) {
	if err := apperrors.ValidateTargetRange(cfg.MinTargets, cfg.MaxTargets); err != nil {
		return Instance{}, Stats{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Instance{}, Stats{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "canvas must be positive, got %vx%v", cfg.Width, cfg.Height)
	}

	n := cfg.MinTargets + rng.IntN(cfg.MaxTargets-cfg.MinTargets+1)
	sol, err := Solve(rng, SolveParams{
		NumTargets:   n,
		GrowthFactor: cfg.GrowthFactor,
		MinSize:      cfg.MinSize,
		MaxSize:      cfg.MaxSize,
		MaxAttempts:  cfg.MaxAttempts,
	})
	if err != nil {
		return Instance{}, Stats{}, err
	}

	stats := Stats{SolveAttempts: sol.Attempts}
	occupied := make([]Circle, 0, n+1)

	eater := Ball{Size: sol.InitialSize}
	var ok bool
	eater.X, eater.Y, ok = Place(rng, eater.Size, cfg.Width, cfg.Height, nil)
	if !ok {
		stats.PlacementFallbacks++
	}
	occupied = append(occupied, Circle{X: eater.X, Y: eater.Y, R: eater.Radius()})

	targets := make([]Target, n)
	for id, size := range sol.Sizes {
		t := Target{Ball: Ball{Size: size}, ID: id}
		t.X, t.Y, ok = Place(rng, size, cfg.Width, cfg.Height, occupied)
		if !ok {
			stats.PlacementFallbacks++
		}
		occupied = append(occupied, Circle{X: t.X, Y: t.Y, R: t.Radius()})
		targets[id] = t
	}

	return Instance{
		Eater:        eater,
		Targets:      targets,
		Order:        sol.Order,
		GrowthFactor: cfg.GrowthFactor,
	}, stats, nil
}
