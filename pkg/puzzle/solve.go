package puzzle

import (
	"math/rand/v2"
	"slices"

	apperrors "github.com/matzehuels/balleat/pkg/errors"
)

const (
	// DefaultMaxAttempts bounds the construct-then-verify loop in Solve.
	DefaultMaxAttempts = 32

	finalSizeLow   = 0.6 // final eater size drawn from [0.6·max, 0.9·max]
	finalSizeHigh  = 0.9
	targetFloor    = 0.3 // targets are at least 0.3× the eater size when eaten
	initialCeiling = 0.5 // initial eater size is at most 0.5·max
)

// SolveParams configures Solve.
type SolveParams struct {
	NumTargets   int
	GrowthFactor float64
	MinSize      float64
	MaxSize      float64

	// MaxAttempts bounds retries after a failed verification.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Solution is the size-level result of Solve.
type Solution struct {
	InitialSize float64   // eater size before the first consumption
	Sizes       []float64 // target sizes indexed by target ID
	Order       []int     // verified eating order
	Attempts    int       // constructions needed, 1 when the first one verified
}

// Solve derives an initial eater size, target sizes and a verified eating
// order. Every returned size lies in [MinSize, MaxSize].
//
// Sizes are built backwards from a random final eater size: the target
// eaten at each step is drawn no larger than the eater at that step, then
// the eater is shrunk by the growth factor. The result is rescaled and
// clamped into bounds, the order is recomputed greedily, and the whole
// construction is retried when verification fails.
func Solve(rng *rand.Rand, p SolveParams) (Solution, error) {
	if err := p.validate(); err != nil {
		return Solution{}, err
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		initial, sizes := construct(rng, p)
		order, _ := GreedyOrder(initial, sizes, p.GrowthFactor)
		if err := Verify(initial, sizes, order, p.GrowthFactor); err != nil {
			lastErr = err
			continue
		}
		return Solution{
			InitialSize: initial,
			Sizes:       sizes,
			Order:       order,
			Attempts:    attempt,
		}, nil
	}
	return Solution{}, &apperrors.AttemptsExhaustedError{Attempts: attempts, Last: lastErr}
}

func (p SolveParams) validate() error {
	if p.NumTargets < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "number of targets must be >= 1, got %d", p.NumTargets)
	}
	if err := apperrors.ValidateGrowthFactor(p.GrowthFactor); err != nil {
		return err
	}
	return apperrors.ValidateSizeBounds(p.MinSize, p.MaxSize)
}

// construct runs one backward construction and returns the initial eater
// size plus target sizes in chronological order.
func construct(rng *rand.Rand, p SolveParams) (float64, []float64) {
	minSize, maxSize, g := p.MinSize, p.MaxSize, p.GrowthFactor

	cur := uniform(rng, finalSizeLow*maxSize, finalSizeHigh*maxSize)
	sizes := make([]float64, 0, p.NumTargets)
	for range p.NumTargets {
		// cur is the eater size right after this step. Targets bounded by the
		// post-step size do not always fit the pre-step eater; Verify catches that.
		sizes = append(sizes, uniform(rng, max(minSize, targetFloor*cur), cur))
		cur /= g
	}
	slices.Reverse(sizes)
	initial := cur

	ceiling := initialCeiling * maxSize
	if initial < minSize {
		scaleAll(sizes, minSize/initial)
		initial = minSize
	}
	if initial > ceiling {
		scale := ceiling / initial
		scaleAll(sizes, scale)
		initial *= scale
	}

	for i, s := range sizes {
		sizes[i] = clamp(s, minSize, maxSize)
	}
	initial = clamp(initial, minSize, ceiling)

	if smallest := slices.Min(sizes); initial < smallest {
		initial = smallest
	}
	return initial, sizes
}

func scaleAll(sizes []float64, k float64) {
	for i := range sizes {
		sizes[i] *= k
	}
}

// uniform draws from [lo, hi). The bounds may be given in either order.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
