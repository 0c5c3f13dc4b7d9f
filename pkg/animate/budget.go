package animate

import "math"

const (
	// HoldFrames is the number of frames shown before the first move and
	// after the last meal.
	HoldFrames = 4

	// MinPhaseFrames is the floor for every move and grow phase.
	MinPhaseFrames = 3

	// MinGrowFrames and MaxGrowFrames bound the grow phase when the budget
	// leaves room for it.
	MinGrowFrames = 6
	MaxGrowFrames = 12
)

// Budget is the per-phase frame allocation for one animation.
type Budget struct {
	MaxFrames int // hard cap, floor(MaxDuration × FPS)
	Move      int // frames per move phase
	Grow      int // frames per grow phase
	Hold      int // frames per hold (initial and final each)
}

// PlanBudget allocates frames for numTargets consumptions.
// The remaining budget after both holds is split evenly over the
// 2 × numTargets phases with a floor of MinPhaseFrames per phase.
func PlanBudget(numTargets, fps int, maxDuration float64) Budget {
	b := Budget{
		MaxFrames: MaxFrames(fps, maxDuration),
		Move:      MinPhaseFrames,
		Grow:      MinGrowFrames,
		Hold:      HoldFrames,
	}
	if numTargets <= 0 {
		return b
	}

	available := b.MaxFrames - 2*HoldFrames
	perPhase := max(MinPhaseFrames, available/(2*numTargets))
	b.Move = max(MinPhaseFrames, perPhase)
	b.Grow = min(MaxGrowFrames, max(MinGrowFrames, perPhase))
	return b
}

// MaxFrames returns floor(maxDuration × fps), or 0 for non-positive input.
func MaxFrames(fps int, maxDuration float64) int {
	if fps <= 0 || maxDuration <= 0 {
		return 0
	}
	return int(math.Floor(maxDuration * float64(fps)))
}

// Naive returns the frame count before any downsampling.
func (b Budget) Naive(numTargets int) int {
	return 2*b.Hold + numTargets*(b.Move+b.Grow)
}
