package animate

import (
	"slices"

	"github.com/tanema/gween/ease"

	"github.com/matzehuels/balleat/pkg/puzzle"
)

// Phase identifies which part of the animation a frame belongs to.
type Phase string

// Animation phases.
const (
	PhaseHold Phase = "hold"
	PhaseMove Phase = "move"
	PhaseGrow Phase = "grow"
)

// WorldState is one frame's worth of animation data. Remaining lists the
// IDs of targets still on the canvas in ascending order.
type WorldState struct {
	EaterX    float64 `json:"eater_x"`
	EaterY    float64 `json:"eater_y"`
	EaterSize float64 `json:"eater_size"`
	Remaining []int   `json:"remaining"`

	Phase Phase `json:"phase"`
	Step  int   `json:"step"` // index into the eating order, -1 for holds
}

// Options configures Frames.
type Options struct {
	FPS         int     // frames per second of the target video
	MaxDuration float64 // seconds; caps the total number of frames

	// MoveEasing shapes the move phase. Nil means ease.Linear.
	// The grow phase is always linear.
	MoveEasing ease.TweenFunc
}

// Frames expands the instance's eating order into world states.
// The first state shows every target at the eater's initial position and
// size; the last shows no targets and the eater at its final size. The
// result never holds more than floor(MaxDuration × FPS) states.
func Frames(inst puzzle.Instance, opts Options) []WorldState {
	n := len(inst.Order)
	budget := PlanBudget(n, opts.FPS, opts.MaxDuration)
	easing := opts.MoveEasing
	if easing == nil {
		easing = ease.Linear
	}

	frames := make([]WorldState, 0, budget.Naive(n))
	remaining := inst.TargetIDs()
	x, y, size := inst.Eater.X, inst.Eater.Y, inst.Eater.Size

	snapshot := func(x, y, size float64, phase Phase, step int) WorldState {
		return WorldState{
			EaterX:    x,
			EaterY:    y,
			EaterSize: size,
			Remaining: slices.Clone(remaining),
			Phase:     phase,
			Step:      step,
		}
	}

	for range budget.Hold {
		frames = append(frames, snapshot(x, y, size, PhaseHold, -1))
	}

	for step, id := range inst.Order {
		target, ok := inst.Target(id)
		if !ok {
			continue
		}

		for i := range budget.Move {
			p := progress(easing, i, budget.Move)
			frames = append(frames, snapshot(lerp(x, target.X, p), lerp(y, target.Y, p), size, PhaseMove, step))
		}

		from := size
		to := size * inst.GrowthFactor
		remaining = slices.DeleteFunc(remaining, func(r int) bool { return r == id })
		x, y = target.X, target.Y

		for i := range budget.Grow {
			p := progress(ease.Linear, i, budget.Grow)
			frames = append(frames, snapshot(x, y, min(lerp(from, to, p), to), PhaseGrow, step))
		}
		size = to
	}

	for range budget.Hold {
		frames = append(frames, snapshot(x, y, size, PhaseHold, -1))
	}

	return Downsample(frames, budget.MaxFrames)
}

// Downsample returns at most limit elements of frames, picked at evenly
// spaced indices. The first and last elements are always kept when limit
// is at least 2. Slices within the limit are returned unchanged.
func Downsample[T any](frames []T, limit int) []T {
	if len(frames) <= limit {
		return frames
	}
	switch {
	case limit <= 0:
		return nil
	case limit == 1:
		return frames[:1]
	}

	out := make([]T, limit)
	last := len(frames) - 1
	for i := range limit {
		out[i] = frames[i*last/(limit-1)]
	}
	return out
}

// progress maps frame i of k to [0, 1] through the easing function.
// A single-frame phase jumps straight to the end.
func progress(fn ease.TweenFunc, i, k int) float64 {
	if k <= 1 {
		return 1
	}
	return float64(fn(float32(i), 0, 1, float32(k-1)))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
