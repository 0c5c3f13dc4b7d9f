package animate

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/balleat/pkg/puzzle"
)

func generate(t *testing.T, seed uint64, numTargets int) puzzle.Instance {
	t.Helper()
	cfg := puzzle.DefaultConfig()
	cfg.MinTargets, cfg.MaxTargets = numTargets, numTargets
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	inst, _, err := puzzle.Generate(rng, cfg)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return inst
}

func TestPlanBudget(t *testing.T) {
	tests := []struct {
		name      string
		n, fps    int
		duration  float64
		want      Budget
		wantNaive int
	}{
		{"default six targets", 6, 10, 10, Budget{MaxFrames: 100, Move: 7, Grow: 7, Hold: 4}, 92},
		{"two targets", 2, 10, 10, Budget{MaxFrames: 100, Move: 23, Grow: 12, Hold: 4}, 78},
		{"tight budget", 6, 2, 5, Budget{MaxFrames: 10, Move: 3, Grow: 6, Hold: 4}, 62},
		{"grow floor", 8, 10, 10, Budget{MaxFrames: 100, Move: 5, Grow: 6, Hold: 4}, 96},
		{"fractional duration", 1, 30, 2.5, Budget{MaxFrames: 75, Move: 33, Grow: 12, Hold: 4}, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanBudget(tt.n, tt.fps, tt.duration)
			if got != tt.want {
				t.Errorf("PlanBudget() = %+v, want %+v", got, tt.want)
			}
			if naive := got.Naive(tt.n); naive != tt.wantNaive {
				t.Errorf("Naive() = %d, want %d", naive, tt.wantNaive)
			}
		})
	}
}

func TestMaxFrames(t *testing.T) {
	tests := []struct {
		fps      int
		duration float64
		want     int
	}{
		{10, 10, 100},
		{30, 2.5, 75},
		{24, 0.99, 23},
		{0, 10, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := MaxFrames(tt.fps, tt.duration); got != tt.want {
			t.Errorf("MaxFrames(%d, %v) = %d, want %d", tt.fps, tt.duration, got, tt.want)
		}
	}
}

func TestFramesScenario(t *testing.T) {
	inst := generate(t, 1, 6)
	opts := Options{FPS: 10, MaxDuration: 10}

	frames := Frames(inst, opts)
	naive := PlanBudget(6, 10, 10).Naive(6)
	if want := min(naive, 100); len(frames) != want {
		t.Fatalf("len(frames) = %d, want %d", len(frames), want)
	}
}

func TestFramesProperties(t *testing.T) {
	budgets := []struct {
		fps      int
		duration float64
	}{
		{10, 10},
		{2, 5},
		{30, 3},
		{1, 9},
		{24, 0.5},
	}

	for seed := uint64(0); seed < 40; seed++ {
		n := 1 + int(seed%6)
		inst := generate(t, seed, n)
		allIDs := inst.TargetIDs()

		for _, b := range budgets {
			frames := Frames(inst, Options{FPS: b.fps, MaxDuration: b.duration})
			limit := MaxFrames(b.fps, b.duration)

			if len(frames) > limit {
				t.Fatalf("seed %d fps %d dur %v: %d frames exceed cap %d", seed, b.fps, b.duration, len(frames), limit)
			}
			if len(frames) < 2 {
				t.Fatalf("seed %d: expected at least two frames, got %d", seed, len(frames))
			}

			first, last := frames[0], frames[len(frames)-1]
			if !slices.Equal(first.Remaining, allIDs) {
				t.Fatalf("seed %d: first frame remaining = %v, want %v", seed, first.Remaining, allIDs)
			}
			if first.EaterX != inst.Eater.X || first.EaterY != inst.Eater.Y || first.EaterSize != inst.Eater.Size {
				t.Fatalf("seed %d: first frame does not show the initial eater", seed)
			}
			if len(last.Remaining) != 0 {
				t.Fatalf("seed %d: last frame remaining = %v, want empty", seed, last.Remaining)
			}
			if want := inst.FinalSize(); math.Abs(last.EaterSize-want) > 1e-9*want {
				t.Fatalf("seed %d: last frame size = %v, want %v", seed, last.EaterSize, want)
			}
			lastTarget, _ := inst.Target(inst.Order[len(inst.Order)-1])
			if last.EaterX != lastTarget.X || last.EaterY != lastTarget.Y {
				t.Fatalf("seed %d: last frame should sit on the last eaten target", seed)
			}

			// Eater size never shrinks and remaining targets never come back.
			for i := 1; i < len(frames); i++ {
				if frames[i].EaterSize < frames[i-1].EaterSize {
					t.Fatalf("seed %d frame %d: size shrank %v → %v", seed, i, frames[i-1].EaterSize, frames[i].EaterSize)
				}
				if len(frames[i].Remaining) > len(frames[i-1].Remaining) {
					t.Fatalf("seed %d frame %d: a target reappeared", seed, i)
				}
			}
		}
	}
}

func TestFramesGrowPhase(t *testing.T) {
	inst := generate(t, 9, 4)
	frames := Frames(inst, Options{FPS: 10, MaxDuration: 10})

	size := inst.Eater.Size
	for step, id := range inst.Order {
		from, to := size, size*inst.GrowthFactor
		var grow []WorldState
		for _, f := range frames {
			if f.Phase == PhaseGrow && f.Step == step {
				grow = append(grow, f)
			}
		}
		if len(grow) == 0 {
			t.Fatalf("step %d: no grow frames", step)
		}

		for i, f := range grow {
			if f.EaterSize > to {
				t.Errorf("step %d frame %d: size %v overshoots %v", step, i, f.EaterSize, to)
			}
			if f.EaterSize < from {
				t.Errorf("step %d frame %d: size %v below start %v", step, i, f.EaterSize, from)
			}
			if i > 0 && f.EaterSize <= grow[i-1].EaterSize {
				t.Errorf("step %d frame %d: size not strictly increasing", step, i)
			}
			if slices.Contains(f.Remaining, id) {
				t.Errorf("step %d frame %d: eaten target %d still present", step, i, id)
			}
		}
		if math.Abs(grow[len(grow)-1].EaterSize-to) > 1e-9*to {
			t.Errorf("step %d: grow phase ends at %v, want %v", step, grow[len(grow)-1].EaterSize, to)
		}
		size = to
	}
}

func TestFramesMovePhase(t *testing.T) {
	inst := generate(t, 4, 3)
	budget := PlanBudget(3, 10, 10)
	frames := Frames(inst, Options{FPS: 10, MaxDuration: 10})

	// No downsampling happens for this budget, so phases line up exactly.
	if len(frames) != budget.Naive(3) {
		t.Fatalf("unexpected downsampling: %d frames", len(frames))
	}

	firstID := inst.Order[0]
	target, _ := inst.Target(firstID)
	move := frames[budget.Hold : budget.Hold+budget.Move]

	for i, f := range move {
		if f.Phase != PhaseMove || f.Step != 0 {
			t.Fatalf("frame %d: phase %s step %d, want move step 0", i, f.Phase, f.Step)
		}
		if f.EaterSize != inst.Eater.Size {
			t.Errorf("frame %d: eater grew while moving", i)
		}
		if !slices.Contains(f.Remaining, firstID) {
			t.Errorf("frame %d: target %d should be present while approaching", i, firstID)
		}
	}
	if move[0].EaterX != inst.Eater.X || move[0].EaterY != inst.Eater.Y {
		t.Error("move phase should start at the eater's position")
	}
	end := move[len(move)-1]
	if math.Abs(end.EaterX-target.X) > 1e-6 || math.Abs(end.EaterY-target.Y) > 1e-6 {
		t.Errorf("move phase ends at (%v, %v), want (%v, %v)", end.EaterX, end.EaterY, target.X, target.Y)
	}

	// Linear: consecutive steps are equally spaced.
	step := move[1].EaterX - move[0].EaterX
	for i := 2; i < len(move); i++ {
		if d := move[i].EaterX - move[i-1].EaterX; math.Abs(d-step) > 1e-3 {
			t.Errorf("frame %d: step %v differs from %v", i, d, step)
		}
	}
}

func TestFramesCustomEasing(t *testing.T) {
	inst := generate(t, 2, 2)
	fn, err := Easing("in-out-cubic")
	if err != nil {
		t.Fatalf("Easing() error: %v", err)
	}
	frames := Frames(inst, Options{FPS: 10, MaxDuration: 10, MoveEasing: fn})
	if len(frames[len(frames)-1].Remaining) != 0 {
		t.Error("eased animation should still end with no targets")
	}
}

func TestFramesNoTargets(t *testing.T) {
	inst := puzzle.Instance{Eater: puzzle.Ball{Size: 40, X: 100, Y: 100}, GrowthFactor: 1.4}
	frames := Frames(inst, Options{FPS: 10, MaxDuration: 10})
	if len(frames) != 2*HoldFrames {
		t.Fatalf("len(frames) = %d, want %d", len(frames), 2*HoldFrames)
	}
	for _, f := range frames {
		if f.EaterSize != 40 || len(f.Remaining) != 0 {
			t.Fatalf("unexpected frame %+v", f)
		}
	}
}

func TestFramesDoNotMutateInstance(t *testing.T) {
	inst := generate(t, 5, 4)
	before := slices.Clone(inst.Targets)
	order := slices.Clone(inst.Order)

	_ = Frames(inst, Options{FPS: 10, MaxDuration: 10})

	if !slices.Equal(before, inst.Targets) || !slices.Equal(order, inst.Order) {
		t.Error("Frames mutated the instance")
	}
}

func TestDownsample(t *testing.T) {
	seq := make([]int, 26)
	for i := range seq {
		seq[i] = i
	}

	tests := []struct {
		name  string
		limit int
		want  []int
	}{
		{"within limit", 30, seq},
		{"exact", 26, seq},
		{"ten", 10, []int{0, 2, 5, 8, 11, 13, 16, 19, 22, 25}},
		{"two", 2, []int{0, 25}},
		{"one", 1, []int{0}},
		{"zero", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Downsample(seq, tt.limit)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Downsample(%d) = %v, want %v", tt.limit, got, tt.want)
			}
		})
	}
}

func TestEasing(t *testing.T) {
	if _, err := Easing(""); err != nil {
		t.Errorf("empty easing should default to linear: %v", err)
	}
	for _, name := range EasingNames() {
		if _, err := Easing(name); err != nil {
			t.Errorf("Easing(%q) error: %v", name, err)
		}
	}
	if _, err := Easing("bogus"); err == nil {
		t.Error("unknown easing should fail")
	}
}
