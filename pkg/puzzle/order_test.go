package puzzle

import (
	"errors"
	"slices"
	"testing"
)

func TestGreedyOrder(t *testing.T) {
	tests := []struct {
		name        string
		initial     float64
		sizes       []float64
		g           float64
		wantOrder   []int
		wantStalled bool
	}{
		{
			name:      "largest eatable first",
			initial:   30,
			sizes:     []float64{10, 25, 40},
			g:         1.4,
			wantOrder: []int{1, 2, 0}, // 30 eats 25 → 42 eats 40 → 58.8 eats 10
		},
		{
			name:      "ties go to lowest id",
			initial:   20,
			sizes:     []float64{20, 20},
			g:         1.5,
			wantOrder: []int{0, 1},
		},
		{
			name:      "single target",
			initial:   20,
			sizes:     []float64{20},
			g:         1.4,
			wantOrder: []int{0},
		},
		{
			name:      "empty",
			initial:   20,
			sizes:     nil,
			g:         1.4,
			wantOrder: []int{},
		},
		{
			name:        "stalls when nothing fits",
			initial:     10,
			sizes:       []float64{5, 50, 30},
			g:           1.2,
			wantOrder:   []int{0, 1, 2}, // eats 5, then 12 fits neither; leftovers ascending
			wantStalled: true,
		},
		{
			name:        "stalls immediately",
			initial:     10,
			sizes:       []float64{11, 12},
			g:           2,
			wantOrder:   []int{0, 1},
			wantStalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, stalled := GreedyOrder(tt.initial, tt.sizes, tt.g)
			if !slices.Equal(order, tt.wantOrder) {
				t.Errorf("order = %v, want %v", order, tt.wantOrder)
			}
			if stalled != tt.wantStalled {
				t.Errorf("stalled = %v, want %v", stalled, tt.wantStalled)
			}

			err := Verify(tt.initial, tt.sizes, order, tt.g)
			if tt.wantStalled && err == nil {
				t.Error("stalled order must fail verification")
			}
			if !tt.wantStalled && err != nil {
				t.Errorf("greedy order failed verification: %v", err)
			}
		})
	}
}

func TestGreedyOrderNeverStallsOnSolverOutput(t *testing.T) {
	p := SolveParams{NumTargets: 6, GrowthFactor: 1.4, MinSize: 20, MaxSize: 150}
	for seed := uint64(0); seed < 200; seed++ {
		sol, err := Solve(newRand(seed), p)
		if err != nil {
			t.Fatalf("seed %d: Solve() error: %v", seed, err)
		}
		order, stalled := GreedyOrder(sol.InitialSize, sol.Sizes, p.GrowthFactor)
		if stalled {
			t.Fatalf("seed %d: greedy ordering stalled on solver output (sizes %v, initial %v)", seed, sol.Sizes, sol.InitialSize)
		}
		if !slices.Equal(order, sol.Order) {
			t.Fatalf("seed %d: greedy order %v differs from solution order %v", seed, order, sol.Order)
		}
	}
}

func TestVerify(t *testing.T) {
	sizes := []float64{10, 25, 40}

	tests := []struct {
		name    string
		initial float64
		order   []int
		wantErr bool
	}{
		{"valid", 30, []int{1, 2, 0}, false},
		{"valid alternative", 30, []int{0, 1, 2}, false},
		{"too large", 30, []int{2, 1, 0}, true},
		{"short", 30, []int{1, 2}, true},
		{"long", 30, []int{1, 2, 0, 0}, true},
		{"duplicate", 30, []int{1, 1, 0}, true},
		{"unknown id", 30, []int{1, 2, 7}, true},
		{"grows too slowly", 10, []int{0, 1, 2}, true}, // 10 eats 10 → 14 cannot eat 25
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.initial, sizes, tt.order, 1.4)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsolvable) {
				t.Errorf("Verify() error should wrap ErrUnsolvable: %v", err)
			}
		})
	}

	if err := Verify(10, []float64{10}, []int{0}, 1.4); err != nil {
		t.Errorf("a target equal to the eater size should be eatable: %v", err)
	}
}
