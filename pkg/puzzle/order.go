package puzzle

import (
	"errors"
	"fmt"
)

// ErrUnsolvable is returned by Verify when an eating order cannot be replayed.
var ErrUnsolvable = errors.New("unsolvable eating order")

// GreedyOrder computes an eating order by repeatedly consuming the largest
// target that is no larger than the eater's current size. Ties go to the
// lowest ID. The eater grows by g after every consumption.
//
// If at some point no remaining target fits, the remaining IDs are appended
// in ascending order and stalled is true. A stalled order always fails
// Verify, so Solve never returns one.
func GreedyOrder(initial float64, sizes []float64, g float64) (order []int, stalled bool) {
	remaining := make([]bool, len(sizes))
	for i := range remaining {
		remaining[i] = true
	}

	order = make([]int, 0, len(sizes))
	cur := initial
	for len(order) < len(sizes) {
		best := -1
		for id, size := range sizes {
			if !remaining[id] || size > cur {
				continue
			}
			if best < 0 || size > sizes[best] {
				best = id
			}
		}
		if best < 0 {
			// Nothing fits, so the smallest remaining target is too large as well.
			stalled = true
			break
		}
		order = append(order, best)
		remaining[best] = false
		cur *= g
	}

	if stalled {
		for id, left := range remaining {
			if left {
				order = append(order, id)
			}
		}
	}
	return order, stalled
}

// Verify replays order against the initial size and growth factor.
// sizes is indexed by target ID. It fails when the order is not a
// permutation of all IDs or a target is larger than the eater when eaten.
func Verify(initial float64, sizes []float64, order []int, g float64) error {
	m := make(map[int]float64, len(sizes))
	for id, s := range sizes {
		m[id] = s
	}
	return verifyMap(initial, m, order, g)
}

func verifyMap(initial float64, sizes map[int]float64, order []int, g float64) error {
	if len(order) != len(sizes) {
		return fmt.Errorf("%w: order has %d entries for %d targets", ErrUnsolvable, len(order), len(sizes))
	}

	seen := make(map[int]bool, len(order))
	cur := initial
	for step, id := range order {
		size, ok := sizes[id]
		if !ok {
			return fmt.Errorf("%w: step %d references unknown target %d", ErrUnsolvable, step, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: target %d eaten twice", ErrUnsolvable, id)
		}
		seen[id] = true
		if size > cur {
			return fmt.Errorf("%w: step %d target %d (%.3f) larger than eater (%.3f)", ErrUnsolvable, step, id, size, cur)
		}
		cur *= g
	}
	return nil
}
