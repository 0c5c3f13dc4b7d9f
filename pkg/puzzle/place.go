package puzzle

import (
	"math"
	"math/rand/v2"
)

const (
	// PlacementAttempts is the rejection-sampling budget per ball.
	PlacementAttempts = 100

	// PlacementBuffer is the minimum gap kept between two discs.
	PlacementBuffer = 5.0

	// PlacementInset is the extra distance kept between a disc and the canvas edge.
	PlacementInset = 10.0
)

// Circle is an occupied disc used for overlap checks.
type Circle struct {
	X, Y, R float64
}

// Place draws a center for a ball of the given diameter so that its disc
// stays inside the width×height canvas (with PlacementInset to spare) and
// keeps PlacementBuffer away from every occupied circle.
//
// When no candidate clears all occupants within PlacementAttempts draws,
// Place returns the canvas center and ok is false. The caller must accept
// possible overlap in that case.
func Place(rng *rand.Rand, size, width, height float64, occupied []Circle) (x, y float64, ok bool) {
	r := size / 2
	margin := r + PlacementInset

	for range PlacementAttempts {
		x = uniform(rng, margin, width-margin)
		y = uniform(rng, margin, height-margin)
		if clears(x, y, r, occupied) {
			return x, y, true
		}
	}
	return width / 2, height / 2, false
}

func clears(x, y, r float64, occupied []Circle) bool {
	for _, o := range occupied {
		if math.Hypot(x-o.X, y-o.Y) < r+o.R+PlacementBuffer {
			return false
		}
	}
	return true
}
