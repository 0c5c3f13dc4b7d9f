package puzzle

import (
	"fmt"
	"math"
	"slices"
)

// Ball is a disc on the canvas. Size is the diameter; X and Y locate the center.
type Ball struct {
	Size float64 `json:"size"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Radius returns half the ball's diameter.
func (b Ball) Radius() float64 { return b.Size / 2 }

// Target is a ball the eater can consume. ID is unique within an instance
// and is the value referenced by the eating order.
type Target struct {
	Ball
	ID int `json:"id"`
}

// Instance is a fully constructed puzzle. It is treated as immutable once
// returned by Generate; helpers return copies rather than mutating it.
type Instance struct {
	Eater        Ball     `json:"eater"`
	Targets      []Target `json:"targets"`
	Order        []int    `json:"eating_order"`
	GrowthFactor float64  `json:"growth_factor"`
}

// Target returns the target with the given ID.
func (in Instance) Target(id int) (Target, bool) {
	for _, t := range in.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

// TargetIDs returns all target IDs in ascending order.
func (in Instance) TargetIDs() []int {
	ids := make([]int, len(in.Targets))
	for i, t := range in.Targets {
		ids[i] = t.ID
	}
	slices.Sort(ids)
	return ids
}

// FinalSize is the eater's size after consuming every target.
func (in Instance) FinalSize() float64 {
	return in.Eater.Size * math.Pow(in.GrowthFactor, float64(len(in.Targets)))
}

// Replay returns the eater size after each consumption in Order.
// The returned slice has one entry per eaten target.
func (in Instance) Replay() []float64 {
	sizes := make([]float64, 0, len(in.Order))
	cur := in.Eater.Size
	for range in.Order {
		cur *= in.GrowthFactor
		sizes = append(sizes, cur)
	}
	return sizes
}

// Validate checks the solvability invariant for the instance's own order.
func (in Instance) Validate() error {
	sizes := make(map[int]float64, len(in.Targets))
	for _, t := range in.Targets {
		if _, dup := sizes[t.ID]; dup {
			return fmt.Errorf("%w: duplicate target id %d", ErrUnsolvable, t.ID)
		}
		sizes[t.ID] = t.Size
	}
	return verifyMap(in.Eater.Size, sizes, in.Order, in.GrowthFactor)
}

// CheckBounds reports the first size outside [minSize, maxSize].
func (in Instance) CheckBounds(minSize, maxSize float64) error {
	if in.Eater.Size < minSize || in.Eater.Size > maxSize {
		return fmt.Errorf("eater size %.3f outside [%v, %v]", in.Eater.Size, minSize, maxSize)
	}
	for _, t := range in.Targets {
		if t.Size < minSize || t.Size > maxSize {
			return fmt.Errorf("target %d size %.3f outside [%v, %v]", t.ID, t.Size, minSize, maxSize)
		}
	}
	return nil
}
