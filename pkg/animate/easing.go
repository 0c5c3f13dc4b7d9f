package animate

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tanema/gween/ease"
)

// EasingLinear is the default move easing.
const EasingLinear = "linear"

var easings = map[string]ease.TweenFunc{
	EasingLinear:   ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-cubic":    ease.OutCubic,
	"out-quad":     ease.OutQuad,
	"in-quad":      ease.InQuad,
}

// Easing looks up a move easing by name. The empty name maps to linear.
func Easing(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %q (must be one of: %v)", name, EasingNames())
	}
	return fn, nil
}

// EasingNames lists the supported easing names in sorted order.
func EasingNames() []string {
	return slices.Sorted(maps.Keys(easings))
}
