// Package prompts holds the instruction texts shipped with each task.
package prompts

import (
	"math/rand/v2"
	"slices"
)

// DefaultTaskType is the task type used when none is configured.
const DefaultTaskType = "default"

var prompts = map[string][]string{
	DefaultTaskType: {
		"Animate the black ball moving to eat all red balls. The black ball can only eat red balls that are smaller than or equal to its current size. After eating each red ball, the black ball grows larger. Show smooth movement as the black ball approaches each target, the red ball disappearing when eaten, and the black ball growing after each consumption. Continue until all red balls are eaten and only the large black ball remains.",
		"Show the black ball systematically eating all red balls. The black ball must only attempt to eat red balls that are no larger than itself. Each time a red ball is eaten, it disappears and the black ball grows. Animate the black ball moving smoothly to each target, consuming it, and growing. The sequence continues until all red balls are gone.",
		"Demonstrate the black ball eating all red balls in a valid sequence. The black ball can only eat red balls that are smaller than or equal to its current size. Animate the black ball moving to each target, the red ball vanishing when eaten, and the black ball increasing in size. Continue until all red balls are consumed.",
	},
}

// All returns every prompt for taskType. Unknown types fall back to the
// default set. The returned slice is a copy.
func All(taskType string) []string {
	list, ok := prompts[taskType]
	if !ok {
		list = prompts[DefaultTaskType]
	}
	return slices.Clone(list)
}

// Pick returns one prompt for taskType chosen with rng.
func Pick(rng *rand.Rand, taskType string) string {
	list, ok := prompts[taskType]
	if !ok {
		list = prompts[DefaultTaskType]
	}
	return list[rng.IntN(len(list))]
}

// TaskTypes lists the known task types.
func TaskTypes() []string {
	types := make([]string, 0, len(prompts))
	for k := range prompts {
		types = append(types, k)
	}
	slices.Sort(types)
	return types
}
