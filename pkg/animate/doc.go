// Package animate expands a solved puzzle into a bounded sequence of world
// states, one per video frame.
//
// # Phases
//
// The sequence starts with a short hold on the initial configuration. Each
// consumption in the eating order then contributes two phases:
//
//   - Move: the eater travels from its previous position to the target.
//     The target is still visible.
//   - Grow: the target is gone and the eater grows linearly from its size
//     before the meal to that size times the growth factor, never beyond.
//
// A final hold shows the eater alone at its final size.
//
// # Frame Budget
//
// The total never exceeds floor(MaxDuration × FPS). [PlanBudget] splits the
// budget across phases with fixed floors, and if the floors alone overshoot
// the cap, [Downsample] keeps evenly spaced frames including the first and
// the last.
//
//	frames := animate.Frames(inst, animate.Options{FPS: 10, MaxDuration: 10})
package animate
