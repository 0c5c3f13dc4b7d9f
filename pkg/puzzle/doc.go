// Package puzzle constructs solvable ball-eating instances.
//
// An instance consists of one eater ball, a set of smaller target balls and
// an eating order. Replaying the order from the eater's initial size, and
// multiplying the size by the growth factor after every consumption, never
// requires the eater to swallow a target larger than itself.
//
// # Construction
//
// [Solve] builds the sizes backwards from a random final eater size, so a
// valid order exists by construction. The order itself is recomputed with a
// greedy rule ([GreedyOrder]: always eat the largest target that fits) and
// checked with [Verify]. Verification failures are retried a bounded number
// of times before a GENERATION_FAILED error is returned.
//
// [Place] then assigns non-overlapping positions by rejection sampling,
// falling back to the canvas center when the retry budget runs out.
//
// # Randomness
//
// Every function that draws random numbers takes an explicit *rand.Rand.
// Seed one generator per instance to get reproducible output that does not
// depend on scheduling when instances are generated in parallel:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
//	inst, stats, err := puzzle.Generate(rng, puzzle.DefaultConfig())
package puzzle
