package pipeline

import (
	"fmt"
	"math/rand/v2"
)

// TaskSeed derives the seed of task index from the batch seed with a
// SplitMix64 step, so neighbouring tasks get unrelated streams.
func TaskSeed(batchSeed uint64, index int) uint64 {
	z := batchSeed + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// NewRand returns a PCG generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TaskID formats the ID of task index, e.g. "ball_eating_0007".
func TaskID(domain string, index int) string {
	return fmt.Sprintf("%s_%04d", domain, index)
}
