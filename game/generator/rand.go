package generator

import "math/rand/v2"

// NewRand returns a deterministic generator for seed. Seed 0 is treated as 1.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
