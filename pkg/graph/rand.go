package graph

import "math/rand/v2"

// Source is the abstract random source required by the stochastic graph
// builders, matching the library boundary's "abstract trait with u32(),
// u64(), and bernoulli(arg) -> bool".
type Source interface {
	Uint32() uint32
	Uint64() uint64
	Bernoulli(p float64) bool
}

// PCGSource is the default Source, backed by math/rand/v2's PCG generator
// for reproducible, seedable randomized graph construction.
type PCGSource struct {
	rng *rand.Rand
}

// NewPCGSource seeds a PCGSource from a 128-bit seed pair.
func NewPCGSource(seed1, seed2 uint64) *PCGSource {
	return &PCGSource{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *PCGSource) Uint32() uint32 { return uint32(s.rng.Uint64() >> 32) }

func (s *PCGSource) Uint64() uint64 { return s.rng.Uint64() }

// Bernoulli reports true with probability p, clamped to [0, 1].
func (s *PCGSource) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}
