package gofugue

import (
	"math/rand"

	"github.com/GeoffreyPlitt/debuggo"
)

var rngDebug = debuggo.Debug("gofugue:rng")

// DeterministicRNG wraps math/rand behind a call-counted facade. §9's "RNG
// discipline" note requires every rng.next() call to be accounted for —
// reordering draws breaks reproducibility — so every method here is routed
// through a single counted entry point. The underlying generator is the
// standard library's (the original C++ implementation seeds a std::mt19937
// from the same uint32 seed; no library in the example pack offers a
// deterministic seeded PRNG, so this is the one place this module falls back
// to the standard library, matching the original's use of its own language's
// standard <random> facility rather than a third-party one).
type DeterministicRNG struct {
	seed   uint32
	source *rand.Rand
	draws  uint64
}

// NewDeterministicRNG constructs a generator seeded from seed. Identical
// seeds and identical call sequences always produce identical draws.
func NewDeterministicRNG(seed uint32) *DeterministicRNG {
	return &DeterministicRNG{
		seed:   seed,
		source: rand.New(rand.NewSource(int64(seed))),
	}
}

// Draws returns the number of draws made so far, for diagnostics/tests that
// want to assert a particular call count.
func (r *DeterministicRNG) Draws() uint64 { return r.draws }

func (r *DeterministicRNG) next() *rand.Rand {
	r.draws++
	return r.source
}

// Float64 returns a draw in [0,1).
func (r *DeterministicRNG) Float64() float64 {
	return r.next().Float64()
}

// Intn returns a draw in [0,n).
func (r *DeterministicRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.next().Intn(n)
}

// Bool returns true with probability p (clamped to [0,1]).
func (r *DeterministicRNG) Bool(p float64) bool {
	if p <= 0 {
		r.next()
		return false
	}
	if p >= 1 {
		r.next()
		return true
	}
	return r.next().Float64() < p
}

// WeightedChoice picks an index into weights proportional to its weight.
// Zero-sum weights fall back to index 0 (still consumes a draw, preserving
// call-count discipline).
func (r *DeterministicRNG) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := r.next().Float64()
	if total <= 0 {
		return 0
	}
	target := roll * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
