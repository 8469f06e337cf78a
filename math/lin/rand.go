package lin

import (
	"gonum.org/v1/gonum/stat/distuv"

	grand "golang.org/x/exp/rand"
)

// RandomState is a seedable PRNG with an epoch counter. Every Uniform or
// Normal call draws a fresh sample from the source, so an expression that
// calls randu()/randn() gets a new value each time it is evaluated. The
// epoch counter is advanced by BumpEpoch and read by Epoch; it does not
// affect the samples drawn.
//
// Grounded on gonum's distuv distributions (7blacky7-ollama-reverse's
// gonum.org/v1/gonum dependency) rather than a hand-rolled generator.
type RandomState struct {
	seed  uint64
	src   grand.Source
	epoch uint64
}

// NewRandomState returns a RandomState seeded with seed.
func NewRandomState(seed uint64) *RandomState {
	r := &RandomState{seed: seed}
	r.src = grand.NewSource(seed)
	return r
}

// Seed reseeds the generator and resets the epoch to zero.
func (r *RandomState) Seed(seed uint64) {
	r.seed = seed
	r.src = grand.NewSource(seed)
	r.epoch = 0
}

// Epoch returns the current epoch counter.
func (r *RandomState) Epoch() uint64 { return r.epoch }

// BumpEpoch advances the epoch by one. CompositeModel.updateRandState
// calls it on a nested model's state, and OMModel.UpdateRandState calls it
// on the top-level state after bumping every nested model's.
func (r *RandomState) BumpEpoch() { r.epoch++ }

// Uniform returns a sample from the uniform distribution on [0, 1).
func (r *RandomState) Uniform() float64 {
	return distuv.Uniform{Min: 0, Max: 1, Src: r.src}.Rand()
}

// Normal returns a sample from the standard normal distribution.
func (r *RandomState) Normal() float64 {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: r.src}.Rand()
}
