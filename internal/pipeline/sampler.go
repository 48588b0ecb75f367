package pipeline

import "math/rand/v2"

// BernoulliSampler includes each building independently with probability p.
// It is not safe for concurrent use; the pipeline samples sequentially so a
// fixed seed reproduces the same selection.
type BernoulliSampler struct {
	p   float64
	rng *rand.Rand
}

// NewBernoulliSampler creates a sampler. A zero seed draws a random one.
func NewBernoulliSampler(p float64, seed uint64) *BernoulliSampler {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &BernoulliSampler{
		p:   p,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Include draws u from [0,1) and keeps the building when u <= p.
func (s *BernoulliSampler) Include() bool {
	return s.rng.Float64() <= s.p
}

type includeAll struct{}

func (includeAll) Include() bool { return true }
