package synth

import "math/rand"

// Stream is a deterministic pseudo-random stream owned by a single
// generator instance. Two streams created with the same seed produce
// identical draw sequences for the same call order, which makes
// per-host metric synthesis reproducible. Not safe for concurrent use.
type Stream struct {
	r *rand.Rand
}

// NewStream creates a stream seeded from a host id.
func NewStream(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a uniform draw in [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Gauss returns a draw from Normal(mean, stddev).
func (s *Stream) Gauss(mean, stddev float64) float64 {
	return mean + s.r.NormFloat64()*stddev
}

// Intn returns a uniform draw in [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// IntBetween returns a uniform draw in [lo, hi], inclusive on both ends.
func (s *Stream) IntBetween(lo, hi int) int {
	return lo + s.r.Intn(hi-lo+1)
}

// Int64Between returns a uniform draw in [lo, hi], inclusive on both ends.
func (s *Stream) Int64Between(lo, hi int64) int64 {
	return lo + s.r.Int63n(hi-lo+1)
}

// Pick returns a uniformly chosen element of opts. Panics on empty input.
func Pick[T any](s *Stream, opts []T) T {
	return opts[s.r.Intn(len(opts))]
}

// AddNoise perturbs value with Gaussian noise proportional to its
// magnitude and floors the result at zero.
func (s *Stream) AddNoise(value, factor float64) float64 {
	noise := s.Gauss(0, value*factor)
	if v := value + noise; v > 0 {
		return v
	}
	return 0
}
