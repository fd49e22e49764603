package rng

import "math/rand/v2"

// pcgStream is fixed so a seed alone identifies a world.
const pcgStream = 0x9e3779b97f4a7c15

// Source is the single deterministic random stream shared by every world
// generation consumer. It is not safe for concurrent use.
type Source struct {
	seed  int64
	pcg   *rand.PCG
	draws uint64
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed rewinds the stream to the beginning of the sequence for seed.
func (s *Source) Seed(seed int64) {
	s.seed = seed
	s.pcg = rand.NewPCG(uint64(seed), pcgStream)
	s.draws = 0
}

// Initial returns the seed the stream was last seeded with.
func (s *Source) Initial() int64 {
	return s.seed
}

// Uint64 returns the next raw 64-bit output.
func (s *Source) Uint64() uint64 {
	s.draws++
	return s.pcg.Uint64()
}

// Next returns a uniform float in [0,1) built from the top 53 bits of the
// next output.
func (s *Source) Next() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// Between returns a + Next()*(b-a).
func (s *Source) Between(a, b float64) float64 {
	return a + s.Next()*(b-a)
}

// Intn returns an int in [0,n). It returns 0 without drawing when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Int63 returns a non-negative int64, used to seed third-party generators.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Draws reports how many outputs have been consumed since the last Seed.
func (s *Source) Draws() uint64 {
	return s.draws
}
