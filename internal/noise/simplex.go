package noise

import (
	"math"

	"worldstream/internal/rng"
)

var grad3 = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

const (
	f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
)

// Simplex is 2D simplex noise over a permutation table shuffled by the world
// stream.
type Simplex struct {
	perm      [512]uint8
	permMod12 [512]uint8
}

// NewSimplex shuffles the permutation table with 255 draws from src.
func NewSimplex(src *rng.Source) *Simplex {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := src.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	s := &Simplex{}
	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
		s.permMod12[i] = s.perm[i] % 12
	}
	return s
}

// Noise2D returns simplex noise in [-1, 1].
func (s *Simplex) Noise2D(x, y float64) float64 {
	skew := (x + y) * f2
	i := math.Floor(x + skew)
	j := math.Floor(y + skew)
	unskew := (i + j) * g2
	x0 := x - (i - unskew)
	y0 := y - (j - unskew)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := int(i) & 255
	jj := int(j) & 255
	gi0 := s.permMod12[ii+int(s.perm[jj])]
	gi1 := s.permMod12[ii+i1+int(s.perm[jj+j1])]
	gi2 := s.permMod12[ii+1+int(s.perm[jj+1])]

	return 70 * (corner(gi0, x0, y0) + corner(gi1, x1, y1) + corner(gi2, x2, y2))
}

func corner(gi uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y)
}
