package noise

import (
	"math"
	"strings"
	"testing"

	"worldstream/internal/rng"
)

func TestProvidersAreDeterministicPerSeed(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			a, err := New(kind, rng.New(1234))
			if err != nil {
				t.Fatalf("new %s: %v", kind, err)
			}
			b, err := New(kind, rng.New(1234))
			if err != nil {
				t.Fatalf("new %s: %v", kind, err)
			}
			src := rng.New(77)
			for i := 0; i < 500; i++ {
				x := src.Between(-1000, 1000)
				y := src.Between(-1000, 1000)
				va, vb := a.Noise2D(x, y), b.Noise2D(x, y)
				if va != vb {
					t.Fatalf("(%v,%v): %v != %v", x, y, va, vb)
				}
				if math.IsNaN(va) || math.Abs(va) > 1.5 {
					t.Fatalf("(%v,%v): value %v out of expected range", x, y, va)
				}
			}
		})
	}
}

func TestProvidersAreCoherent(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			p, err := New(kind, rng.New(5))
			if err != nil {
				t.Fatalf("new %s: %v", kind, err)
			}
			for i := 0; i < 100; i++ {
				x := float64(i) * 0.37
				d := math.Abs(p.Noise2D(x, 1.3) - p.Noise2D(x+1e-4, 1.3))
				if d > 0.01 {
					t.Fatalf("noise jumped by %v between adjacent samples at x=%v", d, x)
				}
			}
		})
	}
}

func TestSimplexConsumesStreamAndVariesBySeed(t *testing.T) {
	src := rng.New(9)
	NewSimplex(src)
	if src.Draws() != 255 {
		t.Fatalf("expected 255 draws for the permutation shuffle, got %d", src.Draws())
	}

	a := NewSimplex(rng.New(1))
	b := NewSimplex(rng.New(2))
	differs := false
	for i := 0; i < 50; i++ {
		x := float64(i)*1.7 + 0.3
		if a.Noise2D(x, x*0.5) != b.Noise2D(x, x*0.5) {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatalf("expected different seeds to yield different noise fields")
	}
}

func TestSimplexRange(t *testing.T) {
	s := NewSimplex(rng.New(11))
	src := rng.New(12)
	for i := 0; i < 20_000; i++ {
		v := s.Noise2D(src.Between(-500, 500), src.Between(-500, 500))
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("simplex value %v outside [-1,1]", v)
		}
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New("worley", rng.New(1))
	if err == nil || !strings.Contains(err.Error(), `unknown noise kind "worley"`) {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New(KindSimplex, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
