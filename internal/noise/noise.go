// Package noise provides the coherent 2D noise sources behind the height
// synthesizer. Every provider draws its seed material from the shared
// world stream so a world seed reproduces the same terrain.
package noise

import (
	"fmt"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"worldstream/internal/rng"
)

// Provider is a pure function of (x, y) returning values roughly in [-1, 1].
type Provider interface {
	Noise2D(x, y float64) float64
}

const (
	KindSimplex     = "simplex"
	KindPerlin      = "perlin"
	KindOpenSimplex = "opensimplex"
	KindValue       = "value"
)

// Kinds lists the accepted provider names.
var Kinds = []string{KindSimplex, KindPerlin, KindOpenSimplex, KindValue}

// New builds the provider named by kind, consuming seed material from src.
// An empty kind selects simplex.
func New(kind string, src *rng.Source) (Provider, error) {
	if src == nil {
		return nil, fmt.Errorf("noise: random source is nil")
	}
	switch kind {
	case "", KindSimplex:
		return NewSimplex(src), nil
	case KindPerlin:
		return &perlinProvider{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, src.Int63())}, nil
	case KindOpenSimplex:
		return &openSimplexProvider{n: opensimplex.New(src.Int63())}, nil
	case KindValue:
		return NewValue(src.Int63()), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

type perlinProvider struct {
	p *perlin.Perlin
}

func (p *perlinProvider) Noise2D(x, y float64) float64 {
	return p.p.Noise2D(x, y)
}

type openSimplexProvider struct {
	n opensimplex.Noise
}

func (p *openSimplexProvider) Noise2D(x, y float64) float64 {
	return p.n.Eval2(x, y)
}
