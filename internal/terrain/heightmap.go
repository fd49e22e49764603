// Package terrain turns noise into height grids and populated chunks.
package terrain

import (
	"fmt"
	"log"
	"math"

	"worldstream/internal/config"
	"worldstream/internal/noise"
	"worldstream/internal/world"
)

// HeightMap is a fractal sum of noise octaves. It holds no mutable state, so
// Probe is a pure function of its configuration and arguments.
type HeightMap struct {
	cfg         config.TerrainConfig
	noise       noise.Provider
	persistence float64
}

func NewHeightMap(cfg config.TerrainConfig, provider noise.Provider) (*HeightMap, error) {
	if provider == nil {
		return nil, fmt.Errorf("terrain: noise provider is nil")
	}
	if cfg.Zoom <= 0 {
		return nil, fmt.Errorf("terrain: zoom must be positive, got %v", cfg.Zoom)
	}
	if cfg.Octaves < 1 {
		return nil, fmt.Errorf("terrain: octaves must be at least 1, got %d", cfg.Octaves)
	}
	return &HeightMap{
		cfg:         cfg,
		noise:       provider,
		persistence: math.Pow(2, -cfg.HurstExponent),
	}, nil
}

// Probe returns the height at plane point (x, y). The y axis is the grid's
// second axis, which runs along world -Z.
func (h *HeightMap) Probe(x, y float64) float64 {
	nx := x / h.cfg.Zoom
	ny := y / h.cfg.Zoom

	sum := 0.0
	amplitude := 1.0
	frequency := 1.0
	for k := 0; k < h.cfg.Octaves; k++ {
		sum += amplitude * h.noise.Noise2D(nx*frequency, ny*frequency)
		amplitude *= h.persistence
		frequency *= h.cfg.Lacunarity
	}
	return sum*h.cfg.NoiseStrength*h.cfg.Exaggeration + h.cfg.HeightOffset
}

// Sample probes a (width+1) x (height+1) grid centred on (xOff, yOff). Odd
// dimensions are bumped to the next even number so the centre cell lands
// exactly on the offset.
func (h *HeightMap) Sample(width, height int, xOff, yOff float64) *world.Grid {
	width = max(width, 0)
	height = max(height, 0)
	if width%2 != 0 {
		log.Printf("terrain: sample width %d is odd, using %d", width, width+1)
		width++
	}
	if height%2 != 0 {
		log.Printf("terrain: sample height %d is odd, using %d", height, height+1)
		height++
	}

	grid := world.NewGrid(width, height)
	for j := 0; j <= height; j++ {
		y := float64(j-height/2) + yOff
		for i := 0; i <= width; i++ {
			x := float64(i-width/2) + xOff
			grid.Samples[grid.Index(i, j)] = world.Sample{X: x, Y: y, Height: h.Probe(x, y)}
		}
	}
	return grid
}
