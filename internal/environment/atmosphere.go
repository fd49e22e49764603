package environment

import (
	"math"
	"time"
)

// atmosphereEasing is the time constant of the exponential approach towards
// the health target.
const atmosphereEasing = 2 * time.Second

// Atmosphere is what the renderer needs to reflect environment health: a
// healthy world is bright and clear, a degraded one dim, hazy and tinted.
type Atmosphere struct {
	Ambient    float64
	FogDensity float64
	Tint       float64
}

func atmosphereFor(health float64) Atmosphere {
	health = clamp01(health)
	decay := 1 - health
	return Atmosphere{
		Ambient:    clamp01(0.35 + 0.65*health),
		FogDensity: clamp01(0.02 + 0.3*decay),
		Tint:       clamp01(0.4 * decay),
	}
}

func (a Atmosphere) easeTowards(target Atmosphere, delta time.Duration) Atmosphere {
	if delta <= 0 {
		return a
	}
	t := 1 - math.Exp(-delta.Seconds()/atmosphereEasing.Seconds())
	return Atmosphere{
		Ambient:    a.Ambient + (target.Ambient-a.Ambient)*t,
		FogDensity: a.FogDensity + (target.FogDensity-a.FogDensity)*t,
		Tint:       a.Tint + (target.Tint-a.Tint)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
