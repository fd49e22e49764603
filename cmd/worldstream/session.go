package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/config"
	"worldstream/internal/environment"
)

const (
	eyeHeight      = 1.7
	turnRate       = 0.15 // radians per second
	pickupDiameter = 3
	reportEvery    = 120
)

// simulate walks the viewpoint along a widening arc, picking up any litter it
// passes, until the session's tick budget runs out or ctx is cancelled.
func simulate(ctx context.Context, env *environment.Environment, session config.SessionConfig, logger *log.Logger) error {
	dt := session.TickRate.Duration()
	if dt <= 0 {
		dt = 16 * time.Millisecond
	}
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	pos := mgl64.Vec3{}
	heading := 0.0
	collected := 0
	for tick := 0; session.Ticks == 0 || tick < session.Ticks; tick++ {
		select {
		case <-ctx.Done():
			logger.Printf("walk interrupted after %d ticks", tick)
			return nil
		case <-ticker.C:
		}

		heading += turnRate * dt.Seconds()
		step := session.Speed * dt.Seconds()
		pos = pos.Add(mgl64.Vec3{math.Cos(heading) * step, 0, -math.Sin(heading) * step})
		if ground, ok := env.GroundHeight(pos.X(), pos.Z()); ok {
			pos[1] = ground + eyeHeight
		}

		if err := env.Update(dt, pos); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		if target := env.NearestDecisionPoint(pos, pickupDiameter); target != nil && env.RemoveDecisionPoint(target) {
			collected++
		}

		if tick%reportEvery == 0 {
			stats := env.Stats()
			atmosphere := env.Atmosphere()
			logger.Printf("tick %d at (%.1f, %.1f, %.1f): health %.3f ambient %.2f fog %.2f, %d visible, %d collected",
				tick, pos.X(), pos.Y(), pos.Z(), stats.Health, atmosphere.Ambient, atmosphere.FogDensity, stats.Visible, collected)
		}
	}
	return nil
}
