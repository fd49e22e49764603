package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestKeyAtRoundsToNearestCell(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl64.Vec3
		want ChunkKey
	}{
		{name: "origin", pos: mgl64.Vec3{0, 0, 0}, want: ChunkKey{0, 0}},
		{name: "just inside", pos: mgl64.Vec3{31.9, 5, 0}, want: ChunkKey{0, 0}},
		{name: "half rounds up", pos: mgl64.Vec3{32, 0, 0}, want: ChunkKey{1, 0}},
		{name: "negative z maps to positive j", pos: mgl64.Vec3{0, 0, -64}, want: ChunkKey{0, 1}},
		{name: "positive z maps to negative j", pos: mgl64.Vec3{0, 0, 70}, want: ChunkKey{0, -1}},
		{name: "negative x", pos: mgl64.Vec3{-100, 0, 0}, want: ChunkKey{-2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyAt(tt.pos, 64); got != tt.want {
				t.Fatalf("KeyAt(%v) = %v want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestNeighborhoodIsDistinctAndCentred(t *testing.T) {
	center := ChunkKey{I: 3, J: -2}
	keys := Neighborhood(center)
	if keys[0] != center {
		t.Fatalf("expected centre first, got %v", keys[0])
	}
	seen := make(map[ChunkKey]struct{})
	for _, k := range keys {
		if abs(k.I-center.I) > 1 || abs(k.J-center.J) > 1 {
			t.Fatalf("key %v outside 3x3 block", k)
		}
		seen[k] = struct{}{}
	}
	if len(seen) != 9 {
		t.Fatalf("expected 9 distinct keys, got %d", len(seen))
	}
}

func TestFinite(t *testing.T) {
	if !Finite(mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("expected finite vector")
	}
	if Finite(mgl64.Vec3{math.NaN(), 0, 0}) {
		t.Fatalf("NaN should not be finite")
	}
	if Finite(mgl64.Vec3{0, 0, math.Inf(-1)}) {
		t.Fatalf("-Inf should not be finite")
	}
}

func TestPlanarDistanceIgnoresHeight(t *testing.T) {
	a := mgl64.Vec3{0, 100, 0}
	b := mgl64.Vec3{3, -50, 4}
	if got := PlanarDistanceSq(a, b); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
