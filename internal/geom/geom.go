package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkKey identifies a terrain chunk on the integer chunk grid. I follows
// world X and J follows world -Z.
type ChunkKey struct {
	I int
	J int
}

func (k ChunkKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.I, k.J)
}

// Add offsets the key by (di, dj).
func (k ChunkKey) Add(di, dj int) ChunkKey {
	return ChunkKey{I: k.I + di, J: k.J + dj}
}

// neighborhoodOffsets lists the centre, its 4-neighbours and its diagonals.
var neighborhoodOffsets = [9]struct{ di, dj int }{
	{0, 0},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
	{1, 1},
	{1, -1},
	{-1, 1},
	{-1, -1},
}

// KeyAt returns the chunk key whose cell is nearest to pos.
func KeyAt(pos mgl64.Vec3, chunkSize int) ChunkKey {
	size := float64(chunkSize)
	return ChunkKey{
		I: roundHalfUp(pos.X() / size),
		J: roundHalfUp(-pos.Z() / size),
	}
}

// Neighborhood returns the 3x3 block of keys around center, centre first.
func Neighborhood(center ChunkKey) [9]ChunkKey {
	var keys [9]ChunkKey
	for i, off := range neighborhoodOffsets {
		keys[i] = center.Add(off.di, off.dj)
	}
	return keys
}

// Origin returns the world-plane offset of the chunk's centre sample.
func (k ChunkKey) Origin(chunkSize int) (x, y float64) {
	return float64(k.I * chunkSize), float64(k.J * chunkSize)
}

// PlanarDistanceSq is the squared distance between a and b on the X/Z plane.
func PlanarDistanceSq(a, b mgl64.Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// roundHalfUp rounds .5 towards +Inf so the grid has no seam at negative
// coordinates.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
