package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sample is one height-field point on the world plane. Y runs along world -Z.
type Sample struct {
	X      float64
	Y      float64
	Height float64
}

// Position is the sample's 3D world position.
func (s Sample) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.X, s.Height, -s.Y}
}

// Grid is a (Width+1) x (Height+1) lattice of samples stored row-major.
type Grid struct {
	Width   int
	Height  int
	Samples []Sample
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:   width,
		Height:  height,
		Samples: make([]Sample, (width+1)*(height+1)),
	}
}

// Index returns the flat offset of cell (i, j).
func (g *Grid) Index(i, j int) int {
	return j*(g.Width+1) + i
}

func (g *Grid) At(i, j int) Sample {
	return g.Samples[g.Index(i, j)]
}

// HeightAt bilinearly interpolates the ground height under world point (x, z).
// It reports false when the point lies outside the grid.
func (g *Grid) HeightAt(x, z float64) (float64, bool) {
	if len(g.Samples) == 0 {
		return 0, false
	}
	origin := g.Samples[0]
	fi := x - origin.X
	fj := -z - origin.Y
	if fi < 0 || fj < 0 || fi > float64(g.Width) || fj > float64(g.Height) {
		return 0, false
	}
	i0 := int(math.Floor(fi))
	j0 := int(math.Floor(fj))
	i1 := min(i0+1, g.Width)
	j1 := min(j0+1, g.Height)
	tx := fi - float64(i0)
	tz := fj - float64(j0)

	h00 := g.At(i0, j0).Height
	h10 := g.At(i1, j0).Height
	h01 := g.At(i0, j1).Height
	h11 := g.At(i1, j1).Height
	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz, true
}

// Mesh is the renderable surface of a chunk.
type Mesh struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
}

func NewMesh(vertices int) *Mesh {
	return &Mesh{Positions: make([]mgl64.Vec3, 0, vertices)}
}

func (m *Mesh) Append(p mgl64.Vec3) {
	m.Positions = append(m.Positions, p)
}

// Triangulate emits two counter-clockwise triangles per grid cell and
// computes smooth vertex normals. Positions must already hold the
// (width+1) x (height+1) vertices in row-major order.
func (m *Mesh) Triangulate(width, height int) {
	stride := width + 1
	m.Indices = make([]uint32, 0, width*height*6)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			a := uint32(j*stride + i)
			b := a + 1
			c := a + uint32(stride)
			d := c + 1
			m.Indices = append(m.Indices, a, b, c, b, d, c)
		}
	}

	m.Normals = make([]mgl64.Vec3, len(m.Positions))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		ia, ib, ic := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa := m.Positions[ia]
		face := m.Positions[ib].Sub(pa).Cross(m.Positions[ic].Sub(pa))
		m.Normals[ia] = m.Normals[ia].Add(face)
		m.Normals[ib] = m.Normals[ib].Add(face)
		m.Normals[ic] = m.Normals[ic].Add(face)
	}
	for i, n := range m.Normals {
		if n.Len() == 0 {
			m.Normals[i] = mgl64.Vec3{0, 1, 0}
			continue
		}
		m.Normals[i] = n.Normalize()
	}
}
