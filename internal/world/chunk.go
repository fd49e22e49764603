package world

import (
	"fmt"

	"worldstream/internal/entities"
	"worldstream/internal/geom"
)

// Chunk is one square tile of terrain together with the entities scattered
// on it.
type Chunk struct {
	Key      geom.ChunkKey
	Grid     *Grid
	Mesh     *Mesh
	Material string
	Entities []*entities.Entity

	active  bool
	inScene bool
}

func NewChunk(key geom.ChunkKey, grid *Grid, mesh *Mesh, material string) *Chunk {
	return &Chunk{
		Key:      key,
		Grid:     grid,
		Mesh:     mesh,
		Material: material,
	}
}

func (c *Chunk) NodeID() string {
	return fmt.Sprintf("chunk/%d/%d", c.Key.I, c.Key.J)
}

// Active reports whether the chunk belongs to the current neighbourhood.
func (c *Chunk) Active() bool {
	return c.active
}

func (c *Chunk) InScene() bool {
	return c.inScene
}

// RemoveEntity drops e from the chunk's live entities.
func (c *Chunk) RemoveEntity(e *entities.Entity) bool {
	for i, ent := range c.Entities {
		if ent == e {
			c.Entities = append(c.Entities[:i], c.Entities[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Chunk) HeightAt(x, z float64) (float64, bool) {
	if c.Grid == nil {
		return 0, false
	}
	return c.Grid.HeightAt(x, z)
}
