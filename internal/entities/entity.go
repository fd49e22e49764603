package entities

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"worldstream/internal/geom"
)

type Category uint8

const (
	CategoryTree Category = iota + 1
	CategoryFlower
	CategoryCritter
	CategoryLitter
)

var categoryNames = map[Category]string{
	CategoryTree:    "tree",
	CategoryFlower:  "flower",
	CategoryCritter: "critter",
	CategoryLitter:  "litter",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory maps a configuration name onto a Category.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown entity category %q", name)
}

// HealthRange is the closed interval of environment health in which an
// entity may be shown.
type HealthRange struct {
	Min float64
	Max float64
}

func (r HealthRange) Contains(h float64) bool {
	return h >= r.Min && h <= r.Max
}

// Entity is a scattered object. Trees, flowers, critters and litter share the
// same shape; litter entities are decision points and carry an Influence.
type Entity struct {
	ID        uuid.UUID
	Category  Category
	Kind      string
	Template  string
	Position  mgl64.Vec3
	Scale     float64
	Health    HealthRange
	Influence float64
	Clip      int // animation clip, -1 when the template is static
	Chunk     geom.ChunkKey

	inScene bool
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("worldstream.entities"))

// NewID derives a stable identifier from the entity's chunk, the grid vertex
// it was scattered on and its configured kind.
func NewID(chunk geom.ChunkKey, vertex int, kind string) uuid.UUID {
	name := fmt.Sprintf("%d:%d:%d:%s", chunk.I, chunk.J, vertex, kind)
	return uuid.NewSHA1(idNamespace, []byte(name))
}

func (e *Entity) NodeID() string {
	return "entity/" + e.ID.String()
}

func (e *Entity) IsDecisionPoint() bool {
	return e.Category == CategoryLitter
}

// InScene reports whether the entity is currently attached to the scene graph.
func (e *Entity) InScene() bool {
	return e.inScene
}
