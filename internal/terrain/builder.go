package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/assets"
	"worldstream/internal/config"
	"worldstream/internal/entities"
	"worldstream/internal/geom"
	"worldstream/internal/rng"
	"worldstream/internal/world"
)

type scatterCategory struct {
	cfg       config.CategoryConfig
	kind      entities.Category
	templates []assets.Template
}

// Builder generates chunks: it samples the height map, builds the surface
// mesh and scatters entities in a single row-major pass.
type Builder struct {
	chunkSize  int
	heights    *HeightMap
	src        *rng.Source
	categories []scatterCategory
	material   string
}

func NewBuilder(chunkSize int, heights *HeightMap, src *rng.Source, categories []config.CategoryConfig, registry *assets.Registry) (*Builder, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("terrain: chunk size must be positive, got %d", chunkSize)
	}
	if heights == nil || src == nil || registry == nil {
		return nil, fmt.Errorf("terrain: builder needs a height map, random source and asset registry")
	}

	b := &Builder{
		chunkSize: chunkSize,
		heights:   heights,
		src:       src,
		material:  registry.Ground().Name,
	}
	for _, cfg := range categories {
		kind, err := entities.ParseCategory(cfg.Category)
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", cfg.Name, err)
		}
		if len(cfg.Templates) == 0 {
			return nil, fmt.Errorf("scatter %q: no templates", cfg.Name)
		}
		if err := registry.Require(cfg.Templates...); err != nil {
			return nil, fmt.Errorf("scatter %q: %w", cfg.Name, err)
		}
		templates := make([]assets.Template, 0, len(cfg.Templates))
		for _, name := range cfg.Templates {
			tpl, _ := registry.Template(name)
			templates = append(templates, tpl)
		}
		b.categories = append(b.categories, scatterCategory{cfg: cfg, kind: kind, templates: templates})
	}
	return b, nil
}

// Generate builds the chunk at key. Scatter draws are taken in vertex order
// and, per vertex, in category order, so the world depends only on the seed
// and the order in which chunks are first generated.
func (b *Builder) Generate(key geom.ChunkKey) (*world.Chunk, error) {
	x0, y0 := key.Origin(b.chunkSize)
	grid := b.heights.Sample(b.chunkSize, b.chunkSize, x0, y0)
	mesh := world.NewMesh(len(grid.Samples))
	chunk := world.NewChunk(key, grid, mesh, b.material)

	for idx, sample := range grid.Samples {
		pos := sample.Position()
		mesh.Append(pos)
		for i := range b.categories {
			if ent := b.scatter(key, idx, sample.Height, pos, &b.categories[i]); ent != nil {
				chunk.Entities = append(chunk.Entities, ent)
			}
		}
	}
	mesh.Triangulate(grid.Width, grid.Height)
	return chunk, nil
}

func (b *Builder) scatter(key geom.ChunkKey, vertex int, height float64, pos mgl64.Vec3, cat *scatterCategory) *entities.Entity {
	if height <= cat.cfg.MinHeight || height >= cat.cfg.MaxHeight {
		return nil
	}
	if !Spawns(b.src, cat.cfg.Prevalence) {
		return nil
	}

	tpl := cat.templates[0]
	if len(cat.templates) > 1 {
		tpl = cat.templates[b.src.Intn(len(cat.templates))]
	}
	scale := b.between(cat.cfg.Scale)
	health := entities.HealthRange{
		Min: b.between(cat.cfg.HealthMin),
		Max: b.between(cat.cfg.HealthMax),
	}
	if health.Min > health.Max {
		health.Min, health.Max = health.Max, health.Min
	}
	influence := 0.0
	if cat.kind == entities.CategoryLitter {
		influence = b.between(cat.cfg.Influence)
	}
	clip := -1
	if tpl.Animated() {
		clip = b.src.Intn(len(tpl.Animations))
	}

	return &entities.Entity{
		ID:        entities.NewID(key, vertex, cat.cfg.Name),
		Category:  cat.kind,
		Kind:      cat.cfg.Name,
		Template:  tpl.Name,
		Position:  pos,
		Scale:     scale,
		Health:    health,
		Influence: influence,
		Clip:      clip,
		Chunk:     key,
	}
}

func (b *Builder) between(r config.Range) float64 {
	return b.src.Between(r.Min, r.Max)
}

// Spawns draws once from src and reports whether a vertex that passed the
// height gate spawns an entity with the given prevalence percentage.
func Spawns(src *rng.Source, prevalence float64) bool {
	return src.Next()*100 < prevalence
}
