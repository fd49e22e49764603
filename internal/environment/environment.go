// Package environment ties the terrain streamer, the scattered entities and
// the environment health scalar together behind one per-frame entry point.
package environment

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/assets"
	"worldstream/internal/config"
	"worldstream/internal/entities"
	"worldstream/internal/geom"
	"worldstream/internal/noise"
	"worldstream/internal/rng"
	"worldstream/internal/scene"
	"worldstream/internal/spatial"
	"worldstream/internal/terrain"
	"worldstream/internal/world"
)

type Stats struct {
	Chunks         world.Stats
	Entities       int
	DecisionPoints int
	Visible        int
	Health         float64
}

// Environment owns the world state. It is driven from a single goroutine.
type Environment struct {
	cfg      config.Config
	registry *assets.Registry
	graph    scene.Graph
	logger   *log.Logger

	src     *rng.Source
	builder *terrain.Builder
	chunks  *world.Manager
	objects *entities.Manager
	index   *spatial.KDTree[*entities.Entity]
	stale   bool // index misses removals

	health     float64
	atmosphere Atmosphere

	viewpoint mgl64.Vec3
	lastLoad  mgl64.Vec3
	loaded    bool
}

// New builds an environment from cfg. A nil registry uses the built-in asset
// templates, a nil store keeps evicted chunks in memory and a nil logger
// writes to the standard logger.
func New(cfg *config.Config, registry *assets.Registry, graph scene.Graph, store world.Store, logger *log.Logger) (*Environment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("environment: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("environment: scene graph is nil")
	}
	if registry == nil {
		registry = assets.Default()
	}
	if store == nil {
		store = world.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}

	e := &Environment{
		cfg:      *cfg,
		registry: registry,
		graph:    graph,
		logger:   logger,
		src:      rng.New(cfg.World.Seed),
		objects:  entities.NewManager(),
		index:    spatial.New[*entities.Entity](),
		health:   cfg.Health.Initial,
	}
	if err := e.buildTerrain(cfg.Terrain); err != nil {
		return nil, err
	}
	hooks := chunkHooks{env: e}
	e.chunks = world.NewManager(cfg.World.ChunkSize, hooks, graph,
		world.WithStore(store),
		world.WithCapacity(cfg.World.MaxCachedChunks),
		world.WithListener(hooks),
		world.WithLogger(logger),
	)
	e.atmosphere = atmosphereFor(e.health)
	return e, nil
}

// buildTerrain draws the noise setup from the shared stream, so it must run
// right after the stream is (re)seeded.
func (e *Environment) buildTerrain(terrainCfg config.TerrainConfig) error {
	provider, err := noise.New(terrainCfg.Noise, e.src)
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	heights, err := terrain.NewHeightMap(terrainCfg, provider)
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	builder, err := terrain.NewBuilder(e.cfg.World.ChunkSize, heights, e.src, e.cfg.Scatter.Categories, e.registry)
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	e.builder = builder
	e.cfg.Terrain = terrainCfg
	return nil
}

func (e *Environment) Health() float64 {
	return e.health
}

// LoadChunks streams the neighbourhood around pos, emptying the chunk cache
// first when purge is set.
func (e *Environment) LoadChunks(pos mgl64.Vec3, purge bool) error {
	if err := e.chunks.LoadChunks(pos, purge); err != nil {
		return err
	}
	e.lastLoad = pos
	e.loaded = true
	e.refreshIndex()
	return nil
}

// Update is the per-frame entry point. It reloads chunks once the viewpoint
// has moved far enough, re-evaluates every entity's visibility and eases the
// atmosphere towards the current health.
func (e *Environment) Update(delta time.Duration, viewpoint mgl64.Vec3) error {
	if !geom.Finite(viewpoint) {
		return world.ErrInvalidPosition
	}
	e.viewpoint = viewpoint

	threshold := e.cfg.World.MoveThreshold
	if !e.loaded || geom.PlanarDistanceSq(viewpoint, e.lastLoad) > threshold*threshold {
		if err := e.LoadChunks(viewpoint, false); err != nil {
			return err
		}
	}

	for _, ent := range e.objects.All() {
		if entities.Eligible(ent, viewpoint, e.cfg.World.DrawDistance, e.health) {
			entities.Show(e.graph, ent)
		} else {
			entities.Hide(e.graph, ent)
		}
	}

	e.atmosphere = e.atmosphere.easeTowards(atmosphereFor(e.health), delta)
	return nil
}

// NearestDecisionPoint returns the live decision point closest to pos on the
// X/Z plane within diameter/2, or nil.
func (e *Environment) NearestDecisionPoint(pos mgl64.Vec3, diameter float64) *entities.Entity {
	if !geom.Finite(pos) || diameter < 0 {
		return nil
	}
	radius := diameter / 2
	found := e.index.Nearest(pos.X(), pos.Z(), 1, radius*radius)
	if len(found) == 0 {
		return nil
	}
	return found[0].Value
}

// RemoveDecisionPoint takes a live decision point out of the world and
// applies its influence to the health. Anything else is ignored.
func (e *Environment) RemoveDecisionPoint(ent *entities.Entity) bool {
	if ent == nil || !ent.IsDecisionPoint() || !e.objects.Contains(ent) {
		return false
	}
	entities.Hide(e.graph, ent)
	e.objects.Remove(ent.ID)
	if chunk, ok := e.chunks.Chunk(ent.Chunk); ok {
		chunk.RemoveEntity(ent)
	}
	e.stale = true
	e.refreshIndex()

	e.health = clamp01(e.health - ent.Influence)
	e.logger.Printf("decision point %s removed from chunk %s, health %.3f", ent.ID, ent.Chunk, e.health)
	return true
}

// Regenerate discards the world and rebuilds it from the configured seed with
// terrainCfg. The health resets and the last loaded neighbourhood is reloaded.
func (e *Environment) Regenerate(terrainCfg config.TerrainConfig) error {
	if err := terrainCfg.Validate(); err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	if err := e.chunks.Purge(); err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	e.objects.Clear()
	e.index = spatial.New[*entities.Entity]()
	e.stale = false

	e.src.Seed(e.cfg.World.Seed)
	if err := e.buildTerrain(terrainCfg); err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	e.health = e.cfg.Health.Initial
	e.atmosphere = atmosphereFor(e.health)
	e.logger.Printf("world regenerated with seed %d (%s noise)", e.cfg.World.Seed, terrainCfg.Noise)

	if !e.loaded {
		return nil
	}
	return e.LoadChunks(e.lastLoad, false)
}

// GroundHeight samples the ground under world point (x, z) from the loaded
// neighbourhood.
func (e *Environment) GroundHeight(x, z float64) (float64, bool) {
	for _, chunk := range e.chunks.Active() {
		if h, ok := chunk.HeightAt(x, z); ok {
			return h, true
		}
	}
	return 0, false
}

func (e *Environment) Atmosphere() Atmosphere {
	return e.atmosphere
}

// Center returns the chunk under the last loaded viewpoint.
func (e *Environment) Center() *world.Chunk {
	return e.chunks.Center()
}

// ActiveChunks returns the loaded neighbourhood, centre first.
func (e *Environment) ActiveChunks() []*world.Chunk {
	return e.chunks.Active()
}

// Entities returns every live entity in scatter order.
func (e *Environment) Entities() []*entities.Entity {
	return e.objects.All()
}

func (e *Environment) DecisionPoints() []*entities.Entity {
	return e.objects.DecisionPoints()
}

func (e *Environment) Stats() Stats {
	stats := Stats{
		Chunks:   e.chunks.Stats(),
		Entities: e.objects.Len(),
		Health:   e.health,
	}
	for _, ent := range e.objects.All() {
		if ent.IsDecisionPoint() {
			stats.DecisionPoints++
		}
		if ent.InScene() {
			stats.Visible++
		}
	}
	return stats
}

func (e *Environment) track(ent *entities.Entity) {
	if err := e.objects.Add(ent); err != nil {
		e.logger.Printf("track entity in chunk %s: %v", ent.Chunk, err)
		return
	}
	if ent.IsDecisionPoint() && !e.stale {
		e.index.Insert(indexPoint(ent))
	}
}

func (e *Environment) untrack(ent *entities.Entity) {
	entities.Hide(e.graph, ent)
	if e.objects.Remove(ent.ID) && ent.IsDecisionPoint() {
		e.stale = true
	}
}

// refreshIndex rebuilds the spatial index from the live decision points when
// any of them has left the world since the last rebuild.
func (e *Environment) refreshIndex() {
	if !e.stale {
		return
	}
	live := e.objects.DecisionPoints()
	points := make([]spatial.Point[*entities.Entity], 0, len(live))
	for _, ent := range live {
		points = append(points, indexPoint(ent))
	}
	e.index = spatial.Build(points)
	e.stale = false
}

func indexPoint(ent *entities.Entity) spatial.Point[*entities.Entity] {
	return spatial.Point[*entities.Entity]{X: ent.Position.X(), Z: ent.Position.Z(), Value: ent}
}

// chunkHooks feeds chunk cache events into the environment and generates
// chunks with its current builder.
type chunkHooks struct {
	env *Environment
}

func (h chunkHooks) Generate(key geom.ChunkKey) (*world.Chunk, error) {
	return h.env.builder.Generate(key)
}

func (h chunkHooks) ChunkCreated(chunk *world.Chunk) {
	for _, ent := range chunk.Entities {
		h.env.track(ent)
	}
}

func (h chunkHooks) ChunkRestored(chunk *world.Chunk) {
	for _, ent := range chunk.Entities {
		h.env.track(ent)
	}
}

func (h chunkHooks) ChunkEvicted(chunk *world.Chunk) {
	for _, ent := range chunk.Entities {
		h.env.untrack(ent)
	}
}
