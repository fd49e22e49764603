package world

import (
	"container/list"
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/geom"
	"worldstream/internal/scene"
)

// ErrInvalidPosition is returned when a viewpoint has a NaN or infinite
// coordinate.
var ErrInvalidPosition = errors.New("world: position is not finite")

// Generator describes terrain population for chunks.
type Generator interface {
	Generate(key geom.ChunkKey) (*Chunk, error)
}

// Listener observes chunks entering and leaving the cache.
type Listener interface {
	ChunkCreated(chunk *Chunk)
	ChunkRestored(chunk *Chunk)
	ChunkEvicted(chunk *Chunk)
}

type Stats struct {
	Created  int
	Restored int
	Evicted  int
	Cached   int
}

type Option func(*Manager)

// WithStore spills evicted chunks into store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithCapacity bounds the number of cached chunks. Zero keeps every chunk.
// The bound only applies together with WithStore.
func WithCapacity(n int) Option {
	return func(m *Manager) { m.capacity = n }
}

func WithListener(l Listener) Option {
	return func(m *Manager) { m.listener = l }
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Manager streams chunks around a moving viewpoint. It is not safe for
// concurrent use.
type Manager struct {
	chunkSize int
	generator Generator
	graph     scene.Graph
	store     Store
	capacity  int
	listener  Listener
	logger    *log.Logger

	chunks  map[geom.ChunkKey]*Chunk
	recent  *list.List // most recently activated first
	recency map[geom.ChunkKey]*list.Element

	center *Chunk
	active []geom.ChunkKey
	stats  Stats
}

func NewManager(chunkSize int, generator Generator, graph scene.Graph, opts ...Option) *Manager {
	m := &Manager{
		chunkSize: chunkSize,
		generator: generator,
		graph:     graph,
		chunks:    make(map[geom.ChunkKey]*Chunk),
		recent:    list.New(),
		recency:   make(map[geom.ChunkKey]*list.Element),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadChunks makes the 3x3 neighbourhood around pos the active set. Chunks
// are reused from the cache, restored from the store or generated, in that
// order of preference. With purge set the cache is emptied first.
func (m *Manager) LoadChunks(pos mgl64.Vec3, purge bool) error {
	if !geom.Finite(pos) {
		return ErrInvalidPosition
	}
	if purge {
		if err := m.Purge(); err != nil {
			return err
		}
	}

	keys := geom.Neighborhood(geom.KeyAt(pos, m.chunkSize))

	// Flags change only once the whole neighbourhood is available, so a
	// failed load leaves the previous one in place.
	var loaded [len(keys)]*Chunk
	for i, key := range keys {
		chunk, err := m.obtain(key)
		if err != nil {
			return fmt.Errorf("load chunk %s: %w", key, err)
		}
		loaded[i] = chunk
	}

	for _, chunk := range m.chunks {
		chunk.active = false
	}
	for i, chunk := range loaded {
		chunk.active = true
		m.touch(chunk.Key)
		if i == 0 {
			m.center = chunk
		}
	}
	m.active = keys[:]

	for el := m.recent.Front(); el != nil; el = el.Next() {
		chunk := m.chunks[el.Value.(geom.ChunkKey)]
		if !chunk.active && chunk.inScene {
			m.graph.Remove(chunk)
			chunk.inScene = false
		}
	}
	for _, key := range keys {
		chunk := m.chunks[key]
		if !chunk.inScene {
			m.graph.Add(chunk)
			chunk.inScene = true
		}
	}

	m.evict()
	return nil
}

func (m *Manager) obtain(key geom.ChunkKey) (*Chunk, error) {
	if chunk, ok := m.chunks[key]; ok {
		return chunk, nil
	}

	if m.store != nil {
		chunk, ok, err := m.store.Load(key)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := m.store.Delete(key); err != nil {
				return nil, err
			}
			m.insert(chunk)
			m.stats.Restored++
			if m.listener != nil {
				m.listener.ChunkRestored(chunk)
			}
			return chunk, nil
		}
	}

	chunk, err := m.generator.Generate(key)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, fmt.Errorf("generator returned no chunk")
	}
	m.insert(chunk)
	m.stats.Created++
	if m.listener != nil {
		m.listener.ChunkCreated(chunk)
	}
	return chunk, nil
}

func (m *Manager) insert(chunk *Chunk) {
	chunk.active = false
	chunk.inScene = false
	m.chunks[chunk.Key] = chunk
	m.recency[chunk.Key] = m.recent.PushFront(chunk.Key)
}

func (m *Manager) touch(key geom.ChunkKey) {
	if el, ok := m.recency[key]; ok {
		m.recent.MoveToFront(el)
	}
}

// evict spills least recently activated inactive chunks until the cache fits
// its capacity. A chunk that cannot be saved stays cached. Without a store
// nothing is evicted.
func (m *Manager) evict() {
	if m.capacity <= 0 || m.store == nil {
		return
	}
	for el := m.recent.Back(); el != nil && len(m.chunks) > m.capacity; {
		prev := el.Prev()
		chunk := m.chunks[el.Value.(geom.ChunkKey)]
		if !chunk.active {
			if err := m.store.Save(chunk); err != nil {
				m.logger.Printf("spill chunk %s: %v, keeping it cached", chunk.Key, err)
			} else {
				m.drop(chunk, el)
				m.stats.Evicted++
			}
		}
		el = prev
	}
}

func (m *Manager) drop(chunk *Chunk, el *list.Element) {
	if chunk.inScene {
		m.graph.Remove(chunk)
		chunk.inScene = false
	}
	chunk.active = false
	if m.listener != nil {
		m.listener.ChunkEvicted(chunk)
	}
	m.recent.Remove(el)
	delete(m.recency, chunk.Key)
	delete(m.chunks, chunk.Key)
}

// Purge detaches and forgets every chunk and empties the store.
func (m *Manager) Purge() error {
	for el := m.recent.Front(); el != nil; {
		next := el.Next()
		m.drop(m.chunks[el.Value.(geom.ChunkKey)], el)
		el = next
	}
	m.center = nil
	m.active = nil
	if m.store != nil {
		if err := m.store.Reset(); err != nil {
			return fmt.Errorf("reset chunk store: %w", err)
		}
	}
	return nil
}

// Center returns the chunk containing the last loaded viewpoint.
func (m *Manager) Center() *Chunk {
	return m.center
}

// Chunk returns a cached chunk without loading it.
func (m *Manager) Chunk(key geom.ChunkKey) (*Chunk, bool) {
	chunk, ok := m.chunks[key]
	return chunk, ok
}

// Active returns the current neighbourhood, centre first.
func (m *Manager) Active() []*Chunk {
	out := make([]*Chunk, 0, len(m.active))
	for _, key := range m.active {
		if chunk, ok := m.chunks[key]; ok {
			out = append(out, chunk)
		}
	}
	return out
}

func (m *Manager) Len() int {
	return len(m.chunks)
}

func (m *Manager) Stats() Stats {
	stats := m.stats
	stats.Cached = len(m.chunks)
	return stats
}
