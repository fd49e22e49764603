package entities

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/geom"
	"worldstream/internal/scene"
)

func newEntity(vertex int, category Category) *Entity {
	key := geom.ChunkKey{I: 1, J: -2}
	return &Entity{
		ID:       NewID(key, vertex, category.String()),
		Category: category,
		Kind:     category.String(),
		Chunk:    key,
		Health:   HealthRange{Min: 0.2, Max: 0.8},
		Clip:     -1,
	}
}

func TestNewIDIsDeterministic(t *testing.T) {
	key := geom.ChunkKey{I: 3, J: 4}
	if NewID(key, 10, "tree") != NewID(key, 10, "tree") {
		t.Fatalf("expected identical ids for identical inputs")
	}
	if NewID(key, 10, "tree") == NewID(key, 11, "tree") {
		t.Fatalf("expected vertex to change the id")
	}
	if NewID(key, 10, "tree") == NewID(key, 10, "flower") {
		t.Fatalf("expected kind to change the id")
	}
	if NewID(key, 10, "tree") == NewID(geom.ChunkKey{I: 4, J: 3}, 10, "tree") {
		t.Fatalf("expected chunk to change the id")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{CategoryTree, CategoryFlower, CategoryCritter, CategoryLitter} {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Fatalf("round trip %v: got %v, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("boulder"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestEligibleChecksDistanceAndHealth(t *testing.T) {
	e := newEntity(0, CategoryTree)
	e.Position = mgl64.Vec3{3, 4, 0}

	tests := []struct {
		name      string
		viewpoint mgl64.Vec3
		draw      float64
		health    float64
		want      bool
	}{
		{"inside", mgl64.Vec3{0, 0, 0}, 5, 0.5, true},
		{"exactly at draw distance", mgl64.Vec3{0, 0, 0}, 5, 0.5, true},
		{"too far", mgl64.Vec3{0, 0, 0}, 4.9, 0.5, false},
		{"height counts", mgl64.Vec3{3, 4, 6}, 5, 0.5, false},
		{"health at min", mgl64.Vec3{3, 4, 0}, 1, 0.2, true},
		{"health at max", mgl64.Vec3{3, 4, 0}, 1, 0.8, true},
		{"health below", mgl64.Vec3{3, 4, 0}, 1, 0.19, false},
		{"health above", mgl64.Vec3{3, 4, 0}, 1, 0.81, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(e, tt.viewpoint, tt.draw, tt.health); got != tt.want {
				t.Fatalf("Eligible = %v want %v", got, tt.want)
			}
		})
	}
}

func TestShowHideAreIdempotent(t *testing.T) {
	graph := scene.NewRecorder()
	e := newEntity(0, CategoryFlower)

	if !Show(graph, e) || Show(graph, e) {
		t.Fatalf("expected only the first show to attach")
	}
	if !e.InScene() || !graph.Contains(e.NodeID()) || graph.Adds != 1 {
		t.Fatalf("entity not attached once: adds=%d", graph.Adds)
	}
	if !Hide(graph, e) || Hide(graph, e) {
		t.Fatalf("expected only the first hide to detach")
	}
	if e.InScene() || graph.Len() != 0 || graph.Removes != 1 {
		t.Fatalf("entity not detached once: removes=%d", graph.Removes)
	}
}

func TestManagerKeepsInsertionOrder(t *testing.T) {
	m := NewManager()
	a := newEntity(1, CategoryTree)
	b := newEntity(2, CategoryLitter)
	c := newEntity(3, CategoryLitter)
	for _, e := range []*Entity{a, b, c} {
		if err := m.Add(e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := m.Add(a); err == nil {
		t.Fatalf("expected duplicate add to fail")
	}
	if err := m.Add(nil); err == nil {
		t.Fatalf("expected nil add to fail")
	}

	points := m.DecisionPoints()
	if len(points) != 2 || points[0] != b || points[1] != c {
		t.Fatalf("unexpected decision points %v", points)
	}

	if !m.Remove(b.ID) || m.Remove(b.ID) {
		t.Fatalf("expected a single successful removal")
	}
	all := m.All()
	if len(all) != 2 || all[0] != a || all[1] != c {
		t.Fatalf("unexpected order after removal: %v", all)
	}
	if m.Contains(b) || !m.Contains(c) {
		t.Fatalf("contains mismatch")
	}
	imposter := *c
	if m.Contains(&imposter) {
		t.Fatalf("expected a copy with the same id not to count as live")
	}

	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("expected empty manager, got %d", m.Len())
	}
}
