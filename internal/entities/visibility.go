package entities

import (
	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/scene"
)

// InHealthRange reports whether health h lies within e's health range.
func InHealthRange(e *Entity, h float64) bool {
	return e.Health.Contains(h)
}

// Eligible reports whether e should be visible from viewpoint: within
// drawDistance (full 3D distance) and inside its health range.
func Eligible(e *Entity, viewpoint mgl64.Vec3, drawDistance, h float64) bool {
	if e.Position.Sub(viewpoint).Len() > drawDistance {
		return false
	}
	return InHealthRange(e, h)
}

// Show attaches e to graph unless it is already attached.
func Show(graph scene.Graph, e *Entity) bool {
	if e.inScene {
		return false
	}
	graph.Add(e)
	e.inScene = true
	return true
}

// Hide detaches e from graph if it is attached.
func Hide(graph scene.Graph, e *Entity) bool {
	if !e.inScene {
		return false
	}
	graph.Remove(e)
	e.inScene = false
	return true
}
