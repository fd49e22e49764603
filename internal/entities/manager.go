package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// Manager is the master list of live entities. Iteration follows insertion
// order so every consumer walks entities deterministically.
type Manager struct {
	order    []*Entity
	entities map[uuid.UUID]*Entity
}

func NewManager() *Manager {
	return &Manager{
		entities: make(map[uuid.UUID]*Entity),
	}
}

func (m *Manager) Add(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("nil entity")
	}
	if entity.ID == uuid.Nil {
		return fmt.Errorf("entity missing id")
	}
	if _, exists := m.entities[entity.ID]; exists {
		return fmt.Errorf("entity %s already registered", entity.ID)
	}
	m.entities[entity.ID] = entity
	m.order = append(m.order, entity)
	return nil
}

// Remove drops the entity with id and reports whether it was present.
func (m *Manager) Remove(id uuid.UUID) bool {
	if _, ok := m.entities[id]; !ok {
		return false
	}
	delete(m.entities, id)
	for i, ent := range m.order {
		if ent.ID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *Manager) Entity(id uuid.UUID) (*Entity, bool) {
	ent, ok := m.entities[id]
	return ent, ok
}

// Contains reports whether e itself (not merely an entity with the same id)
// is live.
func (m *Manager) Contains(e *Entity) bool {
	if e == nil {
		return false
	}
	ent, ok := m.entities[e.ID]
	return ok && ent == e
}

// All returns the live entities in insertion order.
func (m *Manager) All() []*Entity {
	return append([]*Entity(nil), m.order...)
}

// DecisionPoints returns the live decision points in insertion order.
func (m *Manager) DecisionPoints() []*Entity {
	out := make([]*Entity, 0)
	for _, ent := range m.order {
		if ent.IsDecisionPoint() {
			out = append(out, ent)
		}
	}
	return out
}

func (m *Manager) Len() int {
	return len(m.order)
}

func (m *Manager) Clear() {
	m.order = nil
	m.entities = make(map[uuid.UUID]*Entity)
}
