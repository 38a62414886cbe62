package ecs

import (
	"slices"

	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

// World owns entities and their component storage.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: map[component.ComponentID]*SparseSet{}}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and recycles its id.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrUnknownComponent
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if w.stores == nil {
		w.stores = map[component.ComponentID]*SparseSet{}
	}
	store, ok := w.stores[id]
	if !ok {
		store = &SparseSet{}
		w.stores[id] = store
	}
	store.Set(e, value)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	store, ok := w.stores[id]
	if !ok || !store.Has(e) {
		return nil, false
	}
	return store.Get(e), true
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if w == nil {
		return false
	}
	store, ok := w.stores[id]
	if !ok {
		return false
	}
	return store.Remove(e)
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	store, ok := w.stores[id]
	return ok && store.Has(e)
}

// Query returns the entities owning every listed component, ordered by
// entity id so that system iteration is stable across runs.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		store, ok := w.stores[id]
		if !ok || store.Len() == 0 {
			return nil
		}
		sets = append(sets, store)
	}
	// iterate smallest set
	slices.SortFunc(sets, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	out := make([]Entity, 0, sets[0].Len())
	for _, e := range sets[0].Entities() {
		matched := true
		for _, other := range sets[1:] {
			if !other.Has(e) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entity) int { return int(a.slot()) - int(b.slot()) })
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
