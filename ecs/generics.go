package ecs

import (
	"fmt"

	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

// Add stores a copy of value; Get hands out a pointer to that copy so
// systems can mutate components in place.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if err := w.AddComponent(e, handle.ID(), &value); err != nil {
		return fmt.Errorf("ecs: add %s to %s: %w", handle, e, err)
	}
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.ID())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.GetComponent(e, handle.ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok || cast == nil {
		return nil, false
	}
	return cast, true
}

// ForEach visits every entity owning handle's component in entity id order.
// The visit list is snapshotted first, so fn may add or destroy entities.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(handle.ID()) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}

// First returns the lowest-id entity owning handle's component.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, bool) {
	ents := w.Query(handle.ID())
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
