package world

import (
	"fmt"
	"reflect"
	"strings"
)

// Entity is a live instance in a World.
type Entity interface {
	EntityName() string
}

// Asset is a catalog-registered resource, distinct from a live entity.
type Asset interface {
	AssetName() string
}

// Actor carries the display name of an entity. Embed it in entity types.
type Actor struct {
	Name string
}

func (a Actor) EntityName() string { return a.Name }

func (a *Actor) SetName(name string) { a.Name = name }

// Resource carries the name of an asset. Embed it in asset types.
type Resource struct {
	Name string
}

func (r Resource) AssetName() string { return r.Name }

func (r *Resource) SetName(name string) { r.Name = name }

// World holds live entities in spawn order. It is not safe for concurrent use.
type World struct {
	entities []Entity
	byName   map[string]Entity
}

func New() *World {
	return &World{byName: make(map[string]Entity)}
}

// Spawn adds an entity. Names are unique within a world.
func (w *World) Spawn(e Entity) error {
	if e == nil {
		return fmt.Errorf("spawning entity: entity is nil")
	}
	name := e.EntityName()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("spawning entity: name is required")
	}
	if _, exists := w.byName[name]; exists {
		return fmt.Errorf("spawning entity: duplicate name: %s", name)
	}
	w.entities = append(w.entities, e)
	w.byName[name] = e
	return nil
}

// Despawn removes the named entity and reports whether it existed.
func (w *World) Despawn(name string) bool {
	e, ok := w.byName[name]
	if !ok {
		return false
	}
	delete(w.byName, name)
	for i, candidate := range w.entities {
		if candidate == e {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			break
		}
	}
	return true
}

func (w *World) Find(name string) (Entity, bool) {
	e, ok := w.byName[name]
	return e, ok
}

// Entities returns every live entity in spawn order.
func (w *World) Entities() []Entity {
	return append([]Entity(nil), w.entities...)
}

// EntitiesOf returns, in spawn order, the entities whose dynamic type is
// assignable to t.
func (w *World) EntitiesOf(t reflect.Type) []Entity {
	var out []Entity
	for _, e := range w.entities {
		if reflect.TypeOf(e).AssignableTo(t) {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) Len() int {
	return len(w.entities)
}
