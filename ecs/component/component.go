package component

import (
	"errors"
	"strconv"
	"sync"
)

var (
	ErrEntityNotAlive   = errors.New("ecs: entity not alive")
	ErrNilComponent     = errors.New("ecs: component is nil")
	ErrUnknownComponent = errors.New("ecs: unknown component")
)

// ComponentID keys one component type in the world's store table. Zero is
// never registered.
type ComponentID uint32

var names struct {
	sync.Mutex
	list []string
}

// String returns the name the component was registered under.
func (id ComponentID) String() string {
	names.Lock()
	defer names.Unlock()
	if id == 0 || int(id) > len(names.list) {
		return "component(" + strconv.FormatUint(uint64(id), 10) + ")"
	}
	return names.list[id-1]
}

// ComponentHandle is the typed key used with ecs.Add, ecs.Get and friends.
// Each component type declares one at package level.
type ComponentHandle[T any] struct {
	id ComponentID
}

// NewComponent registers a component type. name shows up in errors and debug
// logs.
func NewComponent[T any](name string) ComponentHandle[T] {
	names.Lock()
	defer names.Unlock()
	names.list = append(names.list, name)
	return ComponentHandle[T]{id: ComponentID(len(names.list))}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}

func (h ComponentHandle[T]) String() string {
	return h.id.String()
}
