package component

import "github.com/jakecoffman/cp"

// Memory is the last position at which the player was perceived. It
// survives state changes and is only written while the player is perceived.
type Memory struct {
	LastKnown cp.Vector
	Known     bool
}

var MemoryComponent = NewComponent[Memory]("memory")
