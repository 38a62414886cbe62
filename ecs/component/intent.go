package component

import "github.com/jakecoffman/cp"

// MoveIntent is emitted once per tick for an external animator.
type MoveIntent struct {
	Moving    bool
	Direction cp.Vector
	Attacking bool
}

// DefaultFacing is the direction reported before an agent has ever moved.
var DefaultFacing = cp.Vector{X: 0, Y: -1}

var MoveIntentComponent = NewComponent[MoveIntent]("move_intent")
