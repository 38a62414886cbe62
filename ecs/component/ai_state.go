package component

import (
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

// StateID identifies an AI state.
type StateID string

const (
	StatePatrolling    StateID = "patrolling"
	StateChasing       StateID = "chasing"
	StateSearching     StateID = "searching"
	StateRushingToTrap StateID = "rushing_to_trap"
	StateAttacking     StateID = "attacking"
)

// AIState is the tagged union of agent behaviour states. Each variant
// carries only the data that is meaningful while it is active.
type AIState interface {
	ID() StateID
	aiState()
}

// Patrolling walks the patrol route, or wanders around Home when the route
// is empty.
type Patrolling struct {
	// Waiting is true while dwelling at a patrol point.
	Waiting   bool
	WaitTimer float64

	WanderTimer     float64
	WanderTarget    cp.Vector
	HasWanderTarget bool
}

// Chasing follows Memory.LastKnown. Speed is the last noise-scaled speed so a
// chase resumed after a trap rush keeps its pace.
type Chasing struct {
	MemoryTimer float64
	Speed       float64
}

type Searching struct{}

// RushingToTrap heads for a trap signal. Resume is the state to restore once
// the agent arrives or the signal goes quiet.
type RushingToTrap struct {
	SignalID uuid.UUID
	Target   cp.Vector
	Resume   AIState
}

type Attacking struct {
	Remaining float64
}

func (Patrolling) ID() StateID    { return StatePatrolling }
func (Chasing) ID() StateID       { return StateChasing }
func (Searching) ID() StateID     { return StateSearching }
func (RushingToTrap) ID() StateID { return StateRushingToTrap }
func (Attacking) ID() StateID     { return StateAttacking }

func (Patrolling) aiState()    {}
func (Chasing) aiState()       {}
func (Searching) aiState()     {}
func (RushingToTrap) aiState() {}
func (Attacking) aiState()     {}

// Brain holds the current state of one agent.
type Brain struct {
	State AIState
}

// Current returns the active state id, defaulting to patrolling for a zero
// Brain.
func (b *Brain) Current() StateID {
	if b == nil || b.State == nil {
		return StatePatrolling
	}
	return b.State.ID()
}

var BrainComponent = NewComponent[Brain]("brain")
