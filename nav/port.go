// Package nav defines the pathing seam the AI drives and a chipmunk backed
// implementation of it.
package nav

import (
	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/ecs"
)

// Port is the pathing collaborator. The AI only ever commands destinations
// and speeds; a new destination supersedes the previous one.
type Port interface {
	SetDestination(agent ecs.Entity, p cp.Vector)
	SetSpeed(agent ecs.Entity, speed float64)
	// ArrivalStatus reports whether a path is still being planned and the
	// remaining path length. Unreachable destinations report +Inf.
	ArrivalStatus(agent ecs.Entity) (pathPending bool, remaining float64)
	Velocity(agent ecs.Entity) cp.Vector
	Position(agent ecs.Entity) cp.Vector
	// Warp relocates the agent instantly and drops its current path.
	Warp(agent ecs.Entity, p cp.Vector)
}

// PositionSampler projects an arbitrary point onto walkable space.
type PositionSampler interface {
	SamplePosition(p cp.Vector, maxDistance float64) (cp.Vector, bool)
}

// AgentHost is implemented by ports that own agent bodies and must be told
// about agent lifecycle.
type AgentHost interface {
	AddAgent(agent ecs.Entity, position cp.Vector, radius float64) error
	RemoveAgent(agent ecs.Entity)
}

// Stepper is implemented by ports that integrate movement themselves.
type Stepper interface {
	Step(dt float64)
}

// PlayerTracker is implemented by ports that need the player's body, for
// example to report overlaps.
type PlayerTracker interface {
	TrackPlayer(position cp.Vector, radius float64)
}

// OverlapDetector reports agent and player body contact.
type OverlapDetector interface {
	Overlapping(agent ecs.Entity) bool
}
