package system

import (
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

const (
	EventTransition    ecs.EventKind = "ai_transition"
	EventAttackStarted ecs.EventKind = "attack_started"
	EventPlayerKilled  ecs.EventKind = "player_killed"
)

// Transition is the payload of EventTransition.
type Transition struct {
	From component.StateID
	To   component.StateID
}
