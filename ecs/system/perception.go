package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

// Player is the injected handle to the player. Kill is only called by the
// encounter resolver.
type Player interface {
	Position() cp.Vector
	Alive() bool
	Kill()
}

// Sample is one tick of perception for one agent. Present is false for an
// absent or dead player.
type Sample struct {
	Present           bool
	Noise             float64
	Distance          float64
	InDetectionRadius bool
	AboveChase        bool
	AboveLose         bool
}

// CanAcquire reports whether a patrolling agent should start a chase.
func (s Sample) CanAcquire() bool {
	return s.InDetectionRadius && s.AboveChase
}

// CanReacquire reports whether a searching agent hears the player again.
// Noise alone is enough; the radius only gates the first acquisition.
func (s Sample) CanReacquire() bool {
	return s.Present && s.AboveChase
}

// CanMaintain reports whether a chasing agent still hears the player.
func (s Sample) CanMaintain() bool {
	return s.Present && s.AboveLose
}

// Perceive is pure: thresholds and radius are strict so that a noise level
// equal to a threshold, or a player exactly on the radius, is not perceived.
// An absent or dead player is never perceived.
func Perceive(agent cp.Vector, player Player, noise float64, tuning component.Tuning) Sample {
	if player == nil || !player.Alive() {
		return Sample{Noise: noise, Distance: math.Inf(1)}
	}
	dist := agent.Distance(player.Position())
	return Sample{
		Present:           true,
		Noise:             noise,
		Distance:          dist,
		InDetectionRadius: dist < tuning.DetectionRadius,
		AboveChase:        noise > tuning.ChaseThreshold,
		AboveLose:         noise > tuning.LoseThreshold,
	}
}
