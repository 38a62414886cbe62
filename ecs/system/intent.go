package system

import (
	"github.com/AegonSnowX/McGameJam2026/common"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
)

// movingThresholdSq is the squared speed below which an agent counts as idle.
const movingThresholdSq = 0.01

// Animator consumes the per-tick movement intent.
type Animator interface {
	SetIntent(agent ecs.Entity, intent component.MoveIntent)
}

// IntentSystem derives the animator output from the port velocity and the
// AI state. It runs last so the attacking flag reflects this tick's
// encounters.
type IntentSystem struct {
	port     nav.Port
	animator Animator
}

func NewIntentSystem(port nav.Port, animator Animator) *IntentSystem {
	return &IntentSystem{port: port, animator: animator}
}

func (s *IntentSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil || s.port == nil {
		return
	}
	ecs.ForEach(w, component.MoveIntentComponent, func(e ecs.Entity, intent *component.MoveIntent) {
		vel := s.port.Velocity(e)
		intent.Moving = vel.LengthSq() > movingThresholdSq

		last := intent.Direction
		if last.X == 0 && last.Y == 0 {
			last = component.DefaultFacing
		}
		if intent.Moving {
			intent.Direction = common.Direction(vel, last)
		} else {
			intent.Direction = last
		}

		intent.Attacking = false
		if brain, ok := ecs.Get(w, e, component.BrainComponent); ok {
			_, intent.Attacking = brain.State.(component.Attacking)
		}

		if s.animator != nil {
			s.animator.SetIntent(e, *intent)
		}
	})
}
