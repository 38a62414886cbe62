package system

import (
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
)

// NavSystem advances ports that integrate movement themselves and mirrors
// the resulting pose into each agent's Transform.
type NavSystem struct {
	port         nav.Port
	player       Player
	playerRadius float64
}

func NewNavSystem(port nav.Port, player Player, playerRadius float64) *NavSystem {
	return &NavSystem{port: port, player: player, playerRadius: playerRadius}
}

func (s *NavSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil || s.port == nil {
		return
	}
	if tracker, ok := s.port.(nav.PlayerTracker); ok && s.player != nil {
		tracker.TrackPlayer(s.player.Position(), s.playerRadius)
	}
	if stepper, ok := s.port.(nav.Stepper); ok {
		stepper.Step(dt)
	}

	ecs.ForEach(w, component.TransformComponent, func(e ecs.Entity, t *component.Transform) {
		t.Position = s.port.Position(e)
		t.Velocity = s.port.Velocity(e)
	})
}
