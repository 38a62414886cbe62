package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/common"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/trap"
)

// zone is a circular trigger that fires on the player entering it.
type zone struct {
	Position cp.Vector
	Radius   float64

	inside    bool
	triggered bool
}

// enter reports whether the player just crossed into the zone.
func (z *zone) enter(player *Player) bool {
	inside := common.Within(z.Position, player.Position(), z.Radius+player.Radius())
	entered := inside && !z.inside
	z.inside = inside
	return entered
}

// TrapTrigger makes noise at its own position when the player walks in.
type TrapTrigger struct {
	Name string
	zone
	// Duration of the trap sound; zero uses the registry default.
	Duration float64
	// Rearm lets the trap fire on every entry instead of once.
	Rearm bool
}

func NewTrapTrigger(name string, position cp.Vector, radius, duration float64, rearm bool) *TrapTrigger {
	return &TrapTrigger{
		Name:     name,
		zone:     zone{Position: position, Radius: radius},
		Duration: duration,
		Rearm:    rearm,
	}
}

func (t *TrapTrigger) Triggered() bool { return t.triggered }

// Check fires the trap and reports whether it did.
func (t *TrapTrigger) Check(player *Player, traps *trap.Registry) bool {
	if !t.enter(player) || (t.triggered && !t.Rearm) {
		return false
	}
	t.triggered = true
	traps.ActivateSound(t.Position, t.Duration)
	return true
}

// TeleportTrap warps one agent to Destination, freezes it and makes noise
// at the trap.
type TeleportTrap struct {
	Name string
	zone
	Agent          ecs.Entity
	Destination    cp.Vector
	FreezeDuration float64
	SoundDuration  float64
}

func NewTeleportTrap(name string, position cp.Vector, radius float64, agent ecs.Entity, destination cp.Vector, freeze, sound float64) *TeleportTrap {
	return &TeleportTrap{
		Name:           name,
		zone:           zone{Position: position, Radius: radius},
		Agent:          agent,
		Destination:    destination,
		FreezeDuration: freeze,
		SoundDuration:  sound,
	}
}

func (t *TeleportTrap) Triggered() bool { return t.triggered }

// Check fires at most once. A trap whose agent has been despawned still
// makes its noise.
func (t *TeleportTrap) Check(w *ecs.World, port nav.Port, player *Player, traps *trap.Registry) bool {
	if !t.enter(player) || t.triggered {
		return false
	}
	t.triggered = true

	if w.IsAlive(t.Agent) {
		port.Warp(t.Agent, t.Destination)
		port.SetSpeed(t.Agent, 0)
		if t.FreezeDuration > 0 {
			_ = ecs.Add(w, t.Agent, component.StunnedComponent, component.Stunned{Remaining: t.FreezeDuration})
		}
	}
	traps.ActivateSound(t.Position, t.SoundDuration)
	return true
}
