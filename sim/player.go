package sim

import "github.com/jakecoffman/cp"

// Player is the pursued target. The simulation never moves it; callers
// drive it with MoveTo.
type Player struct {
	position cp.Vector
	radius   float64
	speed    float64
	alive    bool
}

func NewPlayer(position cp.Vector, radius, speed float64) *Player {
	return &Player{position: position, radius: radius, speed: speed, alive: true}
}

func (p *Player) Position() cp.Vector { return p.position }

func (p *Player) Radius() float64 { return p.radius }

// Speed is the walking speed in units per second used by interactive
// drivers.
func (p *Player) Speed() float64 { return p.speed }

func (p *Player) Alive() bool { return p != nil && p.alive }

func (p *Player) Kill() { p.alive = false }

// MoveTo is ignored once the player is dead.
func (p *Player) MoveTo(position cp.Vector) {
	if !p.alive {
		return
	}
	p.position = position
}

// Respawn revives the player at position.
func (p *Player) Respawn(position cp.Vector) {
	p.position = position
	p.alive = true
}
