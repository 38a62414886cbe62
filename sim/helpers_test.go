package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/ecs"
)

// stillPort is a pathing port whose agents never move on their own.
type stillPort struct {
	pos   map[ecs.Entity]cp.Vector
	dest  map[ecs.Entity]cp.Vector
	speed map[ecs.Entity]float64
}

func newStillPort() *stillPort {
	return &stillPort{
		pos:   map[ecs.Entity]cp.Vector{},
		dest:  map[ecs.Entity]cp.Vector{},
		speed: map[ecs.Entity]float64{},
	}
}

func (p *stillPort) SetDestination(e ecs.Entity, d cp.Vector) { p.dest[e] = d }
func (p *stillPort) SetSpeed(e ecs.Entity, s float64)        { p.speed[e] = s }
func (p *stillPort) Velocity(ecs.Entity) cp.Vector           { return cp.Vector{} }
func (p *stillPort) Position(e ecs.Entity) cp.Vector         { return p.pos[e] }

func (p *stillPort) Warp(e ecs.Entity, to cp.Vector) {
	p.pos[e] = to
	delete(p.dest, e)
}

func (p *stillPort) ArrivalStatus(e ecs.Entity) (bool, float64) {
	d, ok := p.dest[e]
	if !ok {
		return false, 0
	}
	return false, p.pos[e].Distance(d)
}
