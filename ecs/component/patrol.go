package component

import "github.com/jakecoffman/cp"

// PatrolRoute lists pre-authored patrol points visited circularly. Home is
// the spawn point used as the wander origin when Points is empty.
type PatrolRoute struct {
	Points []cp.Vector
	Index  int
	Home   cp.Vector
}

func (p *PatrolRoute) Current() (cp.Vector, bool) {
	if p == nil || len(p.Points) == 0 {
		return cp.Vector{}, false
	}
	if p.Index < 0 || p.Index >= len(p.Points) {
		p.Index = 0
	}
	return p.Points[p.Index], true
}

func (p *PatrolRoute) Advance() {
	if p == nil || len(p.Points) == 0 {
		return
	}
	p.Index = (p.Index + 1) % len(p.Points)
}

var PatrolRouteComponent = NewComponent[PatrolRoute]("patrol_route")
