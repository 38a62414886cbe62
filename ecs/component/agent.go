package component

import (
	"math/rand"

	"github.com/jakecoffman/cp"
)

// Agent tags an enemy entity.
type Agent struct {
	Name string
}

var AgentComponent = NewComponent[Agent]("agent")

// Transform mirrors the agent pose reported by the pathing port.
type Transform struct {
	Position cp.Vector
	Velocity cp.Vector
}

var TransformComponent = NewComponent[Transform]("transform")

// Random is a per-agent generator so wander decisions are reproducible per
// agent regardless of how many siblings exist.
type Random struct {
	Rand *rand.Rand
}

func (r *Random) Float64() float64 {
	if r == nil || r.Rand == nil {
		return rand.Float64()
	}
	return r.Rand.Float64()
}

// Range returns a value in [lo, hi).
func (r *Random) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

var RandomComponent = NewComponent[Random]("random")
