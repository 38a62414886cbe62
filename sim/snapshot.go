package sim

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
)

// Snapshot is a debug dump of the simulation, shaped like the prefab files
// so it can be pasted next to them.
type Snapshot struct {
	Time   float64         `yaml:"time"`
	Paused bool            `yaml:"paused"`
	Noise  float64         `yaml:"noise"`
	Player PlayerSnapshot  `yaml:"player"`
	Trap   *TrapSnapshot   `yaml:"trap,omitempty"`
	Agents []AgentSnapshot `yaml:"agents"`
}

type PlayerSnapshot struct {
	Position prefabs.PointSpec `yaml:"position"`
	Alive    bool              `yaml:"alive"`
}

type TrapSnapshot struct {
	Position  prefabs.PointSpec `yaml:"position"`
	ExpiresIn float64           `yaml:"expires_in"`
}

type AgentSnapshot struct {
	Name      string             `yaml:"name"`
	State     component.StateID  `yaml:"state"`
	Position  prefabs.PointSpec  `yaml:"position"`
	LastKnown *prefabs.PointSpec `yaml:"last_known,omitempty"`
	// Timer is the countdown of the current state, if it has one.
	Timer  float64 `yaml:"timer,omitempty"`
	Resume string  `yaml:"resume,omitempty"`
	Stun   float64 `yaml:"stun,omitempty"`
}

func point(x, y float64) prefabs.PointSpec {
	return prefabs.PointSpec{X: x, Y: y}
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Time:   s.clock.Now(),
		Paused: s.paused,
	}
	if s.noise != nil {
		snap.Noise = s.noise.Level()
	}
	if s.player != nil {
		pos := s.player.Position()
		snap.Player = PlayerSnapshot{Position: point(pos.X, pos.Y), Alive: s.player.Alive()}
	}
	if sig, ok := s.traps.Active(); ok {
		snap.Trap = &TrapSnapshot{
			Position:  point(sig.Position.X, sig.Position.Y),
			ExpiresIn: sig.ExpiresAt - s.clock.Now(),
		}
	}

	for _, e := range s.Agents() {
		snap.Agents = append(snap.Agents, s.agentSnapshot(e))
	}
	return snap
}

func (s *Simulation) agentSnapshot(e ecs.Entity) AgentSnapshot {
	pos := s.port.Position(e)
	out := AgentSnapshot{Position: point(pos.X, pos.Y)}
	if agent, ok := ecs.Get(s.world, e, component.AgentComponent); ok {
		out.Name = agent.Name
	}
	if mem, ok := ecs.Get(s.world, e, component.MemoryComponent); ok && mem.Known {
		p := point(mem.LastKnown.X, mem.LastKnown.Y)
		out.LastKnown = &p
	}
	if stun, ok := ecs.Get(s.world, e, component.StunnedComponent); ok {
		out.Stun = stun.Remaining
	}

	st, _ := s.State(e)
	out.State = st.ID()
	switch st := st.(type) {
	case component.Patrolling:
		if st.Waiting {
			out.Timer = st.WaitTimer
		} else {
			out.Timer = st.WanderTimer
		}
	case component.Chasing:
		out.Timer = st.MemoryTimer
	case component.RushingToTrap:
		if st.Resume != nil {
			out.Resume = string(st.Resume.ID())
		}
	case component.Attacking:
		out.Timer = st.Remaining
	}
	return out
}

// MarshalSnapshot renders the snapshot as YAML.
func (s *Simulation) MarshalSnapshot() ([]byte, error) {
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("sim: snapshot: %w", err)
	}
	return data, nil
}
