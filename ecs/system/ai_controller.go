package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/AegonSnowX/McGameJam2026/common"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/trap"
)

// AISystem runs every agent's state machine once per tick. Every agent reads
// the same noise level, trap snapshot and player position for the tick.
type AISystem struct {
	port     nav.Port
	noise    noise.Source
	traps    *trap.Registry
	player   Player
	resolver *EncounterSystem
	logger   *zap.Logger
}

func NewAISystem(port nav.Port, src noise.Source, traps *trap.Registry, player Player, resolver *EncounterSystem, logger *zap.Logger) *AISystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AISystem{
		port:     port,
		noise:    src,
		traps:    traps,
		player:   player,
		resolver: resolver,
		logger:   logger,
	}
}

// aiContext is the per-agent view handed to state handlers.
type aiContext struct {
	World  *ecs.World
	Entity ecs.Entity
	DT     float64
	Noise  float64

	Tuning *component.Tuning
	Memory *component.Memory
	Route  *component.PatrolRoute
	Random *component.Random

	Position cp.Vector
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil || s.port == nil {
		return
	}

	level := noise.Level(s.noise)

	for _, e := range w.Query(component.AgentComponent.ID(), component.BrainComponent.ID(), component.TuningComponent.ID()) {
		brain, ok := ecs.Get(w, e, component.BrainComponent)
		if !ok {
			continue
		}
		tuning, ok := ecs.Get(w, e, component.TuningComponent)
		if !ok {
			continue
		}
		if brain.State == nil {
			brain.State = component.Patrolling{}
		}

		ctx := &aiContext{
			World:    w,
			Entity:   e,
			DT:       dt,
			Noise:    level,
			Tuning:   tuning,
			Memory:   ensure(w, e, component.MemoryComponent),
			Route:    ensure(w, e, component.PatrolRouteComponent),
			Random:   ensure(w, e, component.RandomComponent),
			Position: s.port.Position(e),
		}

		prev := brain.State
		next := s.tick(ctx, prev)
		brain.State = next

		if next.ID() != prev.ID() {
			s.logger.Debug("ai transition",
				zap.Stringer("agent", e),
				zap.String("from", string(prev.ID())),
				zap.String("to", string(next.ID())),
			)
			w.Events().Push(ecs.Event{
				Kind:   EventTransition,
				Entity: e,
				Data:   Transition{From: prev.ID(), To: next.ID()},
			})
		}
	}
}

// tick evaluates exactly one branch. An attack in progress always runs its
// countdown; a stunned agent otherwise does nothing; a trap signal pre-empts
// the regular switch.
func (s *AISystem) tick(ctx *aiContext, state component.AIState) component.AIState {
	if atk, ok := state.(component.Attacking); ok {
		return s.tickAttacking(ctx, atk)
	}

	if stun, ok := ecs.Get(ctx.World, ctx.Entity, component.StunnedComponent); ok {
		remaining, expired := common.TickDown(stun.Remaining, ctx.DT)
		if !expired {
			stun.Remaining = remaining
			s.port.SetSpeed(ctx.Entity, 0)
			return state
		}
		ecs.Remove(ctx.World, ctx.Entity, component.StunnedComponent)
	}

	if sig, ok := s.pendingTrap(ctx); ok && interruptible(state, ctx.Tuning) {
		ecs.Remove(ctx.World, ctx.Entity, component.TrapAlertComponent)
		return s.enterRush(ctx, sig, state)
	}

	switch st := state.(type) {
	case component.Patrolling:
		return s.tickPatrolling(ctx, st)
	case component.Chasing:
		return s.tickChasing(ctx, st)
	case component.Searching:
		return s.tickSearching(ctx, st)
	case component.RushingToTrap:
		return s.tickRushing(ctx, st)
	default:
		return s.enterPatrolling(ctx)
	}
}

// pendingTrap returns the signal named by the agent's trap alert when that
// signal is still the active one and lies inside the detection radius. Stale
// alerts are dropped; out of range alerts stay pending until the signal ends.
func (s *AISystem) pendingTrap(ctx *aiContext) (trap.Signal, bool) {
	alert, ok := ecs.Get(ctx.World, ctx.Entity, component.TrapAlertComponent)
	if !ok {
		return trap.Signal{}, false
	}
	sig, active := s.traps.Active()
	if !active || sig.ID != alert.SignalID {
		ecs.Remove(ctx.World, ctx.Entity, component.TrapAlertComponent)
		return trap.Signal{}, false
	}
	if !common.Within(ctx.Position, sig.Position, ctx.Tuning.DetectionRadius) {
		return trap.Signal{}, false
	}
	return sig, true
}

func interruptible(state component.AIState, tuning *component.Tuning) bool {
	switch state.(type) {
	case component.Patrolling, component.Searching, component.RushingToTrap:
		return true
	case component.Chasing:
		return tuning.TrapInterruptsChase
	default:
		return false
	}
}

// arrived mirrors "path resolved and within radius" on the port.
func (s *AISystem) arrived(ctx *aiContext, radius float64) bool {
	pending, remaining := s.port.ArrivalStatus(ctx.Entity)
	return !pending && remaining < radius
}

func ensure[T any](w *ecs.World, e ecs.Entity, handle component.ComponentHandle[T]) *T {
	if v, ok := ecs.Get(w, e, handle); ok {
		return v
	}
	var zero T
	if err := ecs.Add(w, e, handle, zero); err != nil {
		return &zero
	}
	v, _ := ecs.Get(w, e, handle)
	return v
}
