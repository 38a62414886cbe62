package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/common"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/trap"
)

func (s *AISystem) perceive(ctx *aiContext) Sample {
	return Perceive(ctx.Position, s.player, ctx.Noise, *ctx.Tuning)
}

// chaseSpeed interpolates between base and max chase speed by noise.
func chaseSpeed(tuning *component.Tuning, level float64) float64 {
	return common.Lerp(tuning.BaseSpeed, tuning.MaxChaseSpeed, common.Clamp01(level*tuning.NoiseMultiplier))
}

func (s *AISystem) enterPatrolling(ctx *aiContext) component.AIState {
	s.port.SetSpeed(ctx.Entity, ctx.Tuning.PatrolSpeed)
	if target, ok := ctx.Route.Current(); ok {
		s.port.SetDestination(ctx.Entity, target)
	}
	return component.Patrolling{}
}

func (s *AISystem) tickPatrolling(ctx *aiContext, st component.Patrolling) component.AIState {
	if sample := s.perceive(ctx); sample.CanAcquire() {
		return s.enterChasing(ctx, sample)
	}

	s.port.SetSpeed(ctx.Entity, ctx.Tuning.PatrolSpeed)

	if target, ok := ctx.Route.Current(); ok {
		if st.Waiting {
			remaining, expired := common.TickDown(st.WaitTimer, ctx.DT)
			st.WaitTimer = remaining
			if expired {
				st.Waiting = false
				ctx.Route.Advance()
			}
			return st
		}

		s.port.SetDestination(ctx.Entity, target)
		if s.arrived(ctx, ctx.Tuning.ArrivalRadius) {
			st.Waiting = true
			st.WaitTimer = ctx.Tuning.PatrolWait
		}
		return st
	}

	remaining, expired := common.TickDown(st.WanderTimer, ctx.DT)
	st.WanderTimer = remaining
	if expired || s.arrived(ctx, ctx.Tuning.ArrivalRadius) {
		st.WanderTarget = s.wanderPoint(ctx)
		st.HasWanderTarget = true
		st.WanderTimer = ctx.Random.Range(ctx.Tuning.MinWanderInterval, ctx.Tuning.MaxWanderInterval)
		s.port.SetDestination(ctx.Entity, st.WanderTarget)
	}
	return st
}

// wanderPoint samples uniformly inside the wander disk around the spawn
// point, projected onto walkable space when the port can do so.
func (s *AISystem) wanderPoint(ctx *aiContext) cp.Vector {
	home := ctx.Route.Home
	angle := ctx.Random.Float64() * 2 * math.Pi
	r := ctx.Tuning.WanderRadius * math.Sqrt(ctx.Random.Float64())
	p := home.Add(cp.Vector{X: math.Cos(angle) * r, Y: math.Sin(angle) * r})

	sampler, ok := s.port.(nav.PositionSampler)
	if !ok {
		return p
	}
	if hit, ok := sampler.SamplePosition(p, ctx.Tuning.WanderRadius); ok {
		return hit
	}
	return ctx.Position
}

// enterChasing records the player's position and commands the pursuit in the
// same tick the player is acquired.
func (s *AISystem) enterChasing(ctx *aiContext, sample Sample) component.AIState {
	ctx.Memory.LastKnown = s.player.Position()
	ctx.Memory.Known = true
	speed := chaseSpeed(ctx.Tuning, sample.Noise)

	s.port.SetSpeed(ctx.Entity, speed)
	s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
	return component.Chasing{MemoryTimer: ctx.Tuning.MemoryDuration, Speed: speed}
}

func (s *AISystem) tickChasing(ctx *aiContext, st component.Chasing) component.AIState {
	if sample := s.perceive(ctx); sample.CanMaintain() {
		ctx.Memory.LastKnown = s.player.Position()
		ctx.Memory.Known = true
		st.MemoryTimer = ctx.Tuning.MemoryDuration
		st.Speed = chaseSpeed(ctx.Tuning, sample.Noise)
	} else {
		remaining, expired := common.TickDown(st.MemoryTimer, ctx.DT)
		st.MemoryTimer = remaining
		if expired {
			return s.enterSearching(ctx)
		}
	}

	s.port.SetSpeed(ctx.Entity, st.Speed)
	s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
	return st
}

func (s *AISystem) enterSearching(ctx *aiContext) component.AIState {
	s.port.SetSpeed(ctx.Entity, ctx.Tuning.SearchSpeed)
	s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
	return component.Searching{}
}

func (s *AISystem) tickSearching(ctx *aiContext, st component.Searching) component.AIState {
	if sample := s.perceive(ctx); sample.CanReacquire() {
		return s.enterChasing(ctx, sample)
	}

	s.port.SetSpeed(ctx.Entity, ctx.Tuning.SearchSpeed)
	if s.arrived(ctx, ctx.Tuning.SearchArrivalRadius) {
		return s.enterPatrolling(ctx)
	}
	s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
	return st
}

// enterRush saves the interrupted state. Re-targeting an ongoing rush keeps
// the state saved by the first interrupt.
func (s *AISystem) enterRush(ctx *aiContext, sig trap.Signal, prev component.AIState) component.AIState {
	resume := prev
	if rush, ok := prev.(component.RushingToTrap); ok {
		resume = rush.Resume
	}
	s.port.SetSpeed(ctx.Entity, ctx.Tuning.TrapRushSpeed)
	s.port.SetDestination(ctx.Entity, sig.Position)
	return component.RushingToTrap{SignalID: sig.ID, Target: sig.Position, Resume: resume}
}

// tickRushing ignores the player entirely until the agent reaches the trap or
// the signal goes quiet.
func (s *AISystem) tickRushing(ctx *aiContext, st component.RushingToTrap) component.AIState {
	sig, active := s.traps.Active()
	if !active || sig.ID != st.SignalID {
		return s.resume(ctx, st.Resume)
	}
	if ctx.Position.Distance(st.Target) <= ctx.Tuning.TrapArrivalRadius {
		return s.resume(ctx, st.Resume)
	}
	s.port.SetSpeed(ctx.Entity, ctx.Tuning.TrapRushSpeed)
	s.port.SetDestination(ctx.Entity, st.Target)
	return st
}

// resume restores the state saved at interrupt time together with the speed
// that state runs at.
func (s *AISystem) resume(ctx *aiContext, saved component.AIState) component.AIState {
	switch st := saved.(type) {
	case component.Patrolling:
		st.WanderTimer = 0
		s.port.SetSpeed(ctx.Entity, ctx.Tuning.PatrolSpeed)
		if target, ok := ctx.Route.Current(); ok && !st.Waiting {
			s.port.SetDestination(ctx.Entity, target)
		}
		return st
	case component.Chasing:
		s.port.SetSpeed(ctx.Entity, st.Speed)
		s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
		return st
	case component.Searching:
		s.port.SetSpeed(ctx.Entity, ctx.Tuning.SearchSpeed)
		s.port.SetDestination(ctx.Entity, ctx.Memory.LastKnown)
		return st
	default:
		return s.enterPatrolling(ctx)
	}
}

// tickAttacking keeps the agent pinned until the attack window closes, then
// queues the strike and falls back to patrolling in the same tick.
func (s *AISystem) tickAttacking(ctx *aiContext, st component.Attacking) component.AIState {
	s.port.SetSpeed(ctx.Entity, 0)
	remaining, expired := common.TickDown(st.Remaining, ctx.DT)
	if !expired {
		st.Remaining = remaining
		return st
	}
	s.resolver.QueueStrike(ctx.Entity)
	return s.enterPatrolling(ctx)
}
