package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

const dt = 0.1

func TestPatrollingAcquiresOnNextTick(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())

	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.5)
	r.tick(dt)

	st, ok := r.state(t, e).(component.Chasing)
	require.True(t, ok, "got %T", r.state(t, e))
	assert.Equal(t, r.player.pos, r.port.dest[e])
	assert.InDelta(t, 8, r.port.speed[e], 1e-12)
	assert.InDelta(t, 8, st.Speed, 1e-12)
	assert.Equal(t, 3.0, st.MemoryTimer)

	mem, _ := ecs.Get(r.w, e, component.MemoryComponent)
	assert.True(t, mem.Known)
	assert.Equal(t, r.player.pos, mem.LastKnown)
	assert.Equal(t, 1, r.count(EventTransition))
}

func TestNoiseAtChaseThresholdDoesNotAcquire(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.2)

	for i := 0; i < 10; i++ {
		r.tick(dt)
		assert.IsType(t, component.Patrolling{}, r.state(t, e))
	}
}

func TestChasingLosesPlayerAfterMemoryDuration(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())

	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.5)
	r.tick(dt)
	require.IsType(t, component.Chasing{}, r.state(t, e))

	lastHeard := r.player.pos
	r.player.pos = cp.Vector{X: 7, Y: 2}
	r.noise.Set(0)

	// 29 quiet ticks = 2.9s: still chasing the remembered position
	for i := 0; i < 29; i++ {
		r.tick(dt)
		require.IsType(t, component.Chasing{}, r.state(t, e), "tick %d", i+1)
		assert.Equal(t, lastHeard, r.port.dest[e])
	}

	r.tick(dt) // 3.0s
	assert.IsType(t, component.Searching{}, r.state(t, e))
	assert.Equal(t, lastHeard, r.port.dest[e])
	assert.Equal(t, component.DefaultTuning().SearchSpeed, r.port.speed[e])
}

func TestNoiseAtLoseThresholdDoesNotRefreshMemory(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())

	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.5)
	r.tick(dt)

	r.player.pos = cp.Vector{X: 6}
	r.noise.Set(0.05)
	r.tick(dt)

	st := r.state(t, e).(component.Chasing)
	assert.InDelta(t, 2.9, st.MemoryTimer, 1e-9)
	mem, _ := ecs.Get(r.w, e, component.MemoryComponent)
	assert.Equal(t, cp.Vector{X: 5}, mem.LastKnown)

	// just above the lose threshold refreshes both
	r.noise.Set(0.051)
	r.tick(dt)
	st = r.state(t, e).(component.Chasing)
	assert.Equal(t, 3.0, st.MemoryTimer)
	assert.Equal(t, cp.Vector{X: 6}, mem.LastKnown)
}

func TestChasingSpeedFollowsNoise(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.5)
	r.tick(dt)

	r.noise.Set(0.25)
	r.tick(dt)
	assert.InDelta(t, 5, r.port.speed[e], 1e-12)
}

func TestChasingOutOfRangeKeepsHearing(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.9)
	r.tick(dt)

	r.player.pos = cp.Vector{X: 40}
	for i := 0; i < 31; i++ {
		r.tick(dt)
	}
	st, ok := r.state(t, e).(component.Chasing)
	require.True(t, ok, "got %T", r.state(t, e))
	assert.Equal(t, 3.0, st.MemoryTimer)
	assert.Equal(t, cp.Vector{X: 40}, r.port.dest[e])

	r.player.alive = false
	r.tick(dt)
	st = r.state(t, e).(component.Chasing)
	assert.InDelta(t, 2.9, st.MemoryTimer, 1e-9, "a dead player is not heard")
}

func TestSearchingReacquiresOrGivesUp(t *testing.T) {
	t.Run("reacquire", func(t *testing.T) {
		r := newRig(t)
		e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
		r.setState(t, e, component.Searching{})
		r.player.pos = cp.Vector{X: 3}
		r.noise.Set(0.3)
		r.tick(dt)
		assert.IsType(t, component.Chasing{}, r.state(t, e))
		assert.Equal(t, cp.Vector{X: 3}, r.port.dest[e])
	})

	t.Run("reacquire_out_of_range", func(t *testing.T) {
		r := newRig(t)
		tuning := component.DefaultTuning()
		tuning.DetectionRadius = 15
		e := r.spawn(t, cp.Vector{}, tuning)
		r.setState(t, e, component.Searching{})
		r.player.pos = cp.Vector{X: 20}
		r.noise.Set(0.5)
		r.tick(dt)
		assert.IsType(t, component.Chasing{}, r.state(t, e))
		assert.Equal(t, cp.Vector{X: 20}, r.port.dest[e])
	})

	t.Run("quiet_out_of_range", func(t *testing.T) {
		r := newRig(t)
		e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
		r.setState(t, e, component.Searching{})
		r.player.pos = cp.Vector{X: 20}
		r.noise.Set(0.2)
		r.tick(dt)
		assert.IsType(t, component.Searching{}, r.state(t, e))
	})

	t.Run("arrive_without_contact", func(t *testing.T) {
		r := newRig(t)
		r.port.moves = true
		e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
		mem, _ := ecs.Get(r.w, e, component.MemoryComponent)
		mem.LastKnown = cp.Vector{X: 1}
		mem.Known = true
		r.setState(t, e, component.Searching{})
		r.port.dest[e] = mem.LastKnown

		r.tick(dt)
		require.IsType(t, component.Searching{}, r.state(t, e))
		assert.Equal(t, cp.Vector{X: 1}, r.port.dest[e])

		for i := 0; i < 20; i++ {
			r.tick(dt)
			if _, ok := r.state(t, e).(component.Patrolling); ok {
				return
			}
		}
		t.Fatalf("still %T after reaching the last known position", r.state(t, e))
	})
}

func TestPatrolRouteWaitsThenAdvances(t *testing.T) {
	r := newRig(t)
	tuning := component.DefaultTuning()
	tuning.PatrolWait = 1
	e := r.spawn(t, cp.Vector{}, tuning, cp.Vector{}, cp.Vector{X: 4})

	r.tick(dt)
	st := r.state(t, e).(component.Patrolling)
	assert.True(t, st.Waiting)
	assert.Equal(t, cp.Vector{}, r.port.dest[e])
	assert.Equal(t, tuning.PatrolSpeed, r.port.speed[e])

	for i := 0; i < 10; i++ {
		r.tick(dt)
	}
	st = r.state(t, e).(component.Patrolling)
	assert.False(t, st.Waiting)
	route, _ := ecs.Get(r.w, e, component.PatrolRouteComponent)
	assert.Equal(t, 1, route.Index)

	r.tick(dt)
	assert.Equal(t, cp.Vector{X: 4}, r.port.dest[e])
}

func TestWanderPicksPointAroundHome(t *testing.T) {
	r := newRig(t)
	tuning := component.DefaultTuning()
	home := cp.Vector{X: 10, Y: -3}
	e := r.spawn(t, home, tuning)

	r.tick(dt)
	st := r.state(t, e).(component.Patrolling)
	require.True(t, st.HasWanderTarget)
	assert.LessOrEqual(t, st.WanderTarget.Distance(home), tuning.WanderRadius)
	assert.Equal(t, st.WanderTarget, r.port.dest[e])
	assert.GreaterOrEqual(t, st.WanderTimer, tuning.MinWanderInterval)
	assert.Less(t, st.WanderTimer, tuning.MaxWanderInterval)

	first := st.WanderTarget
	// wander timer has not run out and the agent is not there yet
	r.tick(dt)
	st = r.state(t, e).(component.Patrolling)
	if first.Distance(home) >= tuning.ArrivalRadius {
		assert.Equal(t, first, st.WanderTarget)
	}
}

func TestAbsentPlayerNeverDetected(t *testing.T) {
	r := newRig(t)
	r.player.alive = false
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	r.player.pos = cp.Vector{X: 1}
	r.noise.Set(1)

	r.tick(dt)
	assert.IsType(t, component.Patrolling{}, r.state(t, e))
}

func TestStunSkipsAI(t *testing.T) {
	r := newRig(t)
	e := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	require.NoError(t, ecs.Add(r.w, e, component.StunnedComponent, component.Stunned{Remaining: 0.5}))
	r.player.pos = cp.Vector{X: 3}
	r.noise.Set(1)

	for i := 0; i < 4; i++ {
		r.tick(dt)
		assert.IsType(t, component.Patrolling{}, r.state(t, e))
		assert.Zero(t, r.port.speed[e])
	}
	r.tick(dt)
	assert.False(t, ecs.Has(r.w, e, component.StunnedComponent))
	assert.IsType(t, component.Chasing{}, r.state(t, e))
}

func TestAgentsDecideIndependently(t *testing.T) {
	r := newRig(t)
	near := r.spawn(t, cp.Vector{}, component.DefaultTuning())
	far := r.spawn(t, cp.Vector{X: 50}, component.DefaultTuning())
	r.player.pos = cp.Vector{X: 5}
	r.noise.Set(0.5)

	r.tick(dt)
	assert.IsType(t, component.Chasing{}, r.state(t, near))
	assert.IsType(t, component.Patrolling{}, r.state(t, far))
}
