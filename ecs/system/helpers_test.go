package system

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/trap"
)

type fakePort struct {
	pos     map[ecs.Entity]cp.Vector
	dest    map[ecs.Entity]cp.Vector
	speed   map[ecs.Entity]float64
	vel     map[ecs.Entity]cp.Vector
	pending bool
	// moves makes Step walk agents toward their destination.
	moves bool
}

func newFakePort() *fakePort {
	return &fakePort{
		pos:   map[ecs.Entity]cp.Vector{},
		dest:  map[ecs.Entity]cp.Vector{},
		speed: map[ecs.Entity]float64{},
		vel:   map[ecs.Entity]cp.Vector{},
	}
}

func (p *fakePort) SetDestination(e ecs.Entity, d cp.Vector) { p.dest[e] = d }
func (p *fakePort) SetSpeed(e ecs.Entity, s float64)        { p.speed[e] = s }
func (p *fakePort) Velocity(e ecs.Entity) cp.Vector         { return p.vel[e] }
func (p *fakePort) Position(e ecs.Entity) cp.Vector         { return p.pos[e] }

func (p *fakePort) ArrivalStatus(e ecs.Entity) (bool, float64) {
	d, ok := p.dest[e]
	if !ok {
		return p.pending, 0
	}
	return p.pending, p.pos[e].Distance(d)
}

func (p *fakePort) Warp(e ecs.Entity, to cp.Vector) {
	p.pos[e] = to
	delete(p.dest, e)
}

func (p *fakePort) Step(dt float64) {
	if !p.moves {
		return
	}
	for e, d := range p.dest {
		delta := d.Sub(p.pos[e])
		dist := delta.Length()
		step := p.speed[e] * dt
		if dist <= step || dist == 0 {
			p.pos[e] = d
			p.vel[e] = cp.Vector{}
			continue
		}
		v := delta.Mult(p.speed[e] / dist)
		p.vel[e] = v
		p.pos[e] = p.pos[e].Add(v.Mult(dt))
	}
}

type fakePlayer struct {
	pos   cp.Vector
	alive bool
	kills int
}

func (p *fakePlayer) Position() cp.Vector { return p.pos }
func (p *fakePlayer) Alive() bool         { return p.alive }
func (p *fakePlayer) Kill() {
	p.kills++
	p.alive = false
}

type recordingAnimator struct {
	last map[ecs.Entity]component.MoveIntent
}

func (a *recordingAnimator) SetIntent(e ecs.Entity, intent component.MoveIntent) {
	a.last[e] = intent
}

type rig struct {
	w        *ecs.World
	port     *fakePort
	player   *fakePlayer
	noise    *noise.Fixed
	traps    *trap.Registry
	now      float64
	sched    *ecs.Scheduler
	animator *recordingAnimator
	events   []ecs.Event
	t        *testing.T
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		w:        ecs.NewWorld(),
		port:     newFakePort(),
		player:   &fakePlayer{pos: cp.Vector{X: 100, Y: 100}, alive: true},
		noise:    &noise.Fixed{},
		animator: &recordingAnimator{last: map[ecs.Entity]component.MoveIntent{}},
	}
	r.traps = trap.NewRegistry(trap.ClockFunc(func() float64 { return r.now }), 5, nil)

	encounter := NewEncounterSystem(r.port, r.player, nil, 0.5, nil)
	r.sched = ecs.NewScheduler(
		NewAISystem(r.port, r.noise, r.traps, r.player, encounter, nil),
		NewNavSystem(r.port, r.player, 0.5),
		encounter,
		NewIntentSystem(r.port, r.animator),
	)
	return r
}

func (r *rig) spawn(t *testing.T, pos cp.Vector, tuning component.Tuning, patrol ...cp.Vector) ecs.Entity {
	t.Helper()
	e := r.w.CreateEntity()
	require.NoError(t, ecs.Add(r.w, e, component.AgentComponent, component.Agent{Name: "test"}))
	require.NoError(t, ecs.Add(r.w, e, component.BrainComponent, component.Brain{State: component.Patrolling{}}))
	require.NoError(t, ecs.Add(r.w, e, component.TuningComponent, tuning))
	require.NoError(t, ecs.Add(r.w, e, component.MemoryComponent, component.Memory{}))
	require.NoError(t, ecs.Add(r.w, e, component.PatrolRouteComponent, component.PatrolRoute{Points: patrol, Home: pos}))
	require.NoError(t, ecs.Add(r.w, e, component.RandomComponent, component.Random{Rand: rand.New(rand.NewSource(7))}))
	require.NoError(t, ecs.Add(r.w, e, component.TransformComponent, component.Transform{Position: pos}))
	require.NoError(t, ecs.Add(r.w, e, component.MoveIntentComponent, component.MoveIntent{}))
	r.port.pos[e] = pos

	r.traps.Subscribe(func(sig trap.Signal) {
		_ = ecs.Add(r.w, e, component.TrapAlertComponent, component.TrapAlert{SignalID: sig.ID, Position: sig.Position})
	})
	return e
}

func (r *rig) tick(dt float64) {
	r.now += dt
	r.sched.Update(r.w, dt)
	r.events = append(r.events, r.w.Events().Drain()...)
}

func (r *rig) state(t *testing.T, e ecs.Entity) component.AIState {
	t.Helper()
	brain, ok := ecs.Get(r.w, e, component.BrainComponent)
	require.True(t, ok)
	return brain.State
}

func (r *rig) setState(t *testing.T, e ecs.Entity, st component.AIState) {
	t.Helper()
	brain, ok := ecs.Get(r.w, e, component.BrainComponent)
	require.True(t, ok)
	brain.State = st
}

func (r *rig) count(kind ecs.EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
