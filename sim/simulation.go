package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/ecs/system"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
	"github.com/AegonSnowX/McGameJam2026/trap"
)

var (
	ErrNilPort       = errors.New("sim: nil pathing port")
	ErrUnknownAgent  = errors.New("sim: unknown agent")
	ErrDuplicateName = errors.New("sim: duplicate agent name")
)

// Options wires a Simulation. Only Port is required.
type Options struct {
	Port  nav.Port
	Noise noise.Source
	// Player may be nil; agents then never detect or attack anyone.
	Player       *Player
	TrapDuration float64
	Seed         int64
	Animator     system.Animator
	Logger       *zap.Logger
}

type agentRecord struct {
	name     string
	prefab   string
	override prefabs.LevelAgentSpec
	sub      trap.Subscription
}

// Simulation owns the world, the trap registry and the system schedule for
// one level.
type Simulation struct {
	world     *ecs.World
	port      nav.Port
	noise     noise.Source
	player    *Player
	clock     *Clock
	traps     *trap.Registry
	sched     *ecs.Scheduler
	encounter *system.EncounterSystem

	paused  bool
	ticks   uint64
	seed    int64
	spawned int64

	agents map[ecs.Entity]*agentRecord
	names  map[string]ecs.Entity

	triggers  []*TrapTrigger
	teleports []*TeleportTrap

	killListeners       []func(killer ecs.Entity)
	transitionListeners []func(agent ecs.Entity, t system.Transition)

	logger *zap.Logger
}

func New(opts Options) (*Simulation, error) {
	if opts.Port == nil {
		return nil, ErrNilPort
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	duration := opts.TrapDuration
	if duration <= 0 {
		duration = trap.DefaultDuration
	}

	s := &Simulation{
		world:  ecs.NewWorld(),
		port:   opts.Port,
		noise:  opts.Noise,
		player: opts.Player,
		clock:  &Clock{},
		seed:   opts.Seed,
		agents: make(map[ecs.Entity]*agentRecord),
		names:  make(map[string]ecs.Entity),
		logger: logger,
	}
	s.traps = trap.NewRegistry(s.clock, duration, logger.Named("trap"))

	var player system.Player
	var radius float64
	if opts.Player != nil {
		player = opts.Player
		radius = opts.Player.Radius()
	}
	var detector nav.OverlapDetector
	if d, ok := opts.Port.(nav.OverlapDetector); ok {
		detector = d
	}

	aiLogger := logger.Named("ai")
	s.encounter = system.NewEncounterSystem(opts.Port, player, detector, radius, aiLogger)
	s.sched = ecs.NewScheduler(
		system.NewAISystem(opts.Port, opts.Noise, s.traps, player, s.encounter, aiLogger),
		system.NewNavSystem(opts.Port, player, radius),
		s.encounter,
		system.NewIntentSystem(opts.Port, opts.Animator),
	)
	return s, nil
}

func (s *Simulation) World() *ecs.World     { return s.world }
func (s *Simulation) Traps() *trap.Registry { return s.traps }
func (s *Simulation) Player() *Player       { return s.player }
func (s *Simulation) Port() nav.Port        { return s.port }
func (s *Simulation) Noise() noise.Source   { return s.noise }
func (s *Simulation) Clock() *Clock         { return s.clock }
func (s *Simulation) Ticks() uint64         { return s.ticks }

func (s *Simulation) Triggers() []*TrapTrigger {
	return s.triggers
}

func (s *Simulation) TeleportTraps() []*TeleportTrap {
	return s.teleports
}

func (s *Simulation) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.logger.Debug("pause", zap.Bool("paused", paused))
}

func (s *Simulation) Paused() bool { return s.paused }

// OnPlayerKilled registers fn to run once per kill with the attacking agent.
func (s *Simulation) OnPlayerKilled(fn func(killer ecs.Entity)) {
	if fn != nil {
		s.killListeners = append(s.killListeners, fn)
	}
}

// OnTransition registers fn for every AI state change.
func (s *Simulation) OnTransition(fn func(agent ecs.Entity, t system.Transition)) {
	if fn != nil {
		s.transitionListeners = append(s.transitionListeners, fn)
	}
}

// AgentConfig describes one agent to spawn.
type AgentConfig struct {
	Name     string
	Prefab   string
	Position cp.Vector
	Tuning   component.Tuning
	Patrol   []cp.Vector
}

// SpawnAgent validates the tuning, registers the agent with the port and
// subscribes it to trap signals.
func (s *Simulation) SpawnAgent(cfg AgentConfig) (ecs.Entity, error) {
	if err := cfg.Tuning.Validate(); err != nil {
		return 0, fmt.Errorf("sim: spawn %q: %w", cfg.Name, err)
	}
	if cfg.Name != "" {
		if _, taken := s.names[cfg.Name]; taken {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateName, cfg.Name)
		}
	}

	e := s.world.CreateEntity()
	if host, ok := s.port.(nav.AgentHost); ok {
		if err := host.AddAgent(e, cfg.Position, cfg.Tuning.BodyRadius); err != nil {
			s.world.DestroyEntity(e)
			return 0, fmt.Errorf("sim: spawn %q: %w", cfg.Name, err)
		}
	} else {
		s.port.Warp(e, cfg.Position)
	}

	patrol := append([]cp.Vector(nil), cfg.Patrol...)
	rng := rand.New(rand.NewSource(s.seed + s.spawned))
	s.spawned++

	adds := []error{
		ecs.Add(s.world, e, component.AgentComponent, component.Agent{Name: cfg.Name}),
		ecs.Add(s.world, e, component.BrainComponent, component.Brain{State: component.Patrolling{}}),
		ecs.Add(s.world, e, component.TuningComponent, cfg.Tuning),
		ecs.Add(s.world, e, component.MemoryComponent, component.Memory{}),
		ecs.Add(s.world, e, component.PatrolRouteComponent, component.PatrolRoute{Points: patrol, Home: cfg.Position}),
		ecs.Add(s.world, e, component.RandomComponent, component.Random{Rand: rng}),
		ecs.Add(s.world, e, component.TransformComponent, component.Transform{Position: cfg.Position}),
		ecs.Add(s.world, e, component.MoveIntentComponent, component.MoveIntent{Direction: component.DefaultFacing}),
	}
	if err := errors.Join(adds...); err != nil {
		s.destroy(e)
		return 0, fmt.Errorf("sim: spawn %q: %w", cfg.Name, err)
	}
	s.port.SetSpeed(e, cfg.Tuning.PatrolSpeed)

	alert := func(sig trap.Signal) {
		if !s.world.IsAlive(e) {
			return
		}
		_ = ecs.Add(s.world, e, component.TrapAlertComponent, component.TrapAlert{SignalID: sig.ID, Position: sig.Position})
	}
	rec := &agentRecord{name: cfg.Name, prefab: cfg.Prefab}
	rec.sub = s.traps.Subscribe(alert)
	// A sound that started before the spawn is still heard.
	if sig, ok := s.traps.Active(); ok {
		alert(sig)
	}
	s.agents[e] = rec
	if cfg.Name != "" {
		s.names[cfg.Name] = e
	}

	s.logger.Debug("agent spawned",
		zap.Stringer("agent", e),
		zap.String("name", cfg.Name),
		zap.Float64("x", cfg.Position.X),
		zap.Float64("y", cfg.Position.Y),
	)
	return e, nil
}

// Despawn removes the agent from the world, the port and the trap observers.
func (s *Simulation) Despawn(e ecs.Entity) error {
	rec, ok := s.agents[e]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownAgent, e)
	}
	s.traps.Unsubscribe(rec.sub)
	delete(s.agents, e)
	if rec.name != "" {
		delete(s.names, rec.name)
	}
	s.destroy(e)
	return nil
}

func (s *Simulation) destroy(e ecs.Entity) {
	if host, ok := s.port.(nav.AgentHost); ok {
		host.RemoveAgent(e)
	}
	s.world.DestroyEntity(e)
}

// Agent looks up a spawned agent by name.
func (s *Simulation) Agent(name string) (ecs.Entity, bool) {
	e, ok := s.names[name]
	return e, ok
}

// Agents returns live agents in id order.
func (s *Simulation) Agents() []ecs.Entity {
	return s.world.Query(component.AgentComponent.ID())
}

func (s *Simulation) State(e ecs.Entity) (component.AIState, bool) {
	brain, ok := ecs.Get(s.world, e, component.BrainComponent)
	if !ok {
		return nil, false
	}
	if brain.State == nil {
		return component.Patrolling{}, true
	}
	return brain.State, true
}

func (s *Simulation) Intent(e ecs.Entity) (component.MoveIntent, bool) {
	intent, ok := ecs.Get(s.world, e, component.MoveIntentComponent)
	if !ok {
		return component.MoveIntent{}, false
	}
	return *intent, true
}

// ApplyTuning swaps an agent's tuning in place. The current state and its
// timers are kept.
func (s *Simulation) ApplyTuning(e ecs.Entity, tuning component.Tuning) error {
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("sim: tuning: %w", err)
	}
	current, ok := ecs.Get(s.world, e, component.TuningComponent)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownAgent, e)
	}
	*current = tuning
	return nil
}

func (s *Simulation) AddTrapTrigger(t *TrapTrigger) {
	if t != nil {
		s.triggers = append(s.triggers, t)
	}
}

func (s *Simulation) AddTeleportTrap(t *TeleportTrap) {
	if t != nil {
		s.teleports = append(s.teleports, t)
	}
}

// Update advances one tick. Nothing moves while paused: the clock, the
// noise source, trap expiry and every agent timer stay frozen.
func (s *Simulation) Update(dt float64) {
	if s.paused || dt <= 0 {
		return
	}
	s.ticks++
	s.clock.Advance(dt)
	if ticker, ok := s.noise.(noise.Ticker); ok {
		ticker.Tick(dt)
	}

	if s.player != nil && s.player.Alive() {
		for _, t := range s.triggers {
			t.Check(s.player, s.traps)
		}
		for _, t := range s.teleports {
			t.Check(s.world, s.port, s.player, s.traps)
		}
	}

	s.sched.Update(s.world, dt)
	s.dispatch(s.world.Events().Drain())
}

func (s *Simulation) dispatch(events []ecs.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case system.EventPlayerKilled:
			for _, fn := range s.killListeners {
				fn(ev.Entity)
			}
		case system.EventTransition:
			tr, ok := ev.Data.(system.Transition)
			if !ok {
				continue
			}
			for _, fn := range s.transitionListeners {
				fn(ev.Entity, tr)
			}
		}
	}
}
