package nav

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AegonSnowX/McGameJam2026/ecs"
)

const (
	collisionTypeAgent cp.CollisionType = iota + 1
	collisionTypePlayer
)

// waypointTolerance is how close a body must get before a waypoint counts as
// reached.
const waypointTolerance = 1e-3

var (
	ErrAgentExists  = errors.New("nav: agent already registered")
	ErrInvalidAgent = errors.New("nav: invalid agent")
)

type agentBody struct {
	body  *cp.Body
	shape *cp.Shape

	speed       float64
	destination cp.Vector
	hasDest     bool
	pending     bool
	unreachable bool
	path        []cp.Vector
}

// Navigator moves agents through a chipmunk space. Bodies are dynamic with
// sensor shapes so they never push each other; sensor callbacks track which
// agents touch the player.
type Navigator struct {
	space         *cp.Space
	grid          *Grid
	handlersReady bool

	agents   map[ecs.Entity]*agentBody
	shapes   map[*cp.Shape]ecs.Entity
	overlaps map[ecs.Entity]bool

	player       *cp.Body
	playerShape  *cp.Shape
	playerRadius float64

	logger *zap.Logger
	warn   *rate.Limiter
}

// NewNavigator creates a navigator. A nil grid means open ground everywhere.
func NewNavigator(grid *Grid, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	n := &Navigator{
		space:    space,
		grid:     grid,
		agents:   make(map[ecs.Entity]*agentBody),
		shapes:   make(map[*cp.Shape]ecs.Entity),
		overlaps: make(map[ecs.Entity]bool),
		logger:   logger,
		warn:     rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
	n.ensureHandlers()
	return n
}

// Grid returns the walkability grid, or nil.
func (n *Navigator) Grid() *Grid {
	return n.grid
}

// IsPlayerShape reports whether shape is the tracked player's sensor.
func (n *Navigator) IsPlayerShape(shape *cp.Shape) bool {
	return shape != nil && shape == n.playerShape
}

func (n *Navigator) Space() *cp.Space {
	return n.space
}

func (n *Navigator) ensureHandlers() {
	if n.handlersReady {
		return
	}
	handler := n.space.NewCollisionHandler(collisionTypeAgent, collisionTypePlayer)
	handler.UserData = n
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		nav, ok := userData.(*Navigator)
		if !ok || nav == nil {
			return true
		}
		if e, ok := nav.agentFromArbiter(arb); ok {
			nav.overlaps[e] = true
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		nav, ok := userData.(*Navigator)
		if !ok || nav == nil {
			return
		}
		if e, ok := nav.agentFromArbiter(arb); ok {
			delete(nav.overlaps, e)
		}
	}
	n.handlersReady = true
}

func (n *Navigator) agentFromArbiter(arb *cp.Arbiter) (ecs.Entity, bool) {
	a, b := arb.Shapes()
	if e, ok := n.shapes[a]; ok {
		return e, true
	}
	e, ok := n.shapes[b]
	return e, ok
}

func (n *Navigator) AddAgent(agent ecs.Entity, position cp.Vector, radius float64) error {
	if !agent.Valid() || radius <= 0 {
		return fmt.Errorf("%w: %v radius=%v", ErrInvalidAgent, agent, radius)
	}
	if _, ok := n.agents[agent]; ok {
		return fmt.Errorf("%w: %v", ErrAgentExists, agent)
	}

	body := cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{}))
	body.SetPosition(position)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeAgent)

	n.space.AddBody(body)
	n.space.AddShape(shape)

	n.agents[agent] = &agentBody{body: body, shape: shape}
	n.shapes[shape] = agent
	return nil
}

func (n *Navigator) RemoveAgent(agent ecs.Entity) {
	ab, ok := n.agents[agent]
	if !ok {
		return
	}
	n.space.RemoveShape(ab.shape)
	n.space.RemoveBody(ab.body)
	delete(n.shapes, ab.shape)
	delete(n.agents, agent)
	delete(n.overlaps, agent)
}

// TrackPlayer places the player's sensor body.
func (n *Navigator) TrackPlayer(position cp.Vector, radius float64) {
	if radius <= 0 {
		radius = 0.5
	}
	if n.player != nil && n.playerRadius != radius {
		n.space.RemoveShape(n.playerShape)
		n.space.RemoveBody(n.player)
		n.player, n.playerShape = nil, nil
	}
	if n.player == nil {
		n.player = cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{}))
		n.playerShape = cp.NewCircle(n.player, radius, cp.Vector{})
		n.playerShape.SetSensor(true)
		n.playerShape.SetCollisionType(collisionTypePlayer)
		n.space.AddBody(n.player)
		n.space.AddShape(n.playerShape)
		n.playerRadius = radius
	}
	n.player.SetPosition(position)
	n.player.SetVelocityVector(cp.Vector{})
}

func (n *Navigator) Overlapping(agent ecs.Entity) bool {
	return n.overlaps[agent]
}

func (n *Navigator) SetDestination(agent ecs.Entity, p cp.Vector) {
	ab, ok := n.agents[agent]
	if !ok {
		return
	}
	if ab.hasDest && !ab.unreachable && ab.destination == p {
		return
	}
	ab.destination = p
	ab.hasDest = true
	ab.pending = true
	ab.unreachable = false
	ab.path = nil
}

func (n *Navigator) SetSpeed(agent ecs.Entity, speed float64) {
	if ab, ok := n.agents[agent]; ok {
		ab.speed = math.Max(0, speed)
	}
}

// Speed returns the commanded speed.
func (n *Navigator) Speed(agent ecs.Entity) float64 {
	if ab, ok := n.agents[agent]; ok {
		return ab.speed
	}
	return 0
}

// Destination returns the commanded destination, if any.
func (n *Navigator) Destination(agent ecs.Entity) (cp.Vector, bool) {
	ab, ok := n.agents[agent]
	if !ok || !ab.hasDest {
		return cp.Vector{}, false
	}
	return ab.destination, true
}

// Path returns a copy of the remaining waypoints.
func (n *Navigator) Path(agent ecs.Entity) []cp.Vector {
	ab, ok := n.agents[agent]
	if !ok {
		return nil
	}
	return slices.Clone(ab.path)
}

func (n *Navigator) ArrivalStatus(agent ecs.Entity) (bool, float64) {
	ab, ok := n.agents[agent]
	if !ok {
		return false, math.Inf(1)
	}
	if !ab.hasDest {
		return false, 0
	}
	pos := ab.body.Position()
	if ab.pending {
		return true, pos.Distance(ab.destination)
	}
	if ab.unreachable {
		return false, math.Inf(1)
	}
	remaining := 0.0
	for _, wp := range ab.path {
		remaining += pos.Distance(wp)
		pos = wp
	}
	return false, remaining
}

func (n *Navigator) Velocity(agent ecs.Entity) cp.Vector {
	if ab, ok := n.agents[agent]; ok {
		return ab.body.Velocity()
	}
	return cp.Vector{}
}

func (n *Navigator) Position(agent ecs.Entity) cp.Vector {
	if ab, ok := n.agents[agent]; ok {
		return ab.body.Position()
	}
	return cp.Vector{}
}

func (n *Navigator) Warp(agent ecs.Entity, p cp.Vector) {
	ab, ok := n.agents[agent]
	if !ok {
		return
	}
	ab.body.SetPosition(p)
	ab.body.SetVelocityVector(cp.Vector{})
	ab.hasDest = false
	ab.pending = false
	ab.unreachable = false
	ab.path = nil
}

func (n *Navigator) SamplePosition(p cp.Vector, maxDistance float64) (cp.Vector, bool) {
	if n.grid == nil {
		return p, true
	}
	return n.grid.Nearest(p, maxDistance)
}

// Step plans pending paths, steers every agent along its path and advances
// the space.
func (n *Navigator) Step(dt float64) {
	ids := make([]ecs.Entity, 0, len(n.agents))
	for e := range n.agents {
		ids = append(ids, e)
	}
	slices.Sort(ids)

	for _, e := range ids {
		ab := n.agents[e]
		if ab.pending {
			n.plan(e, ab)
		}
		ab.body.SetVelocityVector(n.steer(ab, dt))
	}

	if dt <= 0 {
		return
	}
	n.space.Step(dt)

	for _, e := range ids {
		ab := n.agents[e]
		pos := ab.body.Position()
		for len(ab.path) > 0 && pos.Distance(ab.path[0]) <= waypointTolerance {
			ab.path = ab.path[1:]
		}
		if len(ab.path) == 0 {
			ab.body.SetVelocityVector(cp.Vector{})
		}
	}
}

func (n *Navigator) plan(e ecs.Entity, ab *agentBody) {
	ab.pending = false
	if n.grid == nil {
		ab.path = []cp.Vector{ab.destination}
		return
	}
	path, ok := n.grid.FindPath(ab.body.Position(), ab.destination)
	if !ok {
		ab.unreachable = true
		ab.path = nil
		if n.warn.Allow() {
			n.logger.Warn("destination unreachable",
				zap.Stringer("agent", e),
				zap.Float64("x", ab.destination.X),
				zap.Float64("y", ab.destination.Y),
			)
		}
		return
	}
	ab.path = path
}

// steer returns the velocity toward the next waypoint, clamped so the body
// lands on the waypoint instead of overshooting it.
func (n *Navigator) steer(ab *agentBody, dt float64) cp.Vector {
	if len(ab.path) == 0 || ab.speed <= 0 || dt <= 0 {
		return cp.Vector{}
	}
	delta := ab.path[0].Sub(ab.body.Position())
	dist := delta.Length()
	if dist <= waypointTolerance {
		return cp.Vector{}
	}
	speed := math.Min(ab.speed, dist/dt)
	return delta.Mult(speed / dist)
}
