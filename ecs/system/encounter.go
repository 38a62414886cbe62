package system

import (
	"go.uber.org/zap"

	"github.com/AegonSnowX/McGameJam2026/common"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/nav"
)

// EncounterSystem turns agent/player contact into attacks and resolves the
// strikes queued when attack windows close. It runs after the AI and movement
// so every agent perceives the same player for the whole tick.
type EncounterSystem struct {
	port         nav.Port
	player       Player
	detector     nav.OverlapDetector
	playerRadius float64
	logger       *zap.Logger

	strikes []ecs.Entity
}

// NewEncounterSystem uses detector for contact when given, otherwise a
// distance test between the agent body radius and playerRadius.
func NewEncounterSystem(port nav.Port, player Player, detector nav.OverlapDetector, playerRadius float64, logger *zap.Logger) *EncounterSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EncounterSystem{
		port:         port,
		player:       player,
		detector:     detector,
		playerRadius: playerRadius,
		logger:       logger,
	}
}

func (s *EncounterSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	s.resolveStrikes(w)
	if s.port == nil || s.player == nil || !s.player.Alive() {
		return
	}

	for _, e := range w.Query(component.AgentComponent.ID(), component.BrainComponent.ID(), component.TuningComponent.ID()) {
		brain, _ := ecs.Get(w, e, component.BrainComponent)
		tuning, _ := ecs.Get(w, e, component.TuningComponent)
		if brain == nil || tuning == nil {
			continue
		}
		if _, attacking := brain.State.(component.Attacking); attacking {
			continue
		}
		if !s.overlapping(e, tuning) {
			continue
		}
		s.startAttack(w, e, brain, tuning)
	}
}

func (s *EncounterSystem) overlapping(e ecs.Entity, tuning *component.Tuning) bool {
	if s.detector != nil {
		return s.detector.Overlapping(e)
	}
	return common.Within(s.port.Position(e), s.player.Position(), tuning.BodyRadius+s.playerRadius)
}

// startAttack pre-empts whatever the agent was doing.
func (s *EncounterSystem) startAttack(w *ecs.World, e ecs.Entity, brain *component.Brain, tuning *component.Tuning) {
	from := brain.Current()
	brain.State = component.Attacking{Remaining: tuning.AttackDuration}

	pos := s.port.Position(e)
	s.port.SetSpeed(e, 0)
	s.port.SetDestination(e, pos)

	s.logger.Debug("ai transition",
		zap.Stringer("agent", e),
		zap.String("from", string(from)),
		zap.String("to", string(component.StateAttacking)),
	)
	w.Events().Push(ecs.Event{Kind: EventAttackStarted, Entity: e})
	w.Events().Push(ecs.Event{
		Kind:   EventTransition,
		Entity: e,
		Data:   Transition{From: from, To: component.StateAttacking},
	})
}

// QueueStrike records an attack whose window closed this tick. The strike
// lands on the next Update.
func (s *EncounterSystem) QueueStrike(attacker ecs.Entity) {
	if s == nil {
		return
	}
	s.strikes = append(s.strikes, attacker)
}

func (s *EncounterSystem) resolveStrikes(w *ecs.World) {
	for _, attacker := range s.strikes {
		s.Strike(w, attacker)
	}
	s.strikes = s.strikes[:0]
}

// Strike kills the player if still alive. It reports whether this call did
// the kill, so the kill event fires once even if several attacks end on the
// same tick.
func (s *EncounterSystem) Strike(w *ecs.World, attacker ecs.Entity) bool {
	if s == nil || s.player == nil || !s.player.Alive() {
		return false
	}
	s.player.Kill()
	s.logger.Info("player killed", zap.Stringer("agent", attacker))
	if w != nil {
		w.Events().Push(ecs.Event{Kind: EventPlayerKilled, Entity: attacker})
	}
	return true
}
