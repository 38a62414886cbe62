// Package trap holds the shared trap sound signal that pulls agents away
// from their current behaviour.
package trap

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// DefaultDuration is used when neither the caller nor the registry supplies
// a positive duration.
const DefaultDuration = 5.0

// Clock reports the simulation time in seconds.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// Signal is one trap activation. Every activation gets a fresh ID so
// listeners can tell a re-trigger apart from the signal they already handled.
type Signal struct {
	ID        uuid.UUID
	Position  cp.Vector
	ExpiresAt float64
}

// Observer is notified synchronously on every activation.
type Observer func(Signal)

// Subscription identifies a registered observer.
type Subscription uint64

// Registry is a single-slot store: each activation replaces the previous
// signal, there is no queue.
type Registry struct {
	clock           Clock
	defaultDuration float64
	logger          *zap.Logger

	signal Signal
	armed  bool

	observers map[Subscription]Observer
	nextSub   Subscription
}

func NewRegistry(clock Clock, defaultDuration float64, logger *zap.Logger) *Registry {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = ClockFunc(func() float64 { return 0 })
	}
	return &Registry{
		clock:           clock,
		defaultDuration: defaultDuration,
		logger:          logger,
		observers:       map[Subscription]Observer{},
	}
}

// ActivateSound overwrites the active signal. A non-positive duration falls
// back to the registry default.
func (r *Registry) ActivateSound(position cp.Vector, duration float64) Signal {
	if duration <= 0 {
		duration = r.defaultDuration
	}
	r.signal = Signal{
		ID:        uuid.New(),
		Position:  position,
		ExpiresAt: r.clock.Now() + duration,
	}
	r.armed = true

	r.logger.Info("trap sound activated",
		zap.String("signal", r.signal.ID.String()),
		zap.Float64("x", position.X),
		zap.Float64("y", position.Y),
		zap.Float64("expires_at", r.signal.ExpiresAt),
	)

	sig := r.signal
	for _, sub := range r.subscriptions() {
		if fn, ok := r.observers[sub]; ok {
			fn(sig)
		}
	}
	return sig
}

// ClearSound silences the signal immediately.
func (r *Registry) ClearSound() {
	if r.armed {
		r.logger.Info("trap sound cleared", zap.String("signal", r.signal.ID.String()))
	}
	r.armed = false
}

// HasActiveSound is derived on every call: true iff a signal was activated,
// not cleared, and the clock has not reached its expiry.
func (r *Registry) HasActiveSound() bool {
	if r == nil {
		return false
	}
	return r.armed && r.clock.Now() < r.signal.ExpiresAt
}

// SoundPosition returns the position of the most recent activation, active
// or not.
func (r *Registry) SoundPosition() cp.Vector {
	if r == nil {
		return cp.Vector{}
	}
	return r.signal.Position
}

// Active returns the current signal when one is active.
func (r *Registry) Active() (Signal, bool) {
	if !r.HasActiveSound() {
		return Signal{}, false
	}
	return r.signal, true
}

func (r *Registry) Subscribe(fn Observer) Subscription {
	if fn == nil {
		return 0
	}
	r.nextSub++
	r.observers[r.nextSub] = fn
	return r.nextSub
}

func (r *Registry) Unsubscribe(sub Subscription) bool {
	if _, ok := r.observers[sub]; !ok {
		return false
	}
	delete(r.observers, sub)
	return true
}

// Observers returns the number of registered observers.
func (r *Registry) Observers() int {
	return len(r.observers)
}

// subscriptions snapshots observer ids in registration order, so observers
// may unsubscribe while being notified.
func (r *Registry) subscriptions() []Subscription {
	subs := make([]Subscription, 0, len(r.observers))
	for sub := range r.observers {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
	return subs
}
