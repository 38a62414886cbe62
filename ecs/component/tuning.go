package component

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidThresholds = errors.New("tuning: chase threshold must be greater than lose threshold")
	ErrInvalidRadius     = errors.New("tuning: radius must be positive")
	ErrInvalidDuration   = errors.New("tuning: duration must not be negative")
	ErrInvalidSpeed      = errors.New("tuning: speed must not be negative")
)

// Tuning is the static per-agent configuration.
type Tuning struct {
	PatrolSpeed   float64 `yaml:"patrol_speed" json:"patrol_speed"`
	BaseSpeed     float64 `yaml:"base_speed" json:"base_speed"`
	MaxChaseSpeed float64 `yaml:"max_chase_speed" json:"max_chase_speed"`
	SearchSpeed   float64 `yaml:"search_speed" json:"search_speed"`
	TrapRushSpeed float64 `yaml:"trap_rush_speed" json:"trap_rush_speed"`

	DetectionRadius float64 `yaml:"detection_radius" json:"detection_radius"`
	ChaseThreshold  float64 `yaml:"chase_threshold" json:"chase_threshold"`
	LoseThreshold   float64 `yaml:"lose_threshold" json:"lose_threshold"`
	NoiseMultiplier float64 `yaml:"noise_multiplier" json:"noise_multiplier"`
	MemoryDuration  float64 `yaml:"memory_duration" json:"memory_duration"`

	PatrolWait          float64 `yaml:"patrol_wait" json:"patrol_wait"`
	ArrivalRadius       float64 `yaml:"arrival_radius" json:"arrival_radius"`
	SearchArrivalRadius float64 `yaml:"search_arrival_radius" json:"search_arrival_radius"`
	WanderRadius        float64 `yaml:"wander_radius" json:"wander_radius"`
	MinWanderInterval   float64 `yaml:"min_wander_interval" json:"min_wander_interval"`
	MaxWanderInterval   float64 `yaml:"max_wander_interval" json:"max_wander_interval"`

	TrapArrivalRadius   float64 `yaml:"trap_arrival_radius" json:"trap_arrival_radius"`
	TrapInterruptsChase bool    `yaml:"trap_interrupts_chase" json:"trap_interrupts_chase"`

	AttackDuration float64 `yaml:"attack_duration" json:"attack_duration"`
	BodyRadius     float64 `yaml:"body_radius" json:"body_radius"`
}

func DefaultTuning() Tuning {
	return Tuning{
		PatrolSpeed:         2,
		BaseSpeed:           2,
		MaxChaseSpeed:       8,
		SearchSpeed:         2,
		TrapRushSpeed:       8,
		DetectionRadius:     15,
		ChaseThreshold:      0.2,
		LoseThreshold:       0.05,
		NoiseMultiplier:     2,
		MemoryDuration:      3,
		PatrolWait:          2,
		ArrivalRadius:       0.5,
		SearchArrivalRadius: 0.5,
		WanderRadius:        5,
		MinWanderInterval:   2,
		MaxWanderInterval:   5,
		TrapArrivalRadius:   2,
		AttackDuration:      1,
		BodyRadius:          0.5,
	}
}

// Validate rejects configurations that would leave an agent unable to react.
func (t Tuning) Validate() error {
	if t.ChaseThreshold <= t.LoseThreshold {
		return fmt.Errorf("%w: chase=%v lose=%v", ErrInvalidThresholds, t.ChaseThreshold, t.LoseThreshold)
	}
	radii := []struct {
		name  string
		value float64
	}{
		{"detection_radius", t.DetectionRadius},
		{"arrival_radius", t.ArrivalRadius},
		{"search_arrival_radius", t.SearchArrivalRadius},
		{"trap_arrival_radius", t.TrapArrivalRadius},
		{"body_radius", t.BodyRadius},
	}
	for _, r := range radii {
		if r.value <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidRadius, r.name, r.value)
		}
	}
	if t.WanderRadius < 0 {
		return fmt.Errorf("%w: wander_radius=%v", ErrInvalidRadius, t.WanderRadius)
	}
	durations := []struct {
		name  string
		value float64
	}{
		{"memory_duration", t.MemoryDuration},
		{"patrol_wait", t.PatrolWait},
		{"attack_duration", t.AttackDuration},
		{"min_wander_interval", t.MinWanderInterval},
		{"max_wander_interval", t.MaxWanderInterval},
	}
	for _, d := range durations {
		if d.value < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidDuration, d.name, d.value)
		}
	}
	if t.MaxWanderInterval < t.MinWanderInterval {
		return fmt.Errorf("%w: max_wander_interval < min_wander_interval", ErrInvalidDuration)
	}
	speeds := []float64{t.PatrolSpeed, t.BaseSpeed, t.MaxChaseSpeed, t.SearchSpeed, t.TrapRushSpeed, t.NoiseMultiplier}
	for _, s := range speeds {
		if s < 0 {
			return ErrInvalidSpeed
		}
	}
	return nil
}

var TuningComponent = NewComponent[Tuning]("tuning")
