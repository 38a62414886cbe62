// Package noise provides player noise level sources in [0,1].
package noise

import "github.com/AegonSnowX/McGameJam2026/common"

// Source reports the current player noise level in [0,1].
type Source interface {
	Level() float64
}

// Ticker is implemented by sources whose level evolves with simulation time.
// The simulation ticks them once per step before any agent reads the level.
type Ticker interface {
	Tick(dt float64)
}

// Level reads src, treating a missing source as silence.
func Level(src Source) float64 {
	if src == nil {
		return 0
	}
	return common.Clamp01(src.Level())
}

// Fixed is a constant level, mostly useful for tests and tools.
type Fixed struct {
	Value float64
}

func (f *Fixed) Level() float64 {
	if f == nil {
		return 0
	}
	return common.Clamp01(f.Value)
}

func (f *Fixed) Set(v float64) {
	f.Value = common.Clamp01(v)
}

// Smoothed damps a raw source the way a microphone meter does:
// level = lerp(level, raw, 1-Smoothing) on every tick.
type Smoothed struct {
	Raw       Source
	Smoothing float64

	level float64
}

func NewSmoothed(raw Source, smoothing float64) *Smoothed {
	return &Smoothed{Raw: raw, Smoothing: common.Clamp01(smoothing)}
}

func (s *Smoothed) Tick(dt float64) {
	if s == nil {
		return
	}
	if t, ok := s.Raw.(Ticker); ok {
		t.Tick(dt)
	}
	s.level = common.Clamp01(common.Lerp(s.level, Level(s.Raw), 1-s.Smoothing))
}

func (s *Smoothed) Level() float64 {
	if s == nil {
		return 0
	}
	return s.level
}
