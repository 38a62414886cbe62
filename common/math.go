package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// TimerEpsilon absorbs float drift when countdowns are advanced in many small
// steps, so a 3s timer ticked thirty times by 0.1 expires on the thirtieth.
const TimerEpsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TickDown advances a countdown by dt. It returns the remaining time, clamped
// at zero, and whether the countdown has expired.
func TickDown(remaining, dt float64) (float64, bool) {
	if dt > 0 {
		remaining -= dt
	}
	if remaining <= TimerEpsilon {
		return 0, true
	}
	return remaining, false
}

// Within reports whether b lies strictly inside radius r of a.
func Within(a, b cp.Vector, r float64) bool {
	if r <= 0 {
		return false
	}
	return a.Distance(b) < r
}

// Direction returns the unit vector of v, or fallback when v is (near) zero.
func Direction(v, fallback cp.Vector) cp.Vector {
	length := math.Hypot(v.X, v.Y)
	if length < 1e-9 {
		return fallback
	}
	return cp.Vector{X: v.X / length, Y: v.Y / length}
}
