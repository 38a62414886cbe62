package sim

// Clock is simulation time in seconds. It only advances while the
// simulation is unpaused, so trap expiry freezes with everything else.
type Clock struct {
	now float64
}

func (c *Clock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

func (c *Clock) Advance(dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	c.now += dt
}
