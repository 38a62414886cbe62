package trap

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ now float64 }

func (c *manualClock) Now() float64 { return c.now }

func TestActivateSoundExpiry(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		at       float64
		active   bool
	}{
		{"fresh", 5, 0, true},
		{"just_before_expiry", 5, 4.99, true},
		{"at_expiry", 5, 5, false},
		{"after_expiry", 5, 5.01, false},
		{"default_duration_used_for_zero", 0, 2.9, true},
		{"default_duration_used_for_negative", -1, 3.0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clock := &manualClock{}
			r := NewRegistry(clock, 3, nil)
			r.ActivateSound(cp.Vector{X: 1, Y: 2}, c.duration)
			clock.now = c.at
			assert.Equal(t, c.active, r.HasActiveSound())
		})
	}
}

func TestActivateSoundIsIdempotent(t *testing.T) {
	clock := &manualClock{}
	once := NewRegistry(clock, 0, nil)
	twice := NewRegistry(clock, 0, nil)
	p := cp.Vector{X: 4, Y: -2}

	once.ActivateSound(p, 5)
	twice.ActivateSound(p, 5)
	twice.ActivateSound(p, 5)

	for _, at := range []float64{0, 2.5, 4.999, 5, 7} {
		clock.now = at
		assert.Equal(t, once.HasActiveSound(), twice.HasActiveSound(), "t=%v", at)
		assert.Equal(t, once.SoundPosition(), twice.SoundPosition(), "t=%v", at)
	}
}

func TestLastWriterWins(t *testing.T) {
	clock := &manualClock{}
	r := NewRegistry(clock, 0, nil)

	first := r.ActivateSound(cp.Vector{X: 1}, 10)
	clock.now = 1
	second := r.ActivateSound(cp.Vector{X: 2}, 1)
	assert.NotEqual(t, first.ID, second.ID)

	sig, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, second.ID, sig.ID)
	assert.Equal(t, cp.Vector{X: 2}, r.SoundPosition())

	// the earlier, longer signal was dropped on overwrite
	clock.now = 2.5
	assert.False(t, r.HasActiveSound())
}

func TestClearSound(t *testing.T) {
	r := NewRegistry(&manualClock{}, 0, nil)
	r.ActivateSound(cp.Vector{X: 3, Y: 3}, 5)
	require.True(t, r.HasActiveSound())

	r.ClearSound()
	assert.False(t, r.HasActiveSound())
	_, ok := r.Active()
	assert.False(t, ok)
	assert.Equal(t, cp.Vector{X: 3, Y: 3}, r.SoundPosition())
}

func TestObservers(t *testing.T) {
	r := NewRegistry(&manualClock{}, 0, nil)

	var got []string
	a := r.Subscribe(func(Signal) { got = append(got, "a") })
	var b Subscription
	b = r.Subscribe(func(Signal) {
		got = append(got, "b")
		r.Unsubscribe(b)
	})
	r.Subscribe(func(s Signal) {
		got = append(got, "c")
		assert.Equal(t, cp.Vector{X: 9}, s.Position)
	})
	assert.Equal(t, Subscription(0), r.Subscribe(nil))
	require.Equal(t, 3, r.Observers())

	r.ActivateSound(cp.Vector{X: 9}, 1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 2, r.Observers())

	require.True(t, r.Unsubscribe(a))
	assert.False(t, r.Unsubscribe(a))

	got = nil
	r.ActivateSound(cp.Vector{X: 9}, 1)
	assert.Equal(t, []string{"c"}, got)
}
