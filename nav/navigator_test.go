package nav

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AegonSnowX/McGameJam2026/ecs"
)

func newAgent(t *testing.T, n *Navigator, w *ecs.World, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	require.NoError(t, n.AddAgent(e, pos, 0.5))
	return e
}

func TestNavigatorMovesInStraightLine(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	e := newAgent(t, n, w, cp.Vector{})

	n.SetSpeed(e, 2)
	n.SetDestination(e, cp.Vector{X: 3})

	pending, remaining := n.ArrivalStatus(e)
	assert.True(t, pending)
	assert.InDelta(t, 3, remaining, 1e-9)

	n.Step(0.5)
	pending, remaining = n.ArrivalStatus(e)
	assert.False(t, pending)
	assert.InDelta(t, 1, n.Position(e).X, 1e-6)
	assert.InDelta(t, 2, remaining, 1e-6)
	assert.InDelta(t, 2, n.Velocity(e).Length(), 1e-6)

	for i := 0; i < 4; i++ {
		n.Step(0.5)
	}
	assert.InDelta(t, 3, n.Position(e).X, 1e-6, "no overshoot")
	_, remaining = n.ArrivalStatus(e)
	assert.InDelta(t, 0, remaining, 1e-6)
	assert.Zero(t, n.Velocity(e).Length())
}

func TestNavigatorZeroSpeedHolds(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	e := newAgent(t, n, w, cp.Vector{X: 1, Y: 1})

	n.SetDestination(e, cp.Vector{X: 5, Y: 1})
	n.SetSpeed(e, 0)
	n.Step(0.1)
	assert.Equal(t, cp.Vector{X: 1, Y: 1}, n.Position(e))
	assert.Zero(t, n.Velocity(e).Length())
}

func TestNavigatorUnreachable(t *testing.T) {
	g, err := ParseGrid([]string{
		"..#..",
	}, 1, cp.Vector{})
	require.NoError(t, err)

	w := ecs.NewWorld()
	n := NewNavigator(g, nil)
	e := newAgent(t, n, w, cp.Vector{X: 0.5, Y: 0.5})
	n.SetSpeed(e, 3)
	n.SetDestination(e, cp.Vector{X: 4.5, Y: 0.5})

	for i := 0; i < 5; i++ {
		n.Step(0.1)
		// re-issuing the same destination keeps re-planning without panicking
		n.SetDestination(e, cp.Vector{X: 4.5, Y: 0.5})
	}
	n.Step(0.1)
	pending, remaining := n.ArrivalStatus(e)
	assert.False(t, pending)
	assert.True(t, math.IsInf(remaining, 1))
	assert.Equal(t, cp.Vector{X: 0.5, Y: 0.5}, n.Position(e))
}

func TestNavigatorFollowsGridPath(t *testing.T) {
	g, err := ParseGrid([]string{
		".....",
		".###.",
		".....",
	}, 1, cp.Vector{})
	require.NoError(t, err)

	w := ecs.NewWorld()
	n := NewNavigator(g, nil)
	e := newAgent(t, n, w, cp.Vector{X: 2.5, Y: 0.5})
	goal := cp.Vector{X: 2.5, Y: 2.5}
	n.SetSpeed(e, 4)
	n.SetDestination(e, goal)

	for i := 0; i < 200; i++ {
		n.Step(0.05)
		assert.True(t, g.Walkable(n.Position(e)), "step %d at %v", i, n.Position(e))
	}
	assert.InDelta(t, 0, n.Position(e).Distance(goal), 1e-6)
}

func TestNavigatorWarpDropsPath(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	e := newAgent(t, n, w, cp.Vector{})
	n.SetSpeed(e, 1)
	n.SetDestination(e, cp.Vector{X: 10})
	n.Step(0.1)

	n.Warp(e, cp.Vector{X: -4, Y: 2})
	assert.Equal(t, cp.Vector{X: -4, Y: 2}, n.Position(e))
	_, ok := n.Destination(e)
	assert.False(t, ok)
	n.Step(0.1)
	assert.Equal(t, cp.Vector{X: -4, Y: 2}, n.Position(e))
}

func TestNavigatorAgentLifecycle(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	e := newAgent(t, n, w, cp.Vector{})

	assert.ErrorIs(t, n.AddAgent(e, cp.Vector{}, 0.5), ErrAgentExists)
	assert.ErrorIs(t, n.AddAgent(w.CreateEntity(), cp.Vector{}, 0), ErrInvalidAgent)

	n.RemoveAgent(e)
	n.RemoveAgent(e)
	_, remaining := n.ArrivalStatus(e)
	assert.True(t, math.IsInf(remaining, 1))
	// unknown agents are ignored
	n.SetDestination(e, cp.Vector{X: 1})
	n.SetSpeed(e, 1)
	n.Warp(e, cp.Vector{})
	assert.Equal(t, cp.Vector{}, n.Velocity(e))
}

func TestNavigatorOverlap(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	near := newAgent(t, n, w, cp.Vector{X: 0.6})
	far := newAgent(t, n, w, cp.Vector{X: 10})

	n.TrackPlayer(cp.Vector{}, 0.5)
	n.Step(1.0 / 60)
	assert.True(t, n.Overlapping(near))
	assert.False(t, n.Overlapping(far))

	n.TrackPlayer(cp.Vector{X: -5}, 0.5)
	n.Step(1.0 / 60)
	assert.False(t, n.Overlapping(near))
}

func TestNavigatorOverlapFollowsWarps(t *testing.T) {
	w := ecs.NewWorld()
	n := NewNavigator(nil, nil)
	e := newAgent(t, n, w, cp.Vector{X: 20})
	n.TrackPlayer(cp.Vector{}, 0.5)
	n.Step(1.0 / 60)
	require.False(t, n.Overlapping(e))

	n.Warp(e, cp.Vector{X: 0.4})
	n.Step(1.0 / 60)
	assert.True(t, n.Overlapping(e), "warped onto the player")

	n.TrackPlayer(cp.Vector{Y: 30}, 0.5)
	n.Step(1.0 / 60)
	assert.False(t, n.Overlapping(e), "player moved away")
}

func TestSamplePosition(t *testing.T) {
	n := NewNavigator(nil, nil)
	p, ok := n.SamplePosition(cp.Vector{X: 3, Y: 4}, 1)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 3, Y: 4}, p)

	g, err := ParseGrid([]string{"#."}, 1, cp.Vector{})
	require.NoError(t, err)
	n = NewNavigator(g, nil)
	p, ok = n.SamplePosition(cp.Vector{X: 0.5, Y: 0.5}, 2)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 1.5, Y: 0.5}, p)
}
