package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/AegonSnowX/McGameJam2026/nav"
)

// Walker drives the player through a loop of goals at the player's speed,
// for headless runs. Legs are planned on grid when one is given.
type Walker struct {
	player *Player
	grid   *nav.Grid
	goals  []cp.Vector
	goal   int
	path   []cp.Vector
}

func NewWalker(player *Player, grid *nav.Grid, goals ...cp.Vector) *Walker {
	return &Walker{player: player, grid: grid, goals: goals}
}

// Goal returns the goal currently being walked to.
func (w *Walker) Goal() (cp.Vector, bool) {
	if len(w.goals) == 0 {
		return cp.Vector{}, false
	}
	return w.goals[w.goal], true
}

func (w *Walker) Step(dt float64) {
	if w.player == nil || !w.player.Alive() || len(w.goals) == 0 || dt <= 0 {
		return
	}
	budget := w.player.Speed() * dt
	if budget <= 0 {
		return
	}

	// Unreachable goals are skipped; give up after one full lap.
	for tries := 0; len(w.path) == 0 && tries < len(w.goals); tries++ {
		w.plan()
	}

	pos := w.player.Position()
	for budget > 0 && len(w.path) > 0 {
		next := w.path[0]
		dist := pos.Distance(next)
		if dist <= budget {
			pos = next
			budget -= dist
			w.path = w.path[1:]
			if len(w.path) == 0 {
				w.goal = (w.goal + 1) % len(w.goals)
			}
			continue
		}
		pos = pos.Add(next.Sub(pos).Mult(budget / dist))
		budget = 0
	}
	w.player.MoveTo(pos)
}

func (w *Walker) plan() {
	target := w.goals[w.goal]
	if w.grid == nil {
		w.path = []cp.Vector{target}
		return
	}
	path, ok := w.grid.FindPath(w.player.Position(), target)
	if !ok {
		w.goal = (w.goal + 1) % len(w.goals)
		return
	}
	if len(path) == 0 {
		path = []cp.Vector{target}
	}
	w.path = path
}
