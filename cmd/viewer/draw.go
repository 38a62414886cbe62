package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

var stateColors = map[component.StateID]color.Color{
	component.StatePatrolling:    colornames.Seagreen,
	component.StateChasing:       colornames.Crimson,
	component.StateSearching:     colornames.Orange,
	component.StateRushingToTrap: colornames.Mediumpurple,
	component.StateAttacking:     colornames.Red,
}

// camera maps world units (y up) to screen pixels (y down), centred on the
// grid when there is one and on the player otherwise.
type camera struct {
	scale  float64
	center cp.Vector
	width  float64
	height float64
}

func (c camera) toScreen(p cp.Vector) (float32, float32) {
	x := (p.X-c.center.X)*c.scale + c.width/2
	y := (c.center.Y-p.Y)*c.scale + c.height/2
	return float32(x), float32(y)
}

func (c camera) length(d float64) float32 {
	return float32(d * c.scale)
}

func (v *viewer) camera() camera {
	cam := camera{
		scale:  v.cfg.Viewer.Scale,
		width:  float64(v.cfg.Viewer.Width),
		height: float64(v.cfg.Viewer.Height),
		center: v.sim.Player().Position(),
	}
	if v.grid != nil {
		bb := v.grid.Bounds()
		cam.center = bb.Center()
	}
	return cam
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	cam := v.camera()

	v.drawGrid(screen, cam)
	v.drawTraps(screen, cam)
	for _, e := range v.sim.Agents() {
		v.drawAgent(screen, cam, e)
	}
	v.drawPlayer(screen, cam)
	if v.debugPhysics {
		v.drawSpace(screen, cam)
	}
	v.drawHUD(screen)

	if v.sim.Paused() {
		v.ui.Draw(screen)
	}
}

func (v *viewer) drawGrid(screen *ebiten.Image, cam camera) {
	if v.grid == nil {
		return
	}
	size := cam.length(v.grid.CellSize)
	for y := 0; y < v.grid.Height; y++ {
		for x := 0; x < v.grid.Width; x++ {
			if !v.grid.Blocked(x, y) {
				continue
			}
			c := v.grid.CellCenter(x, y)
			sx, sy := cam.toScreen(c)
			vector.FillRect(screen, sx-size/2, sy-size/2, size, size, colornames.Dimgray, false)
		}
	}
}

func (v *viewer) drawTraps(screen *ebiten.Image, cam camera) {
	for _, t := range v.sim.Triggers() {
		x, y := cam.toScreen(t.Position)
		clr := colornames.Goldenrod
		if t.Triggered() && !t.Rearm {
			clr = colornames.Saddlebrown
		}
		vector.StrokeCircle(screen, x, y, cam.length(t.Radius), 1, clr, true)
	}
	for _, t := range v.sim.TeleportTraps() {
		x, y := cam.toScreen(t.Position)
		dx, dy := cam.toScreen(t.Destination)
		vector.StrokeCircle(screen, x, y, cam.length(t.Radius), 1, colornames.Magenta, true)
		vector.StrokeLine(screen, x, y, dx, dy, 1, colornames.Magenta, true)
		vector.StrokeCircle(screen, dx, dy, cam.length(0.5), 1, colornames.Red, true)
	}
	if sig, ok := v.sim.Traps().Active(); ok {
		x, y := cam.toScreen(sig.Position)
		vector.FillCircle(screen, x, y, cam.length(0.3), colornames.Yellow, true)
	}
}

func (v *viewer) drawAgent(screen *ebiten.Image, cam camera, e ecs.Entity) {
	w := v.sim.World()
	pos := v.sim.Port().Position(e)
	x, y := cam.toScreen(pos)

	st, _ := v.sim.State(e)
	clr := stateColors[st.ID()]
	tuning, _ := ecs.Get(w, e, component.TuningComponent)

	if tuning != nil {
		vector.StrokeCircle(screen, x, y, cam.length(tuning.DetectionRadius), 1, colornames.Darkslategray, true)
		if route, ok := ecs.Get(w, e, component.PatrolRouteComponent); ok && len(route.Points) == 0 {
			hx, hy := cam.toScreen(route.Home)
			vector.StrokeCircle(screen, hx, hy, cam.length(tuning.WanderRadius), 1, colornames.Darkolivegreen, true)
		}
	}

	if mem, ok := ecs.Get(w, e, component.MemoryComponent); ok && mem.Known {
		mx, my := cam.toScreen(mem.LastKnown)
		vector.StrokeLine(screen, mx-4, my-4, mx+4, my+4, 1, colornames.Orange, true)
		vector.StrokeLine(screen, mx-4, my+4, mx+4, my-4, 1, colornames.Orange, true)
	}
	if rush, ok := st.(component.RushingToTrap); ok {
		tx, ty := cam.toScreen(rush.Target)
		vector.StrokeLine(screen, x, y, tx, ty, 1, colornames.Mediumpurple, true)
	}

	radius := 0.5
	if tuning != nil {
		radius = tuning.BodyRadius
	}
	vector.FillCircle(screen, x, y, cam.length(radius), clr, true)

	if intent, ok := v.sim.Intent(e); ok {
		ix, iy := cam.toScreen(pos.Add(intent.Direction.Mult(radius * 1.6)))
		vector.StrokeLine(screen, x, y, ix, iy, 2, colornames.White, true)
	}
	if agent, ok := ecs.Get(w, e, component.AgentComponent); ok {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s", agent.Name, st.ID()), int(x)+8, int(y)-20)
	}
}

func (v *viewer) drawPlayer(screen *ebiten.Image, cam camera) {
	p := v.sim.Player()
	x, y := cam.toScreen(p.Position())
	clr := colornames.Deepskyblue
	if !p.Alive() {
		clr = colornames.Gray
	}
	vector.FillCircle(screen, x, y, cam.length(p.Radius()), clr, true)
}

func (v *viewer) drawHUD(screen *ebiten.Image) {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%.1fs  noise=%.2f  TPS=%.0f\n", v.sim.Clock().Now(), v.mic.Level(), ebiten.ActualTPS())
	b.WriteString("WASD move, shift sprint, T noise, X silence, C copy, R restart, F1 bodies, Esc pause\n")
	if v.killed {
		name := fmt.Sprint(v.lastKiller)
		if agent, ok := ecs.Get(v.sim.World(), v.lastKiller, component.AgentComponent); ok {
			name = agent.Name
		}
		fmt.Fprintf(&b, "killed by %s\n", name)
	}
	if v.statusLeft > 0 {
		b.WriteString(v.status)
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 10, 10)
}
