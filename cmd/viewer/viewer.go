package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/AegonSnowX/McGameJam2026/config"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/system"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
	"github.com/AegonSnowX/McGameJam2026/sim"
)

const (
	quietNoise  = 0.03
	walkNoise   = 0.12
	sprintNoise = 0.7

	// micSmoothing matches a typical microphone input filter.
	micSmoothing = 0.85
	statusTicks  = 120
)

type viewer struct {
	cfg    *config.Config
	logger *zap.Logger

	sim  *sim.Simulation
	grid *nav.Grid
	raw  *noise.Fixed
	mic  *noise.Smoothed

	ui      *ebitenui.UI
	watcher *prefabs.Watcher

	clipboardOK  bool
	debugPhysics bool
	quit         bool
	status       string
	statusLeft   int
	lastKiller   ecs.Entity
	killed       bool
}

func newViewer(cfg *config.Config, logger *zap.Logger) (*viewer, error) {
	v := &viewer{cfg: cfg, logger: logger}
	if err := v.load(); err != nil {
		return nil, err
	}
	v.ui = newPauseUI(v)

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable; snapshots go to the log", zap.Error(err))
	} else {
		v.clipboardOK = true
	}

	if cfg.Prefabs.Watch {
		w, err := prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			logger.Warn("prefab watcher disabled", zap.Error(err))
		} else {
			v.watcher = w
		}
	}
	return v, nil
}

// load (re)builds the simulation from the configured level.
func (v *viewer) load() error {
	v.raw = &noise.Fixed{}
	v.mic = noise.NewSmoothed(v.raw, micSmoothing)

	s, err := sim.LoadLevel(v.cfg.Sim.Level, sim.Options{
		Noise:  v.mic,
		Seed:   v.cfg.Sim.Seed,
		Logger: v.logger,
	})
	if err != nil {
		return err
	}
	v.sim = s
	v.grid = nil
	if n, ok := s.Port().(*nav.Navigator); ok {
		v.grid = n.Grid()
	}
	v.killed = false

	s.OnPlayerKilled(func(killer ecs.Entity) {
		v.killed = true
		v.lastKiller = killer
		v.flash("caught! press R to restart")
	})
	s.OnTransition(func(agent ecs.Entity, t system.Transition) {
		v.logger.Debug("transition",
			zap.Stringer("agent", agent),
			zap.String("from", string(t.From)),
			zap.String("to", string(t.To)),
		)
	})
	return nil
}

func (v *viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

func (v *viewer) flash(msg string) {
	v.status = msg
	v.statusLeft = statusTicks
}

func (v *viewer) Update() error {
	if v.quit {
		return ebiten.Termination
	}
	if v.statusLeft > 0 {
		v.statusLeft--
	}
	v.pollReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		v.debugPhysics = !v.debugPhysics
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.sim.SetPaused(!v.sim.Paused())
	}
	if v.sim.Paused() {
		v.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.load(); err != nil {
			v.flash(fmt.Sprintf("reload failed: %v", err))
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.copySnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) && v.sim.Player().Alive() {
		v.sim.Traps().ActivateSound(v.sim.Player().Position(), 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		v.sim.Traps().ClearSound()
	}

	dt := v.cfg.Sim.DT()
	v.movePlayer(dt)
	v.sim.Update(dt)
	return nil
}

// movePlayer applies WASD input and sets the raw noise level: silence when
// still, footsteps when walking, shouting when sprinting.
func (v *viewer) movePlayer(dt float64) {
	player := v.sim.Player()
	var dir cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		dir.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		dir.Y--
	}
	sprint := ebiten.IsKeyPressed(ebiten.KeyShift)

	switch {
	case !player.Alive() || dir.LengthSq() == 0:
		v.raw.Set(quietNoise)
		return
	case sprint:
		v.raw.Set(sprintNoise)
	default:
		v.raw.Set(walkNoise)
	}

	speed := player.Speed()
	if sprint {
		speed *= 1.8
	}
	next := player.Position().Add(dir.Normalize().Mult(speed * dt))
	if v.grid != nil && !v.grid.Walkable(next) {
		// slide along walls one axis at a time
		pos := player.Position()
		switch {
		case v.grid.Walkable(cp.Vector{X: next.X, Y: pos.Y}):
			next = cp.Vector{X: next.X, Y: pos.Y}
		case v.grid.Walkable(cp.Vector{X: pos.X, Y: next.Y}):
			next = cp.Vector{X: pos.X, Y: next.Y}
		default:
			return
		}
	}
	player.MoveTo(next)
}

func (v *viewer) copySnapshot() {
	data, err := v.sim.MarshalSnapshot()
	if err != nil {
		v.flash(err.Error())
		return
	}
	if !v.clipboardOK {
		v.logger.Info("snapshot", zap.ByteString("yaml", data))
		v.flash("snapshot written to log")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	v.flash("snapshot copied")
}

func (v *viewer) pollReloads() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			if !prefabs.IsAgentSpec(name) {
				continue
			}
			n, err := v.sim.ReloadPrefab(name)
			if err != nil {
				v.flash(fmt.Sprintf("%s: %v", name, err))
				continue
			}
			v.flash(fmt.Sprintf("reloaded %s (%d agents)", name, n))
		case err, ok := <-v.watcher.Errors:
			if !ok {
				v.watcher = nil
				return
			}
			v.logger.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Viewer.Width, v.cfg.Viewer.Height
}
