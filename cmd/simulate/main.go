// Command simulate runs a level headless: the player walks a loop through
// the level's traps while a noise script drives detection, and every AI
// transition is logged.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/AegonSnowX/McGameJam2026/config"
	"github.com/AegonSnowX/McGameJam2026/ecs"
	"github.com/AegonSnowX/McGameJam2026/ecs/system"
	"github.com/AegonSnowX/McGameJam2026/logging"
	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
	"github.com/AegonSnowX/McGameJam2026/sim"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	levelName := flag.String("level", "", "level prefab (overrides config)")
	realtime := flag.Bool("realtime", false, "pace ticks at the configured tick rate")
	flag.Parse()

	if err := run(*configPath, *levelName, *realtime); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, levelName string, realtime bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if levelName != "" {
		cfg.Sim.Level = levelName
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	prefabs.Dir = cfg.Prefabs.Dir

	opts := sim.Options{Seed: cfg.Sim.Seed, Logger: logger}
	if cfg.Sim.NoiseScript != "" {
		script, err := noise.LoadScript(cfg.Sim.NoiseScript, logger.Named("noise"))
		if err != nil {
			return err
		}
		opts.Noise = script
	}

	s, err := sim.LoadLevel(cfg.Sim.Level, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.OnTransition(func(agent ecs.Entity, t system.Transition) {
		logger.Info("transition",
			zap.Stringer("agent", agent),
			zap.String("from", string(t.From)),
			zap.String("to", string(t.To)),
			zap.Float64("t", s.Clock().Now()),
		)
	})
	s.OnPlayerKilled(func(killer ecs.Entity) {
		logger.Info("player killed", zap.Stringer("agent", killer), zap.Float64("t", s.Clock().Now()))
		cancel()
	})

	var reloads <-chan string
	if cfg.Prefabs.Watch {
		watcher, err := prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		reloads = watcher.Events
		go func() {
			for err := range watcher.Errors {
				logger.Warn("prefab watcher", zap.Error(err))
			}
		}()
	}

	walker := newWalker(s)
	dt := cfg.Sim.DT()
	total := int(cfg.Sim.Duration.Seconds() * float64(cfg.Sim.TickRate))

	var pace <-chan time.Time
	if realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
		defer ticker.Stop()
		pace = ticker.C
	}

	for tick := 0; total == 0 || tick < total; tick++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		drainReloads(s, reloads, logger)
		walker.Step(dt)
		s.Update(dt)
	}

	if data, err := s.MarshalSnapshot(); err == nil {
		logger.Debug("final state", zap.ByteString("snapshot", data))
	}
	logger.Info("simulation finished",
		zap.Uint64("ticks", s.Ticks()),
		zap.Float64("t", s.Clock().Now()),
		zap.Bool("player_alive", s.Player().Alive()),
	)
	return nil
}

// newWalker loops the player through every trap in the level.
func newWalker(s *sim.Simulation) *sim.Walker {
	var goals []cp.Vector
	for _, t := range s.Triggers() {
		goals = append(goals, t.Position)
	}
	for _, t := range s.TeleportTraps() {
		goals = append(goals, t.Position)
	}
	goals = append(goals, s.Player().Position())

	var grid *nav.Grid
	if n, ok := s.Port().(*nav.Navigator); ok {
		grid = n.Grid()
	}
	return sim.NewWalker(s.Player(), grid, goals...)
}

func drainReloads(s *sim.Simulation, reloads <-chan string, logger *zap.Logger) {
	for {
		select {
		case name, ok := <-reloads:
			if !ok {
				return
			}
			if !prefabs.IsAgentSpec(name) {
				logger.Debug("ignoring prefab change", zap.String("file", filepath.ToSlash(name)))
				continue
			}
			if _, err := s.ReloadPrefab(name); err != nil {
				logger.Warn("prefab reload failed", zap.String("file", name), zap.Error(err))
			}
		default:
			return
		}
	}
}
