// Command viewer is an interactive debug view of a level: walk the player
// with WASD, hold shift to make noise, and watch the agents react.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/AegonSnowX/McGameJam2026/config"
	"github.com/AegonSnowX/McGameJam2026/logging"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	levelName := flag.String("level", "", "level prefab (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Sim.Level = *levelName
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.Dir = cfg.Prefabs.Dir

	v, err := newViewer(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	ebiten.SetTPS(cfg.Sim.TickRate)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("McGameJam2026 - " + cfg.Sim.Level)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
