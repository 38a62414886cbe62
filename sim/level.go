package sim

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/AegonSnowX/McGameJam2026/nav"
	"github.com/AegonSnowX/McGameJam2026/noise"
	"github.com/AegonSnowX/McGameJam2026/prefabs"
)

const defaultPlayerRadius = 0.5

// LoadLevel reads a level prefab and builds a simulation from it.
func LoadLevel(name string, opts Options) (*Simulation, error) {
	spec, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return nil, err
	}
	return NewLevel(spec, opts)
}

// NewLevel builds a simulation from a level spec. Fields already set in
// opts win over the level's own: a caller-supplied port replaces the grid
// navigator and a caller-supplied noise source replaces the level script.
func NewLevel(spec prefabs.LevelSpec, opts Options) (*Simulation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger

	if opts.Port == nil {
		var grid *nav.Grid
		if spec.Grid != nil {
			g, err := nav.ParseGrid(spec.Grid.Rows, spec.Grid.CellSize, spec.Grid.Origin.Vector())
			if err != nil {
				return nil, fmt.Errorf("sim: level %q: %w", spec.Name, err)
			}
			grid = g
		}
		opts.Port = nav.NewNavigator(grid, logger.Named("nav"))
	}

	if opts.Player == nil {
		radius := spec.Player.Radius
		if radius <= 0 {
			radius = defaultPlayerRadius
		}
		opts.Player = NewPlayer(spec.Player.Position.Vector(), radius, spec.Player.Speed)
	}
	if opts.TrapDuration <= 0 {
		opts.TrapDuration = spec.TrapDuration
	}

	if opts.Noise == nil && spec.NoiseScript != "" {
		src, err := prefabs.LoadScript(spec.NoiseScript)
		if err != nil {
			return nil, fmt.Errorf("sim: level %q: %w", spec.Name, err)
		}
		script, err := noise.NewScript(src, logger.Named("noise"))
		if err != nil {
			return nil, fmt.Errorf("sim: level %q: %w", spec.Name, err)
		}
		opts.Noise = script
	}

	s, err := New(opts)
	if err != nil {
		return nil, err
	}

	for _, a := range spec.Agents {
		if err := s.spawnLevelAgent(a); err != nil {
			return nil, fmt.Errorf("sim: level %q: %w", spec.Name, err)
		}
	}

	for _, t := range spec.Traps {
		s.AddTrapTrigger(NewTrapTrigger(t.Name, t.Position.Vector(), t.Radius, t.Duration, t.Rearm))
	}
	for _, t := range spec.TeleportTraps {
		agent, ok := s.Agent(t.Agent)
		if !ok {
			return nil, fmt.Errorf("sim: level %q: teleport trap %q: %w: %q", spec.Name, t.Name, ErrUnknownAgent, t.Agent)
		}
		s.AddTeleportTrap(NewTeleportTrap(t.Name, t.Position.Vector(), t.Radius, agent, t.Destination.Vector(), t.FreezeDuration, t.SoundDuration))
	}

	logger.Info("level loaded",
		zap.String("level", spec.Name),
		zap.Int("agents", len(spec.Agents)),
		zap.Int("traps", len(spec.Traps)+len(spec.TeleportTraps)),
	)
	return s, nil
}

func (s *Simulation) spawnLevelAgent(a prefabs.LevelAgentSpec) error {
	prefab, err := prefabs.LoadAgentSpec(a.Prefab)
	if err != nil {
		return err
	}
	tuning, err := a.ResolveTuning(prefab.Tuning)
	if err != nil {
		return err
	}
	patrol := prefabs.Points(a.Patrol)
	if len(patrol) == 0 {
		patrol = prefabs.Points(prefab.Patrol)
	}
	name := a.Name
	if name == "" {
		name = prefab.Name
	}

	e, err := s.SpawnAgent(AgentConfig{
		Name:     name,
		Prefab:   prefabKey(a.Prefab),
		Position: a.Position.Vector(),
		Tuning:   tuning,
		Patrol:   patrol,
	})
	if err != nil {
		return err
	}
	s.agents[e].override = a
	return nil
}

// ReloadPrefab re-reads an agent prefab and applies its tuning, with each
// agent's level override laid on top, to every agent spawned from it. It
// returns how many agents were updated.
func (s *Simulation) ReloadPrefab(name string) (int, error) {
	spec, err := prefabs.LoadAgentSpec(name)
	if err != nil {
		return 0, err
	}
	key := prefabKey(name)
	updated := 0
	for e, rec := range s.agents {
		if rec.prefab != key {
			continue
		}
		tuning, err := rec.override.ResolveTuning(spec.Tuning)
		if err != nil {
			return updated, err
		}
		if err := s.ApplyTuning(e, tuning); err != nil {
			return updated, err
		}
		updated++
	}
	s.logger.Info("prefab reloaded", zap.String("prefab", key), zap.Int("agents", updated))
	return updated, nil
}

func prefabKey(name string) string {
	clean := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "prefabs/")
	return strings.TrimSuffix(strings.TrimSuffix(clean, ".yaml"), ".yml")
}
