package prefabs

import (
	"fmt"
	"path"
	"strings"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"

	"github.com/AegonSnowX/McGameJam2026/ecs/component"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointSpec) Vector() cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func Points(specs []PointSpec) []cp.Vector {
	if len(specs) == 0 {
		return nil
	}
	out := make([]cp.Vector, 0, len(specs))
	for _, p := range specs {
		out = append(out, p.Vector())
	}
	return out
}

// AgentSpec is an enemy prefab. Tuning fields missing from the file keep
// their defaults.
type AgentSpec struct {
	Name   string           `yaml:"name"`
	Tuning component.Tuning `yaml:"tuning"`
	Patrol []PointSpec      `yaml:"patrol"`
}

func LoadAgentSpec(filename string) (AgentSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeAgentSpec(data)
}

func DecodeAgentSpec(data []byte) (AgentSpec, error) {
	spec := AgentSpec{Tuning: component.DefaultTuning()}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: unmarshal agent: %w", err)
	}
	if err := spec.Tuning.Validate(); err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: agent %q: %w", spec.Name, err)
	}
	return spec, nil
}

type GridSpec struct {
	CellSize float64   `yaml:"cell_size"`
	Origin   PointSpec `yaml:"origin"`
	// Rows is an ASCII map, top row first; '#' is a wall.
	Rows []string `yaml:"rows"`
}

type PlayerSpec struct {
	Position PointSpec `yaml:"position"`
	Radius   float64   `yaml:"radius"`
	Speed    float64   `yaml:"speed"`
}

// LevelAgentSpec places an agent prefab. Tuning is a partial override laid
// over the prefab's tuning.
type LevelAgentSpec struct {
	Name     string      `yaml:"name"`
	Prefab   string      `yaml:"prefab"`
	Position PointSpec   `yaml:"position"`
	Patrol   []PointSpec `yaml:"patrol"`
	Tuning   yaml.Node   `yaml:"tuning"`
}

// ResolveTuning applies the level override on top of base.
func (s LevelAgentSpec) ResolveTuning(base component.Tuning) (component.Tuning, error) {
	tuning := base
	if s.Tuning.Kind == 0 {
		return tuning, nil
	}
	if err := s.Tuning.Decode(&tuning); err != nil {
		return base, fmt.Errorf("prefabs: agent %q tuning: %w", s.Name, err)
	}
	if err := tuning.Validate(); err != nil {
		return base, fmt.Errorf("prefabs: agent %q: %w", s.Name, err)
	}
	return tuning, nil
}

type TrapSpec struct {
	Name     string    `yaml:"name"`
	Position PointSpec `yaml:"position"`
	Radius   float64   `yaml:"radius"`
	Duration float64   `yaml:"duration"`
	// Rearm lets the trap fire again each time the player re-enters.
	Rearm bool `yaml:"rearm"`
}

type TeleportTrapSpec struct {
	Name           string    `yaml:"name"`
	Position       PointSpec `yaml:"position"`
	Radius         float64   `yaml:"radius"`
	Agent          string    `yaml:"agent"`
	Destination    PointSpec `yaml:"destination"`
	FreezeDuration float64   `yaml:"freeze_duration"`
	SoundDuration  float64   `yaml:"sound_duration"`
}

type LevelSpec struct {
	Name          string             `yaml:"name"`
	Grid          *GridSpec          `yaml:"grid"`
	Player        PlayerSpec         `yaml:"player"`
	Agents        []LevelAgentSpec   `yaml:"agents"`
	Traps         []TrapSpec         `yaml:"traps"`
	TeleportTraps []TeleportTrapSpec `yaml:"teleport_traps"`
	NoiseScript   string             `yaml:"noise_script"`
	TrapDuration  float64            `yaml:"trap_duration"`
}

func LoadLevelSpec(filename string) (LevelSpec, error) {
	return LoadSpec[LevelSpec](cleanLevelPath(filename))
}

func cleanLevelPath(name string) string {
	clean := cleanPrefabPath(name)
	if after, ok := strings.CutPrefix(clean, "levels/"); ok {
		clean = after
	}
	if path.Ext(clean) == "" {
		clean += ".yaml"
	}
	return "levels/" + clean
}
