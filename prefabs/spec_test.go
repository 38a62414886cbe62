package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AegonSnowX/McGameJam2026/ecs/component"
	"github.com/AegonSnowX/McGameJam2026/noise"
)

func TestEmbeddedAgentSpecs(t *testing.T) {
	cases := []struct {
		file      string
		name      string
		interrupt bool
		radius    float64
	}{
		{"stalker.yaml", "stalker", false, 15},
		{"prefabs/hound.yaml", "hound", true, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadAgentSpec(c.file)
			require.NoError(t, err)
			assert.Equal(t, c.name, spec.Name)
			assert.Equal(t, c.interrupt, spec.Tuning.TrapInterruptsChase)
			assert.Equal(t, c.radius, spec.Tuning.DetectionRadius)
			require.NoError(t, spec.Tuning.Validate())
		})
	}
}

func TestDecodeAgentSpecKeepsDefaults(t *testing.T) {
	spec, err := DecodeAgentSpec([]byte("name: quiet\ntuning:\n  detection_radius: 4\n"))
	require.NoError(t, err)

	want := component.DefaultTuning()
	want.DetectionRadius = 4
	assert.Equal(t, want, spec.Tuning)
}

func TestDecodeAgentSpecValidates(t *testing.T) {
	_, err := DecodeAgentSpec([]byte("tuning:\n  chase_threshold: 0.05\n  lose_threshold: 0.2\n"))
	assert.ErrorIs(t, err, component.ErrInvalidThresholds)

	_, err = DecodeAgentSpec([]byte("tuning: [1, 2"))
	assert.Error(t, err)
}

func TestLevelSpec(t *testing.T) {
	level, err := LoadLevelSpec("cellar.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cellar", level.Name)
	require.NotNil(t, level.Grid)
	assert.Len(t, level.Grid.Rows, 12)
	require.Len(t, level.Agents, 2)

	warden := level.Agents[0]
	assert.Len(t, Points(warden.Patrol), 3)
	base := component.DefaultTuning()
	tuning, err := warden.ResolveTuning(base)
	require.NoError(t, err)
	assert.Equal(t, base, tuning, "no override")

	roamer := level.Agents[1]
	tuning, err = roamer.ResolveTuning(base)
	require.NoError(t, err)
	assert.Equal(t, 6.0, tuning.WanderRadius)
	assert.Equal(t, base.DetectionRadius, tuning.DetectionRadius)

	require.Len(t, level.TeleportTraps, 1)
	assert.Equal(t, "warden", level.TeleportTraps[0].Agent)

	script, err := LoadScript(level.NoiseScript)
	require.NoError(t, err)
	assert.Contains(t, string(script), "level := func(t)")
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "stalker.yaml"), []byte("name: edited\n"), 0o644))
	spec, err := LoadAgentSpec("stalker.yaml")
	require.NoError(t, err)
	assert.Equal(t, "edited", spec.Name)

	_, err = LoadSpec[LevelSpec]("missing.yaml")
	assert.Error(t, err)
}

func TestCleanPaths(t *testing.T) {
	assert.Equal(t, "scripts/a.tengo", cleanScriptPath("prefabs/scripts/a.tengo"))
	assert.Equal(t, "scripts/a.tengo", cleanScriptPath("a.tengo"))
	assert.Equal(t, "levels/x.yaml", cleanLevelPath("prefabs/levels/x.yaml"))
	assert.Equal(t, "levels/cellar.yaml", cleanLevelPath("cellar"))
	assert.True(t, IsAgentSpec("prefabs/stalker.yaml"))
	assert.False(t, IsAgentSpec("levels/cellar.yaml"))
	assert.False(t, IsAgentSpec("scripts/footsteps.tengo"))
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stalker.yaml"), []byte("name: x\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "stalker.yaml", name)
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}

func TestEmbeddedFootstepsScriptRuns(t *testing.T) {
	src, err := LoadScript("footsteps.tengo")
	require.NoError(t, err)

	s, err := noise.NewScript(src, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, s.Level(), 1e-12)

	for i := 0; i < 65; i++ {
		s.Tick(0.1)
	}
	assert.InDelta(t, 0.6, s.Level(), 1e-12, "sprint window")
}
