package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cellar.yaml", cfg.Sim.Level)
	assert.Equal(t, 60, cfg.Sim.TickRate)
	assert.Equal(t, 30*time.Second, cfg.Sim.Duration)
	assert.InDelta(t, 1.0/60, cfg.Sim.DT(), 1e-12)
	assert.Equal(t, "prefabs", cfg.Prefabs.Dir)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	body := "sim:\n  tick_rate: 20\n  duration: 5s\n  seed: 9\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("MCGJ_SIM_SEED", "77")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Sim.TickRate)
	assert.Equal(t, 5*time.Second, cfg.Sim.Duration)
	assert.Equal(t, int64(77), cfg.Sim.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  tick_rate: 0\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
