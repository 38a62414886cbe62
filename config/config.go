package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. MCGJ_SIM_TICK_RATE.
const EnvPrefix = "MCGJ"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Log     LogConfig     `mapstructure:"log"`
	Prefabs PrefabsConfig `mapstructure:"prefabs"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
}

type SimConfig struct {
	Level    string        `mapstructure:"level"`
	TickRate int           `mapstructure:"tick_rate"`
	Duration time.Duration `mapstructure:"duration"`
	Seed     int64         `mapstructure:"seed"`
	// NoiseScript replaces the level's own script when set.
	NoiseScript string `mapstructure:"noise_script"`
}

// DT is the fixed timestep in seconds.
func (c SimConfig) DT() float64 {
	return 1 / float64(c.TickRate)
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type PrefabsConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type ViewerConfig struct {
	Scale  float64 `mapstructure:"scale"`
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
}

// Load reads defaults, then the optional YAML file at path, then MCGJ_*
// environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("sim.level", "cellar.yaml")
	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.duration", "30s")
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.noise_script", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)
	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.watch", false)
	v.SetDefault("viewer.scale", 32)
	v.SetDefault("viewer.width", 1280)
	v.SetDefault("viewer.height", 720)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tick_rate=%d", ErrInvalidConfig, c.Sim.TickRate)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("%w: sim.duration=%s", ErrInvalidConfig, c.Sim.Duration)
	}
	if c.Viewer.Scale <= 0 {
		return fmt.Errorf("%w: viewer.scale=%v", ErrInvalidConfig, c.Viewer.Scale)
	}
	return nil
}
