package noise

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AegonSnowX/McGameJam2026/common"
)

var ErrEmptyScript = errors.New("noise: empty script")

// scriptDispatch is appended to user scripts: they define `level(t)` and the
// runtime evaluates it with the elapsed simulation time.
const scriptDispatch = `
__result = level(__t)
`

// Script evaluates a tengo `level(t)` function every tick, for example
//
//	math := import("math")
//	level := func(t) { return t < 2 ? 0.5 : 0.0 }
type Script struct {
	compiled *tengo.Compiled
	elapsed  float64
	level    float64
	logger   *zap.Logger
	warn     rate.Sometimes
}

func NewScript(src []byte, logger *zap.Logger) (*Script, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, ErrEmptyScript
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__t", 0.0)
	_ = script.Add("__result", 0.0)
	script.SetImports(stdlib.GetModuleMap("math", "times", "rand", "text", "enum"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("noise: compile script: %w", err)
	}

	s := &Script{
		compiled: compiled,
		logger:   logger,
		warn:     rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	if err := s.eval(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadScript(path string, logger *zap.Logger) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("noise: read script %q: %w", path, err)
	}
	return NewScript(src, logger)
}

func (s *Script) Tick(dt float64) {
	if s == nil {
		return
	}
	if dt > 0 {
		s.elapsed += dt
	}
	if err := s.eval(); err != nil {
		s.warn.Do(func() {
			s.logger.Warn("noise script failed; keeping previous level", zap.Error(err), zap.Float64("t", s.elapsed))
		})
	}
}

func (s *Script) Level() float64 {
	if s == nil {
		return 0
	}
	return s.level
}

// Elapsed returns the script clock.
func (s *Script) Elapsed() float64 {
	return s.elapsed
}

func (s *Script) eval() error {
	if err := s.compiled.Set("__t", s.elapsed); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("noise: run script: %w", err)
	}
	v := s.compiled.Get("__result")
	switch v.ValueType() {
	case "float", "int":
		s.level = common.Clamp01(v.Float())
	case "bool":
		if v.Bool() {
			s.level = 1
		} else {
			s.level = 0
		}
	default:
		return fmt.Errorf("noise: level(t) returned %s", v.ValueType())
	}
	return nil
}
