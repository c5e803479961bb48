package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/qsim/internal/sim"
)

const (
	DefaultDt         = 0.1
	DefaultMaxTicks   = 300
	DefaultGraceTicks = 20
	DefaultSeed       = 42
	DefaultPressProb  = 0.02
	DefaultTunnelProb = 0.3
	DefaultFrameDelay = 150 // ms per GIF frame
	DefaultFPS        = 10
)

type Config struct {
	Dt         float64 `yaml:"dt"`
	MaxTicks   int     `yaml:"max_ticks"`
	GraceTicks int     `yaml:"grace_ticks"`
	Seed       int64   `yaml:"seed"`
	PressProb  float64 `yaml:"press_probability"`
	TunnelProb float64 `yaml:"tunnel_probability"`
	Output     Output  `yaml:"output"`
}

type Output struct {
	GIFPath    string `yaml:"gif_path"`
	FrameDelay int    `yaml:"frame_delay_ms"`
	FPS        int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		MaxTicks:   DefaultMaxTicks,
		GraceTicks: DefaultGraceTicks,
		Seed:       DefaultSeed,
		PressProb:  DefaultPressProb,
		TunnelProb: DefaultTunnelProb,
		Output: Output{
			GIFPath:    "quantum_circuit_simulation.gif",
			FrameDelay: DefaultFrameDelay,
			FPS:        DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) ToSimConfig() sim.Config {
	return sim.Config{
		Dt:                c.Dt,
		MaxTicks:          c.MaxTicks,
		GraceTicks:        c.GraceTicks,
		Seed:              c.Seed,
		PressProbability:  c.PressProb,
		TunnelProbability: c.TunnelProb,
	}
}
