package sim

import (
	"fmt"

	"github.com/san-kum/qsim/internal/circuit"
)

// Config holds the knobs of one run. Zero values are invalid; use
// DefaultConfig as a base.
type Config struct {
	Dt         float64
	MaxTicks   int
	GraceTicks int
	Seed       int64

	// PressProbability is the per-tick chance of toggling the power
	// button before the components update.
	PressProbability float64

	// TunnelProbability gates the tunnel diode's stochastic activation.
	TunnelProbability float64
}

func DefaultConfig() Config {
	return Config{
		Dt:                0.1,
		MaxTicks:          300,
		GraceTicks:        20,
		Seed:              42,
		PressProbability:  0.02,
		TunnelProbability: 0.3,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", c.MaxTicks)
	}
	if c.GraceTicks < 0 {
		return fmt.Errorf("grace ticks must be non-negative, got %d", c.GraceTicks)
	}
	if c.PressProbability < 0 || c.PressProbability > 1 {
		return fmt.Errorf("press probability out of [0,1]: %f", c.PressProbability)
	}
	if c.TunnelProbability < 0 || c.TunnelProbability > 1 {
		return fmt.Errorf("tunnel probability out of [0,1]: %f", c.TunnelProbability)
	}
	return nil
}

// ComponentStatus is the per-component slice of a snapshot.
type ComponentStatus struct {
	Name       string
	Kind       circuit.Kind
	State      circuit.State
	Pressed    bool
	Brightness float64
}

// Snapshot is the read-only view of one tick, the sole interface renderers
// and observers consume. Field is a value copy.
type Snapshot struct {
	Tick int
	Time float64

	Components []ComponentStatus

	P, T    float64
	Field   [circuit.FieldSize][circuit.FieldSize]float64
	Stopped bool

	ResetCount  int
	PResetCount int
	TResetCount int
}

// Result collects a whole run.
type Result struct {
	Snapshots []Snapshot
	Events    []circuit.Event

	// StoppedAt is the 0-based tick on which the box reached its final
	// state, or -1 if the tick cap hit first.
	StoppedAt int

	ResetCount  int
	PResetCount int
	TResetCount int
}

// Observer receives per-tick snapshots and box events as they happen.
type Observer interface {
	OnTick(snap Snapshot)
	OnEvent(ev circuit.Event)
}
