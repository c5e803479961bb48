// Package sim drives the circuit: it owns the board, the random source and
// the tick loop, and fans read-only snapshots out to observers.
package sim

import (
	"context"
	"math/rand"

	"github.com/san-kum/qsim/internal/circuit"
)

// Simulator owns one circuit and advances it tick by tick. It is
// single-threaded by design; nothing here is safe for concurrent use.
type Simulator struct {
	cfg   Config
	board *circuit.Board
	rng   *rand.Rand

	// update order matters: rules read current (possibly already updated)
	// sibling state, giving intentional same-tick propagation.
	order  []circuit.ID
	button circuit.ID
	box    circuit.ID

	observers []Observer

	tick int
	time float64
}

// New builds the fixed circuit and wires it. The power button starts forced
// Closed so the chain is live on the first tick.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := circuit.NewBoard()
	power := b.Add(circuit.NewPowerSource("Power Source"))
	led := b.Add(circuit.NewLED("LED"))
	photo := b.Add(circuit.NewPhototransistor("Phototransistor"))
	resistor := b.Add(circuit.NewResistor("Resistor", 1000))
	button := b.Add(circuit.NewPowerButton("Power Button"))
	tunnel := b.Add(circuit.NewTunnelDiode("Tunnel Diode", cfg.TunnelProbability))
	sel := b.Add(circuit.NewDetermineSelection("Determine Selection"))
	box := b.Add(circuit.NewQuantumBox("Quantum Box"))

	b.Connect(led, power)
	b.Connect(led, button)
	b.Connect(led, resistor)

	b.Connect(photo, power)
	b.Connect(photo, led)

	b.Connect(sel, photo)
	b.Connect(sel, power)

	b.Connect(button, power)

	b.Connect(tunnel, button)

	b.Connect(box, sel)
	b.Connect(box, tunnel)

	b.Connect(resistor, box)

	bc := b.Component(button)
	bc.Pressed = true
	bc.State = circuit.Closed

	return &Simulator{
		cfg:    cfg,
		board:  b,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		order:  []circuit.ID{power, led, photo, resistor, button, tunnel, sel, box},
		button: button,
		box:    box,
	}, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Board exposes the underlying arena for tests and the live view.
func (s *Simulator) Board() *circuit.Board { return s.board }

// Step advances the simulation one tick: a Bernoulli press trial, then one
// update per component in the fixed order. The returned snapshot has already
// been delivered to the observers.
func (s *Simulator) Step() Snapshot {
	if s.rng.Float64() < s.cfg.PressProbability {
		s.board.Press(s.button)
	}

	for _, id := range s.order {
		for _, ev := range s.board.Update(id, s.cfg.Dt, s.rng) {
			for _, o := range s.observers {
				o.OnEvent(ev)
			}
		}
	}

	snap := s.snapshot()
	s.tick++
	s.time += s.cfg.Dt

	for _, o := range s.observers {
		o.OnTick(snap)
	}
	return snap
}

// Stopped reports whether the box has reached its final state.
func (s *Simulator) Stopped() bool {
	return s.board.Component(s.box).Box.Stopped
}

// Run executes the tick loop: it halts once GraceTicks ticks have elapsed
// with the box stopped (the terminating tick counts as the first), or at the
// MaxTicks cap, whichever comes first.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Snapshots: make([]Snapshot, 0, s.cfg.MaxTicks),
		StoppedAt: -1,
	}

	collect := collector{result: result}
	s.AddObserver(&collect)

	graceSeen := 0
	for s.tick < s.cfg.MaxTicks {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		snap := s.Step()

		if snap.Stopped {
			if result.StoppedAt == -1 {
				result.StoppedAt = snap.Tick
			}
			graceSeen++
			if graceSeen >= s.cfg.GraceTicks {
				break
			}
		}
	}

	if len(result.Snapshots) > 0 {
		last := result.Snapshots[len(result.Snapshots)-1]
		result.ResetCount = last.ResetCount
		result.PResetCount = last.PResetCount
		result.TResetCount = last.TResetCount
	}
	return result, nil
}

// RunWithCallback advances until the callback returns false or the loop
// would halt on its own. Used by the live view and the GIF renderer.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(Snapshot) bool) error {
	graceSeen := 0
	for s.tick < s.cfg.MaxTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snap := s.Step()
		if !callback(snap) {
			return nil
		}

		if snap.Stopped {
			graceSeen++
			if graceSeen >= s.cfg.GraceTicks {
				return nil
			}
		}
	}
	return nil
}

func (s *Simulator) snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		Time:       s.time + s.cfg.Dt,
		Components: make([]ComponentStatus, 0, s.board.Len()),
	}

	for _, id := range s.order {
		c := s.board.Component(id)
		snap.Components = append(snap.Components, ComponentStatus{
			Name:       c.Name,
			Kind:       c.Kind,
			State:      c.State,
			Pressed:    c.Pressed,
			Brightness: c.Brightness,
		})
	}

	box := s.board.Component(s.box).Box
	snap.P = box.P
	snap.T = box.T
	snap.Field = box.Field
	snap.Stopped = box.Stopped
	snap.ResetCount = box.ResetCount
	snap.PResetCount = box.PResetCount
	snap.TResetCount = box.TResetCount
	return snap
}

// collector is the internal observer that fills a Result.
type collector struct {
	result *Result
}

func (c *collector) OnTick(snap Snapshot) {
	c.result.Snapshots = append(c.result.Snapshots, snap)
}

func (c *collector) OnEvent(ev circuit.Event) {
	c.result.Events = append(c.result.Events, ev)
}
