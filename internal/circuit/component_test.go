package circuit

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestPowerSourceAlwaysOn(t *testing.T) {
	b := NewBoard()
	id := b.Add(NewPowerSource("Power Source"))

	rng := testRand()
	for i := 0; i < 3; i++ {
		b.Update(id, 0.1, rng)
		if b.Component(id).State != On {
			t.Fatalf("tick %d: expected ON, got %s", i, b.Component(id).State)
		}
	}
	if got := b.Component(id).Elapsed; got != 0.3 {
		t.Errorf("expected elapsed 0.3, got %f", got)
	}
}

func TestLEDTruthTable(t *testing.T) {
	tests := []struct {
		name         string
		powerOn      bool
		buttonClosed bool
		want         State
	}{
		{"power and button", true, true, On},
		{"power only", true, false, Off},
		{"button only", false, true, Off},
		{"neither", false, false, Off},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			power := b.Add(NewPowerSource("Power Source"))
			button := b.Add(NewPowerButton("Power Button"))
			led := b.Add(NewLED("LED"))
			b.Connect(led, power)
			b.Connect(led, button)

			if tt.powerOn {
				b.Component(power).State = On
			}
			if tt.buttonClosed {
				b.Component(button).State = Closed
				b.Component(button).Pressed = true
			}

			b.Update(led, 0.1, testRand())
			if got := b.Component(led).State; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}

			wantBright := 0.0
			if tt.want == On {
				wantBright = 1.0
			}
			if got := b.Component(led).Brightness; got != wantBright {
				t.Errorf("expected brightness %f, got %f", wantBright, got)
			}
		})
	}
}

func TestLEDNoInputsAlwaysOff(t *testing.T) {
	b := NewBoard()
	led := b.Add(NewLED("LED"))

	b.Update(led, 0.1, testRand())
	if b.Component(led).State != Off {
		t.Errorf("LED with no inputs should be OFF, got %s", b.Component(led).State)
	}
}

func TestLEDPowerTestIsTypeAgnostic(t *testing.T) {
	// Any On input satisfies the power half of the check, not just a
	// power source.
	b := NewBoard()
	odd := b.Add(NewResistor("Resistor", 1000))
	button := b.Add(NewPowerButton("Power Button"))
	led := b.Add(NewLED("LED"))
	b.Connect(led, odd)
	b.Connect(led, button)

	b.Component(odd).State = On
	b.Component(button).State = Closed

	b.Update(led, 0.1, testRand())
	if b.Component(led).State != On {
		t.Errorf("expected ON with a non-source On input, got %s", b.Component(led).State)
	}
}

func TestPhototransistor(t *testing.T) {
	tests := []struct {
		name    string
		ledOn   bool
		powerOn bool
		want    State
	}{
		{"led and power", true, true, Active},
		{"led only", true, false, Inactive},
		{"power only", false, true, Inactive},
		{"neither", false, false, Inactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			power := b.Add(NewPowerSource("Power Source"))
			led := b.Add(NewLED("LED"))
			photo := b.Add(NewPhototransistor("Phototransistor"))
			b.Connect(photo, power)
			b.Connect(photo, led)

			if tt.ledOn {
				b.Component(led).State = On
			}
			if tt.powerOn {
				b.Component(power).State = On
			}

			b.Update(photo, 0.1, testRand())
			if got := b.Component(photo).State; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResistorNameDispatch(t *testing.T) {
	// Activation keys on the literal input name "Quantum Box", not on the
	// input's kind or state. A dormant impostor still trips it.
	b := NewBoard()
	impostor := b.Add(NewLED("Quantum Box"))
	res := b.Add(NewResistor("Resistor", 1000))
	b.Connect(res, impostor)
	b.Component(impostor).State = Inactive

	b.Update(res, 0.1, testRand())
	if b.Component(res).State != Active {
		t.Errorf("expected ACTIVE from name match, got %s", b.Component(res).State)
	}

	b2 := NewBoard()
	box := b2.Add(NewQuantumBox("Some Other Box"))
	res2 := b2.Add(NewResistor("Resistor", 1000))
	b2.Connect(res2, box)

	b2.Update(res2, 0.1, testRand())
	if b2.Component(res2).State != Inactive {
		t.Errorf("expected INACTIVE without name match, got %s", b2.Component(res2).State)
	}
}

func TestPowerButtonPressSync(t *testing.T) {
	b := NewBoard()
	power := b.Add(NewPowerSource("Power Source"))
	button := b.Add(NewPowerButton("Power Button"))
	b.Connect(button, power)
	b.Component(power).State = On

	rng := testRand()
	for i := 0; i < 4; i++ {
		b.Press(button)
		c := b.Component(button)
		if c.Pressed != (c.State == Closed) {
			t.Fatalf("press %d: pressed=%v but state=%s", i, c.Pressed, c.State)
		}
		b.Update(button, 0.1, rng)
		if c.Pressed != (c.State == Closed) {
			t.Fatalf("update %d: pressed=%v but state=%s", i, c.Pressed, c.State)
		}
	}
}

func TestPowerButtonOpensWithoutPower(t *testing.T) {
	b := NewBoard()
	power := b.Add(NewPowerSource("Power Source"))
	button := b.Add(NewPowerButton("Power Button"))
	b.Connect(button, power)

	c := b.Component(button)
	c.Pressed = true
	c.State = Closed

	// Source never updated, so it is still Off.
	b.Update(button, 0.1, testRand())
	if c.State != Open || c.Pressed {
		t.Errorf("expected OPEN/unpressed without power, got %s/%v", c.State, c.Pressed)
	}
}

func TestDetermineSelection(t *testing.T) {
	b := NewBoard()
	photo := b.Add(NewPhototransistor("Phototransistor"))
	sel := b.Add(NewDetermineSelection("Determine Selection"))
	b.Connect(sel, photo)

	b.Update(sel, 0.1, testRand())
	if b.Component(sel).State != Inactive {
		t.Errorf("expected INACTIVE, got %s", b.Component(sel).State)
	}

	b.Component(photo).State = Active
	b.Update(sel, 0.1, testRand())
	if b.Component(sel).State != Active {
		t.Errorf("expected ACTIVE, got %s", b.Component(sel).State)
	}
}

func TestTunnelDiodeGate(t *testing.T) {
	b := NewBoard()
	button := b.Add(NewPowerButton("Power Button"))
	diode := b.Add(NewTunnelDiode("Tunnel Diode", 1.0))
	b.Connect(diode, button)

	// Button open: no draw, never active even with probability 1.
	b.Update(diode, 0.1, testRand())
	if b.Component(diode).State != Inactive {
		t.Errorf("expected INACTIVE with open button, got %s", b.Component(diode).State)
	}

	b.Component(button).State = Closed
	b.Update(diode, 0.1, testRand())
	if b.Component(diode).State != Active {
		t.Errorf("expected ACTIVE with closed button and p=1, got %s", b.Component(diode).State)
	}

	b.Component(diode).TunnelProb = 0.0
	b.Update(diode, 0.1, testRand())
	if b.Component(diode).State != Inactive {
		t.Errorf("expected INACTIVE with p=0, got %s", b.Component(diode).State)
	}
}

func TestTunnelDiodeActivationRate(t *testing.T) {
	b := NewBoard()
	button := b.Add(NewPowerButton("Power Button"))
	diode := b.Add(NewTunnelDiode("Tunnel Diode", 0.3))
	b.Connect(diode, button)
	b.Component(button).State = Closed

	const n = 20000
	rng := testRand()
	hits := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		b.Update(diode, 0.1, rng)
		if b.Component(diode).State == Active {
			hits = append(hits, 1)
		} else {
			hits = append(hits, 0)
		}
	}

	rate := stat.Mean(hits, nil)
	// ~6 standard errors of slack at n=20000.
	if rate < 0.28 || rate > 0.32 {
		t.Errorf("empirical rate %.4f outside [0.28, 0.32]", rate)
	}
}

func TestConnectKeepsDuplicateEdges(t *testing.T) {
	b := NewBoard()
	power := b.Add(NewPowerSource("Power Source"))
	led := b.Add(NewLED("LED"))

	b.Connect(led, power)
	b.Connect(led, power)

	if got := len(b.Component(led).Inputs); got != 2 {
		t.Errorf("expected 2 input edges, got %d", got)
	}
	if got := len(b.Component(power).Outputs); got != 2 {
		t.Errorf("expected 2 output edges, got %d", got)
	}
	for _, out := range b.Component(power).Outputs {
		if out != led {
			t.Errorf("back reference points at %d, want %d", out, led)
		}
	}
}
