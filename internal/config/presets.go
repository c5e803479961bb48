package config

var Presets = map[string]*Config{
	"default": {
		Dt: 0.1, MaxTicks: 300, GraceTicks: 20, Seed: 42,
		PressProb: 0.02, TunnelProb: 0.3,
	},
	// clockwork removes every stochastic input: the run terminates at the
	// same tick every time, handy for demos and goldens.
	"clockwork": {
		Dt: 0.1, MaxTicks: 300, GraceTicks: 20, Seed: 42,
		PressProb: 0.0, TunnelProb: 0.0,
	},
	"quick": {
		Dt: 0.2, MaxTicks: 150, GraceTicks: 10, Seed: 42,
		PressProb: 0.02, TunnelProb: 0.3,
	},
	// stubborn tunnels aggressively, so p keeps getting knocked back and
	// runs tend to hit the tick cap.
	"stubborn": {
		Dt: 0.1, MaxTicks: 300, GraceTicks: 20, Seed: 42,
		PressProb: 0.05, TunnelProb: 0.6,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Output.GIFPath == "" {
		out.Output = DefaultConfig().Output
	}
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
