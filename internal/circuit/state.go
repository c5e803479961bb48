package circuit

// State is the observable condition of a component. Each kind interprets a
// subset; the values carry no numeric meaning.
type State int

const (
	Off State = iota
	On
	Active
	Inactive
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Off:
		return "OFF"
	case On:
		return "ON"
	case Active:
		return "ACTIVE"
	case Inactive:
		return "INACTIVE"
	case Open:
		return "OPEN"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Live reports whether the state counts as energized for display purposes.
func (s State) Live() bool {
	return s == On || s == Active || s == Closed
}

// Kind tags a component with its update rule. The set is closed: rules
// dispatch on the tag rather than on runtime types.
type Kind int

const (
	KindPowerSource Kind = iota
	KindLED
	KindPhototransistor
	KindResistor
	KindPowerButton
	KindTunnelDiode
	KindDetermineSelection
	KindQuantumBox
)

func (k Kind) String() string {
	switch k {
	case KindPowerSource:
		return "power_source"
	case KindLED:
		return "led"
	case KindPhototransistor:
		return "phototransistor"
	case KindResistor:
		return "resistor"
	case KindPowerButton:
		return "power_button"
	case KindTunnelDiode:
		return "tunnel_diode"
	case KindDetermineSelection:
		return "determine_selection"
	case KindQuantumBox:
		return "quantum_box"
	default:
		return "unknown"
	}
}
