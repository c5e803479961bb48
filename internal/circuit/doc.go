// Package circuit implements the fixed component graph at the heart of the
// simulation: a small arena of named components (power source, LED,
// phototransistor, resistor, power button, tunnel diode, selection gate)
// plus the quantum box, a two-coordinate reset-until-aligned state machine
// with a derived probability field.
//
// Components are addressed by [ID] into a [Board] arena; input/output edges
// are index lists, wired once and fixed for the lifetime of a run. Update
// rules are keyed on a closed [Kind] tag and read the *current* state of
// their inputs, so update order produces same-tick propagation on purpose.
package circuit
