package circuit

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FieldSize is the edge length of the probability field grid.
const FieldSize = 10

const (
	pStep       = 0.05 // p nudge per active gate per tick
	tRate       = 0.5  // t advances dt*tRate per tick
	finalWindow = 0.05 // termination tolerance around 1.0
	pResetTo    = 0.5
	tResetTo    = -0.5
)

// QuantumBox holds the two-coordinate reset machine. Both coordinates live
// in [-1, 1]; p can equal exactly 1.0 only at termination. The machine runs
// until p and t land inside the final window in the same tick, then stops
// for good.
type QuantumBox struct {
	P, T  float64
	Field [FieldSize][FieldSize]float64

	Stopped     bool
	ResetCount  int
	PResetCount int
	TResetCount int
}

// Event is a notification emitted by the box: either a reset (one or both
// coordinates wrapped) or the final-state transition. Pre-reset values are
// the post-step values the coordinate held when the wrap fired.
type Event struct {
	Final  bool
	PReset bool
	TReset bool
	OldP   float64 // pre-reset p, valid when PReset
	OldT   float64 // pre-reset t, valid when TReset
	P, T   float64 // coordinates after the event

	ResetCount  int
	PResetCount int
	TResetCount int
}

func NewBox() *QuantumBox {
	q := &QuantumBox{P: pResetTo, T: tResetTo}
	q.recomputeField()
	return q
}

// Step advances the box one tick. It returns a reset or final event, or nil.
// Calling Step on a stopped box is the caller's bug; the board never does.
func (q *QuantumBox) Step(dt float64, determineActive, tunnelActive bool) *Event {
	oldT := q.T
	q.T += dt * tRate

	oldP := q.P
	if determineActive {
		q.P += pStep
	}
	if tunnelActive {
		q.P -= pStep
	}

	// Termination is checked on the post-step coordinates, before any
	// reset gets a chance to pull them back.
	if math.Abs(q.P-1.0) < finalWindow && math.Abs(q.T-1.0) < finalWindow {
		q.Stopped = true
		q.P, q.T = 1.0, 1.0
		return &Event{
			Final: true, P: q.P, T: q.T,
			ResetCount: q.ResetCount, PResetCount: q.PResetCount, TResetCount: q.TResetCount,
		}
	}

	var pReset, tReset bool
	if q.P >= 1.0 {
		oldP = q.P
		q.P = pResetTo
		pReset = true
		q.PResetCount++
	}
	if q.T >= 1.0 {
		oldT = q.T
		q.T = tResetTo
		tReset = true
		q.TResetCount++
	}

	var ev *Event
	if pReset || tReset {
		q.ResetCount++
		ev = &Event{
			PReset: pReset, TReset: tReset, OldP: oldP, OldT: oldT, P: q.P, T: q.T,
			ResetCount: q.ResetCount, PResetCount: q.PResetCount, TResetCount: q.TResetCount,
		}
	}

	// Only the lower bound needs clamping; values >= 1.0 were already
	// redirected above.
	q.P = math.Max(q.P, -1.0)
	q.T = math.Max(q.T, -1.0)

	q.recomputeField()
	return ev
}

// recomputeField fills the grid with |sin(5x+t)*cos(5y+p)|^2 over x,y in
// [-1, 1] and normalizes so the hottest cell is 1. An all-zero grid stays
// all-zero.
func (q *QuantumBox) recomputeField() {
	var xs, ys [FieldSize]float64
	floats.Span(xs[:], -1, 1)
	floats.Span(ys[:], -1, 1)

	for i, y := range ys {
		for j, x := range xs {
			w := math.Sin(5*x+q.T) * math.Cos(5*y+q.P)
			q.Field[i][j] = w * w
		}
	}

	max := floats.Max(q.Field[0][:])
	for i := 1; i < FieldSize; i++ {
		max = math.Max(max, floats.Max(q.Field[i][:]))
	}
	if max > 0 {
		for i := range q.Field {
			floats.Scale(1/max, q.Field[i][:])
		}
	}
}

func (q *QuantumBox) displayState() State {
	if q.P > 0 {
		return Active
	}
	return Inactive
}
