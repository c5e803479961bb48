package sim

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/qsim/internal/circuit"
)

// EventLogger is an Observer that reports reset and final-state events.
// Per-tick snapshots are logged at debug level only.
type EventLogger struct {
	log zerolog.Logger
}

func NewEventLogger(log zerolog.Logger) *EventLogger {
	return &EventLogger{log: log.With().Str("component", "sim").Logger()}
}

func (l *EventLogger) OnTick(snap Snapshot) {
	l.log.Debug().
		Int("tick", snap.Tick).
		Float64("p", snap.P).
		Float64("t", snap.T).
		Bool("stopped", snap.Stopped).
		Msg("tick")
}

func (l *EventLogger) OnEvent(ev circuit.Event) {
	if ev.Final {
		l.log.Info().
			Float64("p", ev.P).
			Float64("t", ev.T).
			Int("resets", ev.ResetCount).
			Int("p_resets", ev.PResetCount).
			Int("t_resets", ev.TResetCount).
			Msg("final state reached")
		return
	}

	e := l.log.Info().Int("reset", ev.ResetCount)
	if ev.PReset {
		e = e.Float64("p_before", ev.OldP).Float64("p_after", ev.P)
	}
	if ev.TReset {
		e = e.Float64("t_before", ev.OldT).Float64("t_after", ev.T)
	}
	e.Msg("coordinate reset")
}
