// Package viz is the live terminal view: a Bubble Tea program polling the
// simulator at a fixed frame rate and rendering component states, the
// probability field and the coordinate history.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/qsim/internal/circuit"
	"github.com/san-kum/qsim/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

// Model wraps one simulator run for interactive display.
type Model struct {
	cfg sim.Config
	s   *sim.Simulator

	fps      int
	running  bool
	finished bool

	snap     sim.Snapshot
	haveSnap bool
	pHist    []float64
	tHist    []float64

	graceSeen int
}

func NewModel(cfg sim.Config, fps int) (Model, error) {
	s, err := sim.New(cfg)
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 10
	}
	return Model{
		cfg:     cfg,
		s:       s,
		fps:     fps,
		running: true,
		pHist:   make([]float64, 0, historyCapacity),
		tHist:   make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			fresh, err := sim.New(m.cfg)
			if err == nil {
				m.s = fresh
				m.haveSnap = false
				m.finished = false
				m.running = true
				m.graceSeen = 0
				m.pHist = m.pHist[:0]
				m.tHist = m.tHist[:0]
			}
		}
	case TickMsg:
		if m.running && !m.finished {
			m.step()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) step() {
	snap := m.s.Step()
	m.snap = snap
	m.haveSnap = true

	m.pHist = append(m.pHist, snap.P)
	m.tHist = append(m.tHist, snap.T)
	if len(m.pHist) > historyCapacity {
		m.pHist = m.pHist[1:]
		m.tHist = m.tHist[1:]
	}

	if snap.Stopped {
		m.graceSeen++
	}
	if snap.Tick+1 >= m.cfg.MaxTicks || m.graceSeen >= m.cfg.GraceTicks {
		m.finished = true
	}
}

func (m Model) View() string {
	status := statusRunning.Render("RUNNING")
	if !m.running {
		status = statusPaused.Render("PAUSED")
	}
	if m.haveSnap && m.snap.Stopped {
		status = statusFinal.Render("FINAL STATE")
	}

	var left strings.Builder
	left.WriteString(headerStyle.Render("QUANTUM CIRCUIT") + "\n")
	left.WriteString(status + "\n\n")

	if m.haveSnap {
		for _, cs := range m.snap.Components {
			badge := badgeDead.Render("●")
			if cs.State.Live() {
				badge = badgeLive.Render("●")
			}
			left.WriteString(fmt.Sprintf("%s %s %s\n",
				badge,
				labelStyle.Render(cs.Name),
				valueStyle.Render(cs.State.String())))
		}

		left.WriteString("\n")
		left.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.snap.Tick)) + "\n")
		left.WriteString(labelStyle.Render("p") + valueStyle.Render(fmt.Sprintf("%.2f", m.snap.P)) + "\n")
		left.WriteString(labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.2f", m.snap.T)) + "\n")
		left.WriteString(labelStyle.Render("Resets") + valueStyle.Render(fmt.Sprintf("%d (p:%d t:%d)",
			m.snap.ResetCount, m.snap.PResetCount, m.snap.TResetCount)) + "\n")

		if len(m.pHist) > 1 {
			chart := asciigraph.Plot(m.pHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("p"))
			left.WriteString(graphStyle.Render(chart) + "\n")
			chart = asciigraph.Plot(m.tHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("t"))
			left.WriteString(graphStyle.Render(chart) + "\n")
		}
	}

	left.WriteString(helpStyle.Render("SP:Pause  R:Restart  Q:Quit"))

	right := panelStyle.Render(m.fieldView())
	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), right)
}

// fieldView renders the probability field as a colored grid with the p/t
// crosshair, bottom-left cell at (-1,-1).
func (m Model) fieldView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("PROBABILITY FIELD") + "\n")

	if !m.haveSnap {
		b.WriteString(valueStyle.Render("(waiting for first tick)"))
		return b.String()
	}

	size := circuit.FieldSize
	pCol := coordCell(m.snap.P)
	tRow := size - 1 - coordCell(m.snap.T)

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			v := m.snap.Field[size-1-i][j]
			if i == tRow || j == pCol {
				b.WriteString(crossStyle.Render("┼┼"))
				continue
			}
			b.WriteString(cellStyle(v).Render("██"))
		}
		b.WriteString("\n")
	}

	if m.snap.Stopped {
		b.WriteString("\n" + statusFinal.Render("p=1 AND t=1"))
	} else {
		b.WriteString("\n" + valueStyle.Render(fmt.Sprintf("p=%.2f t=%.2f", m.snap.P, m.snap.T)))
	}
	return b.String()
}

// coordCell maps a coordinate in [-1,1] to a grid column.
func coordCell(v float64) int {
	cell := int((v + 1) / 2 * circuit.FieldSize)
	if cell < 0 {
		cell = 0
	}
	if cell >= circuit.FieldSize {
		cell = circuit.FieldSize - 1
	}
	return cell
}

// Run starts the live view and blocks until the user quits.
func Run(cfg sim.Config, fps int) error {
	m, err := NewModel(cfg, fps)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
