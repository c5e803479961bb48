package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusFinal   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))

	badgeLive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	badgeDead = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	crossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")).Bold(true)
)

// cellStyle colors one field cell with the same ramp the GIF renderer uses.
func cellStyle(v float64) lipgloss.Style {
	r := int(255 * (0.4 + 0.6*v))
	g := int(255 * (0.2 + 0.8*math.Sqrt(v)))
	b := int(255 * (0.5 + 0.5*v))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)))
}
