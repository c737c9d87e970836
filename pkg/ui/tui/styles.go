package tui

import (
	"github.com/charmbracelet/lipgloss"
	"talentpipe/pkg/pipeline"
)

var (
	brandBlue  = lipgloss.Color("#0A66C2")
	skyBlue    = lipgloss.Color("#70B5F9")
	okGreen    = lipgloss.Color("#57C785")
	amber      = lipgloss.Color("#F5B83D")
	alertRed   = lipgloss.Color("#E5534B")
	ink        = lipgloss.Color("#1D2226")
	slate      = lipgloss.Color("#283036")
	paper      = lipgloss.Color("#C9CED3")
	muted      = lipgloss.Color("#6E7681")
	mutedFaint = lipgloss.Color("#4B5258")

	baseStyle = lipgloss.NewStyle().Background(ink).Foreground(paper)

	logoStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandBlue).
			Background(slate).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Background(brandBlue).
			Foreground(paper).
			Bold(true).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().Foreground(skyBlue).Bold(true)
	statsValueStyle = lipgloss.NewStyle().Foreground(paper)
	rateStyle       = lipgloss.NewStyle().Foreground(skyBlue)

	successStyle = lipgloss.NewStyle().Foreground(okGreen).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(amber).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(alertRed).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(skyBlue).Bold(true)

	logTimestampStyle = lipgloss.NewStyle().Foreground(mutedFaint)
	logMessageStyle   = lipgloss.NewStyle().Foreground(paper)

	helpStyle = lipgloss.NewStyle().Foreground(muted).Padding(1, 0, 0, 2)
)

// stateStyle colors a state by outcome
func stateStyle(s pipeline.State) lipgloss.Style {
	switch s {
	case pipeline.StateComplete:
		return successStyle
	case pipeline.StateStopped:
		return warningStyle
	case pipeline.StateFailed:
		return errorStyle
	default:
		return activeStyle
	}
}
