package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"talentpipe/pkg/pipeline"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderLogo())

	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ",
		rightColumn,
	)
	sections = append(sections, mainContent)

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else if m.Done() {
		sections = append(sections, helpStyle.Render("Press enter or q to exit"))
	} else {
		sections = append(sections, helpStyle.Render("s stop • q quit • ? help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) renderLogo() string {
	logo := `
╔════════════════════════════════════════════════════╗
║  ▀█▀ ▄▀█ █   █▀▀ █▄ █ ▀█▀ █▀█ █ █▀█ █▀▀            ║
║   █  █▀█ █▄▄ ██▄ █ ▀█  █  █▀▀ █ █▀▀ ██▄            ║
║          RECRUITER PIPELINE SCRAPER                ║
╚════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	sections := []string{
		m.renderRunPanel(width),
		m.renderProgressPanel(width),
	}
	if m.Done() {
		sections = append(sections, m.renderSummaryPanel(width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2
	return m.renderLogsPanel(width)
}

// renderRunPanel shows the state machine position and the target project
func (m *Model) renderRunPanel(width int) string {
	title := titleStyle.Render(" PIPELINE ")

	indicator := m.spinner.View()
	if m.state.Terminal() {
		indicator = stateStyle(m.state).Render("●")
	}

	project := "-"
	if m.projectName != "" || m.projectID != "" {
		project = fmt.Sprintf("%s (%s)", m.projectName, m.projectID)
	}

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("State:"), stateStyle(m.state).Render(strings.ToUpper(m.state.String()))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Project:"), statsValueStyle.Render(project)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(m.elapsed()))),
		fmt.Sprintf("%s %s", indicator, m.status),
	}
	if m.stopping && !m.Done() {
		stats = append(stats, warningStyle.Render("■ STOPPING"))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, stats...)),
	)
}

func (m *Model) renderProgressPanel(width int) string {
	title := titleStyle.Render(" PROGRESS ")

	percent := m.percent / 100
	if percent > 1 {
		percent = 1
	}

	perMinute := 0.0
	if elapsed := m.elapsed(); elapsed > 0 {
		perMinute = float64(m.processed) / elapsed.Minutes()
	}

	content := []string{
		m.bar.ViewAs(percent),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Found:"), statsValueStyle.Render(fmt.Sprintf("%d profiles", m.found))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Processed:"), statsValueStyle.Render(fmt.Sprintf("%d profiles", m.processed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rate:"), rateStyle.Render(fmt.Sprintf("%.1f/min", perMinute))),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

func (m *Model) renderSummaryPanel(width int) string {
	s := m.summary
	title := titleStyle.Render(" SUMMARY ")

	lines := []string{
		fmt.Sprintf("%s %d", statsLabelStyle.Render("Pages:"), s.Pages),
		successStyle.Render(fmt.Sprintf("✓ %d submitted", s.Succeeded)),
	}
	if s.Failed > 0 {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("✗ %d failed", s.Failed)))
	}
	if m.resultsURL != "" && s.State != pipeline.StateFailed {
		lines = append(lines, "", statsLabelStyle.Render("View results:"), rateStyle.Render(m.resultsURL))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")),
	)
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" ACTIVITY ")

	start := len(m.logMessages) - 15
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		text := log.Message
		if maxLen := width - 25; maxLen > 3 && len(text) > maxLen {
			text = text[:maxLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(text)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(muted).Render("No activity yet...")
	}

	logsHeight := m.height - 12
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

func (m *Model) renderHelp() string {
	help := `
  Keys:
    s        - Stop the pipeline after the current profile
    q/ctrl+c - Stop and quit
    ctrl+l   - Clear the activity log
    ?        - Toggle this help

  States:
    ` + successStyle.Render("Green") + `    - Complete
    ` + warningStyle.Render("Orange") + `   - Stopped
    ` + errorStyle.Render("Red") + `      - Failed
`

	return panelStyle.Width(m.width).Render(help)
}

func (m *Model) elapsed() time.Duration {
	if m.summary != nil {
		return m.summary.Duration
	}
	return time.Since(m.startTime)
}

// formatDuration formats a duration as a clock
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
