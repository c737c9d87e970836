package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"talentpipe/pkg/pipeline"
)

// Message types for the TUI

// StateMsg is sent on every state machine transition
type StateMsg struct {
	State pipeline.State
}

// StatusMsg carries the human-readable status line
type StatusMsg struct {
	Message string
}

// ProjectMsg is sent once the target project is known
type ProjectMsg struct {
	Name string
	ID   string
}

// CountsMsg updates the found and processed counters
type CountsMsg struct {
	Found     int
	Processed int
}

// ProgressMsg updates the batch progress percentage
type ProgressMsg struct {
	Percent float64
}

// DoneMsg is sent when the run reaches a terminal state
type DoneMsg struct {
	Summary pipeline.Summary
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, msg.Width/2-12)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.Done() {
			return m, nil
		}
		return m, tickCmd()

	case StateMsg:
		m.state = msg.State
		return m, nil

	case StatusMsg:
		if msg.Message != m.status {
			m.status = msg.Message
			m.AddLogMessage(levelFor(msg.Message), msg.Message)
		}
		return m, nil

	case ProjectMsg:
		m.projectName = msg.Name
		m.projectID = msg.ID
		m.AddLogMessage("INFO", fmt.Sprintf("Project: %s (%s)", msg.Name, msg.ID))
		return m, nil

	case CountsMsg:
		m.found = msg.Found
		m.processed = msg.Processed
		return m, nil

	case ProgressMsg:
		m.percent = msg.Percent
		return m, nil

	case DoneMsg:
		summary := msg.Summary
		m.summary = &summary
		m.state = summary.State
		m.found = summary.Found
		m.processed = summary.Processed
		if summary.State == pipeline.StateComplete {
			m.percent = 100
		}
		for _, r := range summary.Results {
			if !r.OK() {
				m.AddLogMessage("ERROR", fmt.Sprintf("%s: %s", r.URL, r.Message))
			}
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c", "esc":
		m.requestStop()
		return m, tea.Quit

	case "s", "S":
		m.requestStop()
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = []LogMessage{}
		return m, nil

	case "enter":
		if m.Done() {
			return m, tea.Quit
		}
	}

	return m, nil
}

// levelFor picks a log level from a pipeline status line
func levelFor(status string) string {
	switch {
	case strings.HasPrefix(status, "Error:"),
		strings.HasPrefix(status, "Not authenticated"),
		strings.HasPrefix(status, "No project selected"):
		return "ERROR"
	case status == "Stopped by user":
		return "WARN"
	case strings.HasPrefix(status, "Complete!"):
		return "SUCCESS"
	default:
		return "INFO"
	}
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
