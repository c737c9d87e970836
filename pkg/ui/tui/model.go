package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"talentpipe/pkg/pipeline"
)

// Model is the bubbletea model for a pipeline run
type Model struct {
	// UI components
	spinner spinner.Model
	bar     progress.Model

	// Run state, fed by the pipeline through messages
	state       pipeline.State
	status      string
	projectName string
	projectID   string
	found       int
	processed   int
	percent     float64
	summary     *pipeline.Summary
	startTime   time.Time

	resultsURL string
	cancel     func()
	stopping   bool

	// UI state
	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a model. cancel is invoked when the user asks to stop.
func NewModel(resultsURL string, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(skyBlue)

	bar := progress.New(progress.WithGradient(string(brandBlue), string(skyBlue)))
	bar.Width = 40

	if cancel == nil {
		cancel = func() {}
	}

	return Model{
		spinner:        s,
		bar:            bar,
		state:          pipeline.StateIdle,
		status:         "Waiting for pipeline...",
		startTime:      time.Now(),
		resultsURL:     resultsURL,
		cancel:         cancel,
		maxLogMessages: 50,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	color := paper
	switch level {
	case "ERROR":
		color = alertRed
	case "WARN":
		color = amber
	case "SUCCESS":
		color = okGreen
	case "INFO":
		color = skyBlue
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Done reports whether the run has finished
func (m *Model) Done() bool {
	return m.summary != nil
}

// Stopping reports whether the user asked the run to stop
func (m *Model) Stopping() bool {
	return m.stopping
}

func (m *Model) requestStop() {
	if m.stopping || m.Done() {
		return
	}
	m.stopping = true
	m.cancel()
	m.AddLogMessage("WARN", "Stop requested, finishing the current profile")
}
