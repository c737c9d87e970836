package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"talentpipe/pkg/pipeline"
)

// TUI is the full-screen overlay for a pipeline run. It implements
// pipeline.Reporter so a Scraper can drive it directly.
type TUI struct {
	program *tea.Program
}

// New creates a TUI. cancel is called when the user presses s or q.
func New(resultsURL string, cancel func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(resultsURL, cancel)
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	program := tea.NewProgram(&model, opts...)

	return &TUI{program: program}
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Quit stops the TUI
func (t *TUI) Quit() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *TUI) SetState(s pipeline.State)      { t.Send(StateMsg{State: s}) }
func (t *TUI) SetStatus(message string)       { t.Send(StatusMsg{Message: message}) }
func (t *TUI) SetProject(name, id string)     { t.Send(ProjectMsg{Name: name, ID: id}) }
func (t *TUI) SetCounts(found, processed int) { t.Send(CountsMsg{Found: found, Processed: processed}) }
func (t *TUI) SetProgress(percent float64)    { t.Send(ProgressMsg{Percent: percent}) }
func (t *TUI) Done(summary pipeline.Summary)  { t.Send(DoneMsg{Summary: summary}) }

var _ pipeline.Reporter = (*TUI)(nil)
