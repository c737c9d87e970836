package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"talentpipe/pkg/pipeline"
)

// ProgressDisplay renders a run as a single self-rewriting terminal line.
// In verbose mode every status goes on its own line instead.
type ProgressDisplay struct {
	mu         sync.Mutex
	out        io.Writer
	verbose    bool
	resultsURL string

	project   string
	status    string
	found     int
	processed int
	percent   float64
	startTime time.Time
}

// NewProgressDisplay creates a display writing to out
func NewProgressDisplay(out io.Writer, resultsURL string, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:        out,
		verbose:    verbose,
		resultsURL: resultsURL,
		startTime:  time.Now(),
	}
}

func (p *ProgressDisplay) SetState(pipeline.State) {}

func (p *ProgressDisplay) SetStatus(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = message
	if p.verbose {
		fmt.Fprintf(p.out, "%s %s\n", Magenta("→"), message)
		return
	}
	p.printProgress()
}

func (p *ProgressDisplay) SetProject(name, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.project = name
	if p.project == "" {
		p.project = id
	}
	fmt.Fprintf(p.out, "%s %s %s\n", Cyan("Project:"), Yellow(name), Dim("("+id+")"))
}

func (p *ProgressDisplay) SetCounts(found, processed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.found, p.processed = found, processed
	if !p.verbose {
		p.printProgress()
	}
}

func (p *ProgressDisplay) SetProgress(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.percent = percent
	if !p.verbose {
		p.printProgress()
	}
}

// Done prints the run summary
func (p *ProgressDisplay) Done(summary pipeline.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verbose {
		fmt.Fprintln(p.out)
	}

	mark := Green("✓")
	switch summary.State {
	case pipeline.StateStopped:
		mark = Yellow("■")
	case pipeline.StateFailed:
		mark = Red("✗")
	}
	fmt.Fprintf(p.out, "\n%s %s\n", mark, p.status)

	fmt.Fprintf(p.out, "  %s %d found, %d processed (%d ok, %d failed) over %d page(s) in %s\n",
		Dim("•"),
		summary.Found,
		summary.Processed,
		summary.Succeeded,
		summary.Failed,
		summary.Pages,
		FormatDuration(summary.Duration),
	)
	for _, r := range summary.Results {
		if !r.OK() {
			fmt.Fprintf(p.out, "  %s %s %s\n", Red("✗"), r.URL, Dim(r.Message))
		}
	}
	if p.resultsURL != "" && summary.State != pipeline.StateFailed {
		fmt.Fprintf(p.out, "  %s %s\n", Dim("View results:"), Cyan(p.resultsURL))
	}
}

// printProgress rewrites the progress line; callers hold p.mu
func (p *ProgressDisplay) printProgress() {
	elapsed := time.Since(p.startTime)
	line := fmt.Sprintf("\r[%s] %3.0f%% • found %d • processed %d • %.1f/min • %s",
		Bar(p.percent, 20),
		p.percent,
		p.found,
		p.processed,
		PerMinute(p.processed, elapsed),
		p.status,
	)
	if len(line) > 140 {
		line = line[:137] + "..."
	}
	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 140), line)
}
