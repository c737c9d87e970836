package pipeline

import (
	"context"

	"talentpipe/pkg/dom"
	"talentpipe/pkg/models"
)

// Page is the results page being scanned
type Page interface {
	ProfileCandidates(ctx context.Context) ([]dom.Candidate, error)
	// NextPageControl returns nil when there is no enabled next control
	NextPageControl(ctx context.Context) (dom.Control, error)
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollTo(ctx context.Context, y int64) error
}

// Submitter sends one profile URL to the processing API
type Submitter interface {
	Submit(ctx context.Context, profileURL, projectID string) (*models.Result, error)
}

// TokenSource returns "" when the user is not logged in
type TokenSource interface {
	Token() (string, error)
}

// ProjectSource returns the zero Project when none is selected
type ProjectSource interface {
	SelectedProject() (models.Project, error)
}

// Reporter renders run progress. Calls come from the pipeline goroutine.
type Reporter interface {
	SetState(state State)
	SetStatus(message string)
	SetProject(name, id string)
	SetCounts(found, processed int)
	SetProgress(percent float64)
	Done(summary Summary)
}

// NopReporter discards every update
type NopReporter struct{}

func (NopReporter) SetState(State)            {}
func (NopReporter) SetStatus(string)          {}
func (NopReporter) SetProject(string, string) {}
func (NopReporter) SetCounts(int, int)        {}
func (NopReporter) SetProgress(float64)       {}
func (NopReporter) Done(Summary)              {}
