package pipeline

import (
	"time"

	"github.com/google/uuid"
	"talentpipe/pkg/models"
)

// State is a step of the pipeline state machine
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateScanningPage
	StateScrolling
	StateExtracting
	StateBatchSubmitting
	StatePaginating
	StateComplete
	StateStopped
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateInitializing:    "initializing",
	StateScanningPage:    "scanning_page",
	StateScrolling:       "scrolling",
	StateExtracting:      "extracting",
	StateBatchSubmitting: "batch_submitting",
	StatePaginating:      "paginating",
	StateComplete:        "complete",
	StateStopped:         "stopped",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateComplete || s == StateStopped || s == StateFailed
}

// ProfileSet is an insertion-ordered set of strings
type ProfileSet struct {
	order []string
	index map[string]struct{}
}

func NewProfileSet() *ProfileSet {
	return &ProfileSet{index: make(map[string]struct{})}
}

// Add inserts v and reports whether it was new
func (s *ProfileSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *ProfileSet) Has(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *ProfileSet) Len() int {
	return len(s.order)
}

// Values returns a copy in insertion order
func (s *ProfileSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RunState is everything one run knows. It lives only as long as the run.
type RunState struct {
	ID          uuid.UUID
	State       State
	PageCount   int
	ProjectID   string
	ProjectName string
	// Found holds raw profile identifiers
	Found *ProfileSet
	// Processed holds submitted profile URLs, successful or not
	Processed *ProfileSet
	Results   []models.Result
	Progress  float64
	StartedAt time.Time
}

func newRunState() *RunState {
	return &RunState{
		ID:        uuid.New(),
		State:     StateIdle,
		Found:     NewProfileSet(),
		Processed: NewProfileSet(),
		StartedAt: time.Now(),
	}
}

// Summary is what a finished run reports
type Summary struct {
	RunID       string
	State       State
	Pages       int
	Found       int
	Processed   int
	Succeeded   int
	Failed      int
	ProjectID   string
	ProjectName string
	Results     []models.Result
	Duration    time.Duration
}

func (r *RunState) summary() Summary {
	s := Summary{
		RunID:       r.ID.String(),
		State:       r.State,
		Pages:       r.PageCount,
		Found:       r.Found.Len(),
		Processed:   r.Processed.Len(),
		ProjectID:   r.ProjectID,
		ProjectName: r.ProjectName,
		Results:     append([]models.Result(nil), r.Results...),
		Duration:    time.Since(r.StartedAt),
	}
	for _, res := range r.Results {
		if res.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
