package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"talentpipe/pkg/config"
	"talentpipe/pkg/dom"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/models"
)

// fakeClient records submissions and can fail or react to chosen calls
type fakeClient struct {
	mu      sync.Mutex
	urls    []string
	failOn  map[int]error
	onCall  func(n int)
	message string
}

func (f *fakeClient) Submit(_ context.Context, url, projectID string) (*models.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	n := len(f.urls)
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(n)
	}
	if err := f.failOn[n]; err != nil {
		return nil, err
	}
	return &models.Result{URL: url, Status: models.StatusSuccess, ProfileID: models.FlexibleID(fmt.Sprint(n)), Message: f.message}, nil
}

func (f *fakeClient) submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

type staticProject models.Project

func (p staticProject) SelectedProject() (models.Project, error) { return models.Project(p), nil }

// recordingReporter keeps every update for assertions
type recordingReporter struct {
	states    []State
	statuses  []string
	progress  []float64
	found     int
	processed int
	project   string
	done      *Summary
}

func (r *recordingReporter) SetState(s State)          { r.states = append(r.states, s) }
func (r *recordingReporter) SetStatus(m string)        { r.statuses = append(r.statuses, m) }
func (r *recordingReporter) SetProject(name, _ string) { r.project = name }
func (r *recordingReporter) SetCounts(f, p int)        { r.found, r.processed = f, p }
func (r *recordingReporter) SetProgress(p float64)     { r.progress = append(r.progress, p) }
func (r *recordingReporter) Done(s Summary)            { r.done = &s }

func (r *recordingReporter) lastStatus() string {
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

// recordingSleeper returns at once and remembers each requested delay
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, got := range s.delays {
		if got == d {
			n++
		}
	}
	return n
}

func resultsHTML(ids []string, next bool) string {
	var b strings.Builder
	b.WriteString("<html><body><ol>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a href="/talent/profile/%s?trk=x">%s</a></li>`, id, id)
	}
	b.WriteString("</ol>")
	if next {
		b.WriteString(`<button class="artdeco-pagination__button--next">Next</button>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func idRange(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return ids
}

type harness struct {
	scraper  *Scraper
	client   *fakeClient
	reporter *recordingReporter
	sleeper  *recordingSleeper
	log      *logger.TestLogger
}

func newHarness(t *testing.T, page Page, tokens TokenSource, project models.Project) *harness {
	t.Helper()
	h := &harness{
		client:   &fakeClient{},
		reporter: &recordingReporter{},
		sleeper:  &recordingSleeper{},
		log:      logger.NewTestLogger(),
	}
	s, err := New(config.DefaultConfig().Pipeline, Deps{
		Page:     page,
		Client:   h.client,
		Tokens:   tokens,
		Projects: staticProject(project),
		Logger:   h.log,
		Sleeper:  h.sleeper,
	})
	require.NoError(t, err)
	s.SetReporter(h.reporter)
	h.scraper = s
	return h
}

var testProject = models.Project{ID: "42", Name: "Backend hires"}

func TestRunSevenProfilesEndToEnd(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("P", 7), false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)

	summary, err := h.scraper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateComplete, summary.State)
	assert.Equal(t, 7, summary.Found)
	assert.Equal(t, 7, summary.Processed)
	assert.Len(t, summary.Results, 7)
	assert.Equal(t, 7, summary.Succeeded)
	assert.Equal(t, "Backend hires", h.reporter.project)

	// Two batches: 5 then 2
	assert.Contains(t, h.reporter.statuses, "Processing batch 1/2 (5 profiles)")
	assert.Contains(t, h.reporter.statuses, "Processing batch 2/2 (2 profiles)")
	assert.Equal(t, 7, h.sleeper.count(1500*time.Millisecond))
	assert.Equal(t, 2, h.sleeper.count(2000*time.Millisecond))

	require.NotEmpty(t, h.reporter.progress)
	assert.Contains(t, h.reporter.progress, 50.0)
	assert.Equal(t, 100.0, h.reporter.progress[len(h.reporter.progress)-1])
	assert.Equal(t, "Complete! Found 7 profiles, processed 7.", h.reporter.lastStatus())
	require.NotNil(t, h.reporter.done)
	assert.Equal(t, StateComplete, h.reporter.done.State)

	// Discovery order is submission order
	for i, url := range h.client.submitted() {
		assert.Equal(t, fmt.Sprintf("https://www.linkedin.com/in/uid-P%d", i+1), url)
	}
}

func TestRunStopsAtPageCap(t *testing.T) {
	var pages []string
	for i := 1; i <= 15; i++ {
		pages = append(pages, resultsHTML([]string{fmt.Sprintf("page%d", i)}, true))
	}
	page, err := dom.NewStaticPage(pages...)
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)

	summary, err := h.scraper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateComplete, summary.State)
	assert.Equal(t, 10, summary.Pages)
	assert.Equal(t, 10, summary.Found)
	assert.Len(t, h.client.submitted(), 10)
	assert.NotContains(t, h.reporter.statuses, "Scanning page 11...")
}

func TestRunCancelBeforeThirdProfile(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("C", 5), true))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)
	h.client.onCall = func(n int) {
		if n == 2 {
			h.scraper.Cancel()
		}
	}

	summary, err := h.scraper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateStopped, summary.State)
	assert.Len(t, summary.Results, 2)
	assert.Len(t, h.client.submitted(), 2)
	assert.Equal(t, "Stopped by user", h.reporter.lastStatus())
	assert.Equal(t, 0, page.Current(), "a stopped run does not paginate")
	assert.NotContains(t, h.reporter.states, StateComplete)
}

func TestRunCancelledContextStops(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("X", 3), false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := h.scraper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateStopped, summary.State)
	assert.Empty(t, h.client.submitted())
}

func TestRunSubmissionFailureDoesNotAbort(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("F", 3), false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)
	h.client.failOn = map[int]error{2: errors.New("API error (500): boom")}

	summary, err := h.scraper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateComplete, summary.State)
	require.Len(t, summary.Results, 3)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	failed := summary.Results[1]
	assert.Equal(t, models.StatusError, failed.Status)
	assert.Equal(t, "https://www.linkedin.com/in/uid-F2", failed.URL)
	assert.Equal(t, "API error (500): boom", failed.Message)
	assert.Equal(t, 3, summary.Processed, "failed submissions count as processed")
	assert.Equal(t, 3, h.sleeper.count(1500*time.Millisecond))
	assert.Equal(t, 1, h.log.CountMessages("Profile submission failed"))
}

func TestRunFailsWithoutToken(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("T", 2), false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens(""), testProject)

	summary, err := h.scraper.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, StateFailed, summary.State)
	assert.Equal(t, statusNoToken, h.reporter.lastStatus())
	assert.Empty(t, h.client.submitted())
	assert.NotContains(t, h.reporter.states, StateScanningPage)
}

func TestRunFailsWithoutProject(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(idRange("T", 2), false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), models.Project{Name: "no id"})

	summary, err := h.scraper.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoProject)
	assert.Equal(t, StateFailed, summary.State)
	assert.Equal(t, statusNoProject, h.reporter.lastStatus())
	assert.Empty(t, h.client.submitted())
}

func TestRunOnlyOnce(t *testing.T) {
	page, err := dom.NewStaticPage(resultsHTML(nil, false))
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)

	_, err = h.scraper.Run(context.Background())
	require.NoError(t, err)
	_, err = h.scraper.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestRunSubmitsEachURLOnce(t *testing.T) {
	page1 := resultsHTML([]string{"A", "B", "A"}, true)
	// B repeats across pages; the entity URN carries a full URL that maps to A's
	page2 := `<html><body>
		<a href="/talent/profile/B">B again</a>
		<div data-entity-urn="urn:profile:https://www.linkedin.com/in/uid-A"></div>
		<a href="/talent/profile/C">C</a>
	</body></html>`
	page, err := dom.NewStaticPage(page1, page2)
	require.NoError(t, err)
	h := newHarness(t, page, staticTokens("tok"), testProject)

	summary, err := h.scraper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.linkedin.com/in/uid-A",
		"https://www.linkedin.com/in/uid-B",
		"https://www.linkedin.com/in/uid-C",
	}, h.client.submitted())
	assert.Equal(t, 4, summary.Found, "the raw URL identifier is still a distinct find")
	assert.Equal(t, 3, summary.Processed)
}

// scriptedPage reports heights from a function and never paginates
type scriptedPage struct {
	height  func(call int) int64
	calls   int
	scrolls []int64
}

func (p *scriptedPage) ProfileCandidates(context.Context) ([]dom.Candidate, error) { return nil, nil }
func (p *scriptedPage) NextPageControl(context.Context) (dom.Control, error)        { return nil, nil }
func (p *scriptedPage) ScrollTo(_ context.Context, y int64) error {
	p.scrolls = append(p.scrolls, y)
	return nil
}
func (p *scriptedPage) ScrollHeight(context.Context) (int64, error) {
	p.calls++
	return p.height(p.calls), nil
}

func TestScrollLoopBounds(t *testing.T) {
	tests := []struct {
		name   string
		height func(call int) int64
		want   int
	}{
		{"ever growing height stops at the iteration cap", func(call int) int64 { return int64(call * 100) }, 20},
		{"stable height stops after three checks", func(int) int64 { return 500 }, 3},
		{"height settles after growing", func(call int) int64 {
			if call <= 3 {
				return int64(call * 100)
			}
			return 300
		}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &scriptedPage{height: tt.height}
			h := newHarness(t, page, staticTokens("tok"), testProject)

			got := h.scraper.scrollToLoadAll(context.Background(), logger.NewNopLogger())
			assert.Equal(t, tt.want, got)
			require.NotEmpty(t, page.scrolls)
			assert.Equal(t, int64(0), page.scrolls[len(page.scrolls)-1], "ends at the top")
			assert.Equal(t, 1, h.sleeper.count(500*time.Millisecond))
		})
	}
}

func TestExtractNewIsIdempotent(t *testing.T) {
	doc, err := dom.ParseString(resultsHTML([]string{"A", "B", "A", "C"}, false))
	require.NoError(t, err)
	cands := dom.Candidates(doc)
	cands = append(cands, dom.Candidate{Err: errors.New("detached node")}, dom.Candidate{Href: "/company/x"})

	found := NewProfileSet()
	log := logger.NewTestLogger()

	first := ExtractNew(cands, found, log)
	assert.Equal(t, []string{"A", "B", "C"}, first)
	assert.Equal(t, 1, log.CountMessages("Skipping unreadable profile element"))

	second := ExtractNew(cands, found, log)
	assert.Empty(t, second)
	assert.Equal(t, 3, found.Len())
}

func TestPartition(t *testing.T) {
	urls := idRange("u", 12)
	batches := Partition(urls, 5)

	require.Len(t, batches, 3)
	var joined []string
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 5)
		joined = append(joined, b...)
	}
	assert.Equal(t, urls, joined)
	assert.Empty(t, Partition([]string{}, 5))
	assert.Len(t, Partition(urls, 0), 12)
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/in/uid-AEM123", ProfileURL("AEM123"))
	full := "https://www.linkedin.com/in/jane-doe"
	assert.Equal(t, full, ProfileURL(full))
}

func TestCancelTokenIdempotent(t *testing.T) {
	tok := NewCancelToken()
	assert.False(t, tok.Cancelled())
	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.Cancelled())
	select {
	case <-tok.Done():
	default:
		t.Fatal("Done not closed after Cancel")
	}
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(config.PipelineConfig{}, Deps{})
	assert.Error(t, err)
}
