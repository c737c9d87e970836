package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"talentpipe/pkg/config"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/models"
)

var (
	// ErrNoToken means the user is not logged in
	ErrNoToken = errors.New("not authenticated")
	// ErrNoProject means no destination project is selected
	ErrNoProject = errors.New("no project selected")
	// ErrAlreadyStarted is returned by a second call to Run
	ErrAlreadyStarted = errors.New("pipeline already started")
)

const (
	statusNoToken   = "Not authenticated. Please log in with `talentpipe auth login`."
	statusNoProject = "No project selected. Please select a project with `talentpipe project select`."
	statusStopped   = "Stopped by user"
)

// Deps are the collaborators a Scraper needs
type Deps struct {
	Page     Page
	Client   Submitter
	Tokens   TokenSource
	Projects ProjectSource
	Logger   logger.Logger
	// Sleeper defaults to RealSleeper
	Sleeper Sleeper
}

// Scraper walks search-result pages, collects profile identifiers and
// submits them in batches. A Scraper runs once.
type Scraper struct {
	cfg      config.PipelineConfig
	page     Page
	client   Submitter
	tokens   TokenSource
	projects ProjectSource
	sleeper  Sleeper
	logger   logger.Logger
	reporter Reporter
	cancel   *CancelToken

	startOnce sync.Once
	run       *RunState
}

// New creates a Scraper. Zero values in cfg fall back to the defaults.
func New(cfg config.PipelineConfig, deps Deps) (*Scraper, error) {
	switch {
	case deps.Page == nil:
		return nil, errors.New("page is required")
	case deps.Client == nil:
		return nil, errors.New("API client is required")
	case deps.Tokens == nil:
		return nil, errors.New("token source is required")
	case deps.Projects == nil:
		return nil, errors.New("project source is required")
	}

	log := deps.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	sleeper := deps.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper
	}

	return &Scraper{
		cfg:      withDefaults(cfg),
		page:     deps.Page,
		client:   deps.Client,
		tokens:   deps.Tokens,
		projects: deps.Projects,
		sleeper:  sleeper,
		logger:   log.WithField("component", "pipeline"),
		reporter: NopReporter{},
		cancel:   NewCancelToken(),
	}, nil
}

func withDefaults(cfg config.PipelineConfig) config.PipelineConfig {
	def := config.DefaultConfig().Pipeline
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.MaxScrollIterations <= 0 {
		cfg.MaxScrollIterations = def.MaxScrollIterations
	}
	if cfg.StableScrollChecks <= 0 {
		cfg.StableScrollChecks = def.StableScrollChecks
	}
	return cfg
}

// SetReporter attaches the progress renderer. Call it before Run.
func (s *Scraper) SetReporter(r Reporter) {
	if r == nil {
		r = NopReporter{}
	}
	s.reporter = r
}

// Cancel asks the run to stop at its next checkpoint
func (s *Scraper) Cancel() {
	s.cancel.Cancel()
}

// CancelToken exposes the stop switch for UI wiring
func (s *Scraper) CancelToken() *CancelToken {
	return s.cancel
}

// Run executes the pipeline until it completes, is stopped or fails. A
// stopped run is not an error. Failures before scanning starts return
// ErrNoToken, ErrNoProject or the underlying error.
func (s *Scraper) Run(ctx context.Context) (summary Summary, err error) {
	started := false
	s.startOnce.Do(func() { started = true })
	if !started {
		return Summary{}, ErrAlreadyStarted
	}

	s.run = newRunState()
	log := s.logger.WithField("run_id", s.run.ID.String())
	logger.LogComponentStart(log, "pipeline", map[string]interface{}{
		"batch_size": s.cfg.BatchSize,
		"max_pages":  s.cfg.MaxPages,
	})

	defer func() {
		summary = s.run.summary()
		logger.LogComponentStop(log, "pipeline", s.run.State.String())
		s.reporter.Done(summary)
	}()

	if err := s.initialize(ctx, log); err != nil {
		return summary, err
	}
	if err := s.scanPages(ctx, log); err != nil {
		s.fail(log, fmt.Sprintf("Error: %v", err))
		return summary, err
	}

	if s.stopped(ctx) {
		s.transition(log, StateStopped)
		s.status(statusStopped)
		return summary, nil
	}

	s.transition(log, StateComplete)
	s.status(fmt.Sprintf("Complete! Found %d profiles, processed %d.",
		s.run.Found.Len(), s.run.Processed.Len()))
	s.progress(100)
	return summary, nil
}

func (s *Scraper) initialize(ctx context.Context, log logger.Logger) error {
	s.transition(log, StateInitializing)
	s.status("Initializing pipeline scraper...")
	s.progress(0)

	s.status("Checking authentication...")
	token, err := s.tokens.Token()
	if err != nil {
		s.fail(log, fmt.Sprintf("Error: %v", err))
		return fmt.Errorf("failed to read auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		s.fail(log, statusNoToken)
		return ErrNoToken
	}

	s.status("Getting selected project...")
	project, err := s.projects.SelectedProject()
	if err != nil {
		s.fail(log, fmt.Sprintf("Error: %v", err))
		return fmt.Errorf("failed to read selected project: %w", err)
	}
	if project.IsZero() {
		s.fail(log, statusNoProject)
		return ErrNoProject
	}

	s.run.ProjectID = project.ID.String()
	s.run.ProjectName = project.Name
	s.reporter.SetProject(project.Name, s.run.ProjectID)
	log.InfoWithFields("Pipeline initialized", map[string]interface{}{
		"project_id":   s.run.ProjectID,
		"project_name": project.Name,
	})
	s.status("Starting pipeline scan...")
	return nil
}

// scanPages runs the ScanningPage -> ... -> Paginating loop. It returns an
// error only when the page itself cannot be read.
func (s *Scraper) scanPages(ctx context.Context, log logger.Logger) error {
	s.run.PageCount = 1
	for s.run.PageCount <= s.cfg.MaxPages && !s.stopped(ctx) {
		pageLog := log.WithField("page", s.run.PageCount)

		s.transition(pageLog, StateScanningPage)
		s.status(fmt.Sprintf("Scanning page %d...", s.run.PageCount))

		s.transition(pageLog, StateScrolling)
		s.scrollToLoadAll(ctx, pageLog)

		s.transition(pageLog, StateExtracting)
		s.status("Extracting profile IDs...")
		cands, err := s.page.ProfileCandidates(ctx)
		if err != nil {
			return fmt.Errorf("failed to read profiles on page %d: %w", s.run.PageCount, err)
		}
		fresh := ExtractNew(cands, s.run.Found, pageLog)
		logger.LogPageScan(pageLog, s.run.PageCount, len(cands), len(fresh), s.run.Found.Len())
		s.status(fmt.Sprintf("Found %d new profile IDs (total: %d)", len(fresh), s.run.Found.Len()))
		s.counts()

		if len(fresh) > 0 {
			s.transition(pageLog, StateBatchSubmitting)
			if !s.submitAll(ctx, pageLog, fresh) {
				return nil
			}
		}

		s.transition(pageLog, StatePaginating)
		more, err := s.nextPage(ctx, pageLog)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// scrollToLoadAll scrolls to the bottom until the height stops changing for
// StableScrollChecks measurements or MaxScrollIterations is reached, then
// returns to the top. It reports how many iterations ran.
func (s *Scraper) scrollToLoadAll(ctx context.Context, log logger.Logger) int {
	s.status("Scrolling to load all profiles...")

	last, err := s.page.ScrollHeight(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to measure page height")
		return 0
	}

	iterations, unchanged := 0, 0
	for iterations < s.cfg.MaxScrollIterations && !s.stopped(ctx) {
		iterations++
		if err := s.page.ScrollTo(ctx, last); err != nil {
			log.WithError(err).Warn("Failed to scroll page")
			break
		}
		s.sleep(ctx, s.cfg.ScrollDelay)

		height, err := s.page.ScrollHeight(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to measure page height")
			break
		}
		if height == last {
			unchanged++
			if unchanged >= s.cfg.StableScrollChecks {
				break
			}
		} else {
			unchanged = 0
		}
		last = height
	}

	if err := s.page.ScrollTo(ctx, 0); err != nil {
		log.WithError(err).Warn("Failed to scroll back to top")
	}
	s.sleep(ctx, s.cfg.ScrollSettleDelay)

	log.DebugWithFields("Scroll complete", map[string]interface{}{
		"iterations": iterations,
		"height":     last,
	})
	s.status("Scroll complete, extracting profiles...")
	return iterations
}

// submitAll submits the URLs for ids in batches. It returns false when the
// run was cancelled part way.
func (s *Scraper) submitAll(ctx context.Context, log logger.Logger, ids []string) bool {
	var urls []string
	for _, id := range ids {
		url := ProfileURL(id)
		if s.run.Processed.Has(url) || slices.Contains(urls, url) {
			log.DebugWithFields("Skipping already submitted profile", map[string]interface{}{"profile_url": url})
			continue
		}
		urls = append(urls, url)
	}
	if len(urls) == 0 {
		return true
	}

	s.status(fmt.Sprintf("Processing %d profiles...", len(urls)))
	batches := Partition(urls, s.cfg.BatchSize)

	for i, batch := range batches {
		if s.stopped(ctx) {
			return false
		}
		s.status(fmt.Sprintf("Processing batch %d/%d (%d profiles)", i+1, len(batches), len(batch)))

		for j, url := range batch {
			if s.stopped(ctx) {
				return false
			}
			s.status(fmt.Sprintf("Processing profile %d/%d in batch %d/%d", j+1, len(batch), i+1, len(batches)))
			s.submitOne(ctx, log, url)
			s.sleep(ctx, s.cfg.ProfileDelay)
		}

		s.progress(float64(i+1) / float64(len(batches)) * 100)
		logger.LogProgress(log, i+1, len(batches), s.run.Processed.Len())
		s.sleep(ctx, s.cfg.BatchDelay)
	}
	return true
}

// submitOne never fails the run; errors become error records
func (s *Scraper) submitOne(ctx context.Context, log logger.Logger, url string) {
	var record models.Result
	res, err := s.client.Submit(ctx, url, s.run.ProjectID)
	switch {
	case err != nil:
		record = models.Result{URL: url, Status: models.StatusError, Message: err.Error()}
	case res == nil:
		record = models.Result{URL: url, Status: models.StatusError, Message: "empty response"}
	default:
		record = *res
		record.URL = url
	}
	logger.LogSubmission(log, url, string(record.Status), record.Message, err)

	s.run.Results = append(s.run.Results, record)
	s.run.Processed.Add(url)
	s.counts()
}

// nextPage clicks the next control. It returns false when there is no further
// page to scan.
func (s *Scraper) nextPage(ctx context.Context, log logger.Logger) (bool, error) {
	control, err := s.page.NextPageControl(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to look for next page: %w", err)
	}
	if control == nil {
		log.Info("No next page control, finishing")
		return false, nil
	}
	if err := control.Click(ctx); err != nil {
		log.WithError(err).Warn("Failed to open next page, finishing")
		return false, nil
	}

	s.run.PageCount++
	s.sleep(ctx, s.cfg.PageSettleDelay)
	if s.run.PageCount > s.cfg.MaxPages {
		log.InfoWithFields("Page limit reached", map[string]interface{}{"max_pages": s.cfg.MaxPages})
		s.run.PageCount = s.cfg.MaxPages
		return false, nil
	}
	return true, nil
}

func (s *Scraper) stopped(ctx context.Context) bool {
	return s.cancel.Cancelled() || ctx.Err() != nil
}

// sleep waits d unless the run is cancelled first
func (s *Scraper) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.cancelContext(), cancel)
	defer stop()
	_ = s.sleeper.Sleep(waitCtx, d)
}

func (s *Scraper) cancelContext() context.Context {
	return s.cancel.ctx
}

func (s *Scraper) transition(log logger.Logger, next State) {
	log.DebugWithFields("State transition", map[string]interface{}{
		"from": s.run.State.String(),
		"to":   next.String(),
	})
	s.run.State = next
	s.reporter.SetState(next)
}

func (s *Scraper) fail(log logger.Logger, message string) {
	s.transition(log, StateFailed)
	log.Error(message)
	s.status(message)
}

func (s *Scraper) status(message string) {
	s.reporter.SetStatus(message)
}

func (s *Scraper) counts() {
	s.reporter.SetCounts(s.run.Found.Len(), s.run.Processed.Len())
}

func (s *Scraper) progress(percent float64) {
	s.run.Progress = percent
	s.reporter.SetProgress(percent)
}
