package coordinator

import (
	"context"
	"fmt"
	"strings"

	"talentpipe/internal/batch"
	"talentpipe/pkg/config"
	errs "talentpipe/pkg/errors"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/models"
	"talentpipe/pkg/pipeline"
)

// Client is the slice of the API client the coordinator drives
type Client interface {
	pipeline.Submitter
	batch.Submitter
	ResultsURL() string
}

// BatchSummary totals a multi-profile submission
type BatchSummary struct {
	Total      int
	Successful int
	Failed     int
	Profiles   []models.Result
}

// Coordinator ties the selected project, the stored token and the API
// client together for single-profile, multi-profile and pipeline runs.
type Coordinator struct {
	client   Client
	tokens   pipeline.TokenSource
	projects pipeline.ProjectSource
	cfg      config.PipelineConfig
	logger   logger.Logger
	sleeper  pipeline.Sleeper
	workers  int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithSleeper replaces the pipeline's sleeper
func WithSleeper(s pipeline.Sleeper) Option {
	return func(c *Coordinator) { c.sleeper = s }
}

// WithWorkers sets how many batch requests may be in flight at once
func WithWorkers(n int) Option {
	return func(c *Coordinator) { c.workers = n }
}

// New creates a Coordinator
func New(client Client, tokens pipeline.TokenSource, projects pipeline.ProjectSource, cfg config.PipelineConfig, log logger.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultConfig().Pipeline.BatchSize
	}
	c := &Coordinator{
		client:   client,
		tokens:   tokens,
		projects: projects,
		cfg:      cfg,
		logger:   log.WithField("component", "coordinator"),
		workers:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsProfilePage reports whether url points at a single candidate profile
func IsProfilePage(url string) bool {
	return strings.Contains(url, "linkedin.com/in/") ||
		strings.Contains(url, "/talent/profile/") ||
		strings.Contains(url, "/recruiter/profile/")
}

// IsSearchPage reports whether url is inside the recruiting interface,
// where the pipeline can run
func IsSearchPage(url string) bool {
	return strings.Contains(url, "linkedin.com/talent/") ||
		strings.Contains(url, "linkedin.com/recruiter/")
}

// ResultsURL is where processed profiles can be reviewed
func (c *Coordinator) ResultsURL() string {
	return c.client.ResultsURL()
}

// project returns the selected project or pipeline.ErrNoProject
func (c *Coordinator) project() (models.Project, error) {
	p, err := c.projects.SelectedProject()
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to read selected project: %w", err)
	}
	if p.IsZero() {
		return models.Project{}, pipeline.ErrNoProject
	}
	return p, nil
}

// ScrapeProfile submits a single profile page to the selected project
func (c *Coordinator) ScrapeProfile(ctx context.Context, profileURL string) (*models.Result, error) {
	if !IsProfilePage(profileURL) {
		return nil, errs.New(errs.ErrorTypeValidation, "Not a LinkedIn profile page")
	}
	project, err := c.project()
	if err != nil {
		return nil, err
	}

	log := c.logger.WithFields(map[string]interface{}{
		"profile_url": profileURL,
		"project_id":  project.ID.String(),
	})
	log.Info("Scraping profile")

	result, err := c.client.Submit(ctx, profileURL, project.ID.String())
	if err != nil {
		logger.LogSubmission(log, profileURL, string(models.StatusError), err.Error(), err)
		return nil, err
	}
	logger.LogSubmission(log, profileURL, string(result.Status), result.Message, nil)
	return result, nil
}

// ScrapeProfiles submits urls through the batch endpoint in chunks of the
// configured batch size, pausing between chunks. A failed chunk marks its
// profiles as failed and the remaining chunks still go out.
func (c *Coordinator) ScrapeProfiles(ctx context.Context, urls []string) (*BatchSummary, error) {
	urls = dedupe(urls)
	if len(urls) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, "LinkedIn URLs are required")
	}
	project, err := c.project()
	if err != nil {
		return nil, err
	}

	chunks := pipeline.Partition(urls, c.cfg.BatchSize)
	c.logger.InfoWithFields("Batch processing profiles", map[string]interface{}{
		"profiles":   len(urls),
		"batches":    len(chunks),
		"project_id": project.ID.String(),
	})

	pool := batch.NewWorkerPool(ctx, c.workers, c.cfg.BatchDelay, c.client, c.logger)
	pool.Start()
	go func() {
		defer pool.Close()
		for i, chunk := range chunks {
			job := batch.Job{Index: i, URLs: chunk, ProjectID: project.ID.String(), Last: i == len(chunks)-1}
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	byIndex := make([][]models.Result, len(chunks))
	done, processed := 0, 0
	for res := range pool.Results() {
		done++
		processed += len(res.Job.URLs)
		byIndex[res.Job.Index] = resultsFor(res)
		logger.LogProgress(c.logger, done, len(chunks), processed)
	}

	// Chunks never handed to the pool still get a record per profile.
	for i, profiles := range byIndex {
		if profiles == nil {
			byIndex[i] = resultsFor(batch.Result{
				Job:   batch.Job{Index: i, URLs: chunks[i]},
				Error: errs.Wrap(errs.ErrorTypeCancelled, "batch not submitted", context.Cause(ctx)),
			})
		}
	}

	summary := &BatchSummary{Total: len(urls)}
	for _, profiles := range byIndex {
		summary.Profiles = append(summary.Profiles, profiles...)
	}
	for _, r := range summary.Profiles {
		if r.OK() {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, errs.Wrap(errs.ErrorTypeCancelled, "batch submission stopped", err)
	}
	return summary, nil
}

// resultsFor turns a failed batch into one error record per profile
func resultsFor(res batch.Result) []models.Result {
	if res.Error == nil {
		return res.Profiles
	}
	out := make([]models.Result, len(res.Job.URLs))
	for i, u := range res.Job.URLs {
		out[i] = models.Result{URL: u, Status: models.StatusError, Message: res.Error.Error()}
	}
	return out
}

func dedupe(urls []string) []string {
	seen := pipeline.NewProfileSet()
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			seen.Add(u)
		}
	}
	return seen.Values()
}

// NewPipeline prepares a pipeline run over page. location is the page's
// current address; an empty location skips the page check.
func (c *Coordinator) NewPipeline(page pipeline.Page, location string) (*pipeline.Scraper, error) {
	if location != "" && !IsSearchPage(location) {
		return nil, errs.New(errs.ErrorTypeValidation, "Not a LinkedIn Recruiter page")
	}
	return pipeline.New(c.cfg, pipeline.Deps{
		Page:     page,
		Client:   c.client,
		Tokens:   c.tokens,
		Projects: c.projects,
		Logger:   c.logger,
		Sleeper:  c.sleeper,
	})
}

// StartPipeline runs a pipeline over page to completion, reporting to r
func (c *Coordinator) StartPipeline(ctx context.Context, page pipeline.Page, location string, r pipeline.Reporter) (pipeline.Summary, error) {
	scraper, err := c.NewPipeline(page, location)
	if err != nil {
		return pipeline.Summary{}, err
	}
	scraper.SetReporter(r)
	return scraper.Run(ctx)
}
