package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"talentpipe/pkg/logger"
	"talentpipe/pkg/models"
	"talentpipe/pkg/retry"
)

// Job is one chunk of profile URLs sent in a single batch request
type Job struct {
	Index     int
	URLs      []string
	ProjectID string
	// Last skips the pause that normally follows a job
	Last bool
}

// Result is the outcome of one Job
type Result struct {
	Job      Job
	Profiles []models.Result
	Error    error
	Duration time.Duration
}

// Submitter sends a chunk of profile URLs to the processing API
type Submitter interface {
	SubmitBatch(ctx context.Context, profileURLs []string, projectID string) ([]models.Result, error)
}

// WorkerPool submits batch jobs with a fixed pause after each one. With a
// single worker, jobs go out in order.
type WorkerPool struct {
	numWorkers  int
	delay       time.Duration
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      Submitter
	wait        func(context.Context, time.Duration) error
	logger      logger.Logger
}

// NewWorkerPool creates a pool bound to parent. delay is the pause a
// worker takes after each job that is not marked Last.
func NewWorkerPool(
	parent context.Context,
	numWorkers int,
	delay time.Duration,
	client Submitter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(parent)

	return &WorkerPool{
		numWorkers:  numWorkers,
		delay:       delay,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		wait:        retry.Wait,
		logger:      log.WithField("component", "batch_pool"),
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting batch pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"delay":       wp.delay,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Close signals that no more jobs will be submitted. Results is closed
// once every queued job has been handled.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
		wp.logger.Debug("Batch pool stopped")
	}()
}

// Submit adds a job to the queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Batch queued", map[string]interface{}{
			"batch":    job.Index + 1,
			"profiles": len(job.URLs),
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("batch pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel results are delivered on. Every job accepted
// by Submit yields exactly one Result, cancelled or not, so callers must
// drain it until it is closed.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		// Results is drained until closed, so every job reports back.
		wp.resultQueue <- wp.processJob(job, id)

		if !job.Last && wp.delay > 0 && wp.ctx.Err() == nil {
			_ = wp.wait(wp.ctx, wp.delay)
		}
	}
}

// processJob sends one batch. A cancelled pool fails remaining jobs
// without a request.
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	profiles, err := wp.client.SubmitBatch(wp.ctx, job.URLs, job.ProjectID)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		wp.logger.WithError(err).WarnWithFields("Batch submission failed", map[string]interface{}{
			"worker_id": workerID,
			"batch":     job.Index + 1,
			"duration":  result.Duration,
		})
		return result
	}

	result.Profiles = profiles
	wp.logger.DebugWithFields("Batch submitted", map[string]interface{}{
		"worker_id": workerID,
		"batch":     job.Index + 1,
		"profiles":  len(profiles),
		"duration":  result.Duration,
	})
	return result
}

// NumWorkers returns the number of workers
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}
