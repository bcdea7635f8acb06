// Package coordinator is the request-facing side of the service: it validates
// submitted URLs, creates job records, dispatches background workers through a
// parallelism gate, and answers status, listing, and deletion queries against
// the job store.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ytget/yt-fetchd/internal/media"
	"github.com/ytget/yt-fetchd/internal/model"
	"github.com/ytget/yt-fetchd/internal/store"
)

// ErrInvalidURL is returned by Submit for strings that are not a supported
// YouTube URL shape
var ErrInvalidURL = errors.New("invalid YouTube URL")

// ErrConflict is returned by Remove for jobs that have not reached a terminal
// state. Deletion policy is reject-until-terminal: background work is never
// cancelled out from under a running worker.
var ErrConflict = errors.New("job is still in progress")

// Parallelism bounds, matching the clamp applied to configuration
const (
	MinParallel = 1
	MaxParallel = 10
)

// Runner executes one job to its terminal state
type Runner interface {
	Run(ctx context.Context, jobID string)
}

// Coordinator validates requests and owns job dispatch
type Coordinator struct {
	store  *store.Store
	media  *media.Dir
	runner Runner

	baseCtx context.Context
	slots   chan struct{} // one token per concurrently running worker
	wg      sync.WaitGroup
}

// New creates a coordinator. Workers dispatched by Submit run under baseCtx;
// cancelling it stops new work from starting. maxParallel is clamped to
// [MinParallel, MaxParallel].
func New(baseCtx context.Context, s *store.Store, m *media.Dir, runner Runner, maxParallel int) *Coordinator {
	if maxParallel < MinParallel {
		maxParallel = MinParallel
	}
	if maxParallel > MaxParallel {
		maxParallel = MaxParallel
	}

	return &Coordinator{
		store:   s,
		media:   m,
		runner:  runner,
		baseCtx: baseCtx,
		slots:   make(chan struct{}, maxParallel),
	}
}

// Submit validates the URL, creates a queued job, and dispatches a worker.
// It returns as soon as the record exists; progress and outcome are
// discoverable only by polling Status.
func (c *Coordinator) Submit(url string) (model.Job, error) {
	if !IsValidYouTubeURL(url) {
		return model.Job{}, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}

	job := c.store.Create(url)
	log.Printf("[coordinator] job_id=%s created url=%s", job.ID, url)

	c.wg.Add(1)
	go c.dispatch(job.ID)

	return job, nil
}

// dispatch waits for a worker slot and runs the job. The job stays queued
// while waiting; during shutdown pending dispatches are dropped since job
// metadata does not survive the process anyway.
func (c *Coordinator) dispatch(jobID string) {
	defer c.wg.Done()

	select {
	case c.slots <- struct{}{}:
	case <-c.baseCtx.Done():
		return
	}
	defer func() { <-c.slots }()

	c.runner.Run(c.baseCtx, jobID)
}

// Status returns a snapshot of one job
func (c *Coordinator) Status(id string) (model.Job, error) {
	job, exists := c.store.Get(id)
	if !exists {
		return model.Job{}, store.ErrNotFound
	}
	return job, nil
}

// List returns snapshots of all jobs in submission order
func (c *Coordinator) List() []model.Job {
	return c.store.List()
}

// Remove deletes a terminal job and its output file. Non-terminal jobs are
// refused with ErrConflict; unknown ids with store.ErrNotFound.
func (c *Coordinator) Remove(id string) error {
	job, exists := c.store.Get(id)
	if !exists {
		return store.ErrNotFound
	}
	if !job.State.IsTerminal() {
		return fmt.Errorf("%w: state=%s", ErrConflict, job.State)
	}

	if job.OutputFilename != "" {
		if err := c.media.Remove(job.OutputFilename); err != nil {
			log.Printf("[coordinator] job_id=%s could not remove file %s: %v", id, job.OutputFilename, err)
		}
	}

	if !c.store.Delete(id) {
		return store.ErrNotFound
	}

	log.Printf("[coordinator] job_id=%s deleted", id)
	return nil
}

// ActiveJobs returns the number of jobs that are queued or downloading
func (c *Coordinator) ActiveJobs() int {
	return c.store.CountActive()
}

// Wait blocks until every dispatched worker has returned. Meant for shutdown
// after baseCtx is cancelled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
