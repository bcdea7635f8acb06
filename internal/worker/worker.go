// Package worker runs the fetch -> transcode -> finalize pipeline for a
// single job in the background. A worker owns exactly one job id for its
// whole lifetime and routes every mutation through the store; workers share
// no state with each other.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ytget/yt-fetchd/internal/fetch"
	"github.com/ytget/yt-fetchd/internal/media"
	"github.com/ytget/yt-fetchd/internal/progress"
	"github.com/ytget/yt-fetchd/internal/store"
	"github.com/ytget/yt-fetchd/internal/transcode"
)

// Worker executes download jobs
type Worker struct {
	store      *store.Store
	fetcher    fetch.Fetcher
	transcoder transcode.Transcoder
	media      *media.Dir

	fetchTimeout     time.Duration
	transcodeTimeout time.Duration
	flushInterval    time.Duration
}

// New creates a worker. Timeouts of zero disable the per-phase bound.
func New(s *store.Store, f fetch.Fetcher, t transcode.Transcoder, m *media.Dir, fetchTimeout, transcodeTimeout time.Duration) *Worker {
	return &Worker{
		store:            s,
		fetcher:          f,
		transcoder:       t,
		media:            m,
		fetchTimeout:     fetchTimeout,
		transcodeTimeout: transcodeTimeout,
		flushInterval:    progress.DefaultFlushInterval,
	}
}

// SetProgressFlushInterval overrides how often progress reaches the store
func (w *Worker) SetProgressFlushInterval(d time.Duration) {
	w.flushInterval = d
}

// Run drives one job to a terminal state. It blocks until the job is done and
// is meant to be called in its own goroutine. Whatever happens inside the
// collaborators, the job ends terminal and no staging artifact survives.
func (w *Worker) Run(ctx context.Context, jobID string) {
	start := time.Now()

	// Claim: queued -> downloading. Losing the claim (deleted job, duplicate
	// dispatch) aborts silently.
	job, err := w.store.Update(jobID, store.MarkDownloading())
	if err != nil {
		log.Printf("[worker] job_id=%s claim failed: %v", jobID, err)
		return
	}

	defer w.media.RemoveStaged(jobID)

	// A panicking collaborator must not leave the job observably stuck in
	// downloading forever.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[worker] job_id=%s panic: %v", jobID, r)
			w.fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	reporter := progress.NewReporter(w.store, jobID)
	reporter.SetFlushInterval(w.flushInterval)

	fetchCtx, cancel := w.boundedContext(ctx, w.fetchTimeout)
	rawPath, err := w.fetcher.Fetch(fetchCtx, job.SourceURL, w.media.StagingDir(), jobID, reporter.Report)
	cancel()
	if err != nil {
		log.Printf("[worker] job_id=%s fetch error=%v duration_ms=%d", jobID, err, time.Since(start).Milliseconds())
		w.fail(jobID, "download failed: "+err.Error())
		return
	}

	outputFilename := w.media.OutputFilename(jobID)
	outputPath, err := w.media.OutputPath(outputFilename)
	if err != nil {
		w.fail(jobID, "internal error: "+err.Error())
		return
	}

	transcodeCtx, cancel := w.boundedContext(ctx, w.transcodeTimeout)
	err = w.transcoder.Transcode(transcodeCtx, rawPath, outputPath)
	cancel()
	if err != nil {
		log.Printf("[worker] job_id=%s transcode error=%v duration_ms=%d", jobID, err, time.Since(start).Milliseconds())
		w.fail(jobID, "conversion failed: "+err.Error())
		return
	}

	if _, err := w.store.Update(jobID, store.Complete(outputFilename)); err != nil {
		// The store refused a downloading -> completed step: coordination bug
		log.Printf("[worker] job_id=%s BUG: completion rejected: %v", jobID, err)
		return
	}

	log.Printf("[worker] job_id=%s status=completed file=%s duration_ms=%d", jobID, outputFilename, time.Since(start).Milliseconds())
}

// fail records a terminal failure. A rejected transition here means the job
// already reached a terminal state some other way; that is logged, not applied.
func (w *Worker) fail(jobID, message string) {
	if _, err := w.store.Update(jobID, store.Fail(message)); err != nil {
		log.Printf("[worker] job_id=%s could not record failure %q: %v", jobID, message, err)
	}
}

func (w *Worker) boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
