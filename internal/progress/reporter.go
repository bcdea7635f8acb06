// Package progress adapts raw byte-count callbacks from the fetch collaborator
// into job store progress updates. Reporters clamp and coalesce; they never
// touch job state.
package progress

import (
	"sync"
	"time"

	"github.com/ytget/yt-fetchd/internal/model"
	"github.com/ytget/yt-fetchd/internal/store"
)

// DefaultFlushInterval bounds how often a reporter writes to the store.
// Progress is a best-effort gauge, not an exact log.
const DefaultFlushInterval = 500 * time.Millisecond

// Reporter forwards progress for a single job to the store
type Reporter struct {
	store    *store.Store
	jobID    string
	interval time.Duration

	mu        sync.Mutex
	lastSent  float64
	lastFlush time.Time
}

// NewReporter creates a reporter bound to one job
func NewReporter(s *store.Store, jobID string) *Reporter {
	return &Reporter{
		store:    s,
		jobID:    jobID,
		interval: DefaultFlushInterval,
	}
}

// SetFlushInterval overrides the coalescing interval; values <= 0 disable
// coalescing so every increasing sample is forwarded
func (r *Reporter) SetFlushInterval(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = d
}

// Report converts a bytes-transferred sample into a store update. Samples
// with an unknown total are ignored. Out-of-order or too-frequent samples are
// dropped so the observed progress is non-decreasing and the store is not
// flooded by bursty callbacks.
func (r *Reporter) Report(downloaded, total int64) {
	if total <= 0 {
		return
	}

	percent := float64(downloaded) / float64(total) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > model.MaxDownloadingProgress {
		percent = model.MaxDownloadingProgress
	}

	r.mu.Lock()
	if percent <= r.lastSent {
		r.mu.Unlock()
		return
	}
	now := time.Now()
	if r.interval > 0 && now.Sub(r.lastFlush) < r.interval && percent < model.MaxDownloadingProgress {
		r.mu.Unlock()
		return
	}
	r.lastSent = percent
	r.lastFlush = now
	r.mu.Unlock()

	// Late callbacks can race with the worker's terminal transition; the
	// store rejects those and the sample is simply dropped.
	_, _ = r.store.Update(r.jobID, store.SetProgress(percent))
}
