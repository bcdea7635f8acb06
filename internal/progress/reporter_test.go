package progress

import (
	"testing"

	"github.com/ytget/yt-fetchd/internal/model"
	"github.com/ytget/yt-fetchd/internal/store"
)

func newDownloadingJob(t *testing.T, s *store.Store) string {
	t.Helper()
	job := s.Create("https://youtu.be/test")
	if _, err := s.Update(job.ID, store.MarkDownloading()); err != nil {
		t.Fatalf("MarkDownloading failed: %v", err)
	}
	return job.ID
}

func TestReport_ForwardsPercent(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)

	r := NewReporter(s, id)
	r.SetFlushInterval(0)

	r.Report(250, 1000)

	job, _ := s.Get(id)
	if job.Progress != 25 {
		t.Errorf("Expected progress 25, got %f", job.Progress)
	}
}

func TestReport_IgnoresUnknownTotal(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)

	r := NewReporter(s, id)
	r.SetFlushInterval(0)

	r.Report(500, 0)
	r.Report(500, -1)

	job, _ := s.Get(id)
	if job.Progress != 0 {
		t.Errorf("Expected progress 0 for unknown totals, got %f", job.Progress)
	}
}

func TestReport_DropsRegressions(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)

	r := NewReporter(s, id)
	r.SetFlushInterval(0)

	r.Report(800, 1000)
	r.Report(300, 1000) // out-of-order delivery

	job, _ := s.Get(id)
	if job.Progress != 80 {
		t.Errorf("Expected progress 80 after regression, got %f", job.Progress)
	}
}

func TestReport_CapsBelowHundred(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)

	r := NewReporter(s, id)
	r.SetFlushInterval(0)

	r.Report(1000, 1000)
	r.Report(2000, 1000) // over-reported bytes

	job, _ := s.Get(id)
	if job.Progress != model.MaxDownloadingProgress {
		t.Errorf("Expected progress capped at %f, got %f", model.MaxDownloadingProgress, job.Progress)
	}
}

func TestReport_CoalescesBursts(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)

	// A large interval means only the first sample of the burst flushes
	r := NewReporter(s, id)

	r.Report(100, 1000)
	r.Report(200, 1000)
	r.Report(300, 1000)

	job, _ := s.Get(id)
	if job.Progress != 10 {
		t.Errorf("Expected coalesced progress 10, got %f", job.Progress)
	}

	// The final sample bypasses coalescing so a finished download is visible
	r.Report(1000, 1000)
	job, _ = s.Get(id)
	if job.Progress != model.MaxDownloadingProgress {
		t.Errorf("Expected final progress %f, got %f", model.MaxDownloadingProgress, job.Progress)
	}
}

func TestReport_ToleratesTerminalJob(t *testing.T) {
	s := store.New()
	id := newDownloadingJob(t, s)
	if _, err := s.Update(id, store.Complete(id+".mp4")); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	r := NewReporter(s, id)
	r.SetFlushInterval(0)

	// Late callback after the worker finished: must not panic or corrupt state
	r.Report(999, 1000)

	job, _ := s.Get(id)
	if job.State != model.StateCompleted {
		t.Errorf("Expected state completed, got %s", job.State)
	}
	if job.Progress != 100 {
		t.Errorf("Expected progress 100, got %f", job.Progress)
	}
}
