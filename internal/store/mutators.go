package store

import (
	"fmt"
	"time"

	"github.com/ytget/yt-fetchd/internal/model"
)

// MarkDownloading transitions a queued job into the downloading state.
// This is the worker's claim: it fails for deleted or already-claimed jobs.
func MarkDownloading() Mutator {
	return func(j *model.Job) error {
		if !j.State.CanTransition(model.StateDownloading) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.State, model.StateDownloading)
		}
		j.State = model.StateDownloading
		j.Progress = 0
		return nil
	}
}

// SetProgress updates the progress gauge of a downloading job. Values are
// clamped to [0, MaxDownloadingProgress] and regressions are ignored, so the
// observed progress is non-decreasing regardless of callback ordering.
func SetProgress(percent float64) Mutator {
	return func(j *model.Job) error {
		if j.State != model.StateDownloading {
			return fmt.Errorf("%w: progress update in state %s", ErrInvalidTransition, j.State)
		}

		if percent < 0 {
			percent = 0
		}
		if percent > model.MaxDownloadingProgress {
			percent = model.MaxDownloadingProgress
		}
		if percent > j.Progress {
			j.Progress = percent
		}
		return nil
	}
}

// Complete transitions a downloading job into the completed terminal state
// and records the output filename. Progress is pinned to 100.
func Complete(filename string) Mutator {
	return func(j *model.Job) error {
		if !j.State.CanTransition(model.StateCompleted) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.State, model.StateCompleted)
		}
		j.State = model.StateCompleted
		j.Progress = 100
		j.OutputFilename = filename
		j.FinishedAt = time.Now().UTC()
		return nil
	}
}

// Fail transitions a downloading job into the failed terminal state and
// records the error message. Progress is frozen at its last value.
func Fail(message string) Mutator {
	return func(j *model.Job) error {
		if !j.State.CanTransition(model.StateFailed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.State, model.StateFailed)
		}
		j.State = model.StateFailed
		j.ErrorMessage = message
		j.FinishedAt = time.Now().UTC()
		return nil
	}
}
