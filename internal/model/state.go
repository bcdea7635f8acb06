package model

// JobState represents the lifecycle state of a download job
type JobState string

const (
	// StateQueued means the job is created but no worker has claimed it yet
	StateQueued JobState = "queued"

	// StateDownloading means a worker is fetching or converting the video
	StateDownloading JobState = "downloading"

	// StateCompleted means the output file is ready to be served
	StateCompleted JobState = "completed"

	// StateFailed means the job ended with an error
	StateFailed JobState = "failed"
)

// String returns the string representation of JobState
func (s JobState) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s JobState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// IsActive returns true if the job still has a worker attached
func (s JobState) IsActive() bool {
	return s == StateQueued || s == StateDownloading
}

// CanTransition reports whether moving from s to next is a legal step of the
// job state machine. Transitions are one-directional: queued -> downloading ->
// completed or failed. Terminal states allow nothing.
func (s JobState) CanTransition(next JobState) bool {
	switch s {
	case StateQueued:
		return next == StateDownloading
	case StateDownloading:
		return next == StateCompleted || next == StateFailed
	default:
		return false
	}
}
