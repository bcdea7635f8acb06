package model

import "time"

// Maximum progress reported while a download is still running. The last sliver
// is reserved for the conversion step; Complete pins progress to 100.
const MaxDownloadingProgress = 99.9

// Job represents a single download job and its observable state. The HTTP
// layer projects it into wire shapes; nothing here is serialized directly.
type Job struct {
	ID             string
	SourceURL      string
	State          JobState
	Progress       float64 // 0 to 100
	OutputFilename string  // set iff State == StateCompleted
	ErrorMessage   string  // set iff State == StateFailed
	CreatedAt      time.Time
	FinishedAt     time.Time
}
