package fetch

import "context"

// ProgressFunc receives bytes-transferred samples while a fetch is running.
// total may be zero when the extractor does not know the final size.
type ProgressFunc func(downloaded, total int64)

// Fetcher defines the interface for the video retrieval collaborator.
type Fetcher interface {
	// Fetch downloads the media behind url into destDir, named baseName plus
	// whatever extension the extractor picks. Returns the path of the
	// downloaded file.
	Fetch(ctx context.Context, url, destDir, baseName string, progress ProgressFunc) (string, error)
}
