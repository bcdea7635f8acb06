package transcode

import "context"

// Transcoder defines the interface for the media conversion collaborator.
type Transcoder interface {
	// Transcode normalizes the raw media at inputPath into an MP4 at
	// outputPath. On failure no partial output is left behind.
	Transcode(ctx context.Context, inputPath, outputPath string) error
}
