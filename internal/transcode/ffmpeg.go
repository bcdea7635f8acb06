// Package transcode implements the MP4 normalization collaborator on top of
// ffmpeg invoked as an external process.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FFmpeg invocation settings
const (
	FFmpegCommand = "ffmpeg"

	// Streams are copied, not re-encoded: the extractor already delivers a
	// compatible codec and a remux keeps conversion fast
	VideoCodec = "copy"
	AudioCodec = "copy"

	// Tail of ffmpeg stderr kept for error messages
	maxErrorOutput = 512
)

// FFmpegTranscoder converts raw media files into MP4 containers
type FFmpegTranscoder struct{}

// NewFFmpegTranscoder creates a new transcoder
func NewFFmpegTranscoder() *FFmpegTranscoder {
	return &FFmpegTranscoder{}
}

// Transcode remuxes inputPath into an MP4 at outputPath
func (t *FFmpegTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	args := BuildFFmpegArgs(inputPath, outputPath)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Never leave a truncated MP4 where the file server could find it
		_ = os.Remove(outputPath)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String(), maxErrorOutput))
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(outputPath)
		return fmt.Errorf("ffmpeg produced no output for %s", inputPath)
	}

	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-c:v", VideoCodec, // Video codec
		"-c:a", AudioCodec, // Audio codec
		outputPath, // Output file
	}
}

// tail returns the last n bytes of s with surrounding whitespace stripped
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
