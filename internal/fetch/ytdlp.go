package fetch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

const (
	// ProgressFrequency is how often yt-dlp emits progress updates
	ProgressFrequency = 500 * time.Millisecond

	// FormatPreference asks the extractor for a container ffmpeg can remux
	// cheaply, falling back to whatever is available
	FormatPreference = "best[ext=mp4]/best[ext=webm]/best[ext=mkv]/best"

	maxRetries   = 1
	retryBackoff = 2 * time.Second
)

// Extensions yt-dlp leaves behind for unfinished downloads
var partialExtensions = []string{".part", ".ytdl"}

// YTDLPFetcher downloads videos using the yt-dlp binary
type YTDLPFetcher struct{}

// NewYTDLPFetcher creates a new fetcher
func NewYTDLPFetcher() *YTDLPFetcher {
	return &YTDLPFetcher{}
}

// Fetch downloads the media behind url into destDir
func (f *YTDLPFetcher) Fetch(ctx context.Context, url, destDir, baseName string, progress ProgressFunc) (string, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Format(FormatPreference).
		Output(filepath.Join(destDir, baseName+".%(ext)s"))

	if progress != nil {
		dl.ProgressFunc(ProgressFrequency, func(update ytdlp.ProgressUpdate) {
			progress(int64(update.DownloadedBytes), int64(update.TotalBytes))
		})
	}

	result, err := f.runWithRetry(ctx, dl, url)
	if err != nil {
		return "", err
	}

	return locateDownloaded(destDir, baseName, result)
}

// runWithRetry attempts the download with a single backoff retry
func (f *YTDLPFetcher) runWithRetry(ctx context.Context, dl *ytdlp.Command, url string) (*ytdlp.Result, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Printf("[fetch] retrying url=%s attempt=%d", url, attempt+1)
		}

		result, err := dl.Run(ctx, url)
		if err == nil {
			return result, nil
		}

		lastErr = err
		log.Printf("[fetch] attempt %d failed url=%s: %v", attempt+1, url, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// locateDownloaded resolves the path of the file yt-dlp produced. The
// extracted info names it directly when available; otherwise probe the
// destination directory for the base name, skipping partial artifacts.
func locateDownloaded(destDir, baseName string, result *ytdlp.Result) (string, error) {
	if result != nil {
		info, err := result.GetExtractedInfo()
		if err == nil && len(info) > 0 && info[0].Filename != nil {
			if path := *info[0].Filename; fileExists(path) {
				return path, nil
			}
		}
	}

	matches, err := filepath.Glob(filepath.Join(destDir, baseName+".*"))
	if err != nil {
		return "", err
	}
	for _, path := range matches {
		if isPartial(path) {
			continue
		}
		return path, nil
	}

	return "", fmt.Errorf("download finished but no media file found for %s", baseName)
}

func isPartial(path string) bool {
	for _, ext := range partialExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
