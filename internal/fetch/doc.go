// Package fetch implements the video retrieval collaborator on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). The orchestration core only sees the
// Fetcher interface; tests substitute fakes.
package fetch
