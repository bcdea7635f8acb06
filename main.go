package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-fetchd/internal/config"
	"github.com/ytget/yt-fetchd/internal/coordinator"
	"github.com/ytget/yt-fetchd/internal/fetch"
	"github.com/ytget/yt-fetchd/internal/httpapi"
	"github.com/ytget/yt-fetchd/internal/media"
	"github.com/ytget/yt-fetchd/internal/store"
	"github.com/ytget/yt-fetchd/internal/transcode"
	"github.com/ytget/yt-fetchd/internal/worker"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadDotEnv()
	cfg := config.Load()

	log.Printf("yt-fetchd v%s starting addr=%s data_dir=%s max_parallel=%d",
		version, cfg.Addr, cfg.DataDir, cfg.MaxParallel)

	// Downloads the yt-dlp binary on first run if it is not already present
	ytdlp.MustInstall(ctx, nil)

	mediaDir, err := media.NewDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}

	jobStore := store.New()
	fetcher := fetch.NewYTDLPFetcher()
	transcoder := transcode.NewFFmpegTranscoder()
	runner := worker.New(jobStore, fetcher, transcoder, mediaDir, cfg.FetchTimeout, cfg.TranscodeTimeout)
	coord := coordinator.New(ctx, jobStore, mediaDir, runner, cfg.MaxParallel)

	handler := httpapi.NewHandler(coord, mediaDir)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.Routes(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	// Workers inherit ctx through the coordinator; wait for the ones already
	// running to reach a terminal state before exiting
	coord.Wait()
	log.Println("yt-fetchd stopped")
}
