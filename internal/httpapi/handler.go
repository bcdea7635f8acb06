// Package httpapi exposes the coordinator over HTTP: job submission, status
// polling, listing, deletion, file serving, and a health probe.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ytget/yt-fetchd/internal/coordinator"
	"github.com/ytget/yt-fetchd/internal/media"
	"github.com/ytget/yt-fetchd/internal/model"
	"github.com/ytget/yt-fetchd/internal/store"
)

// Handler carries the dependencies of the HTTP endpoints
type Handler struct {
	coord *coordinator.Coordinator
	media *media.Dir
}

// NewHandler creates a handler
func NewHandler(coord *coordinator.Coordinator, m *media.Dir) *Handler {
	return &Handler{coord: coord, media: m}
}

type downloadDTO struct {
	URL string `json:"url"`
}

type downloadResp struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type jobView struct {
	JobID     string  `json:"job_id"`
	URL       string  `json:"url"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Filename  string  `json:"filename,omitempty"`
	Error     string  `json:"error,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type jobListResp struct {
	Jobs  []jobView `json:"jobs"`
	Total int       `json:"total"`
}

func viewOf(job model.Job) jobView {
	return jobView{
		JobID:     job.ID,
		URL:       job.SourceURL,
		Status:    job.State.String(),
		Progress:  job.Progress,
		Filename:  job.OutputFilename,
		Error:     job.ErrorMessage,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}
}

// StartDownload handles POST /api/download
func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	var dto downloadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.coord.Submit(dto.URL)
	if err != nil {
		if errors.Is(err, coordinator.ErrInvalidURL) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeErr(w, http.StatusInternalServerError, "failed to create download job")
		return
	}

	writeJSON(w, http.StatusAccepted, downloadResp{
		JobID:   job.ID,
		Status:  job.State.String(),
		Message: "download job created and started",
	})
}

// GetStatus handles GET /api/status/{id}
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.coord.Status(id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, viewOf(job))
}

// ListJobs handles GET /api/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.coord.List()

	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, viewOf(job))
	}

	writeJSON(w, http.StatusOK, jobListResp{Jobs: views, Total: len(views)})
}

// DeleteJob handles DELETE /api/jobs/{id}
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.coord.Remove(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "job " + id + " deleted"})
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "job not found")
	case errors.Is(err, coordinator.ErrConflict):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "failed to delete job")
	}
}

// ServeFile handles GET /files/{filename}
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.media.OutputPath(filename)
	if err != nil {
		writeErr(w, http.StatusNotFound, "file not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeErr(w, http.StatusNotFound, "file not found")
		return
	}

	http.ServeFile(w, r, path)
}

type healthResp struct {
	Status        string `json:"status"`
	DataDirectory string `json:"data_directory"`
	Writable      bool   `json:"data_directory_writable"`
	ActiveJobs    int    `json:"active_jobs"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writable := h.media.Writable()
	resp := healthResp{
		Status:        "healthy",
		DataDirectory: h.media.Root(),
		Writable:      writable,
		ActiveJobs:    h.coord.ActiveJobs(),
	}

	if !writable {
		resp.Status = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
