package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the service router
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/download", h.StartDownload)
		r.Get("/status/{id}", h.GetStatus)
		r.Get("/jobs", h.ListJobs)
		r.Delete("/jobs/{id}", h.DeleteJob)
	})

	r.Get("/files/{filename}", h.ServeFile)
	r.Get("/health", h.Health)

	return r
}
