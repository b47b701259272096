// Package httpapi exposes the analytics service over JSON/HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/service"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewRouter returns a chi router with the default middleware, a health
// endpoint and the /v1 routes. Requests without an X-User-ID header act as
// defaultUserID; pass 0 to require the header.
func NewRouter(svc *service.Service, defaultUserID int64) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.StandardLog(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(constants.HTTPRequestLimit))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Service: constants.HTTPServiceName,
			Version: constants.Version,
		})
	})

	RegisterRoutes(r, svc, defaultUserID)
	return r
}

func RegisterRoutes(r chi.Router, svc *service.Service, defaultUserID int64) {
	h := &handler{service: svc, defaultUserID: defaultUserID}
	r.Route("/v1", func(r chi.Router) {
		r.Use(h.requireUser)
		r.Get("/today", h.today)
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", h.listHabits)
			r.Post("/", h.createHabit)
			r.Get("/{id}/stats", h.habitStats)
			r.Post("/{id}/toggle", h.toggleCompletion)
		})
		r.Get("/history", h.history)
		r.Get("/badges", h.listBadges)
		r.Post("/badges/check", h.checkBadges)
	})
}
