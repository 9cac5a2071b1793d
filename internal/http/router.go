package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/haulage/internal/http/imports"
	"github.com/MrJamesThe3rd/haulage/internal/http/record"
	"github.com/MrJamesThe3rd/haulage/internal/http/report"
)

func New(
	allowedOrigins []string,
	importsV1 *imports.Handler,
	recordsV1 *record.Handler,
	reportsV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/imports", importsV1.Routes)

		r.Route("/trucks", func(r chi.Router) {
			r.Post("/import", importsV1.ImportTrucks)
		})

		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			recordsV1.Routes(r)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			recordsV1.TripRoutes(r)
		})

		r.Route("/reports", reportsV1.Routes)
	})

	return router
}
