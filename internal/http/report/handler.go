package report

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/haulage/internal/http/response"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

//go:generate mockgen -source=handler.go -destination=handler_mock.go -package=report

type Reports interface {
	Drivers(ctx context.Context, r report.Range) (*report.DriversReport, error)
	Routes(ctx context.Context, r report.Range) (*report.RoutesReport, error)
	Accounts(ctx context.Context, r report.Range) ([]report.AccountSummary, error)
	Trips(ctx context.Context, r report.Range, plate string) ([]report.TripSummary, error)
	RevenueStreams(ctx context.Context, r report.Range) (*report.RevenueReport, error)
}

type Handler struct {
	svc Reports
}

func NewHandler(svc Reports) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/drivers", h.drivers)
	r.Get("/routes", h.routes)
	r.Get("/accounts", h.accounts)
	r.Get("/trips", h.trips)
	r.Get("/revenue-streams", h.revenueStreams)
}

// serve parses the date range and writes whatever build returns.
func serve[T any](w http.ResponseWriter, r *http.Request, build func(context.Context, report.Range) (T, error)) {
	q := r.URL.Query()

	rng, err := report.ParseRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := build(r.Context(), rng)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}

func (h *Handler) drivers(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.svc.Drivers)
}

func (h *Handler) routes(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.svc.Routes)
}

func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.svc.Accounts)
}

func (h *Handler) trips(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")

	serve(w, r, func(ctx context.Context, rng report.Range) ([]report.TripSummary, error) {
		return h.svc.Trips(ctx, rng, plate)
	})
}

func (h *Handler) revenueStreams(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.svc.RevenueStreams)
}
