package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/http/response"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

//go:generate mockgen -source=handler.go -destination=handler_mock.go -package=record

type Records interface {
	Create(ctx context.Context, r *ledger.Record) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Record, error)
	List(ctx context.Context, filter ledger.Filter) ([]*ledger.Record, error)
	Update(ctx context.Context, r *ledger.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	Lock(ctx context.Context, ids []uuid.UUID) (*ledger.LockResult, error)
	Clear(ctx context.Context) (int, error)
	UpdateTripField(ctx context.Context, plate string, date time.Time, field ledger.TripField, value string) (int, error)
}

type Handler struct {
	svc      Records
	validate *validator.Validate
}

func NewHandler(svc Records) *Handler {
	return &Handler{svc: svc, validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.clear)
	r.Post("/lock", h.lock)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// TripRoutes mounts the trip-wide corrections.
func (h *Handler) TripRoutes(r chi.Router) {
	r.Put("/field", h.updateTripField)
}

// decode reads a JSON body into v and validates it.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid request: %w", verrs)
		}

		return err
	}

	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := &ledger.Record{}
	if err := req.apply(rec, true); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Create(r.Context(), rec); err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rng, err := report.ParseRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter := ledger.Filter{StartDate: rng.Start, EndDate: rng.End, Plate: q.Get("plate")}

	if s := q.Get("locked"); s != "" {
		locked, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "invalid locked flag", http.StatusBadRequest)
			return
		}

		filter.Locked = new(locked)
	}

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}

	if records == nil {
		records = []*ledger.Record{}
	}

	response.JSON(w, http.StatusOK, records)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req recordRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	if rec.Locked {
		response.Error(w, &ledger.LockedError{IDs: []uuid.UUID{rec.ID}})
		return
	}

	if err := req.apply(rec, false); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Update(r.Context(), rec); err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type lockRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) lock(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	res, err := h.svc.Lock(r.Context(), req.IDs)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}

type clearResponse struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message"`
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Clear(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, clearResponse{
		DeletedCount: n,
		Message:      fmt.Sprintf("Deleted %d record(s).", n),
	})
}

type tripFieldRequest struct {
	PlateNumber string           `json:"plate_number" validate:"required"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Field       ledger.TripField `json:"field" validate:"required,oneof=route driver front_load back_load"`
	Value       string           `json:"value" validate:"required"`
}

type tripFieldResponse struct {
	UpdatedCount int    `json:"updated_count"`
	Message      string `json:"message"`
}

func (h *Handler) updateTripField(w http.ResponseWriter, r *http.Request) {
	var req tripFieldRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	n, err := h.svc.UpdateTripField(r.Context(), req.PlateNumber, date, req.Field, req.Value)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, tripFieldResponse{
		UpdatedCount: n,
		Message:      fmt.Sprintf("Updated %s on %d record(s).", req.Field, n),
	})
}
