package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/http/response"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

//go:generate mockgen -source=handler.go -destination=handler_mock.go -package=imports

type Importer interface {
	Preview(ctx context.Context, name string, r io.Reader, opts importer.Options) (*importer.PreviewResult, error)
	Submit(ctx context.Context, name string, data []byte, opts importer.Options) (uuid.UUID, error)
	Status(ctx context.Context, jobID uuid.UUID) (progress.Status, error)
	ImportTrucks(ctx context.Context, name string, r io.Reader) (*importer.TruckImportResult, error)
}

type Handler struct {
	svc       Importer
	maxUpload int64
}

func NewHandler(svc Importer, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
	r.Post("/preview", h.preview)
	r.Get("/{id}", h.status)
}

type submitResponse struct {
	JobID   uuid.UUID      `json:"job_id"`
	Status  progress.State `json:"status"`
	Message string         `json:"message"`
}

// upload is a parsed multipart request: the spreadsheet plus import options.
type upload struct {
	file multipart.File
	name string
	opts importer.Options
}

func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file field is required")
	}

	opts, err := parseOptions(r.FormValue("exclude_indices"))
	if err != nil {
		file.Close()
		return nil, err
	}

	return &upload{file: file, name: header.Filename, opts: opts}, nil
}

// parseOptions accepts exclusions either as a JSON array or a comma list.
func parseOptions(raw string) (importer.Options, error) {
	var opts importer.Options

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return opts, nil
	}

	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &opts.ExcludeIndices); err != nil {
			return opts, fmt.Errorf("invalid exclude_indices: %w", err)
		}

		return opts, nil
	}

	for part := range strings.SplitSeq(raw, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return opts, fmt.Errorf("invalid exclude_indices: %q is not a row index", part)
		}

		opts.ExcludeIndices = append(opts.ExcludeIndices, i)
	}

	return opts, nil
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer up.file.Close()

	res, err := h.svc.Preview(r.Context(), up.name, up.file, up.opts)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer up.file.Close()

	data, err := io.ReadAll(up.file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.svc.Submit(r.Context(), up.name, data, up.opts)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, submitResponse{
		JobID:   id,
		Status:  progress.StatePending,
		Message: "Upload queued for processing",
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	st, err := h.svc.Status(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, st)
}

// ImportTrucks handles a fleet spreadsheet upload.
func (h *Handler) ImportTrucks(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer up.file.Close()

	res, err := h.svc.ImportTrucks(r.Context(), up.name, up.file)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}
