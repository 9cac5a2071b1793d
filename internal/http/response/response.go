// Package response writes JSON bodies and maps domain errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type lockedResponse struct {
	Error     string      `json:"error"`
	LockedIDs []uuid.UUID `json:"locked_ids"`
}

// Error writes err with the status its kind calls for. Unexpected errors are
// logged and hidden behind a generic message.
func Error(w http.ResponseWriter, err error) {
	var locked *ledger.LockedError
	if errors.As(err, &locked) {
		JSON(w, http.StatusConflict, lockedResponse{Error: locked.Error(), LockedIDs: locked.IDs})
		return
	}

	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, progress.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrLocked), errors.Is(err, ledger.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ledger.ErrInvalid),
		errors.Is(err, importer.ErrUnreadable),
		errors.Is(err, report.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
