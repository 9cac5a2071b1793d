package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/http/response"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "record not found", err: fmt.Errorf("getting record: %w", ledger.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "job not found", err: progress.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bare locked", err: ledger.ErrLocked, wantStatus: http.StatusConflict},
		{name: "conflict", err: fmt.Errorf("%w: duplicate key", ledger.ErrConflict), wantStatus: http.StatusConflict},
		{name: "invalid", err: fmt.Errorf("%w: date is required", ledger.ErrInvalid), wantStatus: http.StatusBadRequest},
		{name: "unreadable", err: importer.ErrUnreadable, wantStatus: http.StatusBadRequest},
		{name: "bad date", err: report.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantBody: "internal error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.Error(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestError_LockedIDs(t *testing.T) {
	id := uuid.New()
	rec := httptest.NewRecorder()

	response.Error(rec, fmt.Errorf("deleting: %w", &ledger.LockedError{IDs: []uuid.UUID{id}}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error     string      `json:"error"`
		LockedIDs []uuid.UUID `json:"locked_ids"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, []uuid.UUID{id}, body.LockedIDs)
	assert.Contains(t, body.Error, id.String())
}
