package report_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	httpreport "github.com/MrJamesThe3rd/haulage/internal/http/report"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

func TestHandler(t *testing.T) {
	march1 := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	march31 := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	march := report.Range{Start: &march1, End: &march31}

	tests := []struct {
		name       string
		target     string
		setupMock  func(m *httpreport.MockReports)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "drivers with iso range",
			target: "/reports/drivers?start_date=2024-03-01&end_date=2024-03-31",
			setupMock: func(m *httpreport.MockReports) {
				m.EXPECT().Drivers(gomock.Any(), march).Return(&report.DriversReport{Drivers: []report.DriverSummary{}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "routes with us range",
			target: "/reports/routes?start_date=03/01/2024&end_date=03/31/2024",
			setupMock: func(m *httpreport.MockReports) {
				m.EXPECT().Routes(gomock.Any(), march).Return(&report.RoutesReport{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "accounts unbounded",
			target: "/reports/accounts",
			setupMock: func(m *httpreport.MockReports) {
				m.EXPECT().Accounts(gomock.Any(), report.Range{}).Return([]report.AccountSummary{}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name:   "trips by plate",
			target: "/reports/trips?plate=NGS-4359",
			setupMock: func(m *httpreport.MockReports) {
				m.EXPECT().Trips(gomock.Any(), report.Range{}, "NGS-4359").Return([]report.TripSummary{
					{Date: "2024-03-04", PlateNumber: "NGS-4359", TotalAmount: decimal.NewFromInt(1600), TripCount: 2},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "revenue streams failure",
			target: "/reports/revenue-streams",
			setupMock: func(m *httpreport.MockReports) {
				m.EXPECT().RevenueStreams(gomock.Any(), report.Range{}).Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "day-first date",
			target:     "/reports/drivers?start_date=31/03/2024",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := httpreport.NewMockReports(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			r := chi.NewRouter()
			r.Route("/reports", httpreport.NewHandler(m).Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
