package importer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

func TestService_Preview(t *testing.T) {
	tests := []struct {
		name        string
		opts        importer.Options
		wantIndices []int
		wantStats   progress.ParsingStats
		wantMessage string
	}{
		{
			name:        "all rows",
			wantIndices: []int{0, 1, 3, 4},
			wantStats:   progress.ParsingStats{DriversExtracted: 1, RoutesExtracted: 1, LoadsExtracted: 1},
			wantMessage: "Preview generated for 4 rows",
		},
		{
			name:        "excluded rows",
			opts:        importer.Options{ExcludeIndices: []int{0, 1}},
			wantIndices: []int{3, 4},
			wantMessage: "Preview generated for 2 rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)

			res, err := f.svc.Preview(context.Background(), "ledger.csv", csvReader(), tt.opts)
			require.NoError(t, err)

			indices := make([]int, len(res.Rows))
			for i, r := range res.Rows {
				indices[i] = r.Index
				assert.Equal(t, r.Index+1, r.RowNumber)
			}

			assert.Equal(t, tt.wantIndices, indices)
			assert.Equal(t, tt.wantStats, res.ParsingStats)
			assert.Equal(t, len(tt.wantIndices), res.TotalRows)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}

func TestService_Preview_Row(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)

	res, err := f.svc.Preview(context.Background(), "ledger.csv", csvReader(), importer.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)

	row := res.Rows[0]

	assert.Equal(t, "1234", row.AccountNumber)
	assert.Equal(t, "Hauling Income", row.AccountType)
	assert.Equal(t, "Trailer", row.TruckType)
	assert.Equal(t, "NGS-4359", row.PlateNumber)
	assert.Equal(t, "Hauling", row.Description)
	assert.Equal(t, "2024-03-05", row.Date)
	assert.Equal(t, "Francis Ariglado", row.Driver)
	assert.Equal(t, "PAG-ILIGAN", row.Route)
	assert.Equal(t, "Strike", row.FrontLoad)
	assert.Equal(t, "Cement", row.BackLoad)
	assert.Equal(t, "RR-1", row.ReferenceNumber)
	assert.True(t, decimal.NewFromInt(9000).Equal(row.FinalTotal))
}

func TestService_Preview_Unreadable(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Preview(context.Background(), "ledger.pdf", csvReader(), importer.Options{})
	assert.ErrorIs(t, err, importer.ErrUnreadable)
}
