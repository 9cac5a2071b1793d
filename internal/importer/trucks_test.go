package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

const fleetCSV = `Plate,Truck Type,Company
ngs-4359,Trailer,Northline
,Forward,Acme
KGJ 765,,Acme
,,
LAA 1234,Dump,Acme
`

func TestService_ImportTrucks(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().FindOrCreateTruckType(gomock.Any(), "Trailer").Return(&catalog.TruckType{ID: 7, Name: "Trailer"}, nil)
	f.catalog.EXPECT().FindOrCreateTruckType(gomock.Any(), "Dump").Return(nil, errors.New("connection reset"))

	f.catalog.EXPECT().SaveTruck(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, truck *catalog.Truck) (bool, error) {
			switch truck.PlateNumber {
			case "NGS4359":
				require.NotNil(t, truck.TruckTypeID)
				assert.Equal(t, int64(7), *truck.TruckTypeID)
				assert.Equal(t, "Northline", truck.Company)

				return false, nil
			case "KGJ765":
				assert.Nil(t, truck.TruckTypeID)
				return true, nil
			}

			t.Errorf("unexpected truck %q", truck.PlateNumber)

			return false, nil
		}).Times(2)

	res, err := f.svc.ImportTrucks(context.Background(), "fleet.csv", strings.NewReader(fleetCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, 1, res.UpdatedCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Equal(t, []string{"Row 2: Plate number is required", "Row 5: connection reset"}, res.Errors)
	assert.Equal(t, "Successfully processed 2 trucks", res.Message)
}
