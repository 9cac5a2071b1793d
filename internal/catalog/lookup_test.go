package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

func testSnapshot() catalog.Snapshot {
	trailer := catalog.TruckType{ID: 1, Name: "Trailer"}

	return catalog.Snapshot{
		Drivers:      []catalog.Driver{{ID: 1, Name: "Roger"}, {ID: 2, Name: "Roger Santos"}, {ID: 3, Name: "Francis Ariglado"}},
		Routes:       []catalog.Route{{ID: 1, Name: "PAG-ILIGAN"}, {ID: 2, Name: "CDO"}},
		LoadTypes:    []catalog.LoadType{{ID: 1, Name: "Strike"}, {ID: 2, Name: "Cement"}, {ID: 3, Name: "Backload CDO"}},
		TruckTypes:   []catalog.TruckType{trailer},
		AccountTypes: []catalog.AccountType{{ID: 7, Name: "Fuel and Oil"}},
		Trucks:       []catalog.Truck{{ID: 9, PlateNumber: "NGS-4359", TruckTypeID: &trailer.ID, TruckType: &trailer}},
	}
}

func TestLookup_Matching(t *testing.T) {
	lk := catalog.NewLookup(testSnapshot(), nil)

	d, ok := lk.Driver("  francis ARIGLADO ")
	require.True(t, ok)
	assert.Equal(t, "Francis Ariglado", d.Name)

	assert.Equal(t, []string{"Francis Ariglado", "Roger Santos", "Roger"}, lk.DriverNames())

	r, ok := lk.Route("pag-iligan")
	require.True(t, ok)
	assert.Equal(t, int64(1), r.ID)

	truck, ok := lk.Truck("ngs 4359")
	require.True(t, ok)
	assert.Equal(t, "Trailer", truck.TypeName())

	_, ok = lk.AccountType("fuel AND oil")
	assert.True(t, ok)

	_, ok = lk.AccountType("Fuel")
	assert.False(t, ok)
}

func TestLookup_LoadType(t *testing.T) {
	lk := catalog.NewLookup(testSnapshot(), nil)

	type testCase struct {
		name   string
		value  string
		want   string
		wantOK bool
	}

	tests := []testCase{
		{name: "exact", value: "cement", want: "Cement", wantOK: true},
		{name: "value contains catalog name", value: "Cement bags", want: "Cement", wantOK: true},
		{name: "catalog name contains value", value: "backload", want: "Backload CDO", wantOK: true},
		{name: "too short", value: "c", wantOK: false},
		{name: "digits only", value: "120", wantOK: false},
		{name: "unknown", value: "Humay", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lk.LoadType(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestLookup_Strike(t *testing.T) {
	t.Run("catalog entry", func(t *testing.T) {
		lk := catalog.NewLookup(testSnapshot(), nil)
		assert.Equal(t, catalog.LoadType{ID: 1, Name: "Strike"}, lk.Strike())
	})

	t.Run("placeholder when missing", func(t *testing.T) {
		lk := catalog.NewLookup(catalog.Snapshot{}, nil)
		assert.Equal(t, catalog.LoadType{Name: catalog.StrikeName}, lk.Strike())
	})
}

func TestLookup_EnsureRoute(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name      string
		route     string
		setupMock func(m *catalog.MockRepository)
		wantID    int64
		wantErr   bool
	}

	tests := []testCase{
		{
			name:      "known route needs no repository call",
			route:     "cdo",
			setupMock: func(m *catalog.MockRepository) {},
			wantID:    2,
		},
		{
			name:  "found in repository after snapshot",
			route: "CDO-LNO",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().FindRouteByName(gomock.Any(), "CDO-LNO").Return(&catalog.Route{ID: 5, Name: "CDO-LNO"}, nil)
			},
			wantID: 5,
		},
		{
			name:  "created when absent",
			route: " OZAMIZ ",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().FindRouteByName(gomock.Any(), " OZAMIZ ").Return(nil, catalog.ErrNotFound)
				m.EXPECT().CreateRoute(gomock.Any(), "OZAMIZ").Return(&catalog.Route{ID: 6, Name: "OZAMIZ"}, nil)
			},
			wantID: 6,
		},
		{
			name:  "lookup failure is not treated as absence",
			route: "X",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().FindRouteByName(gomock.Any(), "X").Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			tt.setupMock(repo)

			lk := catalog.NewLookup(testSnapshot(), repo)

			got, err := lk.EnsureRoute(ctx, tt.route)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)

			again, err := lk.EnsureRoute(ctx, tt.route)
			require.NoError(t, err)
			assert.Equal(t, got, again, "second resolution is served from the cache")
		})
	}
}

func TestLookup_EnsureAccountType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		FindOrCreateAccountType(gomock.Any(), "Hauling Income").
		Return(&catalog.AccountType{ID: 11, Name: "Hauling Income"}, nil).
		Times(1)

	lk := catalog.NewLookup(testSnapshot(), repo)

	at, err := lk.EnsureAccountType(context.Background(), "Hauling Income")
	require.NoError(t, err)
	assert.Equal(t, int64(11), at.ID)

	at, err = lk.EnsureAccountType(context.Background(), "hauling income")
	require.NoError(t, err)
	assert.Equal(t, int64(11), at.ID)

	known, err := lk.EnsureAccountType(context.Background(), "FUEL AND OIL")
	require.NoError(t, err)
	assert.Equal(t, int64(7), known.ID)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "NGS4359", catalog.NormalizePlate(" ngs-43_59 "))
	assert.Equal(t, "", catalog.NormalizePlate("  "))
}
