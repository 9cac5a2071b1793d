package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

func TestExtractor_Extract(t *testing.T) {
	type want struct {
		driver, route, front, back string
		driverRule, loadRule       string
	}

	tests := []struct {
		name    string
		remarks string
		want    want
	}{
		{
			name:    "fuel slip with strike pair",
			remarks: "LRO: 140Liters Fuel and Oil Francis Ariglado:PAG-ILIGAN: Strike/Cement:",
			want: want{
				driver: "Francis Ariglado", route: "PAG-ILIGAN", front: "Strike", back: "Cement",
				driverRule: "known name", loadRule: "pair label",
			},
		},
		{
			name:    "one known side defaults the other to strike",
			remarks: "Romel Bantilan: CDO-LNO: Cement/Humay",
			want: want{
				driver: "Romel Bantilan", route: "CDO-LNO", front: "Cement", back: "Strike",
				driverRule: "known name", loadRule: "trailing pair",
			},
		},
		{
			name:    "delivery filler is stripped",
			remarks: "Romel Bantilan: PAG-ILIGAN: RH Holcim/Cement deliver to caluma",
			want: want{
				driver: "Romel Bantilan", route: "PAG-ILIGAN", front: "RH Holcim", back: "Cement",
				driverRule: "known name", loadRule: "trailing pair",
			},
		},
		{
			name:    "pair followed by fuel note",
			remarks: "Romel Bantilan: PAG-ILIGAN: Strike/Cement +120ltrs",
			want: want{
				driver: "Romel Bantilan", route: "PAG-ILIGAN", front: "Strike", back: "Cement",
				driverRule: "known name", loadRule: "pair before note",
			},
		},
		{
			name:    "no loads without a route",
			remarks: "Francis Ariglado: Fan Belt/Grease:",
			want:    want{driver: "Francis Ariglado", driverRule: "known name"},
		},
		{
			name:    "no loads without a driver",
			remarks: "Juan Dela Cruz: PAG-ILIGAN: Strike/Cement:",
			want:    want{route: "PAG-ILIGAN"},
		},
		{
			name:    "unknown cargo on both sides",
			remarks: "Francis Ariglado: PAG-ILIGAN: Bugas/Humay:",
			want:    want{driver: "Francis Ariglado", route: "PAG-ILIGAN", driverRule: "known name"},
		},
		{
			name:    "route matched case-insensitively",
			remarks: "Francis Ariglado: pag-iligan: strike/cement:",
			want: want{
				driver: "Francis Ariglado", route: "PAG-ILIGAN", front: "Strike", back: "Cement",
				driverRule: "known name", loadRule: "pair label",
			},
		},
		{
			name:    "blank",
			remarks: "   ",
		},
	}

	x := importer.NewExtractor(testLookup())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Extract(tt.remarks)

			assert.Equal(t, tt.want.driver, driverName(got.Driver))
			assert.Equal(t, tt.want.route, routeName(got.Route))
			assert.Equal(t, tt.want.front, loadName(got.FrontLoad))
			assert.Equal(t, tt.want.back, loadName(got.BackLoad))
			assert.Equal(t, tt.want.driverRule, got.DriverRule)
			assert.Equal(t, tt.want.loadRule, got.LoadRule)
		})
	}
}

func TestExtractor_StrikePlaceholder(t *testing.T) {
	snap := testSnapshot()
	snap.LoadTypes = []catalog.LoadType{{ID: 4, Name: "Cement"}}

	x := importer.NewExtractor(catalog.NewLookup(snap, nil))

	got := x.Extract("Francis Ariglado: PAG-ILIGAN: Cement/Humay:")

	require.NotNil(t, got.BackLoad)
	assert.Equal(t, "Strike", got.BackLoad.Name)
	assert.Zero(t, got.BackLoad.ID)
}

func TestExtractor_DriverStrategies(t *testing.T) {
	snap := testSnapshot()
	snap.Drivers = []catalog.Driver{{ID: 20, Name: "roque oling"}, {ID: 21, Name: "jimmy oclarit"}}

	x := importer.NewExtractor(catalog.NewLookup(snap, nil))

	tests := []struct {
		name     string
		remarks  string
		driver   string
		wantRule string
	}{
		{name: "fuel slip", remarks: "LRO: 140Liters Fuel and Oil Roque Oling:", driver: "roque oling", wantRule: "fuel slip"},
		{name: "driver pair keeps the first", remarks: "Transfer: Roque Oling/Jimmy Oclarit:", driver: "roque oling", wantRule: "driver pair"},
		{name: "name label", remarks: "Paid to Roque Oling: CDO-LNO:", driver: "roque oling", wantRule: "name label"},
		{name: "unknown label is discarded", remarks: "Pedro Penduko: CDO-LNO:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Extract(tt.remarks)

			assert.Equal(t, tt.driver, driverName(got.Driver))
			assert.Equal(t, tt.wantRule, got.DriverRule)
		})
	}
}

func driverName(d *catalog.Driver) string {
	if d == nil {
		return ""
	}

	return d.Name
}

func routeName(r *catalog.Route) string {
	if r == nil {
		return ""
	}

	return r.Name
}

func loadName(lt *catalog.LoadType) string {
	if lt == nil {
		return ""
	}

	return lt.Name
}
