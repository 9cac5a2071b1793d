package sheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

func TestParseDate(t *testing.T) {
	jan15 := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}

	tests := []testCase{
		{name: "iso", input: "2024-01-15", want: jan15},
		{name: "month first", input: "01/15/2024", want: jan15},
		{name: "month first without padding", input: "1/15/2024", want: jan15},
		{name: "day first when month is out of range", input: "15/01/2024", want: jan15},
		{name: "slashed iso", input: "2024/01/15", want: jan15},
		{name: "timestamp", input: "2024-01-15 13:45:00", want: jan15},
		{name: "excel serial", input: "45306", want: jan15},
		{name: "excel serial with time fraction", input: "45306.75", want: jan15},
		{name: "blank", input: "  ", wantErr: true},
		{name: "garbage", input: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheet.ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "plain", input: "1500", want: "1500.00"},
		{name: "thousands separator", input: "1,234.567", want: "1234.57"},
		{name: "accounting negative", input: "(250.00)", want: "-250.00"},
		{name: "currency marker", input: "₱ 99.5", want: "99.50"},
		{name: "dash means blank", input: "-", wantErr: true},
		{name: "text", input: "n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheet.ParseDecimal(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
