package sheet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Account", "Date", "Debit", "Remarks"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1234 - Fuel and Oil", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1500.5, "  padded  "}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"short"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := sheet.Read("ledger.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, []string{"Account", "Date", "Debit", "Remarks"}, table[0])
	assert.Equal(t, "1234 - Fuel and Oil", table.Cell(1, 0))
	assert.Equal(t, "padded", table.Cell(1, 3))
	assert.Len(t, table[2], 4, "short rows are padded to the table width")

	date, err := sheet.ParseDate(table.Cell(1, 1))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), date)

	assert.Equal(t, "1500.50", sheet.DecimalOrZero(table.Cell(1, 2)).StringFixed(2))
}

func TestRead_CSV(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  sheet.Table
	}

	tests := []testCase{
		{
			name:  "comma separated",
			input: []byte("Account,Debit\n1234 - Fuel,10\n"),
			want:  sheet.Table{{"Account", "Debit"}, {"1234 - Fuel", "10"}},
		},
		{
			name:  "semicolon separated",
			input: []byte("Account;Debit;Remarks\n1234;10;a, b\n"),
			want:  sheet.Table{{"Account", "Debit", "Remarks"}, {"1234", "10", "a, b"}},
		},
		{
			name:  "windows-1252 text is decoded",
			input: []byte{'C', 'a', 'm', 'p', 'a', 0xF1, 'a', ',', 'x', '\n'},
			want:  sheet.Table{{"Campaña", "x"}},
		},
		{
			name:  "ragged rows are padded",
			input: []byte("a,b,c\n1\n"),
			want:  sheet.Table{{"a", "b", "c"}, {"1", "", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheet.Read("export.csv", bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := sheet.Read("ledger.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, sheet.ErrUnsupportedFormat)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Remarks\n")...)

	table, err := sheet.Read("x.csv", bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Remarks", table.Cell(0, 0))
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, sheet.IsEmptyRow([]string{"", "  ", "\t"}))
	assert.True(t, sheet.IsEmptyRow(nil))
	assert.False(t, sheet.IsEmptyRow([]string{"", "x"}))
}
