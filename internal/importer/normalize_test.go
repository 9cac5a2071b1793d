package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

func TestNormalize_Preamble(t *testing.T) {
	table := sheet.Table{
		{"Northline Trucking"},
		{"General Ledger"},
		{"For the period ending March 2024"},
		{""},
		{"Printed by admin"},
		{""},
		{"Page 1"},
		{"Account Number", "Account Type", "Plate Number", "Description", "Debit", "Credit", "Date", "Customer", "Balance"},
		{"1234", "Fuel and Oil", "NGS-4359", "Diesel", "100", "", "03/05/2024", "Acme", "100"},
		{"", "", "", "", "", "", "", "", ""},
		{"Total for Fuel and Oil", "", "", "", "100", "", "", "", ""},
		{"1111", "Fuel and Oil", "", "Beginning Balance", "", "", "03/01/2024", "", ""},
	}

	s, err := importer.Normalize(table, 7)
	require.NoError(t, err)

	assert.Equal(t, "Account Number", s.Header[0])
	require.Len(t, s.Rows, 2)

	first, second := s.Rows[0], s.Rows[1]

	assert.Equal(t, 0, first.Index)
	assert.False(t, first.BeginningBalance)
	assert.Equal(t, "1234", s.Value(first, importer.FieldAccountNumber))
	assert.Equal(t, "Fuel and Oil", s.Value(first, importer.FieldAccountType))
	assert.Equal(t, "NGS-4359", s.Value(first, importer.FieldPlate))
	assert.Equal(t, "Diesel", s.Value(first, importer.FieldDescription))
	assert.Equal(t, "100", s.Value(first, importer.FieldDebit))
	assert.Equal(t, "03/05/2024", s.Value(first, importer.FieldDate))
	assert.Empty(t, s.Descriptor(first))

	assert.Equal(t, 1, second.Index)
	assert.True(t, second.BeginningBalance)
}

func TestNormalize_Columns(t *testing.T) {
	tests := []struct {
		name   string
		table  sheet.Table
		assert func(t *testing.T, s *importer.Sheet)
	}{
		{
			name: "composite account column",
			table: sheet.Table{
				{"Account", "Type", "Description", "Date", "Remarks", "RR No."},
				{"1234 - Fuel and Oil - Trailer NGS-4359", "Diesel", "ignored", "03/05/2024", "top up", "RR-9"},
			},
			assert: func(t *testing.T, s *importer.Sheet) {
				row := s.Rows[0]

				assert.True(t, s.Has(importer.FieldAccountType))
				assert.True(t, s.Has(importer.FieldPlate))
				assert.Equal(t, "1234 - Fuel and Oil - Trailer NGS-4359", s.Descriptor(row))
				assert.Equal(t, "Diesel", s.Value(row, importer.FieldDescription))
				assert.Equal(t, "top up", s.Value(row, importer.FieldRemarks))
				assert.Equal(t, "RR-9", s.Value(row, importer.FieldReference))
			},
		},
		{
			name: "unlabeled description column",
			table: sheet.Table{
				{"Account Number", "", "Debit", "Date"},
				{"1234", "", "5", "03/04/2024"},
				{"1234", "Funds transfer", "10", "03/05/2024"},
			},
			assert: func(t *testing.T, s *importer.Sheet) {
				assert.Equal(t, "Funds transfer", s.Value(s.Rows[1], importer.FieldDescription))
			},
		},
		{
			name: "first matching column wins",
			table: sheet.Table{
				{"Account Number", "Debit", "Debit Memo", "Date"},
				{"1234", "10", "memo", "03/05/2024"},
			},
			assert: func(t *testing.T, s *importer.Sheet) {
				assert.Equal(t, "10", s.Value(s.Rows[0], importer.FieldDebit))
			},
		},
		{
			name: "no plate source",
			table: sheet.Table{
				{"Account Number", "Debit", "Date"},
				{"1234", "10", "03/05/2024"},
			},
			assert: func(t *testing.T, s *importer.Sheet) {
				assert.False(t, s.Has(importer.FieldPlate))
				assert.False(t, s.Has(importer.FieldAccountType))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := importer.Normalize(tt.table, 0)
			require.NoError(t, err)
			require.NotEmpty(t, s.Rows)

			tt.assert(t, s)
		})
	}
}

func TestNormalize_NoHeader(t *testing.T) {
	table := sheet.Table{{"Northline Trucking"}, {"General Ledger"}}

	_, err := importer.Normalize(table, 7)
	assert.ErrorIs(t, err, importer.ErrNoHeader)
}
