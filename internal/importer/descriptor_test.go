package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  importer.Descriptor
	}{
		{
			name:  "full descriptor",
			input: "1234 - Fuel and Oil - Trailer NGS-4359",
			want:  importer.Descriptor{AccountNumber: "1234", AccountType: "Fuel and Oil", TruckType: "Trailer", Plate: "NGS4359"},
		},
		{
			name:  "spaced plate",
			input: "2001 - Repairs and Maintenance Expense - Forward KGJ 765",
			want:  importer.Descriptor{AccountNumber: "2001", AccountType: "Repairs and Maintenance Expense", TruckType: "Forward", Plate: "KGJ765"},
		},
		{
			name:  "non-numeric account number is dropped",
			input: "A12 - Fuel and Oil",
			want:  importer.Descriptor{AccountType: "Fuel and Oil"},
		},
		{
			name:  "no separator keeps leading digits",
			input: "4410 Salaries",
			want:  importer.Descriptor{AccountNumber: "4410"},
		},
		{
			name:  "subtotal line",
			input: "Total for 1234 - Fuel and Oil",
			want:  importer.Descriptor{},
		},
		{
			name:  "blank",
			input: "   ",
			want:  importer.Descriptor{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importer.ParseDescriptor(tt.input))
		})
	}
}

func TestFindPlate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "letters and digits", text: "Diesel for ngs 4359 today", want: "NGS4359"},
		{name: "digit groups with a separator", text: "Receipt no. 1101 939583", want: "1101939583"},
		{name: "last separated digit group wins", text: "1101-939 / 2202-777", want: "2202777"},
		{name: "loose token needs three digits", text: "ref 12AB", want: ""},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importer.FindPlate(tt.text))
		})
	}
}
