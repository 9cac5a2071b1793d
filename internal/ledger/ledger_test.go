package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/haulage/internal/ledger"
)

func TestFinalTotal(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name        string
		debit       string
		credit      string
		supplied    *decimal.Decimal
		accountType string
		want        string
	}{
		{name: "debit minus credit", debit: "1500.50", credit: "200", accountType: "Fuel and Oil", want: "1300.5"},
		{name: "negative for expense credit", debit: "0", credit: "250", accountType: "Fuel and Oil", want: "-250"},
		{name: "supplied wins", debit: "10", credit: "0", supplied: new(d("42.125")), accountType: "Fuel and Oil", want: "42.13"},
		{name: "hauling income is non-negative", debit: "0", credit: "9000", accountType: "Hauling Income", want: "9000"},
		{name: "hauling income match ignores case", debit: "0", credit: "10", accountType: "hauling income - trailer", want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.FinalTotal(d(tt.debit), d(tt.credit), tt.supplied, tt.accountType)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeAccountNumber(t *testing.T) {
	tests := map[string]string{
		" 1234 ":   "1234",
		"1234.0":   "1234",
		"1234.00":  "1234",
		"12-34 ab": "1234AB",
		".0":       ".0",
		"":         "",
	}

	for in, want := range tests {
		assert.Equal(t, want, ledger.NormalizeAccountNumber(in), "input %q", in)
	}
}

func TestNewKey(t *testing.T) {
	date := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)

	a := ledger.NewKey("1234.0", 7, date)
	b := ledger.NewKey(" 1234", 7, date.Truncate(24*time.Hour))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ledger.NewKey("1234", 8, date))
	assert.Equal(t, "2024-03-05", a.Date)
}

func TestRecord_Entry(t *testing.T) {
	r := &ledger.Record{
		Seq:       4,
		Date:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Truck:     &ledger.TruckRef{PlateNumber: "NGS4359"},
		Credit:    decimal.NewFromInt(100),
		FrontLoad: &ledger.Ref{ID: 1, Name: "Strike"},
	}

	e := r.Entry()

	assert.Equal(t, int64(4), e.Seq)
	assert.Equal(t, "NGS4359", e.Plate)
	assert.Equal(t, "Strike", e.FrontLoad)
	assert.Empty(t, e.BackLoad)
}

func TestLockedError(t *testing.T) {
	id := uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

	var err error = &ledger.LockedError{IDs: []uuid.UUID{id}}

	assert.ErrorIs(t, err, ledger.ErrLocked)
	assert.Contains(t, err.Error(), id.String())

	var locked *ledger.LockedError
	assert.True(t, errors.As(err, &locked))
	assert.Len(t, locked.IDs, 1)
}
