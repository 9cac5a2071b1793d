package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/allocation"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type split struct {
	front string
	back  string
}

func TestAllocate_SingleEntry(t *testing.T) {
	type testCase struct {
		name  string
		entry allocation.Entry
		want  split
	}

	tests := []testCase{
		{
			name:  "strike on front sends everything back",
			entry: allocation.Entry{Credit: dec("1000"), FrontLoad: "Strike", BackLoad: "Cement"},
			want:  split{front: "0", back: "1000"},
		},
		{
			name:  "strike on back sends everything front",
			entry: allocation.Entry{Credit: dec("1000"), FrontLoad: "Cement", BackLoad: "Strike"},
			want:  split{front: "1000", back: "0"},
		},
		{
			name:  "strike inside a longer load name",
			entry: allocation.Entry{Credit: dec("1000"), FrontLoad: "Cement", BackLoad: "Strike (port)"},
			want:  split{front: "1000", back: "0"},
		},
		{
			name:  "lowercase strike is an ordinary load",
			entry: allocation.Entry{Credit: dec("1000"), FrontLoad: "strike cargo", BackLoad: "Cement"},
			want:  split{front: "500", back: "500"},
		},
		{
			name:  "both loads split evenly",
			entry: allocation.Entry{Debit: dec("-100.01"), FrontLoad: "Cement", BackLoad: "RH Holcim"},
			want:  split{front: "50.01", back: "50"},
		},
		{
			name:  "front only",
			entry: allocation.Entry{Credit: dec("300"), FrontLoad: "Cement"},
			want:  split{front: "300", back: "0"},
		},
		{
			name:  "back only",
			entry: allocation.Entry{Credit: dec("300"), BackLoad: "Cement"},
			want:  split{front: "0", back: "300"},
		},
		{
			name:  "no loads falls back to front",
			entry: allocation.Entry{Debit: dec("75")},
			want:  split{front: "75", back: "0"},
		},
		{
			name:  "credit wins over debit",
			entry: allocation.Entry{Debit: dec("10"), Credit: dec("-40")},
			want:  split{front: "40", back: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entry.Date = day
			tt.entry.Plate = "NGS4359"

			shares := allocation.Allocate([]allocation.Entry{tt.entry})
			require.Len(t, shares, 1)

			assert.True(t, dec(tt.want.front).Equal(shares[0].Front), "front = %s", shares[0].Front)
			assert.True(t, dec(tt.want.back).Equal(shares[0].Back), "back = %s", shares[0].Back)
			assert.True(t, shares[0].Front.Add(shares[0].Back).Equal(shares[0].Amount))
		})
	}
}

func TestAllocate_GroupOrderIsBySeqNotAmount(t *testing.T) {
	entries := []allocation.Entry{
		{Seq: 30, Date: day, Plate: "A1", Credit: dec("5000")},
		{Seq: 10, Date: day, Plate: "A1", Credit: dec("100")},
		{Seq: 20, Date: day, Plate: "A1", Credit: dec("900")},
	}

	shares := allocation.Allocate(entries)
	require.Len(t, shares, 3)

	assert.Equal(t, []int{1, 2, 0}, []int{shares[0].Index, shares[1].Index, shares[2].Index})

	assert.True(t, dec("100").Equal(shares[0].Front))
	assert.True(t, shares[0].Back.IsZero())

	for _, s := range shares[1:] {
		assert.True(t, s.Front.IsZero())
		assert.True(t, s.Back.Equal(s.Amount))
	}
}

func TestAllocate_StrikeOverridesPosition(t *testing.T) {
	entries := []allocation.Entry{
		{Seq: 1, Date: day, Plate: "A1", Credit: dec("100"), FrontLoad: "Strike", BackLoad: "Cement"},
		{Seq: 2, Date: day, Plate: "A1", Credit: dec("200"), FrontLoad: "Cement", BackLoad: "Strike"},
	}

	shares := allocation.Allocate(entries)
	require.Len(t, shares, 2)

	assert.True(t, shares[0].Front.IsZero())
	assert.True(t, dec("100").Equal(shares[0].Back))
	assert.True(t, dec("200").Equal(shares[1].Front))
	assert.True(t, shares[1].Back.IsZero())
}

func TestAllocate_SeparateTrips(t *testing.T) {
	next := day.AddDate(0, 0, 1)

	entries := []allocation.Entry{
		{Seq: 1, Date: next, Plate: "A1", Credit: dec("10")},
		{Seq: 2, Date: day, Plate: "B2", Credit: dec("20")},
		{Seq: 3, Date: day, Plate: "A1", Credit: dec("30")},
	}

	shares := allocation.Allocate(entries)
	require.Len(t, shares, 3)

	keys := allocation.Group(entries, shares)
	assert.Equal(t, []allocation.Key{
		{Date: "2024-03-04", Plate: "A1"},
		{Date: "2024-03-04", Plate: "B2"},
		{Date: "2024-03-05", Plate: "A1"},
	}, keys)

	for _, s := range shares {
		assert.True(t, s.Front.Equal(s.Amount), "single-entry trips without loads go to front")
	}
}

func TestAmount(t *testing.T) {
	assert.True(t, dec("12").Equal(allocation.Amount(dec("-12"), dec("99"))))
	assert.True(t, dec("99").Equal(allocation.Amount(decimal.Zero, dec("-99"))))
}
