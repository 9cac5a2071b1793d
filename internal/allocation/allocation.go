// Package allocation splits ledger amounts between the front and back legs of
// a round trip. Every roll-up goes through Allocate so reports agree.
package allocation

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the slice of a ledger record the allocator needs. Seq is the
// record's insertion sequence and decides order inside a trip.
type Entry struct {
	Seq       int64
	Date      time.Time
	Plate     string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	FrontLoad string
	BackLoad  string
}

// Share is the allocation of one entry. Index points back into the slice
// passed to Allocate.
type Share struct {
	Index  int
	Amount decimal.Decimal
	Front  decimal.Decimal
	Back   decimal.Decimal
}

// Key identifies a trip: one truck on one calendar day.
type Key struct {
	Date  string
	Plate string
}

func keyOf(e Entry) Key {
	return Key{Date: e.Date.Format(time.DateOnly), Plate: e.Plate}
}

// Amount is the magnitude a record moves: credit when non-zero, else debit.
func Amount(credit, debit decimal.Decimal) decimal.Decimal {
	if !credit.IsZero() {
		return credit.Abs()
	}

	return debit.Abs()
}

// isStrike matches the catalog spelling only. Free text such as "strike
// pay" in a lowercase load name is an ordinary load.
func isStrike(load string) bool {
	return strings.Contains(load, "Strike")
}

// Allocate groups entries by trip and splits each entry's amount. Shares are
// returned ordered by date, plate and Seq.
func Allocate(entries []Entry) []Share {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		ka, kb := keyOf(entries[a]), keyOf(entries[b])
		return cmp.Or(
			cmp.Compare(ka.Date, kb.Date),
			cmp.Compare(ka.Plate, kb.Plate),
			cmp.Compare(entries[a].Seq, entries[b].Seq),
		)
	})

	shares := make([]Share, 0, len(entries))

	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && keyOf(entries[order[end]]) == keyOf(entries[order[start]]) {
			end++
		}

		group := order[start:end]
		for pos, idx := range group {
			shares = append(shares, split(idx, entries[idx], pos, len(group)))
		}

		start = end
	}

	return shares
}

// Group returns the trip key of every share, aligned with shares.
func Group(entries []Entry, shares []Share) []Key {
	keys := make([]Key, len(shares))
	for i, s := range shares {
		keys[i] = keyOf(entries[s.Index])
	}

	return keys
}

func split(idx int, e Entry, pos, size int) Share {
	s := Share{Index: idx, Amount: Amount(e.Credit, e.Debit)}

	switch {
	case isStrike(e.FrontLoad):
		s.Back = s.Amount
	case isStrike(e.BackLoad):
		s.Front = s.Amount
	case size > 1 && pos == 0:
		s.Front = s.Amount
	case size > 1:
		s.Back = s.Amount
	case e.FrontLoad != "" && e.BackLoad != "":
		s.Front = s.Amount.Div(decimal.NewFromInt(2)).Round(2)
		s.Back = s.Amount.Sub(s.Front)
	case e.BackLoad != "":
		s.Back = s.Amount
	default:
		// Front only, or no load information at all.
		s.Front = s.Amount
	}

	return s
}
