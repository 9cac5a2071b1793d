package sheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBlank = errors.New("blank value")

// Ledger exports disagree on day/month order; month-first wins when both
// interpretations are valid.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-06",
	"2-Jan-2006",
	"Jan 2, 2006",
}

// excelEpoch is day zero of the 1900 date system, adjusted for the phantom
// 1900-02-29 that Excel counts.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate resolves a cell to a calendar date at UTC midnight. Excel serial
// numbers are accepted alongside textual layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return time.Time{}, ErrBlank
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial < 2958466 {
		days := math.Floor(serial)
		return excelEpoch.AddDate(0, 0, int(days)), nil
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var numberReplacer = strings.NewReplacer(",", "", " ", "", "₱", "", "$", "", "PHP", "", "php", "")

// ParseDecimal reads an accounting-formatted amount. "(12.50)" is negative,
// thousands separators and currency markers are ignored. Blank, "-" and
// "nan" cells yield ErrBlank.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "nan") {
		return decimal.Zero, ErrBlank
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(numberReplacer.Replace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognised amount %q: %w", s, err)
	}

	if neg {
		d = d.Neg()
	}

	return d.Round(2), nil
}

// DecimalOrZero is ParseDecimal with every failure coerced to zero.
func DecimalOrZero(s string) decimal.Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
