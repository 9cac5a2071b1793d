// Package report rolls stored ledger records up into driver, route, account,
// trip and revenue summaries. Every roll-up that splits an amount between the
// legs of a trip goes through the allocation package.
package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidDate is returned for range bounds in neither accepted layout.
var ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD or MM/DD/YYYY")

const (
	DriversAllowance = "Driver's Allowance"
	FuelAndOil       = "Fuel and Oil"
	unknown          = "Unknown"
	noAccountNumber  = "No Account Number"
)

// OpexAccountTypes are the account types counted as operating expenses.
var OpexAccountTypes = []string{
	"Insurance Expense",
	"Repairs and Maintenance Expense",
	"Taxes, Permits and Licenses Expense",
	"Salaries and Wages",
	"Tax Expense",
}

// Range bounds a report by record date, inclusive. Nil bounds are open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

var rangeLayouts = []string{time.DateOnly, "1/2/2006"}

// ParseRange reads optional start and end dates.
func ParseRange(start, end string) (Range, error) {
	var (
		r   Range
		err error
	)

	if r.Start, err = parseDay(start); err != nil {
		return Range{}, fmt.Errorf("start_date: %w", err)
	}

	if r.End, err = parseDay(end); err != nil {
		return Range{}, fmt.Errorf("end_date: %w", err)
	}

	return r, nil
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range rangeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

type DriverSummary struct {
	Driver         string          `json:"driver"`
	TotalTrips     int             `json:"total_trips"`
	TotalFrontLoad decimal.Decimal `json:"total_front_load"`
	TotalBackLoad  decimal.Decimal `json:"total_back_load"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Routes         []string        `json:"routes"`
	Trucks         []string        `json:"trucks"`
}

type Totals struct {
	FrontLoad decimal.Decimal `json:"total_front_load"`
	BackLoad  decimal.Decimal `json:"total_back_load"`
	Amount    decimal.Decimal `json:"total_amount"`
	Trips     int             `json:"total_trips"`
}

type DriversReport struct {
	Drivers      []DriverSummary `json:"drivers"`
	TotalDrivers int             `json:"total_drivers"`
	Summary      Totals          `json:"summary"`
}

type RouteSummary struct {
	Route          string          `json:"route"`
	TotalTrips     int             `json:"total_trips"`
	TotalFrontLoad decimal.Decimal `json:"total_front_load"`
	TotalBackLoad  decimal.Decimal `json:"total_back_load"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	Drivers        []string        `json:"drivers"`
	Trucks         []string        `json:"trucks"`
}

type RoutesReport struct {
	Routes      []RouteSummary `json:"routes"`
	TotalRoutes int            `json:"total_routes"`
	Summary     Totals         `json:"summary"`
}

// AccountSummary totals one (account type, truck type) pair.
type AccountSummary struct {
	AccountType string          `json:"account_type"`
	TruckType   string          `json:"truck_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalFinal  decimal.Decimal `json:"total_final"`
	Count       int             `json:"count"`
	Trucks      []string        `json:"trucks"`
}

// TripSummary is one truck on one day.
type TripSummary struct {
	Date        string          `json:"date"`
	PlateNumber string          `json:"plate_number"`
	Driver      string          `json:"driver"`
	Routes      []string        `json:"routes"`
	FrontLoads  []string        `json:"front_loads"`
	BackLoads   []string        `json:"back_loads"`
	FrontAmount decimal.Decimal `json:"front_load_amount"`
	BackAmount  decimal.Decimal `json:"back_load_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TripCount   int             `json:"trip_count"`
}

type AccountAmount struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

type OpexCategory struct {
	AccountType    string          `json:"account_type"`
	Amount         decimal.Decimal `json:"amount"`
	Percentage     decimal.Decimal `json:"percentage"`
	AccountDetails []AccountAmount `json:"account_details"`
}

type RevenueStreams struct {
	FrontLoadAmount decimal.Decimal `json:"front_load_amount"`
	BackLoadAmount  decimal.Decimal `json:"back_load_amount"`
}

type ExpenseStreams struct {
	Allowance  decimal.Decimal `json:"allowance"`
	FuelAmount decimal.Decimal `json:"fuel_amount"`
	TotalOpex  decimal.Decimal `json:"total_opex"`
}

type RevenueReport struct {
	Revenue       RevenueStreams `json:"revenue_streams"`
	Expenses      ExpenseStreams `json:"expense_streams"`
	OpexBreakdown []OpexCategory `json:"opex_breakdown"`
}

// set collects distinct names and returns them sorted.
type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}

	slices.Sort(out)

	return out
}
