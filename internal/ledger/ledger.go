// Package ledger holds normalized trucking ledger records and the rules that
// protect them once locked.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/allocation"
)

// HaulingIncome is the account type whose final total is always non-negative.
const HaulingIncome = "Hauling Income"

// Ref is a resolved reference to a catalog entity.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TruckRef is a resolved truck with its type and operating company.
type TruckRef struct {
	ID          int64  `json:"id"`
	PlateNumber string `json:"plate_number"`
	Type        string `json:"truck_type,omitempty"`
	Company     string `json:"company,omitempty"`
}

type Record struct {
	ID              uuid.UUID        `json:"id"`
	Seq             int64            `json:"seq"`
	AccountNumber   string           `json:"account_number"`
	AccountType     *Ref             `json:"account_type,omitempty"`
	Truck           *TruckRef        `json:"truck,omitempty"`
	Description     string           `json:"description"`
	Debit           decimal.Decimal  `json:"debit"`
	Credit          decimal.Decimal  `json:"credit"`
	FinalTotal      decimal.Decimal  `json:"final_total"`
	Remarks         string           `json:"remarks"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	Date            time.Time        `json:"date"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Driver          *Ref             `json:"driver,omitempty"`
	Route           *Ref             `json:"route,omitempty"`
	FrontLoad       *Ref             `json:"front_load,omitempty"`
	BackLoad        *Ref             `json:"back_load,omitempty"`
	Locked          bool             `json:"is_locked"`
	LockedAt        *time.Time       `json:"locked_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NameOr returns the referenced name, or fallback for a nil or unnamed ref.
func (r *Ref) NameOr(fallback string) string {
	if r == nil || r.Name == "" {
		return fallback
	}

	return r.Name
}

// Plate returns the truck plate or "" for records without a truck.
func (r *Record) Plate() string {
	if r.Truck == nil {
		return ""
	}

	return r.Truck.PlateNumber
}

// Key is the record's deduplication key.
func (r *Record) Key() Key {
	var typeID int64
	if r.AccountType != nil {
		typeID = r.AccountType.ID
	}

	return NewKey(r.AccountNumber, typeID, r.Date)
}

// Entry adapts the record for the load allocator.
func (r *Record) Entry() allocation.Entry {
	return allocation.Entry{
		Seq:       r.Seq,
		Date:      r.Date,
		Plate:     r.Plate(),
		Debit:     r.Debit,
		Credit:    r.Credit,
		FrontLoad: r.FrontLoad.NameOr(""),
		BackLoad:  r.BackLoad.NameOr(""),
	}
}

// FinalTotal derives a record's final total. A supplied value wins over
// debit minus credit; Hauling Income totals are never negative.
func FinalTotal(debit, credit decimal.Decimal, supplied *decimal.Decimal, accountType string) decimal.Decimal {
	total := debit.Sub(credit)
	if supplied != nil {
		total = *supplied
	}

	if strings.Contains(strings.ToLower(accountType), strings.ToLower(HaulingIncome)) {
		total = total.Abs()
	}

	return total.Round(2)
}

// DeriveTotal sets the final total from debit and credit.
func (r *Record) DeriveTotal() {
	r.FinalTotal = FinalTotal(r.Debit, r.Credit, nil, r.AccountType.NameOr(""))
}

// Key is (normalized account number, account type id, calendar date).
type Key struct {
	AccountNumber string
	AccountTypeID int64
	Date          string
}

func NewKey(accountNumber string, accountTypeID int64, date time.Time) Key {
	return Key{
		AccountNumber: NormalizeAccountNumber(accountNumber),
		AccountTypeID: accountTypeID,
		Date:          date.Format(time.DateOnly),
	}
}

var accountNumberReplacer = strings.NewReplacer(" ", "", "-", "")

// NormalizeAccountNumber undoes spreadsheet artifacts: surrounding blanks,
// a trailing ".0"/".00" from numeric cells, inner spaces and hyphens.
func NormalizeAccountNumber(s string) string {
	s = strings.TrimSpace(s)

	for _, suffix := range []string{".00", ".0"} {
		if trimmed, ok := strings.CutSuffix(s, suffix); ok && trimmed != "" {
			s = trimmed
			break
		}
	}

	return strings.ToUpper(accountNumberReplacer.Replace(s))
}

// TripField names the trip attributes that can be corrected after import.
type TripField string

const (
	TripFieldRoute     TripField = "route"
	TripFieldDriver    TripField = "driver"
	TripFieldFrontLoad TripField = "front_load"
	TripFieldBackLoad  TripField = "back_load"
)

func (f TripField) Valid() bool {
	switch f {
	case TripFieldRoute, TripFieldDriver, TripFieldFrontLoad, TripFieldBackLoad:
		return true
	}

	return false
}

// Filter narrows List. Zero fields do not filter.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Plate     string
	IDs       []uuid.UUID
	Locked    *bool
}
