package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/ledger"
)

// recordRequest carries the fields a client may set. Nil fields are left
// alone; a zero reference id clears the reference.
type recordRequest struct {
	AccountNumber   *string          `json:"account_number,omitempty" validate:"omitempty,min=1,max=64"`
	AccountTypeID   *int64           `json:"account_type_id,omitempty" validate:"omitempty,gte=0"`
	TruckID         *int64           `json:"truck_id,omitempty" validate:"omitempty,gte=0"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Debit           *decimal.Decimal `json:"debit,omitempty"`
	Credit          *decimal.Decimal `json:"credit,omitempty"`
	FinalTotal      *decimal.Decimal `json:"final_total,omitempty"`
	Remarks         *string          `json:"remarks,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty" validate:"omitempty,max=100"`
	Date            *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DriverID        *int64           `json:"driver_id,omitempty" validate:"omitempty,gte=0"`
	RouteID         *int64           `json:"route_id,omitempty" validate:"omitempty,gte=0"`
	FrontLoadID     *int64           `json:"front_load_id,omitempty" validate:"omitempty,gte=0"`
	BackLoadID      *int64           `json:"back_load_id,omitempty" validate:"omitempty,gte=0"`
}

func ref(current *ledger.Ref, id *int64) *ledger.Ref {
	switch {
	case id == nil:
		return current
	case *id == 0:
		return nil
	case current != nil && current.ID == *id:
		return current
	}

	return &ledger.Ref{ID: *id}
}

// apply copies the request onto rec. derive is set for new records, whose
// total is computed unless the request supplies one.
func (req *recordRequest) apply(rec *ledger.Record, derive bool) error {
	if req.AccountNumber != nil {
		rec.AccountNumber = *req.AccountNumber
	}

	if req.Description != nil {
		rec.Description = *req.Description
	}

	if req.Remarks != nil {
		rec.Remarks = *req.Remarks
	}

	if req.ReferenceNumber != nil {
		rec.ReferenceNumber = req.ReferenceNumber
		if *req.ReferenceNumber == "" {
			rec.ReferenceNumber = nil
		}
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			return err
		}

		rec.Date = date
	}

	if req.Debit != nil {
		rec.Debit = *req.Debit
	}

	if req.Credit != nil {
		rec.Credit = *req.Credit
	}

	if req.Quantity != nil {
		rec.Quantity = nonZero(*req.Quantity)
	}

	if req.Price != nil {
		rec.Price = nonZero(*req.Price)
	}

	if req.TruckID != nil {
		switch {
		case *req.TruckID == 0:
			rec.Truck = nil
		case rec.Truck == nil || rec.Truck.ID != *req.TruckID:
			rec.Truck = &ledger.TruckRef{ID: *req.TruckID}
		}
	}

	rec.AccountType = ref(rec.AccountType, req.AccountTypeID)
	rec.Driver = ref(rec.Driver, req.DriverID)
	rec.Route = ref(rec.Route, req.RouteID)
	rec.FrontLoad = ref(rec.FrontLoad, req.FrontLoadID)
	rec.BackLoad = ref(rec.BackLoad, req.BackLoadID)

	// A supplied total always wins, zero included. Otherwise a new debit or
	// credit, or a new record, gets its total derived.
	switch {
	case req.FinalTotal != nil:
		rec.FinalTotal = *req.FinalTotal
	case req.Debit != nil || req.Credit != nil || derive:
		rec.DeriveTotal()
	}

	return nil
}

func nonZero(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}

	return &d
}
