package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

// PreviewRow is a parsed row as it would be imported.
type PreviewRow struct {
	Index           int              `json:"index"`
	RowNumber       int              `json:"row_number"`
	AccountNumber   string           `json:"account_number"`
	AccountType     string           `json:"account_type,omitempty"`
	TruckType       string           `json:"truck_type,omitempty"`
	PlateNumber     string           `json:"plate_number,omitempty"`
	Description     string           `json:"description"`
	Debit           decimal.Decimal  `json:"debit"`
	Credit          decimal.Decimal  `json:"credit"`
	FinalTotal      decimal.Decimal  `json:"final_total"`
	Remarks         string           `json:"remarks"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Date            string           `json:"date,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Driver          string           `json:"driver,omitempty"`
	Route           string           `json:"route,omitempty"`
	FrontLoad       string           `json:"front_load,omitempty"`
	BackLoad        string           `json:"back_load,omitempty"`
}

type PreviewResult struct {
	Rows         []PreviewRow          `json:"rows"`
	ParsingStats progress.ParsingStats `json:"parsing_stats"`
	TotalRows    int                   `json:"total_rows"`
	Message      string                `json:"message"`
}

// readSheet reads and normalizes an upload.
func (s *Service) readSheet(name string, r io.Reader) (*Sheet, error) {
	table, err := sheet.Read(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	sh, err := Normalize(table, s.settings.HeaderSkipRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	return sh, nil
}

// Preview runs the parsing pipeline without writing anything.
func (s *Service) Preview(ctx context.Context, name string, r io.Reader, opts Options) (*PreviewResult, error) {
	sh, err := s.readSheet(name, r)
	if err != nil {
		return nil, err
	}

	lookup, err := s.catalog.Lookup(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	res := &PreviewResult{Rows: []PreviewRow{}}

	for _, c := range newParser(sh, lookup).candidates(opts.ExcludeIndices) {
		c.count(&res.ParsingStats)
		res.Rows = append(res.Rows, c.preview())
	}

	res.TotalRows = len(res.Rows)
	res.Message = fmt.Sprintf("Preview generated for %d rows", res.TotalRows)

	return res, nil
}

func (c *candidate) preview() PreviewRow {
	row := PreviewRow{
		Index:           c.row.Index,
		RowNumber:       c.row.Index + 1,
		AccountNumber:   c.accountNumber,
		TruckType:       c.truckType,
		Description:     c.description,
		Debit:           c.debit,
		Credit:          c.credit,
		FinalTotal:      c.finalTotal,
		Remarks:         c.remarks,
		ReferenceNumber: c.reference,
		Quantity:        c.quantity,
		Price:           c.price,
		Route:           c.routeName,
	}

	if c.accountType != nil {
		row.AccountType = c.accountType.Name
	}

	if c.truck != nil {
		row.PlateNumber = c.truck.PlateNumber
	}

	if c.hasDate() {
		row.Date = c.date.Format(time.DateOnly)
	}

	row.Driver = nameOf(c.driver)
	row.FrontLoad = loadName(c.frontLoad)
	row.BackLoad = loadName(c.backLoad)

	return row
}

func nameOf(d *catalog.Driver) string {
	if d == nil {
		return ""
	}

	return d.Name
}

func loadName(lt *catalog.LoadType) string {
	if lt == nil {
		return ""
	}

	return lt.Name
}
