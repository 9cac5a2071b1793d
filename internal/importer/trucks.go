package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

// truckErrorLimit caps the errors a fleet upload reports.
const truckErrorLimit = 10

var (
	plateHeaders     = []string{"truck plate", "plate", "plate number", "plate_number"}
	truckTypeHeaders = []string{"truck type", "truck_type", "type"}
	companyHeaders   = []string{"company"}
)

type TruckImportResult struct {
	CreatedCount int      `json:"created_count"`
	UpdatedCount int      `json:"updated_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
	Message      string   `json:"message"`
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = lower(h)
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}

	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[col])
}

// ImportTrucks loads a fleet list (plate, truck type, company). Unknown truck
// types are created; existing trucks get the non-blank values of their row.
func (s *Service) ImportTrucks(ctx context.Context, name string, r io.Reader) (*TruckImportResult, error) {
	table, err := sheet.Read(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, ErrNoHeader)
	}

	plateCol := findColumn(table[0], plateHeaders)
	typeCol := findColumn(table[0], truckTypeHeaders)
	companyCol := findColumn(table[0], companyHeaders)

	res := &TruckImportResult{Errors: []string{}}

	fail := func(rowNumber int, msg string) {
		res.ErrorCount++
		if len(res.Errors) < truckErrorLimit {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rowNumber, msg))
		}
	}

	for i, row := range table[1:] {
		rowNumber := i + 1

		if sheet.IsEmptyRow(row) {
			continue
		}

		truck := &catalog.Truck{
			PlateNumber: catalog.NormalizePlate(cell(row, plateCol)),
			Company:     cell(row, companyCol),
		}

		if truck.PlateNumber == "" {
			fail(rowNumber, "Plate number is required")
			continue
		}

		if typeName := cell(row, typeCol); typeName != "" {
			tt, err := s.catalog.FindOrCreateTruckType(ctx, typeName)
			if err != nil {
				fail(rowNumber, err.Error())
				continue
			}

			truck.TruckTypeID = &tt.ID
		}

		created, err := s.catalog.SaveTruck(ctx, truck)
		if err != nil {
			fail(rowNumber, err.Error())
			continue
		}

		if created {
			res.CreatedCount++
		} else {
			res.UpdatedCount++
		}
	}

	res.Message = fmt.Sprintf("Successfully processed %d trucks", res.CreatedCount+res.UpdatedCount)

	return res, nil
}
