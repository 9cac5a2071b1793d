package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/allocation"
	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report

// Records lists stored ledger records.
type Records interface {
	List(ctx context.Context, filter ledger.Filter) ([]*ledger.Record, error)
}

// Service builds read-only roll-ups on demand.
type Service struct {
	records Records
}

func NewService(records Records) *Service {
	return &Service{records: records}
}

func (s *Service) list(ctx context.Context, r Range, plate string) ([]*ledger.Record, error) {
	records, err := s.records.List(ctx, ledger.Filter{
		StartDate: r.Start,
		EndDate:   r.End,
		Plate:     catalog.NormalizePlate(plate),
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return records, nil
}

// allocated pairs a record with its share of the trip amount.
type allocated struct {
	record *ledger.Record
	share  allocation.Share
}

func allocate(records []*ledger.Record) []allocated {
	entries := make([]allocation.Entry, len(records))
	for i, r := range records {
		entries[i] = r.Entry()
	}

	shares := allocation.Allocate(entries)

	out := make([]allocated, len(shares))
	for i, sh := range shares {
		out[i] = allocated{record: records[sh.Index], share: sh}
	}

	return out
}

func where(records []*ledger.Record, keep func(r *ledger.Record) bool) []*ledger.Record {
	var out []*ledger.Record

	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}

	return out
}

func hasLoads(r *ledger.Record) bool {
	return r.FrontLoad != nil || r.BackLoad != nil
}

func isAccountType(r *ledger.Record, name string) bool {
	return strings.EqualFold(r.AccountType.NameOr(""), name)
}

// Drivers totals allocated amounts per driver. Only records naming a driver
// take part in trip grouping, and records without any load are left out.
func (s *Service) Drivers(ctx context.Context, r Range) (*DriversReport, error) {
	records, err := s.list(ctx, r, "")
	if err != nil {
		return nil, err
	}

	type acc struct {
		summary DriverSummary
		routes  set
		trucks  set
	}

	byDriver := make(map[string]*acc)

	for _, a := range allocate(where(records, func(r *ledger.Record) bool { return r.Driver != nil })) {
		rec := a.record
		if !hasLoads(rec) {
			continue
		}

		d, ok := byDriver[rec.Driver.Name]
		if !ok {
			d = &acc{summary: DriverSummary{Driver: rec.Driver.Name}, routes: set{}, trucks: set{}}
			byDriver[rec.Driver.Name] = d
		}

		d.summary.TotalTrips++
		d.summary.TotalFrontLoad = d.summary.TotalFrontLoad.Add(a.share.Front)
		d.summary.TotalBackLoad = d.summary.TotalBackLoad.Add(a.share.Back)
		d.summary.TotalAmount = d.summary.TotalAmount.Add(a.share.Amount)
		d.routes.add(rec.Route.NameOr(""))
		d.trucks.add(rec.Plate())
	}

	res := &DriversReport{Drivers: make([]DriverSummary, 0, len(byDriver))}

	for _, d := range byDriver {
		d.summary.Routes = d.routes.sorted()
		d.summary.Trucks = d.trucks.sorted()
		res.Drivers = append(res.Drivers, d.summary)

		res.Summary.FrontLoad = res.Summary.FrontLoad.Add(d.summary.TotalFrontLoad)
		res.Summary.BackLoad = res.Summary.BackLoad.Add(d.summary.TotalBackLoad)
		res.Summary.Amount = res.Summary.Amount.Add(d.summary.TotalAmount)
		res.Summary.Trips += d.summary.TotalTrips
	}

	slices.SortFunc(res.Drivers, func(a, b DriverSummary) int {
		return cmp.Or(b.TotalAmount.Cmp(a.TotalAmount), cmp.Compare(a.Driver, b.Driver))
	})

	res.TotalDrivers = len(res.Drivers)

	return res, nil
}

// Routes totals allocated revenue per route.
func (s *Service) Routes(ctx context.Context, r Range) (*RoutesReport, error) {
	records, err := s.list(ctx, r, "")
	if err != nil {
		return nil, err
	}

	type acc struct {
		summary RouteSummary
		drivers set
		trucks  set
	}

	byRoute := make(map[string]*acc)

	for _, a := range allocate(where(records, func(r *ledger.Record) bool { return r.Route != nil })) {
		rec := a.record

		rt, ok := byRoute[rec.Route.Name]
		if !ok {
			rt = &acc{summary: RouteSummary{Route: rec.Route.Name}, drivers: set{}, trucks: set{}}
			byRoute[rec.Route.Name] = rt
		}

		rt.summary.TotalTrips++
		rt.summary.TotalFrontLoad = rt.summary.TotalFrontLoad.Add(a.share.Front)
		rt.summary.TotalBackLoad = rt.summary.TotalBackLoad.Add(a.share.Back)
		rt.summary.TotalRevenue = rt.summary.TotalRevenue.Add(a.share.Amount)
		rt.drivers.add(rec.Driver.NameOr(""))
		rt.trucks.add(rec.Plate())
	}

	res := &RoutesReport{Routes: make([]RouteSummary, 0, len(byRoute))}

	for _, rt := range byRoute {
		rt.summary.Drivers = rt.drivers.sorted()
		rt.summary.Trucks = rt.trucks.sorted()
		res.Routes = append(res.Routes, rt.summary)

		res.Summary.FrontLoad = res.Summary.FrontLoad.Add(rt.summary.TotalFrontLoad)
		res.Summary.BackLoad = res.Summary.BackLoad.Add(rt.summary.TotalBackLoad)
		res.Summary.Amount = res.Summary.Amount.Add(rt.summary.TotalRevenue)
		res.Summary.Trips += rt.summary.TotalTrips
	}

	slices.SortFunc(res.Routes, func(a, b RouteSummary) int {
		return cmp.Or(b.TotalRevenue.Cmp(a.TotalRevenue), cmp.Compare(a.Route, b.Route))
	})

	res.TotalRoutes = len(res.Routes)

	return res, nil
}

// Accounts totals records per account type and truck type.
func (s *Service) Accounts(ctx context.Context, r Range) ([]AccountSummary, error) {
	records, err := s.list(ctx, r, "")
	if err != nil {
		return nil, err
	}

	type key struct{ accountType, truckType string }

	type acc struct {
		summary AccountSummary
		trucks  set
	}

	groups := make(map[key]*acc)

	for _, rec := range records {
		k := key{accountType: rec.AccountType.NameOr(unknown), truckType: unknown}
		if rec.Truck != nil && rec.Truck.Type != "" {
			k.truckType = rec.Truck.Type
		}

		g, ok := groups[k]
		if !ok {
			g = &acc{summary: AccountSummary{AccountType: k.accountType, TruckType: k.truckType}, trucks: set{}}
			groups[k] = g
		}

		g.summary.TotalDebit = g.summary.TotalDebit.Add(rec.Debit)
		g.summary.TotalCredit = g.summary.TotalCredit.Add(rec.Credit)
		g.summary.TotalFinal = g.summary.TotalFinal.Add(rec.FinalTotal)
		g.summary.Count++
		g.trucks.add(rec.Plate())
	}

	out := make([]AccountSummary, 0, len(groups))
	for _, g := range groups {
		g.summary.Trucks = g.trucks.sorted()
		out = append(out, g.summary)
	}

	slices.SortFunc(out, func(a, b AccountSummary) int {
		return cmp.Or(cmp.Compare(a.AccountType, b.AccountType), cmp.Compare(a.TruckType, b.TruckType))
	})

	return out, nil
}

// Trips summarizes each truck-day, newest first. An empty plate lists every
// truck.
func (s *Service) Trips(ctx context.Context, r Range, plate string) ([]TripSummary, error) {
	records, err := s.list(ctx, r, plate)
	if err != nil {
		return nil, err
	}

	records = where(records, func(r *ledger.Record) bool { return r.Plate() != "" })
	allocs := allocate(records)

	entries := make([]allocation.Entry, len(records))
	for i, rec := range records {
		entries[i] = rec.Entry()
	}

	shares := make([]allocation.Share, len(allocs))
	for i, a := range allocs {
		shares[i] = a.share
	}

	keys := allocation.Group(entries, shares)

	out := make([]TripSummary, 0)

	var routes set

	for i, a := range allocs {
		rec := a.record

		if i == 0 || keys[i] != keys[i-1] {
			if len(out) > 0 {
				out[len(out)-1].Routes = routes.sorted()
			}

			out = append(out, TripSummary{
				Date:        keys[i].Date,
				PlateNumber: rec.Plate(),
				FrontLoads:  []string{},
				BackLoads:   []string{},
			})
			routes = set{}
		}

		trip := &out[len(out)-1]
		trip.TripCount++
		trip.FrontAmount = trip.FrontAmount.Add(a.share.Front)
		trip.BackAmount = trip.BackAmount.Add(a.share.Back)
		trip.TotalAmount = trip.TotalAmount.Add(a.share.Amount)
		trip.Driver = cmp.Or(rec.Driver.NameOr(""), trip.Driver)
		routes.add(rec.Route.NameOr(""))

		if rec.FrontLoad != nil {
			trip.FrontLoads = append(trip.FrontLoads, rec.FrontLoad.Name)
		}

		if rec.BackLoad != nil {
			trip.BackLoads = append(trip.BackLoads, rec.BackLoad.Name)
		}
	}

	if len(out) > 0 {
		out[len(out)-1].Routes = routes.sorted()
	}

	slices.Reverse(out)

	return out, nil
}

// RevenueStreams splits Hauling Income into front and back load revenue and
// sums the expense side: driver's allowance, fuel and the operating expenses.
func (s *Service) RevenueStreams(ctx context.Context, r Range) (*RevenueReport, error) {
	records, err := s.list(ctx, r, "")
	if err != nil {
		return nil, err
	}

	res := &RevenueReport{OpexBreakdown: []OpexCategory{}}

	hauling := where(records, func(r *ledger.Record) bool {
		return r.Route != nil && isAccountType(r, ledger.HaulingIncome)
	})

	for _, a := range allocate(hauling) {
		res.Revenue.FrontLoadAmount = res.Revenue.FrontLoadAmount.Add(a.share.Front)
		res.Revenue.BackLoadAmount = res.Revenue.BackLoadAmount.Add(a.share.Back)
	}

	for _, rec := range records {
		switch {
		case isAccountType(rec, DriversAllowance):
			res.Expenses.Allowance = res.Expenses.Allowance.Add(rec.FinalTotal)
		case isAccountType(rec, FuelAndOil):
			res.Expenses.FuelAmount = res.Expenses.FuelAmount.Add(rec.FinalTotal)
		}
	}

	for _, name := range OpexAccountTypes {
		cat := opexCategory(name, where(records, func(r *ledger.Record) bool { return isAccountType(r, name) }))
		res.Expenses.TotalOpex = res.Expenses.TotalOpex.Add(cat.Amount)
		res.OpexBreakdown = append(res.OpexBreakdown, cat)
	}

	if total := res.Expenses.TotalOpex; total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range res.OpexBreakdown {
			res.OpexBreakdown[i].Percentage = res.OpexBreakdown[i].Amount.Div(total).Mul(hundred).Round(2)
		}
	}

	slices.SortStableFunc(res.OpexBreakdown, func(a, b OpexCategory) int {
		return b.Amount.Cmp(a.Amount)
	})

	return res, nil
}

func opexCategory(name string, records []*ledger.Record) OpexCategory {
	cat := OpexCategory{AccountType: name, AccountDetails: []AccountAmount{}}

	byAccount := make(map[string]decimal.Decimal)

	for _, rec := range records {
		number := cmp.Or(rec.AccountNumber, noAccountNumber)
		byAccount[number] = byAccount[number].Add(rec.FinalTotal)
		cat.Amount = cat.Amount.Add(rec.FinalTotal)
	}

	for number, amount := range byAccount {
		cat.AccountDetails = append(cat.AccountDetails, AccountAmount{AccountNumber: number, Amount: amount.Round(2)})
	}

	slices.SortFunc(cat.AccountDetails, func(a, b AccountAmount) int {
		return cmp.Or(b.Amount.Cmp(a.Amount), cmp.Compare(a.AccountNumber, b.AccountNumber))
	})

	return cat
}
