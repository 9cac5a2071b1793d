package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

// candidate is a parsed row before references are created and the dedup
// gate has been consulted.
type candidate struct {
	row Row

	accountNumber string
	accountType   *catalog.AccountType
	truckType     string
	truck         *catalog.Truck

	description string
	remarks     string
	reference   string
	date        time.Time

	debit      decimal.Decimal
	credit     decimal.Decimal
	finalTotal decimal.Decimal
	quantity   *decimal.Decimal
	price      *decimal.Decimal

	driver    *catalog.Driver
	routeName string
	frontLoad *catalog.LoadType
	backLoad  *catalog.LoadType

	extraction Extraction
}

func (c *candidate) hasDate() bool {
	return !c.date.IsZero()
}

// count adds the candidate's extracted attributes to stats.
func (c *candidate) count(stats *progress.ParsingStats) {
	if c.driver != nil {
		stats.DriversExtracted++
	}

	if c.routeName != "" {
		stats.RoutesExtracted++
	}

	if c.frontLoad != nil {
		stats.LoadsExtracted++
	}
}

// parser turns normalized rows into candidates against one catalog lookup.
type parser struct {
	sheet     *Sheet
	lookup    *catalog.Lookup
	extractor *Extractor
}

func newParser(s *Sheet, lookup *catalog.Lookup) *parser {
	return &parser{sheet: s, lookup: lookup, extractor: NewExtractor(lookup)}
}

// candidates parses every row not listed in exclude. Rows without an
// account number, and rows whose account type is not in the catalog, are
// left out.
func (p *parser) candidates(exclude []int) []candidate {
	skip := make(map[int]bool, len(exclude))
	for _, i := range exclude {
		skip[i] = true
	}

	var out []candidate

	for _, row := range p.sheet.Rows {
		if skip[row.Index] {
			continue
		}

		if c, ok := p.parse(row); ok {
			out = append(out, c)
		}
	}

	return out
}

func (p *parser) parse(row Row) (candidate, bool) {
	s := p.sheet
	c := candidate{row: row}

	desc := ParseDescriptor(s.Descriptor(row))

	c.accountNumber = strings.TrimSpace(firstNonEmpty(desc.AccountNumber, s.Value(row, FieldAccountNumber)))
	if c.accountNumber == "" {
		return c, false
	}

	if s.Has(FieldAccountType) {
		at, ok := p.lookup.AccountType(firstNonEmpty(desc.AccountType, s.Value(row, FieldAccountType)))
		if !ok {
			return c, false
		}

		c.accountType = &at
	}

	p.parseTruck(&c, desc)
	p.parseAmounts(&c)

	c.description = strings.TrimSpace(s.Value(row, FieldDescription))
	c.remarks = strings.TrimSpace(s.Value(row, FieldRemarks))
	c.reference = strings.TrimSpace(s.Value(row, FieldReference))

	if d, err := sheet.ParseDate(s.Value(row, FieldDate)); err == nil {
		c.date = d
	}

	p.parseTrip(&c)

	return c, true
}

// parseTruck keeps a plate only when it names a known truck, and then takes
// that truck's own type. Without a plate, a truck type alone must be known.
func (p *parser) parseTruck(c *candidate, desc Descriptor) {
	s := p.sheet

	plate := firstNonEmpty(desc.Plate, catalog.NormalizePlate(s.Value(c.row, FieldPlate)))
	if plate == "" && s.Has(FieldPlate) {
		for _, text := range s.PlateCandidates(c.row) {
			if plate = FindPlate(text); plate != "" {
				break
			}
		}
	}

	truckType := strings.TrimSpace(firstNonEmpty(desc.TruckType, s.Value(c.row, FieldTruckType)))

	switch {
	case plate != "":
		if t, ok := p.lookup.Truck(plate); ok {
			c.truck = &t
			c.truckType = t.TypeName()
		}
	case truckType != "":
		if tt, ok := p.lookup.TruckType(truckType); ok {
			c.truckType = tt.Name
		}
	}
}

func (p *parser) parseAmounts(c *candidate) {
	s := p.sheet

	if c.row.BeginningBalance {
		zero := decimal.Zero
		c.finalTotal = ledger.FinalTotal(zero, zero, &zero, "")
		return
	}

	c.debit = sheet.DecimalOrZero(s.Value(c.row, FieldDebit))
	c.credit = sheet.DecimalOrZero(s.Value(c.row, FieldCredit))

	var supplied *decimal.Decimal
	if d, err := sheet.ParseDecimal(s.Value(c.row, FieldFinalTotal)); err == nil {
		supplied = &d
	}

	var typeName string
	if c.accountType != nil {
		typeName = c.accountType.Name
	}

	c.finalTotal = ledger.FinalTotal(c.debit, c.credit, supplied, typeName)
	c.quantity = nonZero(s.Value(c.row, FieldQuantity))
	c.price = nonZero(s.Value(c.row, FieldPrice))
}

// parseTrip validates explicit driver, route and load columns, then lets
// whatever the remarks yield take precedence.
func (p *parser) parseTrip(c *candidate) {
	s := p.sheet

	if d, ok := p.lookup.Driver(s.Value(c.row, FieldDriver)); ok {
		c.driver = &d
	}

	c.routeName = strings.TrimSpace(s.Value(c.row, FieldRoute))
	if r, ok := p.lookup.Route(c.routeName); ok {
		c.routeName = r.Name
	}

	if lt, ok := p.lookup.LoadType(s.Value(c.row, FieldFrontLoad)); ok {
		c.frontLoad = &lt
	}

	if lt, ok := p.lookup.LoadType(s.Value(c.row, FieldBackLoad)); ok {
		c.backLoad = &lt
	}

	c.extraction = p.extractor.Extract(c.remarks)

	if c.extraction.Driver != nil {
		c.driver = c.extraction.Driver
	}

	if c.extraction.Route != nil {
		c.routeName = c.extraction.Route.Name
	}

	if c.extraction.FrontLoad != nil {
		c.frontLoad, c.backLoad = c.extraction.FrontLoad, c.extraction.BackLoad
	}
}

func nonZero(v string) *decimal.Decimal {
	d, err := sheet.ParseDecimal(v)
	if err != nil || d.IsZero() {
		return nil
	}

	return &d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
