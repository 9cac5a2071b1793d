package importer

import (
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

// ErrNoHeader is returned when a sheet has no row that can serve as a header.
var ErrNoHeader = errors.New("no header row found")

// Field is a canonical ledger column.
type Field string

const (
	FieldAccountNumber Field = "account_number"
	FieldAccountType   Field = "account_type"
	FieldTruckType     Field = "truck_type"
	FieldPlate         Field = "plate_number"
	FieldDescription   Field = "description"
	FieldDebit         Field = "debit"
	FieldCredit        Field = "credit"
	FieldFinalTotal    Field = "final_total"
	FieldRemarks       Field = "remarks"
	FieldReference     Field = "reference_number"
	FieldDate          Field = "date"
	FieldQuantity      Field = "quantity"
	FieldPrice         Field = "price"
	FieldDriver        Field = "driver"
	FieldRoute         Field = "route"
	FieldFrontLoad     Field = "front_load"
	FieldBackLoad      Field = "back_load"
)

// dropKeywords mark columns that never carry ledger data.
var dropKeywords = []string{
	"applied to invoice", "item code", "item type", "cost",
	"payment type", "customer", "supplier", "employee",
	"cash account", "check no", "check date", "location",
	"project", "balance",
}

// descriptionHints identify an unlabeled column holding descriptions.
var descriptionHints = []string{
	"beginning balance", "receive inventory", "inventory withdrawal", "funds", "transfer",
}

const (
	totalMarker            = "total for"
	beginningBalanceMarker = "beginning balance"
)

// mapping is one column rule. The first rule that matches a header wins.
type mapping struct {
	field Field
	match func(h header) bool
}

type header struct {
	name  string // lower-cased, trimmed
	sheet *Sheet
}

func (h header) has(words ...string) bool {
	for _, w := range words {
		if !strings.Contains(h.name, w) {
			return false
		}
	}

	return true
}

var mappings = []mapping{
	{FieldAccountNumber, func(h header) bool { return h.has("account", "number") }},
	{FieldAccountType, func(h header) bool { return h.has("account", "type") && !h.sheet.composite() }},
	{FieldTruckType, func(h header) bool { return h.has("truck", "type") && !h.sheet.composite() }},
	{FieldPlate, func(h header) bool { return h.has("plate") && !h.sheet.composite() }},
	{FieldDescription, func(h header) bool { return h.name == "type" }},
	{FieldDescription, func(h header) bool { return h.has("description") }},
	{FieldDebit, func(h header) bool { return h.has("debit") }},
	{FieldCredit, func(h header) bool { return h.has("credit") }},
	{FieldFinalTotal, func(h header) bool { return h.has("final") && (h.has("total") || h.has("tc")) }},
	{FieldRemarks, func(h header) bool { return h.has("remarks") }},
	{FieldReference, func(h header) bool { return h.has("rr no") }},
	{FieldReference, func(h header) bool { return h.has("reference no") || h.has("reference number") }},
	{FieldDate, func(h header) bool { return h.has("date") }},
	{FieldQuantity, func(h header) bool { return h.has("quantity") }},
	{FieldPrice, func(h header) bool { return h.has("price") }},
	{FieldDriver, func(h header) bool { return h.has("driver") }},
	{FieldRoute, func(h header) bool { return h.has("route") }},
	{FieldFrontLoad, func(h header) bool { return h.has("front", "load") }},
	{FieldBackLoad, func(h header) bool { return h.has("back", "load") }},
}

// Sheet is a ledger export after header discovery and column mapping.
type Sheet struct {
	Header []string
	Rows   []Row

	columns   map[Field]int
	account   int // composite account descriptor column, -1 if none
	plateScan []int
}

// Row is one data row. Index is stable across preview and import, so a
// caller can exclude rows by the index it was shown.
type Row struct {
	Index            int
	Cells            []string
	BeginningBalance bool
}

func (s *Sheet) composite() bool {
	return s.account >= 0
}

// Has reports whether field came from a sheet column or the account descriptor.
func (s *Sheet) Has(f Field) bool {
	if _, ok := s.columns[f]; ok {
		return true
	}

	switch f {
	case FieldAccountNumber, FieldAccountType, FieldTruckType, FieldPlate:
		return s.composite()
	}

	return false
}

// Value returns the raw cell mapped to f, or "".
func (s *Sheet) Value(r Row, f Field) string {
	col, ok := s.columns[f]
	if !ok || col >= len(r.Cells) {
		return ""
	}

	return r.Cells[col]
}

// Descriptor returns the row's composite account cell, or "".
func (s *Sheet) Descriptor(r Row) string {
	if !s.composite() || s.account >= len(r.Cells) {
		return ""
	}

	return r.Cells[s.account]
}

// PlateCandidates lists the row's cells in the order they are searched for a
// plate when the descriptor has none: remarks, descriptions and unlabeled
// columns first.
func (s *Sheet) PlateCandidates(r Row) []string {
	out := make([]string, 0, len(s.plateScan))
	for _, col := range s.plateScan {
		if col < len(r.Cells) {
			out = append(out, r.Cells[col])
		}
	}

	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isDescriptorColumn matches "Account" but not "Account Number"/"Account Type".
func isDescriptorColumn(name string) bool {
	return name == "account" || (strings.Contains(name, "account") && !strings.Contains(name, "number") && !strings.Contains(name, "type"))
}

// isTypeColumn matches the "Type" column of current exports, which holds the
// entry description.
func isTypeColumn(name string) bool {
	return strings.Contains(name, "type") && !strings.Contains(name, "account") && !strings.Contains(name, "item")
}

// looksLikeHeader is true for exports whose first row is already the header.
func looksLikeHeader(row []string) bool {
	var account, typ bool

	for _, c := range row {
		name := lower(c)
		account = account || strings.Contains(name, "account")
		typ = typ || isTypeColumn(name)
	}

	return account && typ
}

func containsFold(row []string, marker string) bool {
	for _, c := range row {
		if strings.Contains(strings.ToLower(c), marker) {
			return true
		}
	}

	return false
}

// Normalize finds the header row, drops subtotal and empty rows and maps
// columns onto ledger fields. Sheets whose first row is not a header are
// assumed to carry skipRows lines of preamble.
func Normalize(t sheet.Table, skipRows int) (*Sheet, error) {
	headerAt := 0
	if len(t) == 0 || !looksLikeHeader(t[0]) {
		headerAt = skipRows
	}

	if headerAt >= len(t) {
		return nil, ErrNoHeader
	}

	s := &Sheet{
		Header:  t[headerAt],
		columns: make(map[Field]int),
		account: -1,
	}

	names := make([]string, len(s.Header))
	for i, h := range s.Header {
		names[i] = lower(h)
	}

	for i, name := range names {
		if isDescriptorColumn(name) {
			s.account = i
			break
		}
	}

	for _, row := range t[headerAt+1:] {
		if sheet.IsEmptyRow(row) || containsFold(row, totalMarker) {
			continue
		}

		s.Rows = append(s.Rows, Row{
			Index:            len(s.Rows),
			Cells:            row,
			BeginningBalance: containsFold(row, beginningBalanceMarker),
		})
	}

	dropped := droppedColumns(names)
	s.mapColumns(names, dropped)
	s.mapUnlabeledDescription(names, dropped)
	s.buildPlateScan(names)

	return s, nil
}

func droppedColumns(names []string) map[int]bool {
	dropped := make(map[int]bool)

	hasType := false
	for _, name := range names {
		hasType = hasType || isTypeColumn(name)
	}

	for i, name := range names {
		for _, kw := range dropKeywords {
			if strings.Contains(name, kw) && !strings.Contains(name, "reference no") {
				dropped[i] = true
			}
		}

		if name == "qty" || name == "item" || (name == "description" && hasType) {
			dropped[i] = true
		}
	}

	return dropped
}

func (s *Sheet) mapColumns(names []string, dropped map[int]bool) {
	for i, name := range names {
		if dropped[i] || i == s.account || name == "" {
			continue
		}

		h := header{name: name, sheet: s}

		for _, m := range mappings {
			if !m.match(h) {
				continue
			}

			if _, taken := s.columns[m.field]; !taken {
				s.columns[m.field] = i
			}

			break
		}
	}
}

// mapUnlabeledDescription falls back to a blank-headed column whose first
// values look like ledger descriptions.
func (s *Sheet) mapUnlabeledDescription(names []string, dropped map[int]bool) {
	if _, ok := s.columns[FieldDescription]; ok {
		return
	}

	for i, name := range names {
		if name != "" || dropped[i] || i == s.account {
			continue
		}

		sampled := 0

		for _, r := range s.Rows {
			if i >= len(r.Cells) || strings.TrimSpace(r.Cells[i]) == "" {
				continue
			}

			if hintsDescription(r.Cells[i]) {
				s.columns[FieldDescription] = i
				return
			}

			if sampled++; sampled == 10 {
				break
			}
		}
	}
}

func hintsDescription(v string) bool {
	v = strings.ToLower(v)
	for _, hint := range descriptionHints {
		if strings.Contains(v, hint) {
			return true
		}
	}

	return false
}

func (s *Sheet) buildPlateScan(names []string) {
	skip := map[int]bool{s.account: true}
	for _, f := range []Field{FieldAccountNumber, FieldAccountType, FieldTruckType, FieldPlate} {
		if col, ok := s.columns[f]; ok {
			skip[col] = true
		}
	}

	var priority, other []int

	for i, name := range names {
		switch {
		case skip[i]:
		case name == "" || strings.Contains(name, "remark") || strings.Contains(name, "description"):
			priority = append(priority, i)
		default:
			other = append(other, i)
		}
	}

	s.plateScan = append(priority, other...)
}
