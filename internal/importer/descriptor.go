package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

// Descriptor is the decomposed "Account" cell, e.g.
// "1234 - Fuel and Oil - Trailer NGS-4359".
type Descriptor struct {
	AccountNumber string
	AccountType   string
	TruckType     string
	Plate         string
}

const descriptorSeparator = " - "

var truckTypeKeywords = []string{"Trailer", "Forward", "10-Wheeler"}

var (
	leadingDigits = regexp.MustCompile(`^(\d+)`)

	// Plates are searched in upper-cased text, most specific pattern first.
	platePrefixed  = regexp.MustCompile(`([A-Z]{2,4}[\s\-]*\d{3,6})`)
	plateNumeric   = regexp.MustCompile(`(\d{3,4}[\s\-]*\d{3,9})`)
	plateSeparated = regexp.MustCompile(`(\d{3,4}[\s\-]+\d{3,9})`)
	plateLoose     = regexp.MustCompile(`([A-Z0-9]{4,12})`)
)

// ParseDescriptor splits an account descriptor on " - ". The account number
// is kept only when purely numeric. The plate is searched in the whole value,
// not only in the split parts.
func ParseDescriptor(s string) Descriptor {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(strings.ToLower(s), totalMarker) {
		return Descriptor{}
	}

	parts := strings.Split(s, descriptorSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 {
		if m := leadingDigits.FindString(s); m != "" {
			return Descriptor{AccountNumber: m}
		}

		return Descriptor{}
	}

	var d Descriptor

	if isDigits(parts[0]) {
		d.AccountNumber = parts[0]
	}

	d.AccountType = parts[1]
	d.TruckType = findTruckType(parts[2:])
	d.Plate = scanPlate(strings.ToUpper(s))

	return d
}

func findTruckType(parts []string) string {
	for _, part := range parts {
		lowered := strings.ToLower(part)
		for _, kw := range truckTypeKeywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return kw
			}
		}
	}

	return ""
}

func scanPlate(upper string) string {
	if m := platePrefixed.FindString(upper); m != "" {
		return catalog.NormalizePlate(m)
	}

	if m := plateNumeric.FindString(upper); m != "" {
		return catalog.NormalizePlate(m)
	}

	if m := plateLoose.FindString(upper); m != "" && countDigits(m) >= 3 {
		return m
	}

	return ""
}

// FindPlate looks for a plate in free text. It is stricter than the
// descriptor scan: digit-only plates need a separator, and for the looser
// patterns the last match wins since plates tend to trail remarks.
func FindPlate(text string) string {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return ""
	}

	if m := platePrefixed.FindString(upper); m != "" {
		return catalog.NormalizePlate(m)
	}

	if all := plateSeparated.FindAllString(upper, -1); len(all) > 0 {
		return catalog.NormalizePlate(all[len(all)-1])
	}

	var last string

	for _, m := range plateLoose.FindAllString(upper, -1) {
		if countDigits(m) >= 3 {
			last = m
		}
	}

	return last
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}

	return n
}
