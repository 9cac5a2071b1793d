package importer

import (
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

// Extraction is what the remarks of one row yielded. Unset fields were not
// found or did not validate against the catalog. The *Rule fields name the
// strategy that produced each value.
type Extraction struct {
	Driver    *catalog.Driver
	Route     *catalog.Route
	FrontLoad *catalog.LoadType
	BackLoad  *catalog.LoadType

	DriverRule string
	RouteRule  string
	LoadRule   string
}

type driverStrategy struct {
	name string
	find func(x *Extractor, remarks string) (catalog.Driver, bool)
}

type routeStrategy struct {
	name string
	find func(x *Extractor, remarks string) (catalog.Route, bool)
}

type loadStrategy struct {
	name    string
	pattern *regexp.Regexp
	// rejectRoutes discards pairs that contain route fragments.
	rejectRoutes bool
}

// Strategies run in order; the first validated match wins.
var (
	driverStrategies = []driverStrategy{
		{"known name", knownDriver},
		{"driver pair", pairedDriver},
		{"fuel slip", fuelSlipDriver},
		{"name label", labelledDriver},
	}

	routeStrategies = []routeStrategy{
		{"route label", labelledRoute},
		{"colon context", contextRoute},
		{"bare mention", mentionedRoute},
	}

	loadStrategies = []loadStrategy{
		{name: "pair label", pattern: regexp.MustCompile(`:\s*([A-Za-z\s]+)/([A-Za-z\s]+):`)},
		{name: "trailing pair", pattern: regexp.MustCompile(`:\s*([A-Za-z\s]+)/([A-Za-z\s]+)\s*$`)},
		{name: "pair before note", pattern: regexp.MustCompile(
			`(?i):\s*([A-Za-z\s]+)/([A-Za-z\s]+?)(?:\s+(?:deliver|para|sa|to|ug|\+|:|\d|DUMINGAG|DIMATALING|PAG-|$))`)},
		{name: "bare pair", pattern: regexp.MustCompile(`\b([A-Za-z\s]{3,})/([A-Za-z\s]{3,})\b`), rejectRoutes: true},
	}
)

var (
	driverPairPattern = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)/([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*):`)
	fuelSlipPattern   = regexp.MustCompile(`LRO:\s*\d+Liters\s+Fuel\s+and\s+Oil\s+(?:[A-Z]+-\d+\s+)?([A-Za-z\s]+?)(?::|;)`)
	nameLabelPattern  = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+):`)
	routeContext      = regexp.MustCompile(`(?i):\s*([A-Z0-9]+(?:-[A-Z0-9]+)+|[A-Z\s]+?)\s*:`)
	lowerLetter       = regexp.MustCompile(`[a-z]`)

	routeFragments = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bPAG-[A-Z]+\b`),
		regexp.MustCompile(`(?i)\bDUMINGAG\b`),
		regexp.MustCompile(`(?i)\bDIMATALING\b`),
		regexp.MustCompile(`(?i)\bCDO\b`),
		regexp.MustCompile(`(?i)\bILIGAN\b`),
		regexp.MustCompile(`(?i)\bOPEX\b`),
		regexp.MustCompile(`(?i)\bPAGADIAN\b`),
	}
	fillerWords     = regexp.MustCompile(`(?i)\b(?:deliver|para|sa|to|ug|ni|mao)\b`)
	trailingPunct   = regexp.MustCompile(`[:.,;]+$`)
	trailingAddOn   = regexp.MustCompile(`\s+\+\d+.*$`)
	trailingNumber  = regexp.MustCompile(`\s+\d+.*$`)
	repeatedSpace   = regexp.MustCompile(`\s+`)
	routeIndicators = []string{"PAG-", "CDO", "ILIGAN", "OPEX", "PAGADIAN", "DUMINGAG", "DIMATALING"}

	nonDriverRouteWords = []string{"PAG-", "CDO", "ILIGAN", "STRIKE"}
	nonDriverWords      = []string{"lro", "liters", "fuel", "oil", "deliver", "transfer"}
	fuelSlipWords       = []string{"lro", "liters", "fuel", "oil"}
)

type routePatterns struct {
	route   catalog.Route
	labeled *regexp.Regexp
	word    *regexp.Regexp
}

// Extractor mines remarks for driver, route and load pair. Every candidate is
// validated against the lookup; nothing is created.
type Extractor struct {
	lookup *catalog.Lookup
	routes []routePatterns
}

func NewExtractor(lookup *catalog.Lookup) *Extractor {
	x := &Extractor{lookup: lookup}

	for _, name := range lookup.RouteNames() {
		r, _ := lookup.Route(name)
		quoted := regexp.QuoteMeta(name)

		x.routes = append(x.routes, routePatterns{
			route:   r,
			labeled: regexp.MustCompile(`(?i)` + quoted + `\s*:`),
			word:    regexp.MustCompile(`(?i)\b` + quoted + `\b`),
		})
	}

	return x
}

// Extract runs every strategy family over remarks. Loads are only looked for
// once both a driver and a route were found, so part lists such as
// "Fan Belt/Grease" on maintenance entries are not read as cargo.
func (x *Extractor) Extract(remarks string) Extraction {
	var out Extraction

	if strings.TrimSpace(remarks) == "" {
		return out
	}

	for _, s := range driverStrategies {
		if d, ok := s.find(x, remarks); ok {
			out.Driver, out.DriverRule = &d, s.name
			break
		}
	}

	for _, s := range routeStrategies {
		if r, ok := s.find(x, remarks); ok {
			out.Route, out.RouteRule = &r, s.name
			break
		}
	}

	if out.Driver == nil || out.Route == nil {
		return out
	}

	for _, s := range loadStrategies {
		if front, back, ok := x.matchLoads(s, remarks); ok {
			out.FrontLoad, out.BackLoad, out.LoadRule = &front, &back, s.name
			break
		}
	}

	return out
}

func (x *Extractor) matchLoads(s loadStrategy, remarks string) (catalog.LoadType, catalog.LoadType, bool) {
	m := s.pattern.FindStringSubmatch(remarks)
	if m == nil {
		return catalog.LoadType{}, catalog.LoadType{}, false
	}

	f, b := cleanLoad(m[1]), cleanLoad(m[2])

	if s.rejectRoutes && (hasRouteIndicator(f) || hasRouteIndicator(b)) {
		return catalog.LoadType{}, catalog.LoadType{}, false
	}

	return x.pairLoads(f, b)
}

// pairLoads validates both sides. When only one side names a known load type
// the other side becomes Strike.
func (x *Extractor) pairLoads(f, b string) (catalog.LoadType, catalog.LoadType, bool) {
	front, frontOK := x.loadType(f)
	back, backOK := x.loadType(b)

	switch {
	case frontOK && backOK:
		return front, back, true
	case frontOK:
		return front, x.lookup.Strike(), true
	case backOK:
		return x.lookup.Strike(), back, true
	}

	return catalog.LoadType{}, catalog.LoadType{}, false
}

func (x *Extractor) loadType(v string) (catalog.LoadType, bool) {
	if v == "" {
		return catalog.LoadType{}, false
	}

	return x.lookup.LoadType(v)
}

func knownDriver(x *Extractor, remarks string) (catalog.Driver, bool) {
	for _, name := range x.lookup.DriverNames() {
		if strings.Contains(remarks, name) {
			return x.lookup.Driver(name)
		}
	}

	return catalog.Driver{}, false
}

// pairedDriver handles two drivers sharing a trip, "Name One/Name Two:". Both
// must be known; the first is recorded.
func pairedDriver(x *Extractor, remarks string) (catalog.Driver, bool) {
	m := driverPairPattern.FindStringSubmatch(remarks)
	if m == nil {
		return catalog.Driver{}, false
	}

	first, ok := x.lookup.Driver(m[1])
	if !ok {
		return catalog.Driver{}, false
	}

	if _, ok := x.lookup.Driver(m[2]); !ok {
		return catalog.Driver{}, false
	}

	return first, true
}

// fuelSlipDriver reads "LRO: 140Liters Fuel and Oil <Driver>:" entries.
func fuelSlipDriver(x *Extractor, remarks string) (catalog.Driver, bool) {
	m := fuelSlipPattern.FindStringSubmatch(remarks)
	if m == nil {
		return catalog.Driver{}, false
	}

	name := strings.TrimSpace(m[1])
	if len(name) <= 2 || containsAny(strings.ToLower(name), fuelSlipWords) {
		return catalog.Driver{}, false
	}

	return x.lookup.Driver(name)
}

func labelledDriver(x *Extractor, remarks string) (catalog.Driver, bool) {
	for _, m := range nameLabelPattern.FindAllStringSubmatch(remarks, -1) {
		name := strings.TrimSpace(m[1])

		if containsAny(strings.ToUpper(name), nonDriverRouteWords) || containsAny(strings.ToLower(name), nonDriverWords) {
			continue
		}

		if d, ok := x.lookup.Driver(name); ok {
			return d, true
		}
	}

	return catalog.Driver{}, false
}

func labelledRoute(x *Extractor, remarks string) (catalog.Route, bool) {
	for _, p := range x.routes {
		if p.labeled.MatchString(remarks) {
			return p.route, true
		}
	}

	return catalog.Route{}, false
}

// contextRoute reads ": TOKEN:" segments, skipping ones that look like a
// person's name.
func contextRoute(x *Extractor, remarks string) (catalog.Route, bool) {
	for _, m := range routeContext.FindAllStringSubmatch(remarks, -1) {
		token := strings.TrimSpace(m[1])

		if lowerLetter.MatchString(token) && len(strings.Fields(token)) > 1 {
			continue
		}

		if r, ok := x.lookup.Route(token); ok {
			return r, true
		}
	}

	return catalog.Route{}, false
}

func mentionedRoute(x *Extractor, remarks string) (catalog.Route, bool) {
	for _, p := range x.routes {
		if p.word.MatchString(remarks) {
			return p.route, true
		}
	}

	return catalog.Route{}, false
}

// cleanLoad strips route names, delivery filler and trailing quantities from
// one side of a load pair.
func cleanLoad(s string) string {
	s = strings.TrimSpace(s)

	for _, re := range routeFragments {
		s = re.ReplaceAllString(s, "")
	}

	s = fillerWords.ReplaceAllString(s, "")
	s = trailingPunct.ReplaceAllString(s, "")
	s = trailingAddOn.ReplaceAllString(s, "")
	s = trailingNumber.ReplaceAllString(s, "")

	return strings.TrimSpace(repeatedSpace.ReplaceAllString(s, " "))
}

func hasRouteIndicator(s string) bool {
	return containsAny(strings.ToUpper(s), routeIndicators)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}
