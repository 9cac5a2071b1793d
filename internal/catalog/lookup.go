package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Lookup is an in-memory, read-through view of the catalog built once per
// import job. Matching is case-insensitive. Routes and account types missing
// from the view are created through the backing repository on demand.
//
// A Lookup is not safe for concurrent use.
type Lookup struct {
	repo Repository

	drivers      map[string]Driver
	routes       map[string]Route
	loads        map[string]LoadType
	truckTypes   map[string]TruckType
	accountTypes map[string]AccountType
	trucks       map[string]Truck

	driverNames []string
	routeNames  []string
	loadOrder   []LoadType
}

// NewLookup indexes snap. repo may be nil for read-only use, in which case
// EnsureRoute and EnsureAccountType fail for unknown names.
func NewLookup(snap Snapshot, repo Repository) *Lookup {
	l := &Lookup{
		repo:         repo,
		drivers:      make(map[string]Driver, len(snap.Drivers)),
		routes:       make(map[string]Route, len(snap.Routes)),
		loads:        make(map[string]LoadType, len(snap.LoadTypes)),
		truckTypes:   make(map[string]TruckType, len(snap.TruckTypes)),
		accountTypes: make(map[string]AccountType, len(snap.AccountTypes)),
		trucks:       make(map[string]Truck, len(snap.Trucks)),
	}

	for _, d := range snap.Drivers {
		l.drivers[fold(d.Name)] = d
		l.driverNames = append(l.driverNames, d.Name)
	}

	for _, r := range snap.Routes {
		l.addRoute(r)
	}

	for _, lt := range snap.LoadTypes {
		l.loads[fold(lt.Name)] = lt
		l.loadOrder = append(l.loadOrder, lt)
	}

	for _, tt := range snap.TruckTypes {
		l.truckTypes[fold(tt.Name)] = tt
	}

	for _, at := range snap.AccountTypes {
		l.accountTypes[fold(at.Name)] = at
	}

	for _, t := range snap.Trucks {
		if key := NormalizePlate(t.PlateNumber); key != "" {
			l.trucks[key] = t
		}
	}

	// Longest names first so "Roger Santos" wins over "Roger" in substring scans.
	byLength := func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	}
	slices.SortFunc(l.driverNames, byLength)
	slices.SortFunc(l.routeNames, byLength)
	slices.SortFunc(l.loadOrder, func(a, b LoadType) int { return byLength(a.Name, b.Name) })

	return l
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (l *Lookup) addRoute(r Route) {
	l.routes[fold(r.Name)] = r
	l.routeNames = append(l.routeNames, r.Name)
}

// Driver returns the canonical driver for name.
func (l *Lookup) Driver(name string) (Driver, bool) {
	d, ok := l.drivers[fold(name)]
	return d, ok
}

// DriverNames lists known drivers, longest first.
func (l *Lookup) DriverNames() []string {
	return l.driverNames
}

func (l *Lookup) Route(name string) (Route, bool) {
	r, ok := l.routes[fold(name)]
	return r, ok
}

// RouteNames lists known routes, longest first.
func (l *Lookup) RouteNames() []string {
	return l.routeNames
}

// LoadType matches value against the catalog: exact first, then by
// containment in either direction. Values shorter than two characters or made
// only of digits never match.
func (l *Lookup) LoadType(value string) (LoadType, bool) {
	v := fold(value)
	if len([]rune(v)) < 2 || allDigits(v) {
		return LoadType{}, false
	}

	if lt, ok := l.loads[v]; ok {
		return lt, true
	}

	for _, lt := range l.loadOrder {
		name := fold(lt.Name)
		if strings.Contains(v, name) || strings.Contains(name, v) {
			return lt, true
		}
	}

	return LoadType{}, false
}

// Strike returns the catalog's Strike load type, or an unsaved placeholder
// (ID 0) when the catalog has none.
func (l *Lookup) Strike() LoadType {
	if lt, ok := l.loads[fold(StrikeName)]; ok {
		return lt
	}

	return LoadType{Name: StrikeName}
}

func (l *Lookup) TruckType(name string) (TruckType, bool) {
	tt, ok := l.truckTypes[fold(name)]
	return tt, ok
}

func (l *Lookup) AccountType(name string) (AccountType, bool) {
	at, ok := l.accountTypes[fold(name)]
	return at, ok
}

// Truck finds a truck by plate in any spelling.
func (l *Lookup) Truck(plate string) (Truck, bool) {
	t, ok := l.trucks[NormalizePlate(plate)]
	return t, ok
}

// EnsureRoute returns the route named name, creating it when unknown.
func (l *Lookup) EnsureRoute(ctx context.Context, name string) (Route, error) {
	if r, ok := l.Route(name); ok {
		return r, nil
	}

	if l.repo == nil {
		return Route{}, fmt.Errorf("route %q: %w", name, ErrNotFound)
	}

	r, err := l.repo.FindRouteByName(ctx, name)
	switch {
	case err == nil:
		l.addRoute(*r)
		return *r, nil
	case !errors.Is(err, ErrNotFound):
		return Route{}, fmt.Errorf("finding route %q: %w", name, err)
	}

	r, err = l.repo.CreateRoute(ctx, strings.TrimSpace(name))
	if err != nil {
		return Route{}, fmt.Errorf("creating route %q: %w", name, err)
	}

	l.addRoute(*r)

	return *r, nil
}

// EnsureAccountType returns the account type named name, creating it when unknown.
func (l *Lookup) EnsureAccountType(ctx context.Context, name string) (AccountType, error) {
	if at, ok := l.AccountType(name); ok {
		return at, nil
	}

	if l.repo == nil {
		return AccountType{}, fmt.Errorf("account type %q: %w", name, ErrNotFound)
	}

	at, err := l.repo.FindOrCreateAccountType(ctx, strings.TrimSpace(name))
	if err != nil {
		return AccountType{}, fmt.Errorf("resolving account type %q: %w", name, err)
	}

	l.accountTypes[fold(at.Name)] = *at

	return *at, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return s != ""
}
