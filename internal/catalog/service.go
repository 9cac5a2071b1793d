package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog

type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	FindDriverByName(ctx context.Context, name string) (*Driver, error)
	FindRouteByName(ctx context.Context, name string) (*Route, error)
	CreateRoute(ctx context.Context, name string) (*Route, error)
	FindLoadTypeByName(ctx context.Context, name string) (*LoadType, error)
	FindTruckByPlate(ctx context.Context, plate string) (*Truck, error)
	ListAccountTypeNames(ctx context.Context) ([]string, error)
	FindOrCreateAccountType(ctx context.Context, name string) (*AccountType, error)
	FindOrCreateTruckType(ctx context.Context, name string) (*TruckType, error)
	// SaveTruck inserts t or, when its plate exists, updates type and company.
	SaveTruck(ctx context.Context, t *Truck) (created bool, err error)
	Seed(ctx context.Context, doc SeedDocument) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Lookup loads the whole catalog into a fresh Lookup.
func (s *Service) Lookup(ctx context.Context) (*Lookup, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	return NewLookup(*snap, s.repo), nil
}

func (s *Service) FindDriverByName(ctx context.Context, name string) (*Driver, error) {
	return s.repo.FindDriverByName(ctx, name)
}

func (s *Service) FindRouteByName(ctx context.Context, name string) (*Route, error) {
	return s.repo.FindRouteByName(ctx, name)
}

// EnsureRoute finds a route by name, creating it when absent.
func (s *Service) EnsureRoute(ctx context.Context, name string) (*Route, error) {
	r, err := s.repo.FindRouteByName(ctx, name)
	if err == nil {
		return r, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("finding route %q: %w", name, err)
	}

	r, err = s.repo.CreateRoute(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("creating route %q: %w", name, err)
	}

	return r, nil
}

func (s *Service) FindLoadTypeByName(ctx context.Context, name string) (*LoadType, error) {
	return s.repo.FindLoadTypeByName(ctx, name)
}

func (s *Service) FindTruckByPlate(ctx context.Context, plate string) (*Truck, error) {
	return s.repo.FindTruckByPlate(ctx, NormalizePlate(plate))
}

func (s *Service) ListAccountTypeNames(ctx context.Context) ([]string, error) {
	return s.repo.ListAccountTypeNames(ctx)
}

func (s *Service) FindOrCreateAccountType(ctx context.Context, name string) (*AccountType, error) {
	return s.repo.FindOrCreateAccountType(ctx, name)
}

func (s *Service) FindOrCreateTruckType(ctx context.Context, name string) (*TruckType, error) {
	return s.repo.FindOrCreateTruckType(ctx, name)
}

func (s *Service) SaveTruck(ctx context.Context, t *Truck) (bool, error) {
	t.PlateNumber = NormalizePlate(t.PlateNumber)
	if t.PlateNumber == "" {
		return false, fmt.Errorf("saving truck: empty plate number")
	}

	return s.repo.SaveTruck(ctx, t)
}

// Seed loads a YAML seed document and inserts the entities it names. It
// returns how many rows were created.
func (s *Service) Seed(ctx context.Context, r io.Reader) (int, error) {
	doc, err := LoadSeed(r)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.Seed(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("seeding catalog: %w", err)
	}

	return n, nil
}
