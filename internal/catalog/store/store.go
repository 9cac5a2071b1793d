package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

var _ catalog.Repository = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

const byName = "LOWER(name) = LOWER(?)"

func (s *Store) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	var snap catalog.Snapshot

	db := s.db.WithContext(ctx)

	loads := []struct {
		what string
		dest any
	}{
		{"drivers", &snap.Drivers},
		{"routes", &snap.Routes},
		{"load types", &snap.LoadTypes},
		{"truck types", &snap.TruckTypes},
		{"account types", &snap.AccountTypes},
	}

	for _, l := range loads {
		if err := db.Order("name").Find(l.dest).Error; err != nil {
			return nil, fmt.Errorf("listing %s: %w", l.what, err)
		}
	}

	if err := db.Preload("TruckType").Order("plate_number").Find(&snap.Trucks).Error; err != nil {
		return nil, fmt.Errorf("listing trucks: %w", err)
	}

	return &snap, nil
}

func first[T any](ctx context.Context, db *gorm.DB, query string, arg any) (*T, error) {
	var v T

	err := db.WithContext(ctx).Where(query, arg).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (s *Store) FindDriverByName(ctx context.Context, name string) (*catalog.Driver, error) {
	d, err := first[catalog.Driver](ctx, s.db, byName, name)
	if err != nil {
		return nil, fmt.Errorf("finding driver %q: %w", name, err)
	}

	return d, nil
}

func (s *Store) FindRouteByName(ctx context.Context, name string) (*catalog.Route, error) {
	r, err := first[catalog.Route](ctx, s.db, byName, name)
	if err != nil {
		return nil, fmt.Errorf("finding route %q: %w", name, err)
	}

	return r, nil
}

func (s *Store) CreateRoute(ctx context.Context, name string) (*catalog.Route, error) {
	r := catalog.Route{Name: name}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("creating route: %w", err)
	}

	return &r, nil
}

func (s *Store) FindLoadTypeByName(ctx context.Context, name string) (*catalog.LoadType, error) {
	lt, err := first[catalog.LoadType](ctx, s.db, byName, name)
	if err != nil {
		return nil, fmt.Errorf("finding load type %q: %w", name, err)
	}

	return lt, nil
}

func (s *Store) FindTruckByPlate(ctx context.Context, plate string) (*catalog.Truck, error) {
	var t catalog.Truck

	err := s.db.WithContext(ctx).
		Preload("TruckType").
		Where("UPPER(REPLACE(REPLACE(REPLACE(plate_number, ' ', ''), '-', ''), '_', '')) = ?", catalog.NormalizePlate(plate)).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("finding truck %q: %w", plate, catalog.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("finding truck %q: %w", plate, err)
	}

	return &t, nil
}

func (s *Store) ListAccountTypeNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&catalog.AccountType{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("listing account types: %w", err)
	}

	return names, nil
}

func (s *Store) FindOrCreateAccountType(ctx context.Context, name string) (*catalog.AccountType, error) {
	var at catalog.AccountType

	err := s.db.WithContext(ctx).
		Where(byName, name).
		Attrs(catalog.AccountType{Name: name}).
		FirstOrCreate(&at).Error
	if err != nil {
		return nil, fmt.Errorf("find or create account type %q: %w", name, err)
	}

	return &at, nil
}

func (s *Store) FindOrCreateTruckType(ctx context.Context, name string) (*catalog.TruckType, error) {
	var tt catalog.TruckType

	err := s.db.WithContext(ctx).
		Where(byName, name).
		Attrs(catalog.TruckType{Name: name}).
		FirstOrCreate(&tt).Error
	if err != nil {
		return nil, fmt.Errorf("find or create truck type %q: %w", name, err)
	}

	return &tt, nil
}

func (s *Store) SaveTruck(ctx context.Context, t *catalog.Truck) (bool, error) {
	var existing catalog.Truck

	err := s.db.WithContext(ctx).Where("plate_number = ?", t.PlateNumber).First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Omit("TruckType").Create(t).Error; err != nil {
			return false, fmt.Errorf("creating truck %q: %w", t.PlateNumber, err)
		}

		return true, nil
	case err != nil:
		return false, fmt.Errorf("finding truck %q: %w", t.PlateNumber, err)
	}

	updates := map[string]any{}
	if t.TruckTypeID != nil {
		updates["truck_type_id"] = *t.TruckTypeID
	}

	if t.Company != "" {
		updates["company"] = t.Company
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return false, fmt.Errorf("updating truck %q: %w", t.PlateNumber, err)
		}
	}

	t.ID = existing.ID

	return false, nil
}

// Seed inserts every entity in doc that is not present yet, in one transaction.
func (s *Store) Seed(ctx context.Context, doc catalog.SeedDocument) (int, error) {
	created := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ensure := func(model any, name string) error {
			res := tx.Where(byName, name).FirstOrCreate(model)
			if res.Error != nil {
				return fmt.Errorf("seeding %q: %w", name, res.Error)
			}

			created += int(res.RowsAffected)

			return nil
		}

		for _, n := range doc.Drivers {
			if err := ensure(&catalog.Driver{Name: n}, n); err != nil {
				return err
			}
		}

		for _, n := range doc.Routes {
			if err := ensure(&catalog.Route{Name: n}, n); err != nil {
				return err
			}
		}

		for _, n := range doc.LoadTypes {
			if err := ensure(&catalog.LoadType{Name: n}, n); err != nil {
				return err
			}
		}

		for _, n := range doc.TruckTypes {
			if err := ensure(&catalog.TruckType{Name: n}, n); err != nil {
				return err
			}
		}

		for _, n := range doc.AccountTypes {
			if err := ensure(&catalog.AccountType{Name: n}, n); err != nil {
				return err
			}
		}

		for _, st := range doc.Trucks {
			t := catalog.Truck{PlateNumber: st.Plate, Company: st.Company}

			if st.Type != "" {
				tt := catalog.TruckType{Name: st.Type}
				if err := ensure(&tt, st.Type); err != nil {
					return err
				}

				t.TruckTypeID = &tt.ID
			}

			res := tx.Omit("TruckType").Where("plate_number = ?", t.PlateNumber).FirstOrCreate(&t)
			if res.Error != nil {
				return fmt.Errorf("seeding truck %q: %w", t.PlateNumber, res.Error)
			}

			created += int(res.RowsAffected)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}
