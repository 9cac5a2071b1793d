package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger

type Repository interface {
	ExistingKeys(ctx context.Context) (map[Key]struct{}, error)
	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
	InsertOne(ctx context.Context, r *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, error)
	// Update and Delete refuse locked rows atomically and report them with a *LockedError.
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	Lock(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error)
	Clear(ctx context.Context) (int, error)
	SetTripField(ctx context.Context, plate string, date time.Time, field TripField, refID int64) (int, error)
}

// ImportTx is one chunk of an import: a short-lived transaction that either
// stores every record it is given or none of them.
type ImportTx interface {
	BulkInsert(ctx context.Context, records []*Record) (int, error)
	Commit() error
	Rollback() error
}

// References resolves the catalog entities a trip correction can point at.
type References interface {
	FindDriverByName(ctx context.Context, name string) (*catalog.Driver, error)
	EnsureRoute(ctx context.Context, name string) (*catalog.Route, error)
	FindLoadTypeByName(ctx context.Context, name string) (*catalog.LoadType, error)
}

type Service struct {
	repo Repository
	refs References
	now  func() time.Time
}

func NewService(repo Repository, refs References) *Service {
	return &Service{repo: repo, refs: refs, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Record, error) {
	return s.repo.List(ctx, filter)
}

func validate(r *Record) error {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return fmt.Errorf("%w: account number is required", ErrInvalid)
	}

	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}

	return nil
}

// normalizeTotal keeps the record's final total, zero included, and applies
// the account type rules to it. Callers that want it derived call
// Record.DeriveTotal first.
func normalizeTotal(r *Record) {
	r.FinalTotal = FinalTotal(r.Debit, r.Credit, &r.FinalTotal, r.AccountType.NameOr(""))
}

// Create stores a record entered directly rather than imported.
func (s *Service) Create(ctx context.Context, r *Record) error {
	if err := validate(r); err != nil {
		return err
	}

	r.AccountNumber = NormalizeAccountNumber(r.AccountNumber)
	normalizeTotal(r)

	if err := s.repo.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("creating record: %w", err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, r *Record) error {
	if err := validate(r); err != nil {
		return err
	}

	normalizeTotal(r)

	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// LockResult reports a lock operation.
type LockResult struct {
	LockedCount int       `json:"locked_count"`
	LockedAt    time.Time `json:"locked_at"`
	Message     string    `json:"message"`
}

// Lock freezes the unlocked records among ids, or every unlocked record when
// ids is empty.
func (s *Service) Lock(ctx context.Context, ids []uuid.UUID) (*LockResult, error) {
	at := s.now().UTC()

	n, err := s.repo.Lock(ctx, ids, at)
	if err != nil {
		return nil, fmt.Errorf("locking records: %w", err)
	}

	res := &LockResult{LockedCount: n, LockedAt: at}
	if n == 0 {
		res.Message = "No unlocked records found."
	} else {
		res.Message = fmt.Sprintf("Locked %d record(s).", n)
	}

	return res, nil
}

// Clear deletes every record. It refuses while any record is locked.
func (s *Service) Clear(ctx context.Context) (int, error) {
	return s.repo.Clear(ctx)
}

// UpdateTripField corrects one attribute on every record of a trip (a plate
// on a date). Routes are created on demand; drivers and load types must
// already exist.
func (s *Service) UpdateTripField(ctx context.Context, plate string, date time.Time, field TripField, value string) (int, error) {
	if !field.Valid() {
		return 0, fmt.Errorf("%w: unknown trip field %q", ErrInvalid, field)
	}

	plate = catalog.NormalizePlate(plate)
	value = strings.TrimSpace(value)

	if plate == "" || value == "" || date.IsZero() {
		return 0, fmt.Errorf("%w: plate, date and value are required", ErrInvalid)
	}

	refID, err := s.resolve(ctx, field, value)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.SetTripField(ctx, plate, date, field, refID)
	if err != nil {
		return 0, fmt.Errorf("updating trip %s on %s: %w", plate, date.Format(time.DateOnly), err)
	}

	return n, nil
}

func (s *Service) resolve(ctx context.Context, field TripField, value string) (int64, error) {
	var (
		id  int64
		err error
	)

	switch field {
	case TripFieldRoute:
		var r *catalog.Route
		if r, err = s.refs.EnsureRoute(ctx, value); err == nil {
			id = r.ID
		}
	case TripFieldDriver:
		var d *catalog.Driver
		if d, err = s.refs.FindDriverByName(ctx, value); err == nil {
			id = d.ID
		}
	case TripFieldFrontLoad, TripFieldBackLoad:
		var lt *catalog.LoadType
		if lt, err = s.refs.FindLoadTypeByName(ctx, value); err == nil {
			id = lt.ID
		}
	}

	if errors.Is(err, catalog.ErrNotFound) {
		return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalid, field, value)
	}

	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", field, err)
	}

	return id, nil
}
