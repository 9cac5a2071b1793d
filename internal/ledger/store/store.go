package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/haulage/internal/ledger"
)

var _ ledger.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRecordColumns = `
	r.id, r.seq, r.account_number,
	r.account_type_id, at.name,
	r.truck_id, t.plate_number, tt.name, t.company,
	r.description, r.debit, r.credit, r.final_total, r.remarks, r.reference_number, r.date,
	r.quantity, r.price,
	r.driver_id, d.name, r.route_id, ro.name,
	r.front_load_id, fl.name, r.back_load_id, bl.name,
	r.is_locked, r.locked_at, r.created_at, r.updated_at
`

const fromRecords = `
	FROM ledger_records r
	LEFT JOIN account_types at ON at.id = r.account_type_id
	LEFT JOIN trucks t ON t.id = r.truck_id
	LEFT JOIN truck_types tt ON tt.id = t.truck_type_id
	LEFT JOIN drivers d ON d.id = r.driver_id
	LEFT JOIN routes ro ON ro.id = r.route_id
	LEFT JOIN load_types fl ON fl.id = r.front_load_id
	LEFT JOIN load_types bl ON bl.id = r.back_load_id
`

func ref(id sql.NullInt64, name sql.NullString) *ledger.Ref {
	if !id.Valid {
		return nil
	}

	return &ledger.Ref{ID: id.Int64, Name: name.String}
}

func refID(r *ledger.Ref) *int64 {
	if r == nil || r.ID == 0 {
		return nil
	}

	return &r.ID
}

func nullDecimal(d sql.Null[decimal.Decimal]) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.V
}

// scanRecord expects the column order of selectRecordColumns.
func scanRecord(s scanner) (*ledger.Record, error) {
	var (
		r ledger.Record

		accountTypeID, truckID, driverID, routeID, frontID, backID sql.NullInt64
		accountType, plate, truckType, company                    sql.NullString
		driver, route, front, back, reference                     sql.NullString
		quantity, price                                           sql.Null[decimal.Decimal]
	)

	if err := s.Scan(
		&r.ID, &r.Seq, &r.AccountNumber,
		&accountTypeID, &accountType,
		&truckID, &plate, &truckType, &company,
		&r.Description, &r.Debit, &r.Credit, &r.FinalTotal, &r.Remarks, &reference, &r.Date,
		&quantity, &price,
		&driverID, &driver, &routeID, &route,
		&frontID, &front, &backID, &back,
		&r.Locked, &r.LockedAt, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.AccountType = ref(accountTypeID, accountType)
	r.Driver = ref(driverID, driver)
	r.Route = ref(routeID, route)
	r.FrontLoad = ref(frontID, front)
	r.BackLoad = ref(backID, back)
	r.Quantity = nullDecimal(quantity)
	r.Price = nullDecimal(price)

	if reference.Valid {
		r.ReferenceNumber = &reference.String
	}

	if truckID.Valid {
		r.Truck = &ledger.TruckRef{
			ID:          truckID.Int64,
			PlateNumber: plate.String,
			Type:        truckType.String,
			Company:     company.String,
		}
	}

	return &r, nil
}

func (s *Store) ExistingKeys(ctx context.Context) (map[ledger.Key]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_number, COALESCE(account_type_id, 0), date FROM ledger_records`)
	if err != nil {
		return nil, fmt.Errorf("loading existing keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[ledger.Key]struct{})

	for rows.Next() {
		var (
			number string
			typeID int64
			date   time.Time
		)

		if err := rows.Scan(&number, &typeID, &date); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}

		keys[ledger.NewKey(number, typeID, date)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}

	return keys, nil
}

const insertColumns = `id, account_number, account_type_id, truck_id, description, debit, credit, final_total,
	remarks, reference_number, date, quantity, price, driver_id, route_id, front_load_id, back_load_id`

const insertColumnCount = 17

func insertArgs(r *ledger.Record) []any {
	var truckID *int64
	if r.Truck != nil && r.Truck.ID != 0 {
		truckID = &r.Truck.ID
	}

	return []any{
		r.ID, r.AccountNumber, refID(r.AccountType), truckID, r.Description,
		r.Debit, r.Credit, r.FinalTotal, r.Remarks, r.ReferenceNumber, r.Date,
		r.Quantity, r.Price, refID(r.Driver), refID(r.Route), refID(r.FrontLoad), refID(r.BackLoad),
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func insert(ctx context.Context, q execer, records []*ledger.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var (
		sb   strings.Builder
		args = make([]any, 0, len(records)*insertColumnCount)
		byID = make(map[uuid.UUID]*ledger.Record, len(records))
	)

	sb.WriteString("INSERT INTO ledger_records (" + insertColumns + ") VALUES ")

	for i, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}

		byID[r.ID] = r

		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteByte('(')

		for c := range insertColumnCount {
			if c > 0 {
				sb.WriteString(", ")
			}

			fmt.Fprintf(&sb, "$%d", i*insertColumnCount+c+1)
		}

		sb.WriteByte(')')

		args = append(args, insertArgs(r)...)
	}

	sb.WriteString(" RETURNING id, seq, created_at, updated_at")

	rows, err := q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("inserting records: %w", conflict(err))
	}
	defer rows.Close()

	n := 0

	for rows.Next() {
		var (
			id                   uuid.UUID
			seq                  int64
			createdAt, updatedAt time.Time
		)

		if err := rows.Scan(&id, &seq, &createdAt, &updatedAt); err != nil {
			return n, fmt.Errorf("scanning inserted record: %w", err)
		}

		if r, ok := byID[id]; ok {
			r.Seq, r.CreatedAt, r.UpdatedAt = seq, createdAt, updatedAt
		}

		n++
	}

	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("inserting records: %w", conflict(err))
	}

	return n, nil
}

// Integrity constraint violations that a single record can cause.
var conflictCodes = map[string]bool{
	"23502": true, // not_null_violation
	"23503": true, // foreign_key_violation
	"23505": true, // unique_violation
	"23514": true, // check_violation
}

// conflict marks constraint violations as ledger.ErrConflict so callers can
// tell a bad record from an unavailable database.
func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && conflictCodes[pgErr.Code] {
		return fmt.Errorf("%w: %s", ledger.ErrConflict, pgErr.Message)
	}

	return err
}

func (s *Store) InsertOne(ctx context.Context, r *ledger.Record) error {
	if _, err := insert(ctx, s.db, []*ledger.Record{r}); err != nil {
		return err
	}

	return nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("ledger-import"))
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a chunk transaction holding an advisory lock for the
// chunk's date range, so overlapping chunks from concurrent jobs serialize.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (ledger.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) BulkInsert(ctx context.Context, records []*ledger.Record) (int, error) {
	return insert(ctx, itx.tx, records)
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*ledger.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords + ` WHERE r.id = $1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return r, nil
}

func (s *Store) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords + ` WHERE TRUE`

	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.StartDate != nil {
		add("r.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("r.date <= $%d", *filter.EndDate)
	}

	if filter.Plate != "" {
		add(plateExpr+" = $%d", filter.Plate)
	}

	if len(filter.IDs) > 0 {
		add("r.id = ANY($%d::uuid[])", uuidStrings(filter.IDs))
	}

	if filter.Locked != nil {
		add("r.is_locked = $%d", *filter.Locked)
	}

	query += " ORDER BY r.date ASC, t.plate_number ASC NULLS FIRST, r.seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*ledger.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// plateExpr normalizes a stored plate the same way catalog.NormalizePlate does.
const plateExpr = `UPPER(REPLACE(REPLACE(REPLACE(t.plate_number, ' ', ''), '-', ''), '_', ''))`

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

// explainMiss turns a zero-row guarded write into ErrNotFound or a LockedError.
func explainMiss(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id uuid.UUID) error {
	var locked bool

	err := q.QueryRowContext(ctx, `SELECT is_locked FROM ledger_records WHERE id = $1`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("checking record: %w", err)
	}

	if locked {
		return &ledger.LockedError{IDs: []uuid.UUID{id}}
	}

	return ledger.ErrNotFound
}

func (s *Store) Update(ctx context.Context, r *ledger.Record) error {
	var truckID *int64
	if r.Truck != nil && r.Truck.ID != 0 {
		truckID = &r.Truck.ID
	}

	query := `
		UPDATE ledger_records
		SET account_number = $1, account_type_id = $2, truck_id = $3, description = $4,
			debit = $5, credit = $6, final_total = $7, remarks = $8, reference_number = $9, date = $10,
			quantity = $11, price = $12, driver_id = $13, route_id = $14, front_load_id = $15, back_load_id = $16,
			updated_at = NOW()
		WHERE id = $17 AND NOT is_locked
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.AccountNumber, refID(r.AccountType), truckID, r.Description,
		r.Debit, r.Credit, r.FinalTotal, r.Remarks, r.ReferenceNumber, r.Date,
		r.Quantity, r.Price, refID(r.Driver), refID(r.Route), refID(r.FrontLoad), refID(r.BackLoad),
		r.ID,
	).Scan(&r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return explainMiss(ctx, s.db, r.ID)
	}

	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_records WHERE id = $1 AND NOT is_locked`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	if n == 0 {
		return explainMiss(ctx, s.db, id)
	}

	return nil
}

func (s *Store) Lock(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error) {
	query := `UPDATE ledger_records SET is_locked = TRUE, locked_at = $1, updated_at = NOW() WHERE NOT is_locked`
	args := []any{at}

	if len(ids) > 0 {
		query += ` AND id = ANY($2::uuid[])`
		args = append(args, uuidStrings(ids))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("locking records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("locking records: %w", err)
	}

	return int(n), nil
}

// lockedIDLimit bounds how many ids a LockedError carries.
const lockedIDLimit = 50

func lockedIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning clear tx: %w", err)
	}
	defer tx.Rollback()

	// Blocks concurrent locks and inserts until the delete commits.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE ledger_records IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("locking ledger table: %w", err)
	}

	locked, err := lockedIDs(ctx, tx, fmt.Sprintf(`SELECT id FROM ledger_records WHERE is_locked ORDER BY seq LIMIT %d`, lockedIDLimit))
	if err != nil {
		return 0, fmt.Errorf("finding locked records: %w", err)
	}

	if len(locked) > 0 {
		return 0, &ledger.LockedError{IDs: locked}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM ledger_records`)
	if err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing clear: %w", err)
	}

	return int(n), nil
}

var tripColumns = map[ledger.TripField]string{
	ledger.TripFieldRoute:     "route_id",
	ledger.TripFieldDriver:    "driver_id",
	ledger.TripFieldFrontLoad: "front_load_id",
	ledger.TripFieldBackLoad:  "back_load_id",
}

func (s *Store) SetTripField(ctx context.Context, plate string, date time.Time, field ledger.TripField, refID int64) (int, error) {
	column, ok := tripColumns[field]
	if !ok {
		return 0, fmt.Errorf("%w: unknown trip field %q", ledger.ErrInvalid, field)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning trip tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT r.id, r.is_locked
		FROM ledger_records r
		JOIN trucks t ON t.id = r.truck_id
		WHERE `+plateExpr+` = $1 AND r.date = $2
		ORDER BY r.seq
		FOR UPDATE OF r`, plate, date)
	if err != nil {
		return 0, fmt.Errorf("finding trip records: %w", err)
	}

	var ids, locked []uuid.UUID

	for rows.Next() {
		var (
			id       uuid.UUID
			isLocked bool
		)

		if err := rows.Scan(&id, &isLocked); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning trip record: %w", err)
		}

		ids = append(ids, id)
		if isLocked {
			locked = append(locked, id)
		}
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating trip records: %w", err)
	}

	if len(ids) == 0 {
		return 0, ledger.ErrNotFound
	}

	if len(locked) > 0 {
		return 0, &ledger.LockedError{IDs: locked}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE ledger_records SET `+column+` = $1, updated_at = NOW() WHERE id = ANY($2::uuid[])`,
		refID, uuidStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("updating trip records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating trip records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing trip update: %w", err)
	}

	return int(n), nil
}
