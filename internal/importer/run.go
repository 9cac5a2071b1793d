package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

// runningErrorWindow is how many recent errors a running job reports.
const runningErrorWindow = 10

// Result summarizes a finished import.
type Result struct {
	CreatedCount      int                   `json:"created_count"`
	DuplicatesSkipped int                   `json:"duplicates_skipped"`
	ErrorCount        int                   `json:"error_count"`
	Errors            []string              `json:"errors"`
	ParsingStats      progress.ParsingStats `json:"parsing_stats"`
}

// Submit queues an upload for asynchronous import and returns its job id.
func (s *Service) Submit(ctx context.Context, name string, data []byte, opts Options) (uuid.UUID, error) {
	if _, err := sheet.DetectFormat(name); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	if s.dispatcher == nil {
		return uuid.Nil, fmt.Errorf("no dispatcher configured")
	}

	job := Job{ID: uuid.New(), FileName: name, Data: data, Options: opts}

	s.publish(ctx, job.ID, progress.Status{State: progress.StatePending, Message: "Queued for processing"})

	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		s.publish(ctx, job.ID, progress.Status{
			State:      progress.StateFailed,
			ErrorCount: 1,
			Errors:     []string{err.Error()},
			Message:    "Upload failed: could not queue job",
		})

		return uuid.Nil, fmt.Errorf("dispatching import: %w", err)
	}

	slog.Info("import queued", "job_id", job.ID, "file", name)

	return job.ID, nil
}

// Fail marks a job that never got to run as failed, so pollers see a final
// state instead of waiting on PENDING until it expires.
func (s *Service) Fail(ctx context.Context, jobID uuid.UUID, reason error) {
	slog.Error("import job dropped", "job_id", jobID, "error", reason)

	s.publish(ctx, jobID, progress.Status{
		State:      progress.StateFailed,
		ErrorCount: 1,
		Errors:     []string{reason.Error()},
		Message:    "Upload failed: " + reason.Error(),
	})
}

func (s *Service) publish(ctx context.Context, jobID uuid.UUID, st progress.Status) {
	if err := s.progress.Set(ctx, jobID, st, s.settings.ProgressTTL); err != nil {
		slog.Error("failed to publish import progress", "job_id", jobID, "error", err)
	}
}

// run carries the mutable state of one import.
type run struct {
	svc    *Service
	job    Job
	lookup *catalog.Lookup
	gate   *DedupGate

	status  progress.Status
	stats   progress.ParsingStats
	errors  []string
	pending []pendingRecord
}

type pendingRecord struct {
	rowNumber int
	record    *ledger.Record
}

// Run imports a job synchronously, publishing progress as it goes. Row-level
// problems, including records the store rejects as conflicting, are
// collected. An unreadable file, an unavailable store or a cancelled ctx
// fails the job; records already committed stay counted.
func (s *Service) Run(ctx context.Context, job Job) (*Result, error) {
	r := &run{
		svc:    s,
		job:    job,
		status: progress.Status{State: progress.StateProcessing, Message: "Starting upload..."},
	}

	slog.Info("import started", "job_id", job.ID, "file", job.FileName)
	r.publish(ctx)

	if err := r.execute(ctx); err != nil {
		r.status.State = progress.StateFailed
		r.status.Progress = 0
		r.status.ErrorCount = len(r.errors) + 1
		r.status.Errors = append(r.limitErrors(), err.Error())
		r.status.Message = "Upload failed: " + err.Error()
		r.status.ParsingStats = &r.stats
		// The job may have failed because ctx ended; its status must still land.
		r.publish(context.WithoutCancel(ctx))

		slog.Error("failed to run import", "job_id", job.ID, "error", err)

		return nil, err
	}

	r.status.State = progress.StateCompleted
	r.status.Progress = 100
	r.status.ProcessedRows = r.status.TotalRows
	r.status.ErrorCount = len(r.errors)
	r.status.Errors = r.limitErrors()
	r.status.Message = fmt.Sprintf("Upload completed! Created %d records.", r.status.CreatedCount)
	r.status.ParsingStats = &r.stats
	r.publish(ctx)

	slog.Info("import completed", "job_id", job.ID,
		"created", r.status.CreatedCount, "duplicates", r.status.DuplicateCount, "errors", len(r.errors))

	return &Result{
		CreatedCount:      r.status.CreatedCount,
		DuplicatesSkipped: r.status.DuplicateCount,
		ErrorCount:        len(r.errors),
		Errors:            r.limitErrors(),
		ParsingStats:      r.stats,
	}, nil
}

func (r *run) publish(ctx context.Context) {
	r.svc.publish(ctx, r.job.ID, r.status)
}

func (r *run) limitErrors() []string {
	return append([]string{}, r.errors[:min(len(r.errors), r.svc.settings.ErrorLimit)]...)
}

func (r *run) recentErrors() []string {
	return append([]string{}, r.errors[max(0, len(r.errors)-runningErrorWindow):]...)
}

func (r *run) execute(ctx context.Context) error {
	s := r.svc

	sh, err := s.readSheet(r.job.FileName, bytes.NewReader(r.job.Data))
	if err != nil {
		return err
	}

	if r.lookup, err = s.catalog.Lookup(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	candidates := newParser(sh, r.lookup).candidates(r.job.Options.ExcludeIndices)

	existing, err := s.records.ExistingKeys(ctx)
	if err != nil {
		return fmt.Errorf("loading existing records: %w", err)
	}

	r.gate = NewDedupGate(existing)

	total := len(candidates)
	r.status.TotalRows = total
	r.status.Progress = 5
	r.status.Message = fmt.Sprintf("Processing %d rows...", total)
	r.publish(ctx)

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		if i%s.settings.ProgressInterval == 0 {
			r.status.Progress = 5 + i*90/total
			r.status.ProcessedRows = i + 1
			r.status.ErrorCount = len(r.errors)
			r.status.Errors = r.recentErrors()
			r.status.Message = fmt.Sprintf("Processing row %d of %d...", i+1, total)
			r.publish(ctx)
		}

		r.process(ctx, &candidates[i])

		if len(r.pending) >= s.settings.BatchSize {
			if err := r.flush(ctx); err != nil {
				return err
			}
		}
	}

	return r.flush(ctx)
}

// process resolves one candidate and either queues it or records why not.
func (r *run) process(ctx context.Context, c *candidate) {
	if !c.hasDate() {
		return
	}

	c.count(&r.stats)

	rowNumber := c.row.Index + 1

	rec, err := r.record(ctx, c)
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
		return
	}

	if r.gate.Admit(rec.Key()).Duplicate() {
		r.status.DuplicateCount++
		return
	}

	if c.routeName != "" {
		route, err := r.lookup.EnsureRoute(ctx, c.routeName)
		if err != nil {
			r.errors = append(r.errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
			return
		}

		rec.Route = &ledger.Ref{ID: route.ID, Name: route.Name}
	}

	r.pending = append(r.pending, pendingRecord{rowNumber: rowNumber, record: rec})
}

// record builds the ledger record for c. The account type is created when
// missing; the route is resolved later, only for rows that pass the gate.
func (r *run) record(ctx context.Context, c *candidate) (*ledger.Record, error) {
	rec := &ledger.Record{
		ID:            uuid.New(),
		AccountNumber: ledger.NormalizeAccountNumber(c.accountNumber),
		Description:   c.description,
		Debit:         c.debit,
		Credit:        c.credit,
		FinalTotal:    c.finalTotal,
		Remarks:       c.remarks,
		Date:          c.date,
		Quantity:      c.quantity,
		Price:         c.price,
	}

	if c.accountType != nil {
		at, err := r.lookup.EnsureAccountType(ctx, c.accountType.Name)
		if err != nil {
			return nil, err
		}

		rec.AccountType = &ledger.Ref{ID: at.ID, Name: at.Name}
	}

	if c.reference != "" {
		rec.ReferenceNumber = new(c.reference)
	}

	if c.truck != nil {
		rec.Truck = &ledger.TruckRef{
			ID:          c.truck.ID,
			PlateNumber: c.truck.PlateNumber,
			Type:        c.truck.TypeName(),
			Company:     c.truck.Company,
		}
	}

	if c.driver != nil {
		rec.Driver = &ledger.Ref{ID: c.driver.ID, Name: c.driver.Name}
	}

	rec.FrontLoad = loadRef(c.frontLoad)
	rec.BackLoad = loadRef(c.backLoad)

	return rec, nil
}

// loadRef drops load types that are not stored, such as a Strike placeholder
// for a catalog without one.
func loadRef(lt *catalog.LoadType) *ledger.Ref {
	if lt == nil || lt.ID == 0 {
		return nil
	}

	return &ledger.Ref{ID: lt.ID, Name: lt.Name}
}

// flush writes the pending chunk in one transaction. If the chunk fails as a
// whole its records are retried one by one so a single bad row only costs
// itself. Only ledger.ErrConflict is a row error; any other failure means the
// store is unusable and is returned.
func (r *run) flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}

	chunk := r.pending
	r.pending = nil

	n, err := r.insertChunk(ctx, chunk)
	if err == nil {
		r.status.CreatedCount += n
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("storing records: %w", ctx.Err())
	}

	slog.Warn("bulk insert failed, inserting records one by one", "job_id", r.job.ID, "records", len(chunk), "error", err)

	for _, p := range chunk {
		err := r.svc.records.InsertOne(ctx, p.record)

		switch {
		case err == nil:
			r.status.CreatedCount++
		case errors.Is(err, ledger.ErrConflict):
			r.errors = append(r.errors, fmt.Sprintf("Row %d: %v", p.rowNumber, err))
		default:
			return fmt.Errorf("storing row %d: %w", p.rowNumber, err)
		}
	}

	return nil
}

func (r *run) insertChunk(ctx context.Context, chunk []pendingRecord) (int, error) {
	records := make([]*ledger.Record, len(chunk))
	minDate, maxDate := chunk[0].record.Date, chunk[0].record.Date

	for i, p := range chunk {
		records[i] = p.record
		minDate = earliest(minDate, p.record.Date)
		maxDate = latest(maxDate, p.record.Date)
	}

	tx, err := r.svc.records.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n, err := tx.BulkInsert(ctx, records)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return n, nil
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}

	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}

	return a
}
