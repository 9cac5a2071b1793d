package importer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

type fixture struct {
	catalog  *importer.MockCatalog
	records  *ledger.MockRepository
	tx       *ledger.MockImportTx
	progress *progress.Memory
	svc      *importer.Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		catalog:  importer.NewMockCatalog(ctrl),
		records:  ledger.NewMockRepository(ctrl),
		tx:       ledger.NewMockImportTx(ctrl),
		progress: progress.NewMemory(),
	}

	f.svc = importer.NewService(f.catalog, f.records, f.progress, importer.DefaultSettings())
	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

	return f
}

func ledgerJob() importer.Job {
	return importer.Job{ID: uuid.New(), FileName: "ledger.csv", Data: []byte(ledgerCSV)}
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var stored []*ledger.Record

	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
	f.records.EXPECT().ExistingKeys(gomock.Any()).Return(map[ledger.Key]struct{}{}, nil)
	f.records.EXPECT().BeginImport(gomock.Any(),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	).Return(f.tx, nil)
	f.tx.EXPECT().BulkInsert(gomock.Any(), gomock.Len(3)).DoAndReturn(
		func(_ context.Context, records []*ledger.Record) (int, error) {
			stored = records
			return len(records), nil
		})
	f.tx.EXPECT().Commit().Return(nil)

	job := ledgerJob()

	res, err := f.svc.Run(ctx, job)
	require.NoError(t, err)

	assert.Equal(t, 3, res.CreatedCount)
	assert.Equal(t, 1, res.DuplicatesSkipped)
	assert.Zero(t, res.ErrorCount)
	assert.Equal(t, progress.ParsingStats{DriversExtracted: 1, RoutesExtracted: 1, LoadsExtracted: 1}, res.ParsingStats)

	require.Len(t, stored, 3)

	hauling := stored[0]
	assert.Equal(t, "1234", hauling.AccountNumber)
	assert.Equal(t, int64(5), hauling.AccountType.ID)
	assert.Equal(t, int64(8), hauling.Truck.ID)
	assert.Equal(t, "Trailer", hauling.Truck.Type)
	assert.Equal(t, int64(1), hauling.Driver.ID)
	assert.Equal(t, int64(2), hauling.Route.ID)
	assert.Equal(t, int64(3), hauling.FrontLoad.ID)
	assert.Equal(t, int64(4), hauling.BackLoad.ID)
	assert.Equal(t, "RR-1", *hauling.ReferenceNumber)
	assert.True(t, decimal.NewFromInt(9000).Equal(hauling.FinalTotal), hauling.FinalTotal.String())

	fuel := stored[1]
	assert.Nil(t, fuel.Driver)
	assert.Nil(t, fuel.ReferenceNumber)
	assert.True(t, decimal.NewFromInt(1500).Equal(fuel.FinalTotal))

	opening := stored[2]
	assert.Equal(t, "1111", opening.AccountNumber)
	assert.True(t, opening.Debit.IsZero())
	assert.True(t, opening.FinalTotal.IsZero())
	assert.Nil(t, opening.Truck)

	st, err := f.progress.Get(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, progress.StateCompleted, st.State)
	assert.Equal(t, 100, st.Progress)
	assert.Equal(t, 4, st.TotalRows)
	assert.Equal(t, 3, st.CreatedCount)
	assert.Equal(t, 1, st.DuplicateCount)
	assert.Equal(t, "Upload completed! Created 3 records.", st.Message)
	require.NotNil(t, st.ParsingStats)

	t.Run("reimport skips every row", func(t *testing.T) {
		again := newFixture(t)

		existing := make(map[ledger.Key]struct{}, len(stored))
		for _, r := range stored {
			existing[r.Key()] = struct{}{}
		}

		again.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
		again.records.EXPECT().ExistingKeys(gomock.Any()).Return(existing, nil)

		res, err := again.svc.Run(ctx, ledgerJob())
		require.NoError(t, err)

		assert.Zero(t, res.CreatedCount)
		assert.Equal(t, 4, res.DuplicatesSkipped)
	})
}

func TestService_Run_BulkFailure(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
	f.records.EXPECT().ExistingKeys(gomock.Any()).Return(nil, nil)
	f.records.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().BulkInsert(gomock.Any(), gomock.Any()).Return(0, fmt.Errorf("%w: duplicate key", ledger.ErrConflict))
	f.records.EXPECT().InsertOne(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *ledger.Record) error {
			if r.AccountNumber == "5678" {
				return fmt.Errorf("%w: duplicate key", ledger.ErrConflict)
			}

			return nil
		}).Times(3)

	res, err := f.svc.Run(context.Background(), ledgerJob())
	require.NoError(t, err)

	assert.Equal(t, 2, res.CreatedCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, []string{"Row 2: record conflicts with stored data: duplicate key"}, res.Errors)
}

func TestService_Run_StorageDown(t *testing.T) {
	refused := errors.New("dial tcp 127.0.0.1:5432: connection refused")

	f := newFixture(t)
	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
	f.records.EXPECT().ExistingKeys(gomock.Any()).Return(nil, nil)
	f.records.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, refused)
	// The first record is enough to tell the store is gone.
	f.records.EXPECT().InsertOne(gomock.Any(), gomock.Any()).Return(refused)

	job := ledgerJob()

	res, err := f.svc.Run(context.Background(), job)
	require.ErrorIs(t, err, refused)
	assert.Nil(t, res)

	st, err := f.progress.Get(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, progress.StateFailed, st.State)
	assert.Zero(t, st.CreatedCount)
	assert.Contains(t, st.Message, "Upload failed")
	assert.Contains(t, st.Message, "connection refused")
}

func TestService_Run_KeepsCommittedCountOnFailure(t *testing.T) {
	refused := errors.New("connection refused")

	f := newFixture(t)
	settings := importer.DefaultSettings()
	settings.BatchSize = 2
	f.svc = importer.NewService(f.catalog, f.records, f.progress, settings)

	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
	f.records.EXPECT().ExistingKeys(gomock.Any()).Return(nil, nil)
	gomock.InOrder(
		f.records.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.tx, nil),
		f.tx.EXPECT().BulkInsert(gomock.Any(), gomock.Len(2)).Return(2, nil),
		f.tx.EXPECT().Commit().Return(nil),
		f.records.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, refused),
		f.records.EXPECT().InsertOne(gomock.Any(), gomock.Any()).Return(refused),
	)

	job := ledgerJob()

	_, err := f.svc.Run(context.Background(), job)
	require.ErrorIs(t, err, refused)

	st, err := f.progress.Get(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, progress.StateFailed, st.State)
	assert.Equal(t, 2, st.CreatedCount)
	assert.Equal(t, 1, st.DuplicateCount)
}

func TestService_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	f := newFixture(t)
	f.catalog.EXPECT().Lookup(gomock.Any()).Return(testLookup(), nil)
	f.records.EXPECT().ExistingKeys(gomock.Any()).DoAndReturn(
		func(context.Context) (map[ledger.Key]struct{}, error) {
			cancel()
			return nil, nil
		})

	job := ledgerJob()

	_, err := f.svc.Run(ctx, job)
	require.ErrorIs(t, err, context.Canceled)

	st, err := f.progress.Get(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, progress.StateFailed, st.State)
	assert.Zero(t, st.CreatedCount)
}

func TestService_Fail(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.svc.Fail(context.Background(), id, errors.New("staged upload missing"))

	st, err := f.svc.Status(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, progress.StateFailed, st.State)
	assert.Equal(t, []string{"staged upload missing"}, st.Errors)
	assert.Equal(t, "Upload failed: staged upload missing", st.Message)
}

func TestService_Run_Failures(t *testing.T) {
	tests := []struct {
		name      string
		job       importer.Job
		setupMock func(f *fixture)
		wantErr   error
	}{
		{
			name:    "unreadable file",
			job:     importer.Job{ID: uuid.New(), FileName: "ledger.pdf", Data: []byte("%PDF")},
			wantErr: importer.ErrUnreadable,
		},
		{
			name: "catalog unavailable",
			job:  ledgerJob(),
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Lookup(gomock.Any()).Return(nil, context.DeadlineExceeded)
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			_, err := f.svc.Run(context.Background(), tt.job)
			require.ErrorIs(t, err, tt.wantErr)

			st, err := f.progress.Get(context.Background(), tt.job.ID)
			require.NoError(t, err)

			assert.Equal(t, progress.StateFailed, st.State)
			assert.Equal(t, 1, st.ErrorCount)
			assert.Contains(t, st.Message, "Upload failed")
		})
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("queues the job", func(t *testing.T) {
		f := newFixture(t)
		dispatcher := importer.NewMockDispatcher(gomock.NewController(t))
		f.svc.SetDispatcher(dispatcher)

		var queued importer.Job

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, job importer.Job) error {
				queued = job
				return nil
			})

		id, err := f.svc.Submit(ctx, "ledger.xlsx", []byte("data"), importer.Options{ExcludeIndices: []int{2}})
		require.NoError(t, err)

		assert.Equal(t, id, queued.ID)
		assert.Equal(t, []int{2}, queued.Options.ExcludeIndices)

		st, err := f.svc.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, progress.StatePending, st.State)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		f := newFixture(t)
		f.svc.SetDispatcher(importer.NewMockDispatcher(gomock.NewController(t)))

		_, err := f.svc.Submit(ctx, "ledger.pdf", []byte("data"), importer.Options{})
		assert.ErrorIs(t, err, importer.ErrUnreadable)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		f := newFixture(t)
		dispatcher := importer.NewMockDispatcher(gomock.NewController(t))
		f.svc.SetDispatcher(dispatcher)

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		id, err := f.svc.Submit(ctx, "ledger.csv", []byte("data"), importer.Options{})
		require.Error(t, err)
		assert.Equal(t, uuid.Nil, id)
	})
}
