package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/dispatch"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

func testJob() importer.Job {
	return importer.Job{
		ID:       uuid.New(),
		FileName: "ledger.xlsx",
		Data:     []byte("payload"),
		Options:  importer.Options{ExcludeIndices: []int{3}},
	}
}

func TestLocal_Dispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := dispatch.NewMockRunner(ctrl)

	jobs := []importer.Job{testJob(), testJob()}

	ran := make(chan uuid.UUID, len(jobs))
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job importer.Job) (*importer.Result, error) {
			ran <- job.ID
			return &importer.Result{}, nil
		}).Times(len(jobs))

	local := dispatch.NewLocal(context.Background(), runner, 1)

	for _, job := range jobs {
		require.NoError(t, local.Dispatch(context.Background(), job))
	}

	local.Wait()
	close(ran)

	var got []uuid.UUID
	for id := range ran {
		got = append(got, id)
	}

	assert.ElementsMatch(t, []uuid.UUID{jobs[0].ID, jobs[1].ID}, got)
}

func TestKafka_Dispatch(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(w *dispatch.MockWriter, u *dispatch.MockUploads, job importer.Job)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "stages the upload then announces the job",
			setupMock: func(w *dispatch.MockWriter, u *dispatch.MockUploads, job importer.Job) {
				gomock.InOrder(
					u.EXPECT().Stage(gomock.Any(), job).Return(nil),
					w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(
						func(_ context.Context, msgs ...kafka.Message) error {
							require.Len(t, msgs, 1)
							assert.Equal(t, job.ID.String(), string(msgs[0].Key))

							var body map[string]string
							require.NoError(t, json.Unmarshal(msgs[0].Value, &body))
							assert.Equal(t, job.ID.String(), body["job_id"])
							assert.Equal(t, "ledger.xlsx", body["file_name"])

							return nil
						}),
				)
			},
		},
		{
			name: "staging failure publishes nothing",
			setupMock: func(_ *dispatch.MockWriter, u *dispatch.MockUploads, job importer.Job) {
				u.EXPECT().Stage(gomock.Any(), job).Return(errors.New("disk full"))
			},
			wantErr: true,
		},
		{
			name: "publish failure discards the staged upload",
			setupMock: func(w *dispatch.MockWriter, u *dispatch.MockUploads, job importer.Job) {
				u.EXPECT().Stage(gomock.Any(), job).Return(nil)
				w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("no brokers"))
				u.EXPECT().Delete(gomock.Any(), job.ID).Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			w := dispatch.NewMockWriter(ctrl)
			u := dispatch.NewMockUploads(ctrl)
			job := testJob()

			tt.setupMock(w, u, job)

			err := dispatch.NewKafka(w, u).Dispatch(context.Background(), job)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	reader := dispatch.NewMockReader(ctrl)
	uploads := dispatch.NewMockUploads(ctrl)
	runner := dispatch.NewMockRunner(ctrl)

	job := testJob()
	good := kafka.Message{Offset: 1, Value: []byte(`{"job_id":"` + job.ID.String() + `","file_name":"ledger.xlsx"}`)}
	garbled := kafka.Message{Offset: 2, Value: []byte(`not json`)}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(good, nil),
		uploads.EXPECT().Load(gomock.Any(), job.ID).Return(job, nil),
		runner.EXPECT().Run(gomock.Any(), job).Return(nil, errors.New("unreadable ledger file")),
		uploads.EXPECT().Delete(gomock.Any(), job.ID).Return(nil),
		reader.EXPECT().CommitMessages(gomock.Any(), good).Return(nil),

		reader.EXPECT().FetchMessage(gomock.Any()).Return(garbled, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), garbled).Return(nil),

		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, context.Canceled
		}),
	)

	assert.NoError(t, dispatch.Consume(ctx, reader, uploads, runner))
}

func TestConsume_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := dispatch.NewMockReader(ctrl)

	reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errors.New("group coordinator not available"))

	err := dispatch.Consume(context.Background(), reader, dispatch.NewMockUploads(ctrl), dispatch.NewMockRunner(ctrl))
	assert.Error(t, err)
}

func TestLocal_Dispatch_ShutdownBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := dispatch.NewMockRunner(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocker, waiting := testJob(), testJob()
	started, release := make(chan struct{}), make(chan struct{})

	runner.EXPECT().Run(gomock.Any(), blocker).DoAndReturn(
		func(context.Context, importer.Job) (*importer.Result, error) {
			close(started)
			<-release

			return &importer.Result{}, nil
		})
	runner.EXPECT().Fail(gomock.Any(), waiting.ID, gomock.Any()).Do(
		func(ctx context.Context, _ uuid.UUID, reason error) {
			assert.NoError(t, ctx.Err())
			assert.ErrorIs(t, reason, context.Canceled)
			close(release)
		})

	local := dispatch.NewLocal(ctx, runner, 1)

	require.NoError(t, local.Dispatch(context.Background(), blocker))
	<-started

	require.NoError(t, local.Dispatch(context.Background(), waiting))
	cancel()

	local.Wait()
}

func TestConsume_MissingUpload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	reader := dispatch.NewMockReader(ctrl)
	uploads := dispatch.NewMockUploads(ctrl)
	runner := dispatch.NewMockRunner(ctrl)

	job := testJob()
	msg := kafka.Message{Offset: 7, Value: []byte(`{"job_id":"` + job.ID.String() + `","file_name":"ledger.xlsx"}`)}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		uploads.EXPECT().Load(gomock.Any(), job.ID).Return(importer.Job{}, errors.New("staged upload not found")),
		runner.EXPECT().Fail(gomock.Any(), job.ID, gomock.Any()).Do(
			func(_ context.Context, _ uuid.UUID, reason error) {
				assert.ErrorContains(t, reason, "staged upload not found")
			}),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, context.Canceled
		}),
	)

	assert.NoError(t, dispatch.Consume(ctx, reader, uploads, runner))
}

func TestConsume_ShutdownKeepsUpload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	reader := dispatch.NewMockReader(ctrl)
	uploads := dispatch.NewMockUploads(ctrl)
	runner := dispatch.NewMockRunner(ctrl)

	job := testJob()
	msg := kafka.Message{Offset: 9, Value: []byte(`{"job_id":"` + job.ID.String() + `","file_name":"ledger.xlsx"}`)}

	reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	uploads.EXPECT().Load(gomock.Any(), job.ID).Return(job, nil)
	runner.EXPECT().Run(gomock.Any(), job).DoAndReturn(
		func(context.Context, importer.Job) (*importer.Result, error) {
			cancel()
			return nil, context.Canceled
		})
	reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(context.Canceled)

	assert.NoError(t, dispatch.Consume(ctx, reader, uploads, runner))
}
