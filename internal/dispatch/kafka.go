package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

//go:generate mockgen -source=kafka.go -destination=kafka_mock.go -package=dispatch

var _ importer.Dispatcher = (*Kafka)(nil)

// Writer is the producing side of *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Reader is the consuming side of *kafka.Reader.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// message is the job notice on the topic. The payload itself stays in the
// uploads table.
type message struct {
	JobID    uuid.UUID `json:"job_id"`
	FileName string    `json:"file_name"`
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// Kafka stages the upload and announces the job on a topic for a worker.
type Kafka struct {
	writer  Writer
	uploads Uploads
}

func NewKafka(w Writer, uploads Uploads) *Kafka {
	return &Kafka{writer: w, uploads: uploads}
}

func (k *Kafka) Dispatch(ctx context.Context, job importer.Job) error {
	if err := k.uploads.Stage(ctx, job); err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}

	payload, err := json.Marshal(message{JobID: job.ID, FileName: job.FileName})
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(job.ID.String()), Value: payload})
	if err != nil {
		if derr := k.uploads.Delete(ctx, job.ID); derr != nil {
			slog.Error("failed to discard staged upload", "job_id", job.ID, "error", derr)
		}

		return fmt.Errorf("publishing job: %w", err)
	}

	return nil
}

// Consume runs jobs from the topic until ctx is cancelled. An offset is
// committed once its job has ended, successful or not: a failed job has
// already published its FAILED status and retrying would fail the same way.
func Consume(ctx context.Context, reader Reader, uploads Uploads, runner Runner) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}

			return fmt.Errorf("fetching job: %w", err)
		}

		handle(ctx, msg, uploads, runner)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("committing offset: %w", err)
		}
	}
}

func handle(ctx context.Context, msg kafka.Message, uploads Uploads, runner Runner) {
	var m message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		slog.Error("failed to decode import job", "offset", msg.Offset, "error", err)
		return
	}

	job, err := uploads.Load(ctx, m.JobID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		slog.Error("failed to load staged upload", "job_id", m.JobID, "error", err)
		runner.Fail(ctx, m.JobID, fmt.Errorf("loading staged upload: %w", err))

		return
	}

	if _, err := runner.Run(ctx, job); err != nil {
		slog.Warn("import job failed", "job_id", job.ID, "error", err)
	}

	// Interrupted by shutdown: keep the upload so the uncommitted message
	// runs again.
	if ctx.Err() != nil {
		return
	}

	if err := uploads.Delete(ctx, job.ID); err != nil {
		slog.Error("failed to delete staged upload", "job_id", job.ID, "error", err)
	}
}
