package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/haulage/internal/catalog/store"
	"github.com/MrJamesThe3rd/haulage/internal/config"
	"github.com/MrJamesThe3rd/haulage/internal/database"
	"github.com/MrJamesThe3rd/haulage/internal/dispatch"
	uploadStore "github.com/MrJamesThe3rd/haulage/internal/dispatch/store"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
	ledgerStore "github.com/MrJamesThe3rd/haulage/internal/ledger/store"
	progressStore "github.com/MrJamesThe3rd/haulage/internal/progress/store"
	"github.com/MrJamesThe3rd/haulage/internal/watch"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if !cfg.UsesKafka() && cfg.Watch.Dir == "" {
		return errors.New("nothing to do: set KAFKA_BROKERS or WATCH_DIR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	gdb, err := database.NewGorm(db)
	if err != nil {
		return err
	}

	uploads := uploadStore.New(db)

	importService := importer.NewService(
		catalog.NewService(catalogStore.New(gdb)),
		ledgerStore.New(db),
		progressStore.New(db),
		importer.Settings{
			BatchSize:        cfg.Import.BatchSize,
			ProgressTTL:      cfg.Import.ProgressTTL,
			ProgressInterval: cfg.Import.ProgressInterval,
			ErrorLimit:       cfg.Import.ErrorLimit,
			HeaderSkipRows:   cfg.Import.HeaderSkipRows,
		},
	)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.UsesKafka() {
		writer := dispatch.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()

		reader := dispatch.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		defer reader.Close()

		// Dropped files go through the topic like any other upload.
		importService.SetDispatcher(dispatch.NewKafka(writer, uploads))

		g.Go(func() error {
			slog.Info("consuming import jobs", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.GroupID)
			return dispatch.Consume(ctx, reader, uploads, importService)
		})
	} else {
		local := dispatch.NewLocal(ctx, importService, 1)
		defer local.Wait()

		importService.SetDispatcher(local)
	}

	if cfg.Watch.Dir != "" {
		w := watch.New(cfg.Watch.Dir, cfg.Watch.Debounce, importService)
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}
