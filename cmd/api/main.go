package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/haulage/internal/catalog/store"
	"github.com/MrJamesThe3rd/haulage/internal/config"
	"github.com/MrJamesThe3rd/haulage/internal/database"
	"github.com/MrJamesThe3rd/haulage/internal/dispatch"
	uploadStore "github.com/MrJamesThe3rd/haulage/internal/dispatch/store"
	haulageHttp "github.com/MrJamesThe3rd/haulage/internal/http"
	importHandler "github.com/MrJamesThe3rd/haulage/internal/http/imports"
	recordHandler "github.com/MrJamesThe3rd/haulage/internal/http/record"
	reportHandler "github.com/MrJamesThe3rd/haulage/internal/http/report"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/janitor"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/haulage/internal/ledger/store"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	progressStore "github.com/MrJamesThe3rd/haulage/internal/progress/store"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

// localWorkers bounds concurrent in-process imports.
const localWorkers = 2

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	gdb, err := database.NewGorm(db)
	if err != nil {
		return err
	}

	var (
		records = ledgerStore.New(db)
		uploads = uploadStore.New(db)

		// A separate worker can only see progress through the database.
		progressBackend progress.Store = progress.NewMemory()
	)

	if cfg.UsesKafka() {
		progressBackend = progressStore.New(db)
	}

	var (
		catalogService = catalog.NewService(catalogStore.New(gdb))
		ledgerService  = ledger.NewService(records, catalogService)
		reportService  = report.NewService(ledgerService)
		importService  = importer.NewService(catalogService, records, progressBackend, importer.Settings{
			BatchSize:        cfg.Import.BatchSize,
			ProgressTTL:      cfg.Import.ProgressTTL,
			ProgressInterval: cfg.Import.ProgressInterval,
			ErrorLimit:       cfg.Import.ErrorLimit,
			HeaderSkipRows:   cfg.Import.HeaderSkipRows,
		})
	)

	if cfg.UsesKafka() {
		writer := dispatch.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()

		importService.SetDispatcher(dispatch.NewKafka(writer, uploads))
		slog.Info("dispatching imports to kafka", "topic", cfg.Kafka.Topic)
	} else {
		local := dispatch.NewLocal(ctx, importService, localWorkers)
		defer local.Wait()

		importService.SetDispatcher(local)
	}

	j, err := janitor.New(cfg.Janitor.Schedule, cfg.Janitor.Timezone,
		janitor.Task{Name: "progress", Purge: progressBackend.Purge},
		janitor.Task{Name: "uploads", Purge: janitor.OlderThan(cfg.Janitor.UploadTTL, uploads.Purge)},
	)
	if err != nil {
		return err
	}

	j.Start()
	defer j.Stop()

	router := haulageHttp.New(
		cfg.Server.AllowedOrigins,
		importHandler.NewHandler(importService, cfg.Server.MaxUploadBytes),
		recordHandler.NewHandler(ledgerService),
		reportHandler.NewHandler(reportService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
