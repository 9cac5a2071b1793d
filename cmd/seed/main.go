package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/haulage/internal/catalog/store"
	"github.com/MrJamesThe3rd/haulage/internal/config"
	"github.com/MrJamesThe3rd/haulage/internal/database"
)

func main() {
	file := flag.String("file", "seed.yaml", "YAML seed document")
	migrate := flag.Bool("migrate", false, "apply the schema before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate", "error", err)
			os.Exit(1)
		}
	}

	gdb, err := database.NewGorm(db)
	if err != nil {
		slog.Error("failed to open gorm", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("failed to open seed file", "file", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := catalog.NewService(catalogStore.New(gdb)).Seed(ctx, f)
	if err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	slog.Info("catalog seeded", "created", n, "file", *file)
}
