package main

import (
	"context"
	"fmt"
	"log/slog"

	conflicts "github.com/professional-hubs/conflicts"
	"github.com/professional-hubs/conflicts/internal/storage"
	"github.com/professional-hubs/conflicts/migrations"
)

func serve(ctx context.Context) error {
	_, logger, err := setup()
	if err != nil {
		return err
	}

	app, err := conflicts.New(
		conflicts.WithLogger(logger),
		conflicts.WithVersion(version),
	)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// openDB connects to Postgres and applies the embedded migrations when enabled.
func openDB(ctx context.Context, dsn string, migrate bool, logger *slog.Logger) (*storage.DB, error) {
	db, err := storage.New(ctx, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if migrate {
		if err := db.RunMigrations(ctx, migrations.FS); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return db, nil
}
