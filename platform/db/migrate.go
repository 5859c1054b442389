// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/pressly/goose/v3"

	// Register the pgx stdlib driver for goose.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
)

// RunMigrations applies all pending goose migrations from the given filesystem.
// The migrations FS is embedded in the binary so deployments never depend on
// a migrations directory being present on disk.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, migrationsFS fs.FS) error {
	if migrationsFS == nil {
		return nil
	}

	conn, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer conn.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, conn, ".")
}
