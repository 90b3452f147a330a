package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/cloud-sync/pkg/store/duckdb"
	"github.com/de-tools/cloud-sync/pkg/store/mysql"
)

// Open connects to the configured backend and makes sure the sync tables exist.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "", "duckdb":
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: dsn})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open DuckDB database %s: %w", dsn, err)
		}
		return db, nil
	case "mysql":
		db, err := mysql.NewDB(ctx, mysql.Settings{DSN: dsn})
		if err != nil {
			return nil, fmt.Errorf("failed to create MySQL connection: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
