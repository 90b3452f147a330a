package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/cloud-sync/pkg/store/schema"
	"github.com/go-sql-driver/mysql"
)

type Settings struct {
	DSN string
}

// NewDB connects to MySQL and creates the sync tables when they are missing.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	// DATETIME columns are scanned back into time.Time by downstream readers.
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, query := range schema.Statements {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
