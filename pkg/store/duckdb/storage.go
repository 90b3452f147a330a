package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/de-tools/cloud-sync/pkg/store/schema"
	"github.com/marcboeker/go-duckdb/v2"
)

type Settings struct {
	DbPath string
}

// NewDB opens a DuckDB database and makes sure the sync tables exist on every new connection.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range schema.Statements {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("bootstrap schema: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
