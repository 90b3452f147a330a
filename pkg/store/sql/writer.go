package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/rs/zerolog"
)

// Connector hands out a dedicated connection. *sql.DB satisfies it.
type Connector interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Writer appends normalized rows. It never updates or deletes.
type Writer interface {
	Persist(ctx context.Context, category domain.Category, rows []store.Row) (store.BatchResult, error)
}

type writer struct {
	connector Connector
}

func NewWriter(connector Connector) (Writer, error) {
	if connector == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &writer{connector: connector}, nil
}

// Persist holds one connection for the whole run. Cost facts are committed row by row;
// inventory rows share a single transaction. A rejected row is recorded and skipped,
// while a connection-level failure aborts the run with *domain.PersistenceConnectionError.
func (w *writer) Persist(ctx context.Context, category domain.Category, rows []store.Row) (store.BatchResult, error) {
	logger := zerolog.Ctx(ctx)

	conn, err := w.connector.Conn(ctx)
	if err != nil {
		return store.BatchResult{}, &domain.PersistenceConnectionError{Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to release storage connection")
		}
	}()

	if category.IsInventory() {
		return w.persistBatch(ctx, conn, rows)
	}
	return w.persistEach(ctx, conn, rows)
}

func (w *writer) persistEach(ctx context.Context, conn *sql.Conn, rows []store.Row) (store.BatchResult, error) {
	logger := zerolog.Ctx(ctx)
	var result store.BatchResult

	for i, row := range rows {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return result, &domain.PersistenceConnectionError{Err: fmt.Errorf("begin transaction: %w", err)}
		}

		if err := insert(ctx, tx, row); err != nil {
			rollback(ctx, tx)
			if isConnectionError(err) {
				return result, &domain.PersistenceConnectionError{Err: err}
			}
			result.Failed = append(result.Failed, rowFailure(ctx, i, row, err))
			continue
		}

		if err := tx.Commit(); err != nil {
			if isConnectionError(err) {
				return result, &domain.PersistenceConnectionError{Err: fmt.Errorf("commit: %w", err)}
			}
			result.Failed = append(result.Failed, rowFailure(ctx, i, row, err))
			continue
		}
		result.Written++
	}

	logger.Debug().Int("written", result.Written).Int("failed", len(result.Failed)).Msg("rows committed individually")
	return result, nil
}

func (w *writer) persistBatch(ctx context.Context, conn *sql.Conn, rows []store.Row) (store.BatchResult, error) {
	logger := zerolog.Ctx(ctx)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return store.BatchResult{}, &domain.PersistenceConnectionError{Err: fmt.Errorf("begin transaction: %w", err)}
	}

	accepted := make([]store.Row, 0, len(rows))
	var failed []store.RowFailure
	for i, row := range rows {
		err := insert(ctx, tx, row)
		if err == nil {
			accepted = append(accepted, row)
			continue
		}

		rollback(ctx, tx)
		if isConnectionError(err) {
			return store.BatchResult{}, &domain.PersistenceConnectionError{Err: err}
		}
		failed = append(failed, rowFailure(ctx, i, row, err))

		// DuckDB and PostgreSQL refuse further statements once one has failed,
		// so restart the transaction and bring back what was already accepted.
		tx, err = replay(ctx, conn, accepted)
		if err != nil {
			return store.BatchResult{}, &domain.PersistenceConnectionError{Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		rollback(ctx, tx)
		return store.BatchResult{}, &domain.PersistenceConnectionError{Err: fmt.Errorf("commit: %w", err)}
	}

	logger.Debug().Int("written", len(accepted)).Int("failed", len(failed)).Msg("batch committed")
	return store.BatchResult{Written: len(accepted), Failed: failed}, nil
}

func replay(ctx context.Context, conn *sql.Conn, rows []store.Row) (*sql.Tx, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("restart transaction: %w", err)
	}
	for _, row := range rows {
		if err := insert(ctx, tx, row); err != nil {
			rollback(ctx, tx)
			return nil, fmt.Errorf("replay %s (%s): %w", row.Table(), row.NaturalKey(), err)
		}
	}
	return tx, nil
}

func insert(ctx context.Context, tx *sql.Tx, row store.Row) error {
	_, err := tx.ExecContext(ctx, InsertQuery(row), row.Values()...)
	return err
}

// InsertQuery renders the positional INSERT statement for a row.
func InsertQuery(row store.Row) string {
	columns := row.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", row.Table(), strings.Join(columns, ", "), placeholders)
}

func rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rollback failed")
	}
}

func rowFailure(ctx context.Context, index int, row store.Row, err error) store.RowFailure {
	rowErr := &domain.PersistenceRowError{Table: row.Table(), Key: row.NaturalKey(), Err: err}
	zerolog.Ctx(ctx).Warn().Err(err).
		Str("table", row.Table()).
		Str("key", row.NaturalKey()).
		Msg("row rejected, skipping")
	return store.RowFailure{Index: index, Row: row, Err: rowErr}
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
