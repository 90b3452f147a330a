package sql

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingConnector struct {
	err error
}

func (f failingConnector) Conn(context.Context) (*sql.Conn, error) {
	return nil, f.err
}

func costFact(service, usageType string) store.CostFact {
	end := time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC)
	cost, quantity := 1.25, 3.0
	return store.CostFact{
		SyncRunID:          "run-1",
		CollectedAt:        time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC),
		BillingPeriodStart: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		BillingPeriodEnd:   &end,
		Service:            service,
		UsageType:          usageType,
		UnblendedCost:      &cost,
		UsageQuantity:      &quantity,
		Currency:           "USD",
	}
}

func instance(id string) store.ComputeInstance {
	return store.ComputeInstance{
		SyncRunID:    "run-1",
		CollectedAt:  time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC),
		InstanceID:   id,
		InstanceType: "t3.micro",
		State:        "running",
		PrivateIP:    "10.0.0.1",
		PublicIP:     "N/A",
		Tags:         "{}",
	}
}

func newMockWriter(t *testing.T) (Writer, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w, err := NewWriter(db)
	require.NoError(t, err)
	return w, mock
}

var (
	insertCost     = regexp.QuoteMeta("INSERT INTO cost_usage (sync_run_id, collected_at, billing_period_start")
	insertInstance = regexp.QuoteMeta("INSERT INTO ec2_instances (sync_run_id, collected_at, instance_id")
)

func TestNewWriter_NilConnector(t *testing.T) {
	w, err := NewWriter(nil)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestInsertQuery(t *testing.T) {
	query := InsertQuery(costFact("AmazonEC2", "BoxUsage"))
	assert.Equal(t,
		"INSERT INTO cost_usage (sync_run_id, collected_at, billing_period_start, billing_period_end, service, usage_type, unblended_cost, usage_quantity, currency, region) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		query)
}

func TestWriter_CostFactsCommittedPerRow(t *testing.T) {
	ctx := context.Background()

	t.Run("all rows written", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{
			costFact("AmazonEC2", "BoxUsage:t3.micro"),
			costFact("AmazonEC2", "EBS:VolumeUsage"),
			costFact("AmazonS3", "TimedStorage-ByteHrs"),
			costFact("AmazonS3", "Requests-Tier1"),
		}
		for range rows {
			mock.ExpectBegin()
			mock.ExpectExec(insertCost).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
		}

		result, err := w.Persist(ctx, domain.CategoryCost, rows)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Written)
		assert.Empty(t, result.Failed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed row is skipped and the run continues", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{
			costFact("AmazonEC2", "BoxUsage:t3.micro"),
			costFact("AmazonRDS", "InstanceUsage:db.t3.micro"),
			costFact("AmazonS3", "TimedStorage-ByteHrs"),
		}

		mock.ExpectBegin()
		mock.ExpectExec(insertCost).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(insertCost).WillReturnError(errors.New("Data too long for column 'usage_type'"))
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectExec(insertCost).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := w.Persist(ctx, domain.CategoryCost, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Written)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, rows[1], result.Failed[0].Row)
		assert.Equal(t, 1, result.Failed[0].Index)

		var rowErr *domain.PersistenceRowError
		require.ErrorAs(t, result.Failed[0].Err, &rowErr)
		assert.Equal(t, "cost_usage", rowErr.Table)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost mid-run keeps committed rows", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{
			costFact("AmazonEC2", "BoxUsage:t3.micro"),
			costFact("AmazonS3", "TimedStorage-ByteHrs"),
		}

		mock.ExpectBegin()
		mock.ExpectExec(insertCost).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectBegin().WillReturnError(&net.OpError{Op: "write", Net: "tcp", Err: errors.New("broken pipe")})

		result, err := w.Persist(ctx, domain.CategoryCost, rows)
		var connErr *domain.PersistenceConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, 1, result.Written)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWriter_InventorySingleCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("all rows in one transaction", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{instance("i-1"), instance("i-2")}

		mock.ExpectBegin()
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := w.Persist(ctx, domain.CategoryCompute, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Written)
		assert.Empty(t, result.Failed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected row restarts the transaction and replays accepted rows", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{instance("i-1"), instance("i-2"), instance("i-3")}

		mock.ExpectBegin()
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertInstance).WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := w.Persist(ctx, domain.CategoryCompute, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Written)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "i-2", result.Failed[0].Row.NaturalKey())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection failure rolls back the whole run", func(t *testing.T) {
		w, mock := newMockWriter(t)
		rows := []store.Row{instance("i-1"), instance("i-2")}

		mock.ExpectBegin()
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertInstance).WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})
		mock.ExpectRollback()

		result, err := w.Persist(ctx, domain.CategoryCompute, rows)
		var connErr *domain.PersistenceConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, 0, result.Written)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		w, mock := newMockWriter(t)
		mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

		result, err := w.Persist(ctx, domain.CategoryStorage, []store.Row{store.StorageBucket{BucketName: "logs"}})
		var connErr *domain.PersistenceConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, 0, result.Written)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		w, mock := newMockWriter(t)
		mock.ExpectBegin()
		mock.ExpectExec(insertInstance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		result, err := w.Persist(ctx, domain.CategoryCompute, []store.Row{instance("i-1")})
		var connErr *domain.PersistenceConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, 0, result.Written)
	})
}

func TestWriter_ConnectionUnavailable(t *testing.T) {
	w, err := NewWriter(failingConnector{err: errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")})
	require.NoError(t, err)

	for _, category := range domain.Categories {
		result, err := w.Persist(context.Background(), category, []store.Row{instance("i-1")})

		var connErr *domain.PersistenceConnectionError
		require.ErrorAs(t, err, &connErr, category)
		assert.Equal(t, 0, result.Written, category)
	}
}
