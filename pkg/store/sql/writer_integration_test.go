package sql

import (
	"context"
	"testing"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_DuckDB_RepeatedRunsAppend(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w, err := NewWriter(db)
	require.NoError(t, err)
	ctx := context.Background()

	instances := []store.Row{instance("i-1"), instance("i-2")}
	facts := []store.Row{costFact("AmazonEC2", "BoxUsage"), costFact("AmazonS3", "Requests-Tier1")}

	for run := 1; run <= 2; run++ {
		result, err := w.Persist(ctx, domain.CategoryCompute, instances)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Written)

		result, err = w.Persist(ctx, domain.CategoryCost, facts)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Written)
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ec2_instances WHERE instance_id = ?", "i-1").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ec2_instances").Scan(&count))
	assert.Equal(t, 4, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cost_usage").Scan(&count))
	assert.Equal(t, 4, count)
}

func TestWriter_DuckDB_NullPlaceholders(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w, err := NewWriter(db)
	require.NoError(t, err)

	zero := 0.0
	measured := instance("i-zero")
	measured.Metrics.Cost = &zero

	_, err = w.Persist(context.Background(), domain.CategoryCompute, []store.Row{instance("i-null"), measured})
	require.NoError(t, err)

	var nulls int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ec2_instances WHERE cost IS NULL").Scan(&nulls))
	assert.Equal(t, 1, nulls)

	var zeros int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ec2_instances WHERE cost = 0").Scan(&zeros))
	assert.Equal(t, 1, zeros)
}
