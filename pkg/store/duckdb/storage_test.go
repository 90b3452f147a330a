package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootstrapsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO rds_instances (sync_run_id, collected_at, db_instance_id, db_instance_class, db_engine, storage_type, allocated_storage)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"run-001", time.Now(), "orders-db", "db.t3.micro", "postgres", "gp3", 20,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM rds_instance_usage WHERE db_instance_id = ?", "orders-db").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	for _, table := range []string{"ec2_instances", "s3_buckets", "cost_usage"} {
		err = db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, table)
		assert.Equal(t, 0, count, table)
	}
}

func TestNewDB_InMemory(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping())
}
