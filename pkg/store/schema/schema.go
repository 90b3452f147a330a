// Package schema holds the DDL shared by every supported SQL backend.
// Types are limited to the subset understood by both DuckDB and MySQL.
package schema

const metricColumns = `
		cost DOUBLE NULL,
		usage_quantity DOUBLE NULL,
		cpu_utilization DOUBLE NULL,
		network_in DOUBLE NULL,
		network_out DOUBLE NULL,
		metrics_date DATE NULL`

const ComputeInstances = `
	CREATE TABLE IF NOT EXISTS ec2_instances (
		sync_run_id VARCHAR(36) NOT NULL,
		collected_at DATETIME NOT NULL,
		instance_id VARCHAR(64) NOT NULL,
		instance_type VARCHAR(64),
		state VARCHAR(32),
		launch_time DATETIME NULL,
		private_ip VARCHAR(64),
		public_ip VARCHAR(64),
		availability_zone VARCHAR(64),
		tags TEXT,` + metricColumns + `
	);
`

const ManagedDatabases = `
	CREATE TABLE IF NOT EXISTS rds_instances (
		sync_run_id VARCHAR(36) NOT NULL,
		collected_at DATETIME NOT NULL,
		db_instance_id VARCHAR(255) NOT NULL,
		db_instance_class VARCHAR(64),
		db_engine VARCHAR(64),
		db_engine_version VARCHAR(64),
		db_status VARCHAR(64),
		master_username VARCHAR(255),
		endpoint_address VARCHAR(255) NULL,
		endpoint_port INTEGER NULL,
		vpc_id VARCHAR(64),
		availability_zone VARCHAR(64),
		multi_az BOOLEAN,
		backup_retention_period INTEGER,
		storage_type VARCHAR(32),
		allocated_storage INTEGER,
		storage_encrypted BOOLEAN,
		instance_create_time DATETIME NULL,
		license_model VARCHAR(64),
		tags TEXT,` + metricColumns + `
	);
`

// DatabaseUsageView is the narrow usage projection of rds_instances. It has no write path.
const DatabaseUsageView = `
	CREATE OR REPLACE VIEW rds_instance_usage AS
	SELECT
		sync_run_id,
		collected_at,
		db_instance_id,
		db_instance_class,
		db_engine,
		storage_type,
		allocated_storage,
		cost,
		usage_quantity
	FROM rds_instances;
`

const StorageBuckets = `
	CREATE TABLE IF NOT EXISTS s3_buckets (
		sync_run_id VARCHAR(36) NOT NULL,
		collected_at DATETIME NOT NULL,
		bucket_name VARCHAR(255) NOT NULL,
		creation_date DATETIME NULL,
		region VARCHAR(64),
		total_usage DOUBLE,
		total_cost DOUBLE,
		window_start DATETIME,
		window_end DATETIME,` + metricColumns + `
	);
`

const CostUsage = `
	CREATE TABLE IF NOT EXISTS cost_usage (
		sync_run_id VARCHAR(36) NOT NULL,
		collected_at DATETIME NOT NULL,
		billing_period_start DATE NOT NULL,
		billing_period_end DATE,
		service VARCHAR(255) NOT NULL,
		usage_type VARCHAR(255) NOT NULL,
		unblended_cost DOUBLE,
		usage_quantity DOUBLE,
		currency VARCHAR(8) NOT NULL,
		region VARCHAR(64) NULL
	);
`

// Statements must run in order: the view depends on rds_instances.
var Statements = []string{
	ComputeInstances,
	ManagedDatabases,
	DatabaseUsageView,
	StorageBuckets,
	CostUsage,
}
