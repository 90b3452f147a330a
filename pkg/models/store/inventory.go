package store

import "time"

const (
	ComputeInstancesTable  = "ec2_instances"
	ManagedDatabasesTable  = "rds_instances"
	StorageBucketsTable    = "s3_buckets"
	CostUsageTable         = "cost_usage"
	DatabaseUsageViewTable = "rds_instance_usage"
)

type ComputeInstance struct {
	SyncRunID        string             `json:"sync_run_id"`
	CollectedAt      time.Time          `json:"collected_at"`
	InstanceID       string             `json:"instance_id"`
	InstanceType     string             `json:"instance_type"`
	State            string             `json:"state"`
	LaunchTime       *time.Time         `json:"launch_time"`
	PrivateIP        string             `json:"private_ip"`
	PublicIP         string             `json:"public_ip"`
	AvailabilityZone string             `json:"availability_zone"`
	Tags             string             `json:"tags"`
	Metrics          PlaceholderMetrics `json:"metrics"`
}

func (r ComputeInstance) Table() string      { return ComputeInstancesTable }
func (r ComputeInstance) NaturalKey() string { return r.InstanceID }

func (r ComputeInstance) Columns() []string {
	return columns(runColumns, []string{
		"instance_id", "instance_type", "state", "launch_time",
		"private_ip", "public_ip", "availability_zone", "tags",
	}, metricColumns)
}

func (r ComputeInstance) Values() []any {
	return append([]any{
		r.SyncRunID, r.CollectedAt,
		r.InstanceID, r.InstanceType, r.State, nullable(r.LaunchTime),
		r.PrivateIP, r.PublicIP, r.AvailabilityZone, r.Tags,
	}, r.Metrics.values()...)
}

// ManagedDatabase is the canonical RDS row; rds_instance_usage is a view over it.
type ManagedDatabase struct {
	SyncRunID             string             `json:"sync_run_id"`
	CollectedAt           time.Time          `json:"collected_at"`
	DBInstanceID          string             `json:"db_instance_id"`
	DBInstanceClass       string             `json:"db_instance_class"`
	Engine                string             `json:"db_engine"`
	EngineVersion         string             `json:"db_engine_version"`
	Status                string             `json:"db_status"`
	MasterUsername        string             `json:"master_username"`
	EndpointAddress       *string            `json:"endpoint_address"`
	EndpointPort          *int32             `json:"endpoint_port"`
	VpcID                 string             `json:"vpc_id"`
	AvailabilityZone      string             `json:"availability_zone"`
	MultiAZ               bool               `json:"multi_az"`
	BackupRetentionPeriod int32              `json:"backup_retention_period"`
	StorageType           string             `json:"storage_type"`
	AllocatedStorage      int32              `json:"allocated_storage"`
	StorageEncrypted      bool               `json:"storage_encrypted"`
	InstanceCreateTime    *time.Time         `json:"instance_create_time"`
	LicenseModel          string             `json:"license_model"`
	Tags                  string             `json:"tags"`
	Metrics               PlaceholderMetrics `json:"metrics"`
}

func (r ManagedDatabase) Table() string      { return ManagedDatabasesTable }
func (r ManagedDatabase) NaturalKey() string { return r.DBInstanceID }

func (r ManagedDatabase) Columns() []string {
	return columns(runColumns, []string{
		"db_instance_id", "db_instance_class", "db_engine", "db_engine_version", "db_status",
		"master_username", "endpoint_address", "endpoint_port", "vpc_id", "availability_zone",
		"multi_az", "backup_retention_period", "storage_type", "allocated_storage",
		"storage_encrypted", "instance_create_time", "license_model", "tags",
	}, metricColumns)
}

func (r ManagedDatabase) Values() []any {
	return append([]any{
		r.SyncRunID, r.CollectedAt,
		r.DBInstanceID, r.DBInstanceClass, r.Engine, r.EngineVersion, r.Status,
		r.MasterUsername, nullable(r.EndpointAddress), nullable(r.EndpointPort), r.VpcID, r.AvailabilityZone,
		r.MultiAZ, r.BackupRetentionPeriod, r.StorageType, r.AllocatedStorage,
		r.StorageEncrypted, nullable(r.InstanceCreateTime), r.LicenseModel, r.Tags,
	}, r.Metrics.values()...)
}

type StorageBucket struct {
	SyncRunID    string             `json:"sync_run_id"`
	CollectedAt  time.Time          `json:"collected_at"`
	BucketName   string             `json:"bucket_name"`
	CreationDate *time.Time         `json:"creation_date"`
	Region       string             `json:"region"`
	TotalUsage   float64            `json:"total_usage"`
	TotalCost    float64            `json:"total_cost"`
	WindowStart  time.Time          `json:"window_start"`
	WindowEnd    time.Time          `json:"window_end"`
	Metrics      PlaceholderMetrics `json:"metrics"`
}

func (r StorageBucket) Table() string      { return StorageBucketsTable }
func (r StorageBucket) NaturalKey() string { return r.BucketName }

func (r StorageBucket) Columns() []string {
	return columns(runColumns, []string{
		"bucket_name", "creation_date", "region", "total_usage", "total_cost",
		"window_start", "window_end",
	}, metricColumns)
}

func (r StorageBucket) Values() []any {
	return append([]any{
		r.SyncRunID, r.CollectedAt,
		r.BucketName, nullable(r.CreationDate), r.Region, r.TotalUsage, r.TotalCost,
		r.WindowStart, r.WindowEnd,
	}, r.Metrics.values()...)
}
