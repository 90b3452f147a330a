package adapters

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
)

func MapRDSInstanceToStoreManagedDatabase(instance rdstypes.DBInstance, meta store.RunMeta) (store.ManagedDatabase, error) {
	id := aws.ToString(instance.DBInstanceIdentifier)
	if id == "" {
		return store.ManagedDatabase{}, &domain.MalformedRecordError{Category: domain.CategoryDatabase, Field: "DBInstanceIdentifier"}
	}

	var address *string
	var port *int32
	if instance.Endpoint != nil {
		address = copyPtr(instance.Endpoint.Address)
		port = copyPtr(instance.Endpoint.Port)
	}

	vpcID := NotAvailable
	if instance.DBSubnetGroup != nil {
		vpcID = stringOr(instance.DBSubnetGroup.VpcId, NotAvailable)
	}

	tags := make(map[string]string, len(instance.TagList))
	for _, tag := range instance.TagList {
		if tag.Key == nil {
			continue
		}
		tags[*tag.Key] = aws.ToString(tag.Value)
	}

	return store.ManagedDatabase{
		SyncRunID:             meta.RunID,
		CollectedAt:           meta.CollectedAt,
		DBInstanceID:          id,
		DBInstanceClass:       stringOr(instance.DBInstanceClass, NotAvailable),
		Engine:                stringOr(instance.Engine, NotAvailable),
		EngineVersion:         stringOr(instance.EngineVersion, NotAvailable),
		Status:                stringOr(instance.DBInstanceStatus, UnknownState),
		MasterUsername:        stringOr(instance.MasterUsername, NotAvailable),
		EndpointAddress:       address,
		EndpointPort:          port,
		VpcID:                 vpcID,
		AvailabilityZone:      stringOr(instance.AvailabilityZone, NotAvailable),
		MultiAZ:               aws.ToBool(instance.MultiAZ),
		BackupRetentionPeriod: aws.ToInt32(instance.BackupRetentionPeriod),
		StorageType:           stringOr(instance.StorageType, NotAvailable),
		AllocatedStorage:      aws.ToInt32(instance.AllocatedStorage),
		StorageEncrypted:      aws.ToBool(instance.StorageEncrypted),
		InstanceCreateTime:    copyPtr(instance.InstanceCreateTime),
		LicenseModel:          stringOr(instance.LicenseModel, NotAvailable),
		Tags:                  encodeTags(tags),
		Metrics:               store.NewPlaceholderMetrics(meta),
	}, nil
}
