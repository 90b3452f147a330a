package adapters

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
)

func MapBucketObservationToStoreStorageBucket(bucket domain.BucketObservation, meta store.RunMeta) (store.StorageBucket, error) {
	name := aws.ToString(bucket.Name)
	if name == "" {
		return store.StorageBucket{}, &domain.MalformedRecordError{Category: domain.CategoryStorage, Field: "Name"}
	}

	return store.StorageBucket{
		SyncRunID:    meta.RunID,
		CollectedAt:  meta.CollectedAt,
		BucketName:   name,
		CreationDate: copyPtr(bucket.CreationDate),
		Region:       stringOr(bucket.Region, NotAvailable),
		TotalUsage:   bucket.TotalUsage,
		TotalCost:    bucket.TotalCost,
		WindowStart:  bucket.WindowStart,
		WindowEnd:    bucket.WindowEnd,
		Metrics:      store.NewPlaceholderMetrics(meta),
	}, nil
}
