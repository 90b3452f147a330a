package adapters

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
)

func MapEC2InstanceToStoreComputeInstance(instance ec2types.Instance, meta store.RunMeta) (store.ComputeInstance, error) {
	id := aws.ToString(instance.InstanceId)
	if id == "" {
		return store.ComputeInstance{}, &domain.MalformedRecordError{Category: domain.CategoryCompute, Field: "InstanceId"}
	}

	state := UnknownState
	if instance.State != nil && instance.State.Name != "" {
		state = string(instance.State.Name)
	}

	instanceType := NotAvailable
	if instance.InstanceType != "" {
		instanceType = string(instance.InstanceType)
	}

	zone := NotAvailable
	if instance.Placement != nil {
		zone = stringOr(instance.Placement.AvailabilityZone, NotAvailable)
	}

	tags := make(map[string]string, len(instance.Tags))
	for _, tag := range instance.Tags {
		if tag.Key == nil {
			continue
		}
		tags[*tag.Key] = aws.ToString(tag.Value)
	}

	return store.ComputeInstance{
		SyncRunID:        meta.RunID,
		CollectedAt:      meta.CollectedAt,
		InstanceID:       id,
		InstanceType:     instanceType,
		State:            state,
		LaunchTime:       copyPtr(instance.LaunchTime),
		PrivateIP:        stringOr(instance.PrivateIpAddress, NotAvailable),
		PublicIP:         stringOr(instance.PublicIpAddress, NotAvailable),
		AvailabilityZone: zone,
		Tags:             encodeTags(tags),
		Metrics:          store.NewPlaceholderMetrics(meta),
	}, nil
}
