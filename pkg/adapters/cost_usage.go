package adapters

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
)

const (
	MetricUnblendedCost = "UnblendedCost"
	MetricUsageQuantity = "UsageQuantity"

	// CostCurrency is fixed; Cost Explorer reports unblended cost in USD.
	CostCurrency = "USD"
)

func MapCostGroupToStoreCostFact(group domain.CostGroupObservation, meta store.RunMeta) (store.CostFact, error) {
	malformed := func(field string, err error) (store.CostFact, error) {
		return store.CostFact{}, &domain.MalformedRecordError{Category: domain.CategoryCost, Field: field, Err: err}
	}

	if group.TimePeriod == nil || aws.ToString(group.TimePeriod.Start) == "" {
		return malformed("TimePeriod.Start", nil)
	}
	start, err := time.Parse(time.DateOnly, aws.ToString(group.TimePeriod.Start))
	if err != nil {
		return malformed("TimePeriod.Start", err)
	}

	var end *time.Time
	if s := aws.ToString(group.TimePeriod.End); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return malformed("TimePeriod.End", err)
		}
		end = &t
	}

	if len(group.Keys) < 1 || group.Keys[0] == "" {
		return malformed("Keys[SERVICE]", nil)
	}
	if len(group.Keys) < 2 || group.Keys[1] == "" {
		return malformed("Keys[USAGE_TYPE]", nil)
	}

	cost, err := metricAmount(group, MetricUnblendedCost)
	if err != nil {
		return malformed(MetricUnblendedCost, err)
	}
	quantity, err := metricAmount(group, MetricUsageQuantity)
	if err != nil {
		return malformed(MetricUsageQuantity, err)
	}

	return store.CostFact{
		SyncRunID:          meta.RunID,
		CollectedAt:        meta.CollectedAt,
		BillingPeriodStart: start,
		BillingPeriodEnd:   end,
		Service:            group.Keys[0],
		UsageType:          group.Keys[1],
		UnblendedCost:      cost,
		UsageQuantity:      quantity,
		Currency:           CostCurrency,
		Region:             copyPtr(group.Region),
	}, nil
}

// metricAmount returns nil for an absent metric and an error for one that is present but not numeric.
func metricAmount(group domain.CostGroupObservation, name string) (*float64, error) {
	metric, ok := group.Metrics[name]
	if !ok || metric.Amount == nil {
		return nil, nil
	}
	amount, err := strconv.ParseFloat(*metric.Amount, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", *metric.Amount, err)
	}
	return &amount, nil
}
