package store

import (
	"fmt"
	"time"
)

// CostFact is a billing time-series point. It has no identity beyond its
// dimensions and is never deduplicated here. A metric the provider did not
// report is nil, not zero.
type CostFact struct {
	SyncRunID          string     `json:"sync_run_id"`
	CollectedAt        time.Time  `json:"collected_at"`
	BillingPeriodStart time.Time  `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end"`
	Service            string     `json:"service"`
	UsageType          string     `json:"usage_type"`
	UnblendedCost      *float64   `json:"unblended_cost"`
	UsageQuantity      *float64   `json:"usage_quantity"`
	Currency           string     `json:"currency"`
	Region             *string    `json:"region"`
}

func (r CostFact) Table() string { return CostUsageTable }

func (r CostFact) NaturalKey() string {
	region := ""
	if r.Region != nil {
		region = *r.Region
	}
	return fmt.Sprintf("%s/%s/%s/%s", r.BillingPeriodStart.Format(time.DateOnly), r.Service, r.UsageType, region)
}

func (r CostFact) Columns() []string {
	return columns(runColumns, []string{
		"billing_period_start", "billing_period_end", "service", "usage_type",
		"unblended_cost", "usage_quantity", "currency", "region",
	})
}

func (r CostFact) Values() []any {
	return []any{
		r.SyncRunID, r.CollectedAt,
		r.BillingPeriodStart, nullable(r.BillingPeriodEnd), r.Service, r.UsageType,
		nullable(r.UnblendedCost), nullable(r.UsageQuantity), r.Currency, nullable(r.Region),
	}
}
