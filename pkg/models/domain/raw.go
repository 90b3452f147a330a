package domain

import (
	"time"

	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// BucketObservation is a bucket listing enriched with its location and the
// account-wide S3 usage/cost aggregate of the lookback window.
type BucketObservation struct {
	Name         *string
	CreationDate *time.Time
	Region       *string
	TotalUsage   float64
	TotalCost    float64
	WindowStart  time.Time
	WindowEnd    time.Time
}

// CostGroupObservation is one Cost Explorer group inside one billing period.
type CostGroupObservation struct {
	TimePeriod *cetypes.DateInterval
	Keys       []string
	Metrics    map[string]cetypes.MetricValue
	// Region is set when the query was filtered by region; Cost Explorer
	// cannot group by more than two dimensions.
	Region *string
}
