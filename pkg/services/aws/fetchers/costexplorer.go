package fetchers

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	metricUnblendedCost = "UnblendedCost"
	metricUsageQuantity = "UsageQuantity"
)

type CostFetcher struct {
	client CostExplorerAPI
	window WindowFunc
	region string
	now    func() time.Time
}

// NewCostFetcher queries the whole account; a non-empty region adds a REGION
// filter and is recorded on every observation.
func NewCostFetcher(client CostExplorerAPI, window WindowFunc, region string) *CostFetcher {
	return &CostFetcher{client: client, window: window, region: region, now: time.Now}
}

func (f *CostFetcher) Fetch(ctx context.Context) ([]domain.CostGroupObservation, error) {
	window, err := f.window(f.now())
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryCost, err)
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod:  window.interval(),
		Granularity: window.Granularity,
		Metrics:     []string{metricUnblendedCost, metricUsageQuantity},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String(string(cetypes.DimensionService))},
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String(string(cetypes.DimensionUsageType))},
		},
	}
	var region *string
	if f.region != "" {
		region = aws.String(f.region)
		input.Filter = &cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.DimensionRegion,
				Values: []string{f.region},
			},
		}
	}

	resp, err := f.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryCost, err)
	}

	var observations []domain.CostGroupObservation
	for _, result := range resp.ResultsByTime {
		for _, group := range result.Groups {
			observations = append(observations, domain.CostGroupObservation{
				TimePeriod: result.TimePeriod,
				Keys:       group.Keys,
				Metrics:    group.Metrics,
				Region:     region,
			})
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("periods", len(resp.ResultsByTime)).
		Int("groups", len(observations)).
		Str("window_start", window.Start.Format(time.DateOnly)).
		Str("window_end", window.End.Format(time.DateOnly)).
		Str("granularity", string(window.Granularity)).
		Msg("queried cost and usage")
	return observations, nil
}
