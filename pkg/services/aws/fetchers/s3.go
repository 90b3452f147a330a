package fetchers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	S3ServiceName = "Amazon Simple Storage Service"

	// us-east-1 buckets report an empty location constraint.
	s3LegacyRegion = "us-east-1"
)

type S3Fetcher struct {
	client S3API
	costs  CostExplorerAPI
	window WindowFunc
	now    func() time.Time
}

func NewS3Fetcher(client S3API, costs CostExplorerAPI, window WindowFunc) *S3Fetcher {
	return &S3Fetcher{client: client, costs: costs, window: window, now: time.Now}
}

// Fetch lists buckets, resolves each bucket's region and attaches the
// service-wide S3 usage and cost totals for the window to every bucket.
// Cost Explorer has no per-bucket dimension.
func (f *S3Fetcher) Fetch(ctx context.Context) ([]domain.BucketObservation, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := f.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryStorage, err)
	}
	if len(resp.Buckets) == 0 {
		return nil, nil
	}

	window, err := f.window(f.now())
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryStorage, err)
	}

	usage, cost, err := f.totals(ctx, window)
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryStorage, err)
	}

	buckets := make([]domain.BucketObservation, 0, len(resp.Buckets))
	for _, bucket := range resp.Buckets {
		region, err := f.region(ctx, bucket.Name)
		if err != nil {
			logger.Warn().Err(err).Str("bucket", aws.ToString(bucket.Name)).Msg("unable to resolve bucket region")
		}
		buckets = append(buckets, domain.BucketObservation{
			Name:         bucket.Name,
			CreationDate: bucket.CreationDate,
			Region:       region,
			TotalUsage:   usage,
			TotalCost:    cost,
			WindowStart:  window.Start,
			WindowEnd:    window.End,
		})
	}
	return buckets, nil
}

func (f *S3Fetcher) region(ctx context.Context, name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	loc, err := f.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: name})
	if err != nil {
		return nil, err
	}
	region := string(loc.LocationConstraint)
	if region == "" {
		region = s3LegacyRegion
	}
	return &region, nil
}

func (f *S3Fetcher) totals(ctx context.Context, window Window) (usage, cost float64, err error) {
	resp, err := f.costs.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod:  window.interval(),
		Granularity: cetypes.GranularityDaily,
		Metrics:     []string{metricUsageQuantity, metricUnblendedCost},
		Filter: &cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.DimensionService,
				Values: []string{S3ServiceName},
			},
		},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("get S3 cost and usage: %w", err)
	}

	add := func(metrics map[string]cetypes.MetricValue) error {
		u, err := amount(metrics, metricUsageQuantity)
		if err != nil {
			return err
		}
		c, err := amount(metrics, metricUnblendedCost)
		if err != nil {
			return err
		}
		usage += u
		cost += c
		return nil
	}

	for _, result := range resp.ResultsByTime {
		if len(result.Groups) == 0 {
			if err := add(result.Total); err != nil {
				return 0, 0, err
			}
			continue
		}
		for _, group := range result.Groups {
			if err := add(group.Metrics); err != nil {
				return 0, 0, err
			}
		}
	}
	return usage, cost, nil
}

func amount(metrics map[string]cetypes.MetricValue, name string) (float64, error) {
	metric, ok := metrics[name]
	if !ok || metric.Amount == nil {
		return 0, nil
	}
	v, err := strconv.ParseFloat(*metric.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s amount %q: %w", name, *metric.Amount, err)
	}
	return v, nil
}
