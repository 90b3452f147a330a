package fetchers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/rs/zerolog"
)

type EC2Fetcher struct {
	client EC2API
}

func NewEC2Fetcher(client EC2API) *EC2Fetcher {
	return &EC2Fetcher{client: client}
}

// Fetch returns every instance of the first DescribeInstances page, in any state.
func (f *EC2Fetcher) Fetch(ctx context.Context) ([]ec2types.Instance, error) {
	resp, err := f.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryCompute, err)
	}

	var instances []ec2types.Instance
	for _, reservation := range resp.Reservations {
		instances = append(instances, reservation.Instances...)
	}

	zerolog.Ctx(ctx).Debug().
		Int("reservations", len(resp.Reservations)).
		Int("instances", len(instances)).
		Msg("described EC2 instances")
	return instances, nil
}
