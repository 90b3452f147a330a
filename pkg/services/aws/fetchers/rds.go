package fetchers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/rs/zerolog"
)

type RDSFetcher struct {
	client RDSAPI
}

func NewRDSFetcher(client RDSAPI) *RDSFetcher {
	return &RDSFetcher{client: client}
}

func (f *RDSFetcher) Fetch(ctx context.Context) ([]rdstypes.DBInstance, error) {
	resp, err := f.client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, domain.NewUpstreamFetchError(domain.CategoryDatabase, err)
	}

	zerolog.Ctx(ctx).Debug().Int("instances", len(resp.DBInstances)).Msg("described RDS instances")
	return resp.DBInstances, nil
}
