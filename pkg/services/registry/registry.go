package registry

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cloud-sync/pkg/adapters"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/services/aws/fetchers"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
)

// Clients groups the provider APIs the pipelines read from.
type Clients struct {
	EC2          fetchers.EC2API
	RDS          fetchers.RDSAPI
	S3           fetchers.S3API
	CostExplorer fetchers.CostExplorerAPI
}

func NewClients(cfg awssdk.Config) Clients {
	return Clients{
		EC2:          ec2.NewFromConfig(cfg),
		RDS:          rds.NewFromConfig(cfg),
		S3:           s3.NewFromConfig(cfg),
		CostExplorer: costexplorer.NewFromConfig(cfg),
	}
}

type Options struct {
	// Window is resolved again at the start of every storage and cost fetch.
	Window     fetchers.WindowFunc
	CostRegion string
}

// NewRunners wires one pipeline per category, all sharing the same writer.
func NewRunners(clients Clients, opts Options, writer pipeline.Writer) []pipeline.Runner {
	return []pipeline.Runner{
		pipeline.New[ec2types.Instance, store.ComputeInstance](
			domain.CategoryCompute,
			fetchers.NewEC2Fetcher(clients.EC2),
			adapters.MapEC2InstanceToStoreComputeInstance,
			writer,
		),
		pipeline.New[rdstypes.DBInstance, store.ManagedDatabase](
			domain.CategoryDatabase,
			fetchers.NewRDSFetcher(clients.RDS),
			adapters.MapRDSInstanceToStoreManagedDatabase,
			writer,
		),
		pipeline.New[domain.BucketObservation, store.StorageBucket](
			domain.CategoryStorage,
			fetchers.NewS3Fetcher(clients.S3, clients.CostExplorer, opts.Window),
			adapters.MapBucketObservationToStoreStorageBucket,
			writer,
		),
		pipeline.New[domain.CostGroupObservation, store.CostFact](
			domain.CategoryCost,
			fetchers.NewCostFetcher(clients.CostExplorer, opts.Window, opts.CostRegion),
			adapters.MapCostGroupToStoreCostFact,
			writer,
		),
	}
}
