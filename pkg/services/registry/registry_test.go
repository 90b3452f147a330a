package registry

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/services/aws/fetchers"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	storage "github.com/de-tools/cloud-sync/pkg/store"
	sqlstore "github.com/de-tools/cloud-sync/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	instances []ec2types.Instance
}

func (f fakeEC2) DescribeInstances(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: f.instances}},
	}, nil
}

func TestNewRunners_CoversEveryCategory(t *testing.T) {
	runners := NewRunners(Clients{}, Options{}, nil)

	categories := make([]domain.Category, 0, len(runners))
	for _, r := range runners {
		categories = append(categories, r.Category())
	}
	assert.Equal(t, domain.Categories, categories)
}

func TestNewRunners_ComputeSyncTwiceAppends(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, "duckdb", "")
	require.NoError(t, err)
	defer db.Close()

	writer, err := sqlstore.NewWriter(db)
	require.NoError(t, err)

	clients := Clients{EC2: fakeEC2{instances: []ec2types.Instance{
		{InstanceId: aws.String("i-1"), InstanceType: ec2types.InstanceTypeT3Micro},
		{InstanceId: aws.String("i-2")},
		{InstanceType: ec2types.InstanceTypeT3Micro},
	}}}
	window := fetchers.Window{
		Start: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC),
	}
	svc := pipeline.NewService(store.PlaceholderNull, NewRunners(clients, Options{Window: fetchers.FixedWindow(window)}, writer)...)

	for range 2 {
		result, err := svc.Sync(ctx, domain.CategoryCompute)
		require.NoError(t, err)
		assert.Equal(t, pipeline.OutcomeSucceeded, result.Outcome)
		assert.Equal(t, 2, result.Written)
		assert.Equal(t, 1, result.Skipped)
	}

	var rows, runs int
	require.NoError(t, db.QueryRow("SELECT count(*), count(DISTINCT sync_run_id) FROM ec2_instances").Scan(&rows, &runs))
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, runs)
}
