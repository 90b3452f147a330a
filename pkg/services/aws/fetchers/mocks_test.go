package fetchers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

type mockEC2 struct{ mock.Mock }

func (m *mockEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ec2.DescribeInstancesOutput)
	return out, args.Error(1)
}

type mockRDS struct{ mock.Mock }

func (m *mockRDS) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*rds.DescribeDBInstancesOutput)
	return out, args.Error(1)
}

type mockS3 struct{ mock.Mock }

func (m *mockS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListBucketsOutput)
	return out, args.Error(1)
}

func (m *mockS3) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetBucketLocationOutput)
	return out, args.Error(1)
}

type mockCostExplorer struct{ mock.Mock }

func (m *mockCostExplorer) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*costexplorer.GetCostAndUsageOutput)
	return out, args.Error(1)
}
