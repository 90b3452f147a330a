package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultRegion = "us-east-1" // used when neither the flag nor the profile sets one
)

// LoadConfig resolves SDK configuration for a shared profile and checks that
// credentials can be retrieved before any fetch runs.
func LoadConfig(ctx context.Context, profile, region string) (awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if _, err = awsCfg.Credentials.Retrieve(ctx); err != nil {
		return awssdk.Config{}, fmt.Errorf("invalid AWS credentials for profile %q: %w", profile, err)
	}

	return awsCfg, nil
}
