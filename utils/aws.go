package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config for region. When AWS_ENDPOINT_URL
// is set (e.g. http://localstack:4566) every client is pointed at it and the
// endpoint is returned so S3 can switch to path-style addressing.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, string, error) {
	if region == "" {
		return aws.Config{}, "", fmt.Errorf("AWS_REGION not set")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}

	endpoint := os.Getenv("AWS_ENDPOINT_URL")
	if endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, "", fmt.Errorf("unable to load AWS config: %w", err)
	}
	return cfg, endpoint, nil
}
