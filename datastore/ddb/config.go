/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Config holds DynamoDB connection configuration.
type Config struct {
	// Region is the AWS region of the table.
	Region string `mapstructure:"region"`

	// Table is the single table all keyspaces share.
	Table string `mapstructure:"table"`

	// AccessKey and SecretKey select static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string `mapstructure:"endpoint"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("dynamodb table is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("dynamodb access_key and secret_key must be set together")
	}
	return nil
}

// NewClient initializes a DynamoDB client from cfg.
func NewClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
