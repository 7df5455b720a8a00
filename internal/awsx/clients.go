package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients bundles all service clients for convenience.
type Clients struct {
	DynamoDB  DynamoDBAPI
	S3        S3API
	Presigner S3Presigner
}

// NewClients loads AWS config and returns concrete service clients that implement our interfaces.
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(cfg)

	return &Clients{
		DynamoDB:  dynamodb.NewFromConfig(cfg),
		S3:        s3Client,
		Presigner: s3.NewPresignClient(s3Client),
	}, nil
}
