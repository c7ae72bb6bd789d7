package sync

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Destination uploads the JSONL export to an S3-compatible bucket,
// overwriting one object on every run.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
}

// S3Config locates the backup object.
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string // custom endpoint, e.g. MinIO
}

// NewS3Destination creates an S3 destination using the default AWS
// credential chain. If Endpoint is set, path-style addressing is enabled.
func NewS3Destination(ctx context.Context, c S3Config) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newS3Destination(cfg, c), nil
}

func newS3Destination(cfg aws.Config, c S3Config) *S3Destination {
	endpoint := c.Endpoint

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: c.Bucket,
		key:    c.Key,
	}
}

// String names the destination in logs.
func (d *S3Destination) String() string {
	return "s3://" + d.bucket + "/" + d.key
}

// Write uploads data to S3 as the configured object key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", d, err)
	}
	return nil
}
