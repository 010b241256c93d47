package config

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	presign    *s3.PresignClient
}

// NewS3Config initializes the S3 client for the report archive bucket.
// Credentials come from the default AWS chain. A non-empty endpoint targets
// an S3-compatible service with path-style addressing.
func NewS3Config(ctx context.Context, bucket, region, endpoint string) (*S3Config, error) {
	if bucket == "" {
		return nil, fmt.Errorf("report bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3ConfigFromClient(client, bucket), nil
}

// NewS3ConfigFromClient wraps an already configured client.
func NewS3ConfigFromClient(client *s3.Client, bucket string) *S3Config {
	return &S3Config{
		Client:     client,
		BucketName: bucket,
		presign:    s3.NewPresignClient(client),
	}
}

// Upload stores body under objectKey with server-side encryption.
func (s *S3Config) Upload(ctx context.Context, objectKey string, body []byte, contentType string) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.BucketName),
		Key:                  aws.String(objectKey),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String(contentType),
		ContentLength:        aws.Int64(int64(len(body))),
		ServerSideEncryption: "AES256",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return nil
}

// GeneratePresignedURL generates a presigned URL for the given object key with the specified expiration time
func (s *S3Config) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	presignedURL, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
