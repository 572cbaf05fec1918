package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the S3 backend. PublicURL, when set (e.g. a CDN in
// front of the bucket), replaces the virtual-hosted bucket URL.
type S3Config struct {
	Region    string
	Bucket    string
	Prefix    string
	PublicURL string
}

// S3 writes blobs to a bucket using the default AWS credential chain.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 loads AWS credentials and returns an S3 store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3{client: s3.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// Put implements Store. body should be an io.ReadSeeker (multipart files are)
// so the SDK can sign the payload.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	full := s.cfg.Prefix + strings.TrimLeft(key, "/")
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(full),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", full, err)
	}
	return s.url(full), nil
}

func (s *S3) url(full string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + full
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, full)
}
