// Package imagestore uploads meter photos to Cloudflare R2 (S3-compatible)
// and returns durable public URLs for the billing records.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is what the billing service depends on; the R2 client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// R2Client pushes objects into a single bucket under the readings/ prefix.
type R2Client struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewR2ClientFromEnv builds the client from R2_* environment variables.
func NewR2ClientFromEnv(ctx context.Context) (*R2Client, error) {
	bucket := os.Getenv("R2_BUCKET")
	accountID := os.Getenv("R2_ACCOUNT_ID")
	publicBase := os.Getenv("R2_PUBLIC_URL")

	if bucket == "" || accountID == "" || publicBase == "" {
		return nil, fmt.Errorf("missing required R2 environment variables")
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY_ID"),
			os.Getenv("R2_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Client{client: client, bucket: bucket, publicBase: publicBase}, nil
}

// Upload stores the image bytes and returns the public URL. The object key is
// timestamped so repeated submissions from the same account never collide; only
// the extension of the client-supplied filename is kept.
func (r *R2Client) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := fmt.Sprintf("readings/%d%s", time.Now().UnixNano(), path.Ext(filename))

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(r.publicBase, "/"), key)
	return fileURL, nil
}
