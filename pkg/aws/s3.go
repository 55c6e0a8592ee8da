package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates an S3 client from AWS config. Path-style addressing is
// enabled when a custom endpoint is configured (LocalStack compatibility).
func NewS3Client(cfg sdkaws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// PresignPutObject generates a presigned PUT URL for the given bucket/key
// along with the headers the uploader must send.
func PresignPutObject(ctx context.Context, client *s3.Client, bucket, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	presigner := s3.NewPresignClient(client)

	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}

	presigned, err := presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return presigned.URL, headers, nil
}

// PublicObjectURL returns the URL a stored object will be served from. A CDN
// domain, when configured, takes precedence over the raw bucket URL.
func PublicObjectURL(bucket, region, endpoint, cdnDomain, key string) string {
	key = strings.TrimPrefix(key, "/")
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(endpoint, "/"), bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
