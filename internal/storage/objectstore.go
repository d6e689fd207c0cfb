package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Cache-control applied to uploaded objects. Permanent images are
// content-addressed by uuid key, so a year-long immutable cache is safe.
const (
	CachePermanent = "public, max-age=31536000, immutable"
	CacheTemporary = "public, max-age=3600"
)

// ObjectStore wraps an S3-compatible bucket (Cloudflare R2).
type ObjectStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewObjectStore(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucket, publicURL string) (*ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &ObjectStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Put uploads an object and returns its public URL.
func (o *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string, temporary bool) (string, error) {
	cacheControl := CachePermanent
	if temporary {
		cacheControl = CacheTemporary
	}

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(o.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return o.publicURL + "/" + key, nil
}

func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})

	return err
}

// KeyFromURL extracts the object key from a public URL, or "" when the URL
// does not belong to this bucket.
func (o *ObjectStore) KeyFromURL(url string) string {
	if !strings.HasPrefix(url, o.publicURL+"/") {
		return ""
	}

	return strings.TrimPrefix(url, o.publicURL+"/")
}
