package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorage defines the contract for profile photo storage.
type ObjectStorage interface {
	// Upload stores the object and returns its key within the bucket.
	// folder is a logical prefix in storage (e.g. "profile-photos").
	Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// PresignedURL returns a time-limited GET URL for the given key.
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

// S3Config carries the bucket settings explicitly instead of reading
// process-wide defaults at call sites.
type S3Config struct {
	Region string
	Bucket string
}

type s3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Storage creates an S3-backed implementation of ObjectStorage.
// Credentials come from the standard AWS SDK chain (env, shared config, IAM).
func NewS3Storage(ctx context.Context, cfg S3Config) (ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &s3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("s3 storage is not initialized")
	}

	key := fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixNano(), sanitizeFileName(fileName))

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to s3: %w", err)
	}

	return key, nil
}

func (s *s3Storage) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if s == nil || s.presign == nil {
		return "", fmt.Errorf("s3 storage is not initialized")
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign object URL: %w", err)
	}

	return req.URL, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("s3 storage is not initialized")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from s3: %w", err)
	}

	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	return url.PathEscape(name)
}
