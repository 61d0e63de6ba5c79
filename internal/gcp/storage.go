package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GCSAssets implements services.AssetStore against a single Cloud Storage
// bucket. Objects are written with a does-not-exist precondition: asset keys
// are generated per upload attempt, so a precondition failure means a retry
// raced its own earlier attempt and the object is already in place.
type GCSAssets struct {
	bucket *storage.BucketHandle
}

func NewGCSAssets(client *storage.Client, bucketName string) (*GCSAssets, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucketName must be provided to create an asset store")
	}
	return &GCSAssets{bucket: client.Bucket(bucketName)}, nil
}

func (s *GCSAssets) Put(ctx context.Context, key, contentType string, data []byte) error {
	writer := s.bucket.Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Asset object already exists, skipping write.", "key", key)
			return nil
		}
		return fmt.Errorf("failed to write asset %s: %w", key, err)
	}

	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Asset object already exists, skipping write.", "key", key)
			return nil
		}
		return fmt.Errorf("failed to finalize asset write for %s: %w", key, err)
	}
	return nil
}
