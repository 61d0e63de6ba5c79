package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	uploadAttempts    = 3
	uploadBackoffBase = 1 * time.Second
	uploadBackoffCap  = 10 * time.Second
)

// UploadMeta describes one binary asset being stored.
type UploadMeta struct {
	Filename    string
	ContentType string
}

// Uploader stores binary assets with bounded retries. A fresh asset key is
// generated per attempt, so a retry after a false-negative failure (the
// remote write committed but the response was lost) can leave a duplicate
// object behind. Upload is therefore not idempotent.
type Uploader struct {
	assets AssetStore
	sleep  func(time.Duration)
}

func NewUploader(assets AssetStore) *Uploader {
	return &Uploader{assets: assets, sleep: time.Sleep}
}

// Upload attempts the write up to uploadAttempts times with exponential
// backoff (1s, 2s, 4s... capped at 10s) and returns the stored asset's key.
// After exhausting retries it returns the last error; there is no partial
// result.
func (u *Uploader) Upload(ctx context.Context, data []byte, meta UploadMeta) (string, error) {
	var lastErr error
	for attempt := 0; attempt < uploadAttempts; attempt++ {
		if attempt > 0 {
			u.sleep(backoffDelay(attempt))
		}
		key := "assets/" + uuid.NewString()
		if err := u.assets.Put(ctx, key, meta.ContentType, data); err != nil {
			lastErr = err
			slog.Warn("Asset upload attempt failed.", "filename", meta.Filename, "attempt", attempt+1, "error", err)
			continue
		}
		return key, nil
	}
	return "", fmt.Errorf("upload of %s failed after %d attempts: %w", meta.Filename, uploadAttempts, lastErr)
}

func backoffDelay(attempt int) time.Duration {
	delay := uploadBackoffBase << (attempt - 1)
	if delay > uploadBackoffCap {
		delay = uploadBackoffCap
	}
	return delay
}
