package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DraftStore persists in-progress form snapshots keyed by form type and
// user. Load returns nil bytes when no draft exists.
type DraftStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, snapshot []byte) error
	Delete(ctx context.Context, key string) error
}

// DraftKey builds the fixed per-form-type key for one user's draft.
func DraftKey(formType, userID string) string {
	return fmt.Sprintf("draft:%s:%s", formType, userID)
}

// RedisDraftStore keeps draft snapshots in redis with a TTL, so abandoned
// drafts age out on their own.
type RedisDraftStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *goredis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient dials redis and verifies connectivity before returning.
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address must be provided")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *RedisDraftStore) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", key, err)
	}
	return raw, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, key string, snapshot []byte) error {
	if err := s.rdb.Set(ctx, key, snapshot, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}
