// Package redis provides a Redis-backed implementation of the PendingStore port.
//
// Each staged upload is one JSON value under "<prefix><session key>" with the
// configured TTL, so abandoned uploads expire without a sweeper.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// DefaultPrefix namespaces pending upload keys.
const DefaultPrefix = "semdoc:pending:"

// Client is the subset of the go-redis client used by PendingStore.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Options configures the Redis connection.
type Options struct {
	// Address is the Redis server address.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
}

// Connect opens a Redis client and verifies it with PING.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Address, err)
	}
	return client, nil
}

// Ensure PendingStore implements the interface.
var _ driven.PendingStore = (*PendingStore)(nil)

// PendingStore stores pending uploads in Redis.
type PendingStore struct {
	client Client
	prefix string
	ttl    time.Duration
}

// NewPendingStore creates a Redis pending store. A ttl of zero means no expiry.
func NewPendingStore(client Client, prefix string, ttl time.Duration) *PendingStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PendingStore{client: client, prefix: prefix, ttl: ttl}
}

// Stage creates or replaces the upload for its session key.
func (s *PendingStore) Stage(ctx context.Context, upload domain.PendingUpload) error {
	if upload.SessionKey == "" {
		return domain.ErrInvalidRequest
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(upload)
	if err != nil {
		return fmt.Errorf("redis: encoding upload: %w", err)
	}
	if err := s.client.Set(ctx, s.key(upload.SessionKey), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: staging upload: %w", err)
	}
	return nil
}

// Peek reads the upload without clearing it.
func (s *PendingStore) Peek(ctx context.Context, sessionKey string) (*domain.PendingUpload, error) {
	return decode(s.client.Get(ctx, s.key(sessionKey)))
}

// Clear removes the upload.
func (s *PendingStore) Clear(ctx context.Context, sessionKey string) error {
	if err := s.client.Del(ctx, s.key(sessionKey)).Err(); err != nil {
		return fmt.Errorf("redis: clearing upload: %w", err)
	}
	return nil
}

func (s *PendingStore) key(sessionKey string) string {
	return s.prefix + sessionKey
}

func decode(cmd *goredis.StringCmd) (*domain.PendingUpload, error) {
	data, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: reading upload: %w", err)
	}

	var upload domain.PendingUpload
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, fmt.Errorf("redis: decoding upload: %w", err)
	}
	return &upload, nil
}
