package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/report"
)

// RedisConfig configures the Redis report store.
type RedisConfig struct {
	// Address is the Redis server address (e.g. "localhost:6379").
	Address string

	// Password for Redis authentication (optional).
	Password string

	// Database number to use (default 0).
	Database int

	// Prefix is prepended to all report keys.
	Prefix string

	// TTL is the time-to-live for stored reports (0 = keep forever).
	TTL time.Duration

	// Timeout bounds each Redis operation.
	Timeout time.Duration
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig(address string) RedisConfig {
	return RedisConfig{
		Address: address,
		Prefix:  "opendq:reports:",
		TTL:     30 * 24 * time.Hour,
		Timeout: 5 * time.Second,
	}
}

// RedisStore archives reports in Redis.
type RedisStore struct {
	cfg    RedisConfig
	client *redis.Client
}

// NewRedisStore connects and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "opendq:reports:"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeStore, "failed to connect to Redis")
	}
	return &RedisStore{cfg: cfg, client: client}, nil
}

func (s *RedisStore) key(id string) string {
	return s.cfg.Prefix + id
}

// Save persists the report JSON under its ID, with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, rep *report.Report) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := rep.ToJSON()
	if err != nil {
		return errdefs.Wrap(err, errdefs.CodeStore, "cannot serialize report")
	}
	if err := s.client.Set(ctx, s.key(rep.ID), data, s.cfg.TTL).Err(); err != nil {
		return errdefs.Wrap(err, errdefs.CodeStore, "cannot store report")
	}
	return nil
}

// Get retrieves the stored JSON for a report ID.
func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, errdefs.Newf(errdefs.CodeStore, "report %s not found", id)
	}
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeStore, "cannot load report")
	}
	return data, nil
}

// List scans for stored report IDs.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var ids []string
	iter := s.client.Scan(ctx, 0, s.cfg.Prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.cfg.Prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan report keys: %w", err)
	}
	return ids, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
