package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// RedisKV stores blobs as plain Redis strings with no expiry.
type RedisKV struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKV wraps client. Every key is stored as prefix+key.
func NewRedisKV(client redis.Cmdable, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

// Get returns the blob for key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.RedisKV.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RedisKV.Get: %w", err)
	}
	return b, nil
}

// Set writes the blob for key.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisKV.Set: %w", err)
	}
	return nil
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr           string
	Password       string
	DB             int
	ConnectTimeout time.Duration // total time allowed for connection attempts
	RetryInterval  time.Duration // first wait between attempts, doubled up to MaxWait
	MaxWait        time.Duration
}

// NewRedisClient opens a client and pings it until it answers or
// ConnectTimeout elapses, backing off exponentially between attempts.
func NewRedisClient(ctx context.Context, opts RedisOptions, log *slog.Logger) (*redis.Client, error) {
	if opts.ConnectTimeout <= 0 || opts.RetryInterval <= 0 || opts.MaxWait <= 0 {
		return nil, fmt.Errorf("repo.NewRedisClient: timeouts must be > 0")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	wait := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		err := client.Ping(ctx).Err()
		if err == nil {
			log.Info("connected to redis", "addr", opts.Addr, "attempts", attempt)
			return client, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = client.Close()
			return nil, fmt.Errorf("repo.NewRedisClient: %s unavailable after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
			log.Warn("redis connection failed, retrying",
				"addr", opts.Addr, "attempt", attempt, "next_retry_in", wait, "error", err)
			wait = min(wait*2, opts.MaxWait)
		}
	}
}
