// Package lock serialises variant materialisation of one binding across
// API instances with a Redis SET NX lease.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/variant"
	"varibulk/pkg/logger"
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// Client is the subset of *redis.Client the lock needs.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// Options configures RedisLocker.
type Options struct {
	// Prefix is prepended to every binding key
	Prefix string
	// TTL bounds how long a crashed holder blocks others
	TTL time.Duration
	// Wait is how long Lock retries before reporting apperror Locked
	Wait time.Duration
	// Poll is the retry interval while waiting
	Poll time.Duration
}

// DefaultOptions returns a 30s lease with a 2s wait.
func DefaultOptions() Options {
	return Options{
		Prefix: "varibulk:variant-lock:",
		TTL:    30 * time.Second,
		Wait:   2 * time.Second,
		Poll:   50 * time.Millisecond,
	}
}

var _ variant.BindingLocker = (*RedisLocker)(nil)

// RedisLocker implements variant.BindingLocker.
type RedisLocker struct {
	client Client
	opts   Options
}

// NewRedisLocker creates a locker. Zero option fields take defaults.
func NewRedisLocker(client Client, opts Options) *RedisLocker {
	def := DefaultOptions()
	if opts.Prefix == "" {
		opts.Prefix = def.Prefix
	}
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.Poll <= 0 {
		opts.Poll = def.Poll
	}
	if opts.Wait < 0 {
		opts.Wait = 0
	}
	return &RedisLocker{client: client, opts: opts}
}

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Lock implements variant.BindingLocker.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.opts.Prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.opts.Wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire binding lock: %w", err)
		}
		if ok {
			return l.releaser(ctx, redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, apperror.NewLocked(key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.opts.Poll):
		}
	}
}

func (l *RedisLocker) releaser(ctx context.Context, redisKey, token string) func() {
	return func() {
		// Released after the request may have been cancelled
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := l.client.Eval(relCtx, releaseScript, []string{redisKey}, token).Err(); err != nil {
			logger.Warn(ctx, "failed to release binding lock", "key", redisKey, "error", err)
		}
	}
}
