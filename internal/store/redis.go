package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // zero keeps keys forever
}

// Redis stores each tenant's data as a JSON string under its own key.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return NewRedis(client, opts.TTL), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Key returns the Redis key holding a tenant's data.
func Key(tenantID string) string {
	return constants.RedisKeyPrefix + tenantID
}

func (r *Redis) Get(ctx context.Context, tenantID string) (allocation.Data, error) {
	if err := checkTenant(tenantID); err != nil {
		return allocation.Data{}, err
	}
	payload, err := r.client.Get(ctx, Key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return allocation.Data{}, ErrNotFound
	}
	if err != nil {
		return allocation.Data{}, fmt.Errorf("failed to load tenant data: %w", err)
	}
	return decode(payload)
}

func (r *Redis) Put(ctx context.Context, tenantID string, data allocation.Data) error {
	if err := checkTenant(tenantID); err != nil {
		return err
	}
	payload, err := encode(data)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, Key(tenantID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save tenant data: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
