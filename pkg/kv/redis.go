package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each slot as a plain string key under a prefix
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the Redis backend
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// NewRedis connects to Redis and verifies the connection with PING
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Address, err)
	}

	return NewRedisWithClient(client, opts.Prefix), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove slot %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Name() string {
	return "redis"
}

// Close closes the Redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
