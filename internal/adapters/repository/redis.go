package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

const redisDependency = "redis"

// RedisConfig locates the Redis server.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RedisStore implements Cache over go-redis.
type RedisStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisStore builds a client for cfg. It does not dial; call Ping to
// check reachability.
func NewRedisStore(cfg RedisConfig, opts ...Option) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, opts ...Option) *RedisStore {
	s := newSettings(opts)
	return &RedisStore{client: client, logger: s.logger}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.client.Ping(ctx).Err()
	metrics.RecordProbe(redisDependency, "ping", err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug(ctx, "redis ping failed", logger.Error(err))
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Set stores value under key with ttl.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	start := time.Now()
	err := s.client.Set(ctx, key, value, ttl).Err()
	metrics.RecordProbe(redisDependency, "set", err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get reads key. A missing key returns ErrKeyNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := s.client.Get(ctx, key).Result()
	metrics.RecordProbe(redisDependency, "get", err == nil, time.Since(start))
	switch {
	case errors.Is(err, redis.Nil):
		return "", fmt.Errorf("redis get %s: %w", key, ErrKeyNotFound)
	case err != nil:
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Close releases the client's connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
