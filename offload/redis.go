//go:build redis
// +build redis

package offload

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store backed by Redis hashes, one hash per scope.
// Writes: HSET + EXPIRE (resets the scope TTL); reads: HGET/HKEYS.
type RedisStore struct {
	rdb *redis.Client
	ns  string
	ttl time.Duration
}

// RedisConfig configures the RedisStore.
type RedisConfig struct {
	Addr      string
	Username  string
	Password  string
	DB        int
	Namespace string
	TTL       time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB})
	return &RedisStore{rdb: rdb, ns: cfg.Namespace, ttl: cfg.TTL}, nil
}

func (s *RedisStore) keyScope(scope string) string {
	return fmt.Sprintf("%s:offload:%s", s.ns, scope)
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, scope string, key string, value string) error {
	k := s.keyScope(scope)
	if err := s.rdb.HSet(ctx, k, key, value).Err(); err != nil {
		return err
	}
	// every write pushes the whole scope's expiry out
	return s.rdb.Expire(ctx, k, s.ttl).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, scope string, key string) (string, error) {
	v, err := s.rdb.HGet(ctx, s.keyScope(scope), key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Keys implements Store.
func (s *RedisStore) Keys(ctx context.Context, scope string) ([]string, error) {
	keys, err := s.rdb.HKeys(ctx, s.keyScope(scope)).Result()
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, scope string) error {
	return s.rdb.Del(ctx, s.keyScope(scope)).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
