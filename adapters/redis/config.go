package redisarchive

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the Redis-backed Archive.
type Config struct {
	Addr         string
	DB           int
	Password     string
	Prefix       string
	Username     string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// ResultTTL expires archived run results. Zero keeps them forever; trace
	// logs share the same TTL.
	ResultTTL time.Duration
}

// Archive persists run trace events and assembled results in Redis.
type Archive struct {
	rdb        redis.UniversalClient
	prefix     string
	resultTTL  time.Duration
	appendSHA  string
	ownsClient bool
}

// New creates a new Redis Archive with the provided configuration.
func New(cfg Config) (*Archive, error) {
	opts := &redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "streamloom"
	}
	a := &Archive{rdb: rdb, prefix: prefix, resultTTL: cfg.ResultTTL, ownsClient: true}
	// load Lua script and cache SHA (best-effort; fallback to EVAL if it fails)
	if sha, err := a.rdb.ScriptLoad(ctx, luaAppendTrace).Result(); err == nil {
		a.appendSHA = sha
	}
	return a, nil
}

// NewFromClient constructs an Archive from a user-managed
// redis.UniversalClient. The Archive will not Close() the client.
func NewFromClient(ctx context.Context, rdb redis.UniversalClient, prefix string) (*Archive, error) {
	if prefix == "" {
		prefix = "streamloom"
	}
	// Verify the connection works
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	a := &Archive{rdb: rdb, prefix: prefix}
	if sha, err := a.rdb.ScriptLoad(ctx, luaAppendTrace).Result(); err == nil {
		a.appendSHA = sha
	}
	return a, nil
}

// Close closes the underlying Redis client.
func (a *Archive) Close() error {
	if a.ownsClient {
		return a.rdb.Close()
	}
	return nil
}
