// Package ratelimit provides a Redis-backed token bucket shared by the HTTP
// and gRPC transports of the mock API.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds the bucket parameters.
type Config struct {
	RequestsPerSecond float64
	BurstCapacity     int
}

// tokenBucket refills at ARGV[1] tokens per second up to ARGV[2] tokens and
// takes one token per call. Returns 1 when the call is allowed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, ttl)
return allowed
`)

// Limiter is a token bucket per key, stored in Redis.
type Limiter struct {
	client *redis.Client
	cfg    Config
	ttl    int
	log    *zap.Logger
	now    func() time.Time
}

// New creates a Limiter.
func New(client *redis.Client, cfg Config, log *zap.Logger) (*Limiter, error) {
	if client == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	if cfg.RequestsPerSecond <= 0 || cfg.BurstCapacity <= 0 {
		return nil, errors.New("ratelimit: rate and burst must be positive")
	}

	// keep an idle bucket until it would be full again
	ttl := int(math.Ceil(float64(cfg.BurstCapacity)/cfg.RequestsPerSecond)) + 1

	return &Limiter{client: client, cfg: cfg, ttl: ttl, log: log, now: time.Now}, nil
}

// Config returns the bucket parameters.
func (l *Limiter) Config() Config {
	return l.cfg
}

// Allow takes one token from the bucket stored at key. Redis failures are
// logged and the call is allowed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	now := float64(l.now().UnixMilli()) / 1000
	allowed, err := tokenBucket.Run(ctx, l.client, []string{key},
		l.cfg.RequestsPerSecond, l.cfg.BurstCapacity, now, l.ttl).Int64()
	if err != nil {
		l.log.Warn("rate limiter redis error, allowing request", zap.String("key", key), zap.Error(err))
		return true
	}
	return allowed == 1
}
