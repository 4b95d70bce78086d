package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-crud-console/internal/domain/user"
)

// listKey holds the whole ordered collection served by GET /users.
const listKey = "users:all"

// UserCache defines the cache operations of the mock API.
// Misses are reported as (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error

	// GetList returns the cached collection, or nil on a miss.
	GetList(ctx context.Context) ([]domain.User, error)
	SetList(ctx context.Context, users []domain.User) error
	// Invalidate drops user id and the cached collection.
	Invalidate(ctx context.Context, id int64) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (c *RedisUserCache) cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	hit, err := c.load(ctx, c.cacheKey(id), &user)
	if err != nil || !hit {
		return nil, err
	}
	return &user, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return c.store(ctx, c.cacheKey(user.ID), user)
}

// GetList retrieves the cached collection.
func (c *RedisUserCache) GetList(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	hit, err := c.load(ctx, listKey, &users)
	if err != nil || !hit {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// SetList caches the whole collection.
func (c *RedisUserCache) SetList(ctx context.Context, users []domain.User) error {
	return c.store(ctx, listKey, users)
}

// Invalidate removes user id and the collection in one round trip.
func (c *RedisUserCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.cacheKey(id), listKey).Err(); err != nil {
		c.log.Error("failed to invalidate cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	c.log.Debug("invalidated cache", zap.Int64("user_id", id))
	return nil
}

func (c *RedisUserCache) load(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("key", key), zap.Error(err))
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.log.Error("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, err
	}

	c.log.Debug("cache hit", zap.String("key", key))
	return true, nil
}

func (c *RedisUserCache) store(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached value", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}
