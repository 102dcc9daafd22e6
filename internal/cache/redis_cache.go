package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hungpv1995/blog-seeder/internal/models"
	"github.com/redis/go-redis/v9"
)

// HomeKey holds the cached listing rendered on the home page.
const HomeKey = "posts:home"

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func postKey(postID int) string {
	return fmt.Sprintf("post:%d", postID)
}

// GetPost retrieves a post from cache; a miss returns nil, nil
func (c *RedisCache) GetPost(ctx context.Context, postID int) (*models.Post, error) {
	var post models.Post
	ok, err := c.get(ctx, postKey(postID), &post)
	if err != nil || !ok {
		return nil, err
	}
	return &post, nil
}

// SetPost stores a post in cache with TTL
func (c *RedisCache) SetPost(ctx context.Context, post *models.Post, ttl time.Duration) error {
	return c.set(ctx, postKey(post.ID), post, ttl)
}

// GetHome retrieves the cached home listing; a miss returns nil, nil
func (c *RedisCache) GetHome(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	ok, err := c.get(ctx, HomeKey, &posts)
	if err != nil || !ok {
		return nil, err
	}
	return posts, nil
}

// SetHome stores the home listing with TTL
func (c *RedisCache) SetHome(ctx context.Context, posts []models.Post, ttl time.Duration) error {
	return c.set(ctx, HomeKey, posts, ttl)
}

// InvalidateHome drops the home listing so the next request reloads it
func (c *RedisCache) InvalidateHome(ctx context.Context) error {
	return c.del(ctx, HomeKey)
}

// Ping checks if Redis is available
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *RedisCache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
