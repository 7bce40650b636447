// Package cache is an optional Redis layer in front of the post
// directory: the home feed is read far more often than it changes.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pixelpal/pixelpal-service/internal/services/posts"
	"github.com/pixelpal/pixelpal-service/internal/types"
)

// FeedCache caches the sorted home feed with a short TTL and drops it
// whenever a post is created or a like toggled.
type FeedCache struct {
	posts *posts.Service
	redis *redis.Client
}

const (
	feedKey      = "pixelpal:cache:feed"
	feedCacheTTL = 45 * time.Second
)

func NewFeedCache(postDir *posts.Service, redisClient *redis.Client) *FeedCache {
	return &FeedCache{posts: postDir, redis: redisClient}
}

// Feed returns the cached feed, falling back to the post directory on
// a miss. Cache failures degrade to direct reads, never to errors.
func (c *FeedCache) Feed(ctx context.Context) ([]types.Post, error) {
	cached, err := c.redis.Get(ctx, feedKey).Result()
	if err == nil {
		var feed []types.Post
		if err := json.Unmarshal([]byte(cached), &feed); err == nil {
			return feed, nil
		}
	}

	feed, err := c.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(feed)
	if err := c.redis.Set(ctx, feedKey, data, feedCacheTTL).Err(); err != nil {
		slog.Warn("Failed to cache feed", slog.String("error", err.Error()))
	}

	return feed, nil
}

// Invalidate drops the cached feed.
func (c *FeedCache) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, feedKey).Err(); err != nil {
		slog.Warn("Failed to invalidate feed cache", slog.String("error", err.Error()))
	}
}
