// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/vidora/internal/platform/constants"
)

// # Count Cache

// CountCache stores derived integer counts with a TTL.
type CountCache interface {
	// Get reports ok=false on a miss.
	Get(context context.Context, key string) (value int, ok bool, err error)
	Set(context context.Context, key string, value int, ttl time.Duration) error
	Delete(context context.Context, key string) error
}

// RedisCountCache implements [CountCache] on Redis strings.
type RedisCountCache struct {
	client *goredis.Client
}

// NewRedisCountCache wraps an existing client.
func NewRedisCountCache(client *goredis.Client) *RedisCountCache {
	return &RedisCountCache{client: client}
}

func (cache *RedisCountCache) Get(context context.Context, key string) (int, bool, error) {
	raw, err := cache.client.Get(context, key).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

func (cache *RedisCountCache) Set(context context.Context, key string, value int, ttl time.Duration) error {
	return cache.client.Set(context, key, value, ttl).Err()
}

func (cache *RedisCountCache) Delete(context context.Context, key string) error {
	return cache.client.Del(context, key).Err()
}

// # Subscriber Counter

// CountSource is the authoritative store behind the cache.
type CountSource interface {
	CountSubscribers(context context.Context, channelID string) (int, error)
}

// SubscriberCounter serves per-channel subscriber counts from the cache and
// collapses concurrent misses for the same channel into one database query.
//
// Cache failures are logged and fall through to PostgreSQL.
type SubscriberCounter struct {
	source CountSource
	cache  CountCache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewSubscriberCounter builds a counter. cache may be nil to disable caching.
func NewSubscriberCounter(source CountSource, cache CountCache, logger *slog.Logger) *SubscriberCounter {
	return &SubscriberCounter{
		source: source,
		cache:  cache,
		ttl:    constants.SubscriberCountTTL,
		logger: logger,
	}
}

/*
Count returns the number of subscribers of a channel.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - int: Subscriber count (possibly up to the cache TTL stale)
  - error: Storage failures from PostgreSQL
*/
func (counter *SubscriberCounter) Count(context context.Context, channelID string) (int, error) {
	key := constants.RedisPrefixSubscriberCount + channelID

	if counter.cache != nil {
		value, ok, err := counter.cache.Get(context, key)
		if err != nil {
			counter.logger.Warn("subscriber_count_cache_read_failed", slog.String("error", err.Error()))
		}
		if ok {
			return value, nil
		}
	}

	result, err, _ := counter.group.Do(channelID, func() (any, error) {
		// The query is shared by every waiter, so the first caller's cancellation must not end it.
		shared, cancel := detach(context)
		defer cancel()

		total, err := counter.source.CountSubscribers(shared, channelID)
		if err != nil {
			return 0, err
		}

		if counter.cache != nil {
			if err := counter.cache.Set(shared, key, total, counter.ttl); err != nil {
				counter.logger.Warn("subscriber_count_cache_write_failed", slog.String("error", err.Error()))
			}
		}
		return total, nil
	})
	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

// detach keeps parent's values but not its cancellation, bounded by the statement timeout.
func detach(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), constants.StatementTimeout)
}

// Invalidate drops the cached count after a subscription change.
func (counter *SubscriberCounter) Invalidate(context context.Context, channelID string) {
	if counter.cache == nil {
		return
	}

	if err := counter.cache.Delete(context, constants.RedisPrefixSubscriberCount+channelID); err != nil {
		counter.logger.Warn("subscriber_count_cache_invalidate_failed",
			slog.String("channel_id", channelID),
			slog.String("error", err.Error()),
		)
	}
}
