package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vendora/pkg/logger"
	"vendora/pkg/model"

	"github.com/redis/go-redis/v9"
)

// TimelineCache holds the derived per-event timeline between reads. Writers
// invalidate after every authoritative store mutation, so a hit is never
// older than the last committed write plus the TTL safety net.
type TimelineCache interface {
	Get(ctx context.Context, eventID string) ([]model.TimelineEvent, bool)
	Set(ctx context.Context, eventID string, entries []model.TimelineEvent)
	Invalidate(ctx context.Context, eventID string)
}

const keyPrefix = "timeline:"

type redisTimelineCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisTimelineCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) TimelineCache {
	return &redisTimelineCache{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func (c *redisTimelineCache) Get(ctx context.Context, eventID string) ([]model.TimelineEvent, bool) {
	data, err := c.rdb.Get(ctx, keyPrefix+eventID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Timeline cache read failed", "event_id", eventID, "error", err)
		}
		return nil, false
	}

	var entries []model.TimelineEvent
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warn("Timeline cache entry corrupt, dropping", "event_id", eventID, "error", err)
		c.Invalidate(ctx, eventID)
		return nil, false
	}

	return entries, true
}

func (c *redisTimelineCache) Set(ctx context.Context, eventID string, entries []model.TimelineEvent) {
	data, err := json.Marshal(entries)
	if err != nil {
		c.log.Warn("Failed to encode timeline for cache", "event_id", eventID, "error", err)
		return
	}

	if err := c.rdb.Set(ctx, keyPrefix+eventID, data, c.ttl).Err(); err != nil {
		c.log.Warn("Timeline cache write failed", "event_id", eventID, "error", err)
	}
}

func (c *redisTimelineCache) Invalidate(ctx context.Context, eventID string) {
	if err := c.rdb.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		c.log.Warn("Timeline cache invalidation failed", "event_id", eventID, "error", err)
	}
}

// NoopTimelineCache disables caching; every timeline read recomputes.
type NoopTimelineCache struct{}

func (NoopTimelineCache) Get(ctx context.Context, eventID string) ([]model.TimelineEvent, bool) {
	return nil, false
}

func (NoopTimelineCache) Set(ctx context.Context, eventID string, entries []model.TimelineEvent) {}

func (NoopTimelineCache) Invalidate(ctx context.Context, eventID string) {}
