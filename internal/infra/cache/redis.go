// Package cache provides a Redis read-through cache for price slabs. Slabs
// change rarely and are read on every quote, so a short TTL trades a bounded
// staleness window for one Mongo round-trip per quote.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

type SlabCache struct {
	client *redis.Client
	inner  domainpricing.SlabRepository
	ttl    time.Duration
	logger *slog.Logger
}

func NewSlabCache(client *redis.Client, inner domainpricing.SlabRepository, ttl time.Duration, logger *slog.Logger) *SlabCache {
	return &SlabCache{client: client, inner: inner, ttl: ttl, logger: logger}
}

// ListByHotel serves from Redis when possible and falls back to the inner
// repository. Cache failures degrade to the source of truth, never to errors.
func (c *SlabCache) ListByHotel(ctx context.Context, hotelID domainrooms.HotelID) ([]domainpricing.PriceSlab, error) {
	key := slabKey(hotelID)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var slabs []domainpricing.PriceSlab
		if err := json.Unmarshal(payload, &slabs); err == nil {
			return slabs, nil
		}
	} else if err != redis.Nil && c.logger != nil {
		c.logger.Warn("slab cache read failed", "hotel_id", hotelID, "error", err)
	}

	slabs, err := c.inner.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(slabs); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.Warn("slab cache write failed", "hotel_id", hotelID, "error", err)
		}
	}
	return slabs, nil
}

// Save writes through and drops the hotel's cache entry.
func (c *SlabCache) Save(ctx context.Context, slab domainpricing.PriceSlab) error {
	if err := c.inner.Save(ctx, slab); err != nil {
		return err
	}
	if err := c.client.Del(ctx, slabKey(slab.HotelID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("slab cache invalidation failed", "hotel_id", slab.HotelID, "error", err)
	}
	return nil
}

func slabKey(hotelID domainrooms.HotelID) string {
	return "slabs:" + string(hotelID)
}

var _ domainpricing.SlabRepository = (*SlabCache)(nil)
