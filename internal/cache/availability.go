package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
)

// AvailabilityCache keeps computed availability per (branch, type, date).
// It is strictly an accelerator: every error degrades to a miss, and
// booking mutations invalidate the day they touch.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func key(branchID, appointmentTypeID uint, date string) string {
	return fmt.Sprintf("availability:%d:%d:%s", branchID, appointmentTypeID, date)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
	date string,
) ([]domain.AvailableTime, bool) {

	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(branchID, appointmentTypeID, date)).Result()
	if err != nil {
		return nil, false
	}

	var times []domain.AvailableTime
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, false
	}

	return times, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
	date string,
	times []domain.AvailableTime,
) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(times)
	if err != nil {
		return
	}

	c.rdb.Set(ctx, key(branchID, appointmentTypeID, date), raw, c.ttl)
}

func (c *AvailabilityCache) Invalidate(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
	date string,
) {
	if c == nil || c.rdb == nil {
		return
	}

	c.rdb.Del(ctx, key(branchID, appointmentTypeID, date))
}
