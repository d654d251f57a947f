package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventmate/booking-service/config"
	"github.com/eventmate/booking-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	eventsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, eventsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		eventsTTL: eventsTTL,
	}
}

func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := c.client.Get(ctx, eventsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsKey(), payload, c.eventsTTL).Err()
}

// AcquireSeatLock takes a short-lived advisory lock on (event, seat) so
// that concurrent requests for the same seat fail fast instead of queueing
// on the event row lock. Correctness does not depend on it; the database
// transaction is the arbiter.
func (c *RedisCache) AcquireSeatLock(ctx context.Context, eventID int64, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(eventID, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, eventID int64, seat int) error {
	return c.client.Del(ctx, seatLockKey(eventID, seat)).Err()
}

func eventsKey() string {
	return "cache:events"
}

func seatLockKey(eventID int64, seat int) string {
	return fmt.Sprintf("lock:event:%d:seat:%d", eventID, seat)
}
