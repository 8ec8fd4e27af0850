package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/redis/go-redis/v9"
)

// Kind names a family of cached entries that are invalidated together.
type Kind string

const (
	KindBookings     Kind = "bookings"
	KindBooking      Kind = "booking"
	KindAvailability Kind = "availability"
	KindBoats        Kind = "boats"
	KindBoat         Kind = "boat"
)

const scanBatch = 100

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}))
}

func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get decodes the entry stored under key into dest. It reports false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Invalidate drops the entry of kind for id, or every entry of kind when id is nil.
func (c *RedisCache) Invalidate(ctx context.Context, kind Kind, id *int64) error {
	if id != nil {
		return c.client.Del(ctx, Key(kind, *id)).Err()
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix(kind)+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s: %w", kind, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// AcquireBoatLock serialises booking writes for one boat across instances.
func (c *RedisCache) AcquireBoatLock(ctx context.Context, boatID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, boatLockKey(boatID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBoatLock(ctx context.Context, boatID int64) error {
	return c.client.Del(ctx, boatLockKey(boatID)).Err()
}

func prefix(kind Kind) string {
	return "cache:" + string(kind) + ":"
}

func Key(kind Kind, id int64) string {
	return fmt.Sprintf("%s%d", prefix(kind), id)
}

// QueryKey derives a stable key for a parameterised read such as a filtered list.
func QueryKey(kind Kind, query any) string {
	payload, err := json.Marshal(query)
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", query))
	}
	sum := sha1.Sum(payload)
	return prefix(kind) + "q:" + hex.EncodeToString(sum[:])
}

func boatLockKey(boatID int64) string {
	return fmt.Sprintf("lock:boat:%d:bookings", boatID)
}
