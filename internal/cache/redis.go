package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mamadbah2/gigboard/internal/config"
	"github.com/mamadbah2/gigboard/internal/domain/models"
)

// RedisSnapshot shares the snapshot between service instances through redis.
type RedisSnapshot struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisClient connects to redis and pings it with a short timeout.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisSnapshot stores the snapshot as JSON under key with the given TTL.
func NewRedisSnapshot(client redis.Cmdable, key string, ttl time.Duration) *RedisSnapshot {
	return &RedisSnapshot{client: client, key: key, ttl: ttl}
}

// Load fetches and decodes the snapshot.
func (r *RedisSnapshot) Load(ctx context.Context) ([]models.Booking, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var bookings []models.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return bookings, nil
}

// Store encodes and writes the snapshot.
func (r *RedisSnapshot) Store(ctx context.Context, bookings []models.Booking) error {
	raw, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Invalidate deletes the snapshot key.
func (r *RedisSnapshot) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}
