package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ensure RedisPreferenceStore implements PreferenceStore
var _ PreferenceStore = (*RedisPreferenceStore)(nil)

// RedisPreferenceStore keeps per-chat default tipsters in Redis. There is no
// in-process cache; last write wins.
type RedisPreferenceStore struct {
	client *redis.Client
}

// NewRedisPreferenceStore connects and pings Redis.
func NewRedisPreferenceStore(addr, password string, db int) (*RedisPreferenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPreferenceStore{client: client}, nil
}

func prefKey(chatID int64) string {
	return fmt.Sprintf("pref:tipster:%d", chatID)
}

func (r *RedisPreferenceStore) SetDefaultTipster(ctx context.Context, chatID int64, tipster string) error {
	tipster = strings.TrimSpace(tipster)
	if tipster == "" {
		return r.client.Del(ctx, prefKey(chatID)).Err()
	}
	// Preferences have no expiry.
	return r.client.Set(ctx, prefKey(chatID), tipster, 0).Err()
}

func (r *RedisPreferenceStore) DefaultTipster(ctx context.Context, chatID int64) (string, error) {
	val, err := r.client.Get(ctx, prefKey(chatID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read tipster preference: %w", err)
	}
	return val, nil
}

// Ping checks connectivity for health reporting.
func (r *RedisPreferenceStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the connection to Redis.
func (r *RedisPreferenceStore) Close() error {
	return r.client.Close()
}
