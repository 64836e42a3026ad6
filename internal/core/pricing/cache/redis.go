package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 緩存
type RedisStore struct {
	client *redis.Client
	config config.CacheConfig
}

// NewRedisStore 創建 Redis 緩存並測試連線
func NewRedisStore(ctx context.Context, cfg config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg), nil
}

// NewRedisStoreWithClient 使用既有的 Redis 連線
func NewRedisStoreWithClient(client *redis.Client, cfg config.CacheConfig) *RedisStore {
	return &RedisStore{client: client, config: cfg}
}

// Get 獲取緩存；Redis 錯誤視為未命中
func (s *RedisStore) Get(ctx context.Context, key string) (pricing.Lookup, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			common.LogWarn("Failed to read price cache", zap.Error(err))
		}
		return pricing.Lookup{}, false
	}

	var lookup pricing.Lookup
	if err := json.Unmarshal(data, &lookup); err != nil {
		common.LogWarn("Failed to decode price cache entry", zap.Error(err))
		return pricing.Lookup{}, false
	}
	return lookup, true
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key string, value pricing.Lookup) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal lookup: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
