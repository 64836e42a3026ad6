// Package app 組裝估價服務的依賴
package app

import (
	"context"
	"fmt"
	"time"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/core/pricing/cache"
	"recipe-cost/internal/core/spoonacular"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// NewPricingService 依設定建立估價服務，回傳的 cleanup 需在結束時呼叫
func NewPricingService(cfg *config.Config, table *config.PriceTable) (*pricing.Service, func(), error) {
	cleanup := func() {}

	var source pricing.PriceSource
	if cfg.Spoonacular.APIKey != "" {
		source = spoonacular.NewClient(cfg.Spoonacular)
	} else {
		common.LogWarn("未設定 Spoonacular API key，只使用手動價格")
	}

	if source != nil && cfg.Cache.Enabled {
		store, err := newStore(cfg.Cache)
		if err != nil {
			return nil, cleanup, err
		}
		source = cache.NewSource(source, store)
		cleanup = func() {
			if err := store.Close(); err != nil {
				common.LogWarn("Failed to close price cache", zap.Error(err))
			}
		}
	}

	estimator := pricing.NewEstimator(table.EstimatorConfig(cfg.Pricing.Markup), source)
	svc := pricing.NewService(table.UnitTable(), pricing.NewCleaner(table.FillerWords), estimator)

	common.LogInfo("估價服務已初始化",
		zap.Bool("price_service", source != nil),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("manual_prices", len(table.ManualPrices)),
		zap.Float64("markup", cfg.Pricing.Markup),
		zap.String("spoonacular_key", common.MaskAPIKey(cfg.Spoonacular.APIKey)),
	)
	return svc, cleanup, nil
}

// newStore redis_addr 有設定時使用 Redis，否則使用記憶體快取
func newStore(cfg config.CacheConfig) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		return cache.NewManager(cfg), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	store, err := cache.NewRedisStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize price cache: %w", err)
	}
	common.LogInfo("使用 Redis 價格快取", zap.String("addr", cfg.RedisAddr))
	return store, nil
}
