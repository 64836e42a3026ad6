// Package cache 為外部價格查詢提供跨請求的快取
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 價格查詢快取儲存
type Store interface {
	Get(ctx context.Context, key string) (pricing.Lookup, bool)
	Set(ctx context.Context, key string, value pricing.Lookup) error
	Close() error
}

// Source 包裝 PriceSource，只快取成功的查詢
type Source struct {
	next  pricing.PriceSource
	store Store
}

var _ pricing.PriceSource = (*Source)(nil)

// NewSource 創建帶快取的價格來源
func NewSource(next pricing.PriceSource, store Store) *Source {
	return &Source{next: next, store: store}
}

// Lookup 實作 pricing.PriceSource
func (s *Source) Lookup(ctx context.Context, name string, amount float64, unit string) (pricing.Lookup, error) {
	key := Key(name, amount, unit)
	if lookup, ok := s.store.Get(ctx, key); ok {
		common.LogCacheHit("price")
		return lookup, nil
	}
	common.LogCacheMiss("price")

	lookup, err := s.next.Lookup(ctx, name, amount, unit)
	if err != nil {
		return lookup, err
	}

	if err := s.store.Set(ctx, key, lookup); err != nil {
		common.LogWarn("Failed to store price lookup", zap.String("ingredient", name), zap.Error(err))
	}
	return lookup, nil
}

// Key 生成緩存鍵
func Key(name string, amount float64, unit string) string {
	raw := strings.ToLower(strings.TrimSpace(name)) + "|" + strconv.FormatFloat(amount, 'f', -1, 64) + "|" + unit
	hash := sha256.Sum256([]byte(raw))
	return "price:lookup:" + hex.EncodeToString(hash[:])
}
