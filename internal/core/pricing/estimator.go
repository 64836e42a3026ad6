package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-cost/internal/pkg/common"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMarkup 零售加成倍率
const DefaultMarkup = 1.3

var centsPerDollar = decimal.NewFromInt(100)

// EstimatorConfig 估價器設定
type EstimatorConfig struct {
	ManualPrices map[string]float64 // 手動價格（美元，未加成），key 不分大小寫
	Markup       float64
}

// Estimator 單一食材估價器：手動價格優先，其次查詢外部價格服務
type Estimator struct {
	manual map[string]decimal.Decimal
	source PriceSource
	markup decimal.Decimal
}

// NewEstimator 創建估價器，source 可為 nil（只使用手動價格）
func NewEstimator(cfg EstimatorConfig, source PriceSource) *Estimator {
	markup := cfg.Markup
	if markup <= 0 {
		markup = DefaultMarkup
	}

	manual := make(map[string]decimal.Decimal, len(cfg.ManualPrices))
	for name, price := range cfg.ManualPrices {
		manual[strings.ToLower(strings.TrimSpace(name))] = decimal.NewFromFloat(price)
	}

	return &Estimator{
		manual: manual,
		source: source,
		markup: decimal.NewFromFloat(markup),
	}
}

// Estimate 估算食材價格
func (e *Estimator) Estimate(ctx context.Context, name string, n Normalized) Result {
	if base, ok := e.manual[strings.ToLower(strings.TrimSpace(name))]; ok {
		common.LogInfo("Manual price used",
			zap.String("ingredient", name),
			zap.String("base_price", base.StringFixed(2)),
		)
		return Result{Status: Found, Price: e.applyMarkup(base), Source: SourceManual}
	}

	if e.source == nil {
		common.LogWarn("No price source configured", zap.String("ingredient", name))
		return Result{Status: Unavailable, Err: errors.New("no price source configured")}
	}

	start := time.Now()
	lookup, err := e.source.Lookup(ctx, name, n.Amount, n.Unit)
	common.LogLookup(name, time.Since(start), err)

	switch {
	case errors.Is(err, ErrNoResults):
		common.LogWarn("No pricing result for ingredient", zap.String("ingredient", name))
		return Result{Status: NotFound, Err: err}
	case errors.Is(err, ErrNoCost):
		common.LogWarn("No cost info for ingredient", zap.String("ingredient", name))
		return Result{Status: NotFound, Err: err}
	case err != nil:
		common.LogWarn("Pricing service failed",
			zap.String("ingredient", name),
			zap.Error(err),
		)
		return Result{Status: Unavailable, Err: err}
	}

	if lookup.CostCents < 0 {
		common.LogWarn("Negative cost from pricing service",
			zap.String("ingredient", name),
			zap.Float64("cost_cents", lookup.CostCents),
		)
		return Result{Status: Unavailable, Err: fmt.Errorf("negative cost %v for %q", lookup.CostCents, name)}
	}

	dollars := decimal.NewFromFloat(lookup.CostCents).Div(centsPerDollar)
	return Result{Status: Found, Price: e.applyMarkup(dollars), Source: SourceService}
}

func (e *Estimator) applyMarkup(base decimal.Decimal) decimal.Decimal {
	return base.Mul(e.markup).Round(2)
}
