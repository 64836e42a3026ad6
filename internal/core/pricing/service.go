package pricing

import (
	"context"
	"fmt"
	"strconv"

	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜估價流程
type Service struct {
	units     UnitTable
	cleaner   *Cleaner
	estimator *Estimator
}

// NewService 創建估價服務
func NewService(units UnitTable, cleaner *Cleaner, estimator *Estimator) *Service {
	return &Service{
		units:     units,
		cleaner:   cleaner,
		estimator: estimator,
	}
}

// EstimateRecipe 從食譜 markdown 取出食材並估價
func (s *Service) EstimateRecipe(ctx context.Context, recipe string) ([]string, *Breakdown) {
	lines := ExtractIngredients(recipe)
	return lines, s.EstimateTotal(ctx, lines)
}

// EstimateTotal 依序為每一行食材估價，失敗的食材只會被略過
func (s *Service) EstimateTotal(ctx context.Context, lines []string) *Breakdown {
	b := NewBreakdown()
	memo := make(map[string]Result)

	for _, line := range lines {
		entry, skipped := s.priceLine(ctx, line, memo)
		if skipped != nil {
			b.Skipped = append(b.Skipped, *skipped)
			continue
		}
		b.Entries = append(b.Entries, entry)
		b.Total = b.Total.Add(entry.Price)
	}
	b.Total = b.Total.Round(2)

	common.LogInfo("食譜估價完成",
		zap.Int("ingredients", len(lines)),
		zap.Int("priced", len(b.Entries)),
		zap.Int("skipped", len(b.Skipped)),
		zap.String("total", b.Total.StringFixed(2)),
	)
	return b
}

// priceLine 處理單一食材；panic 只影響該食材
func (s *Service) priceLine(ctx context.Context, line string, memo map[string]Result) (entry Entry, skipped *Skipped) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("Panic while pricing ingredient",
				zap.Any("error", r),
				zap.String("line", line),
			)
			skipped = &Skipped{Line: line, Reason: SkipInternal}
		}
	}()

	qty := ParseQuantityUnit(line)
	if !qty.Valid() {
		common.LogWarn("Skipping invalid or missing unit", zap.String("line", line))
		return Entry{}, &Skipped{Line: line, Reason: SkipInvalidQuantity}
	}

	normalized := s.units.Normalize(qty.Unit, qty.Amount)
	name := s.cleaner.Clean(line, qty.Unit)
	if name == "" {
		common.LogWarn("Skipping ingredient with empty name", zap.String("line", line))
		return Entry{}, &Skipped{Line: line, Reason: SkipEmptyName}
	}

	key := memoKey(name, normalized)
	result, ok := memo[key]
	if !ok {
		result = s.estimator.Estimate(ctx, name, normalized)
		memo[key] = result
	}

	common.LogDebug("Ingredient priced",
		zap.String("ingredient", name),
		zap.Float64("amount", normalized.Amount),
		zap.String("unit", normalized.Unit),
		zap.Stringer("status", result.Status),
	)

	switch result.Status {
	case Found:
		return Entry{Name: name, Price: result.Price, Source: result.Source}, nil
	case NotFound:
		return Entry{}, &Skipped{Line: line, Name: name, Reason: SkipNotFound}
	default:
		return Entry{}, &Skipped{Line: line, Name: name, Reason: SkipUnavailable}
	}
}

func memoKey(name string, n Normalized) string {
	return fmt.Sprintf("%s|%s|%s", name, strconv.FormatFloat(n.Amount, 'f', -1, 64), n.Unit)
}
