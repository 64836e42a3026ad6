package pricing

import (
	"strings"

	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

// 價格服務接受的標準單位
const (
	UnitGrams       = "grams"
	UnitMilliliters = "milliliters"
	UnitTablespoon  = "tablespoon"
	UnitTeaspoon    = "teaspoon"
	UnitPiece       = "piece"
	UnitClove       = "clove"
)

// UnitTable 單位換算表
//
// Weight 與 Volume 需要數值換算（轉為 grams / milliliters），優先於 Aliases。
// Aliases 只做改名，改名後的單位必須在 Supported 之中才會被接受。
type UnitTable struct {
	Weight    map[string]float64
	Volume    map[string]float64
	Aliases   map[string]string
	Supported map[string]bool
}

// DefaultUnitTable 內建換算表
func DefaultUnitTable() UnitTable {
	return UnitTable{
		Weight: map[string]float64{
			"lb": 454, "lbs": 454, "pound": 454, "pounds": 454,
			"kg": 1000, "kilogram": 1000, "kilograms": 1000,
		},
		Volume: map[string]float64{
			"tbsp": 15, "tablespoon": 15, "tablespoons": 15,
			"tsp": 5, "teaspoon": 5, "teaspoons": 5,
			"l": 1000, "liter": 1000, "liters": 1000,
		},
		Aliases: map[string]string{
			"g": UnitGrams, "gram": UnitGrams, "grams": UnitGrams,
			"ml": UnitMilliliters, "milliliter": UnitMilliliters, "milliliters": UnitMilliliters,
			"tbsp": UnitTablespoon, "tsp": UnitTeaspoon,
			"clove": UnitClove, "cloves": UnitClove,
			"unit": UnitPiece, "piece": UnitPiece, "pieces": UnitPiece,
		},
		Supported: SupportedUnits(),
	}
}

// SupportedUnits 標準單位集合
func SupportedUnits() map[string]bool {
	return map[string]bool{
		UnitGrams:       true,
		UnitMilliliters: true,
		UnitTablespoon:  true,
		UnitTeaspoon:    true,
		UnitPiece:       true,
		UnitClove:       true,
	}
}

// Normalize 將原始單位與數量轉為標準單位
//
// 不支援的單位不是錯誤：回傳 Normalized{Amount: 1, Unit: ""}，讓估價器用服務的預設數量查價。
func (t UnitTable) Normalize(unit string, amount float64) Normalized {
	unit = strings.ToLower(strings.TrimSpace(unit))

	if factor, ok := t.Weight[unit]; ok {
		return Normalized{Amount: amount * factor, Unit: UnitGrams}
	}
	if factor, ok := t.Volume[unit]; ok {
		return Normalized{Amount: amount * factor, Unit: UnitMilliliters}
	}
	if mapped, ok := t.Aliases[unit]; ok && t.Supported[mapped] {
		return Normalized{Amount: amount, Unit: mapped}
	}

	common.LogWarn("Unsupported unit, falling back to 1 unit for pricing",
		zap.String("unit", unit),
		zap.Float64("amount", amount),
	)
	return Normalized{Amount: 1, Unit: ""}
}
