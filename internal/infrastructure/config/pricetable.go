package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"recipe-cost/internal/core/pricing"

	"github.com/spf13/viper"
)

// PriceTable 手動價格與單位換算表，可由 yaml / json / toml 檔案覆寫
type PriceTable struct {
	ManualPrices map[string]float64 `mapstructure:"manual_prices"`
	FillerWords  []string           `mapstructure:"filler_words"`
	Units        UnitsConfig        `mapstructure:"units"`
}

// UnitsConfig 單位換算設定
type UnitsConfig struct {
	Weight    map[string]float64 `mapstructure:"weight"`
	Volume    map[string]float64 `mapstructure:"volume"`
	Aliases   map[string]string  `mapstructure:"aliases"`
	Supported []string           `mapstructure:"supported"`
}

// DefaultManualPrices 常見的模糊或複合食材（美元，未加成）
func DefaultManualPrices() map[string]float64 {
	return map[string]float64{
		"fajita seasoning":     0.5,
		"warm flour tortillas": 1.5,
		"tortillas":            1.2,
		"seasoning":            0.4,
		"avocado":              1.0,
		"sour cream":           0.6,
		"shredded cheese":      0.8,
		"cilantro":             0.3,
		"salsa":                0.7,
	}
}

// DefaultPriceTable 內建價格表
func DefaultPriceTable() *PriceTable {
	units := pricing.DefaultUnitTable()
	supported := make([]string, 0, len(units.Supported))
	for unit := range units.Supported {
		supported = append(supported, unit)
	}

	return &PriceTable{
		ManualPrices: DefaultManualPrices(),
		FillerWords:  append([]string(nil), pricing.DefaultFillerWords...),
		Units: UnitsConfig{
			Weight:    units.Weight,
			Volume:    units.Volume,
			Aliases:   units.Aliases,
			Supported: supported,
		},
	}
}

// LoadPriceTable 讀取價格表檔案；path 為空或檔案不存在時使用內建表
//
// 檔案中出現的區段會整段取代內建值，未出現的區段保留內建值。
func LoadPriceTable(path string) (*PriceTable, error) {
	table := DefaultPriceTable()
	if path == "" {
		return table, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return table, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read price table %s: %w", path, err)
	}

	sections := []struct {
		key    string
		target interface{}
	}{
		{"manual_prices", &table.ManualPrices},
		{"filler_words", &table.FillerWords},
		{"units.weight", &table.Units.Weight},
		{"units.volume", &table.Units.Volume},
		{"units.aliases", &table.Units.Aliases},
		{"units.supported", &table.Units.Supported},
	}
	for _, s := range sections {
		if !v.IsSet(s.key) {
			continue
		}
		if err := resetAndDecode(v, s.key, s.target); err != nil {
			return nil, fmt.Errorf("invalid price table section %s: %w", s.key, err)
		}
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price table %s: %w", path, err)
	}
	return table, nil
}

// resetAndDecode 清空目標後解碼，避免與內建值合併
func resetAndDecode(v *viper.Viper, key string, target interface{}) error {
	switch t := target.(type) {
	case *map[string]float64:
		*t = map[string]float64{}
	case *map[string]string:
		*t = map[string]string{}
	case *[]string:
		*t = nil
	}
	return v.UnmarshalKey(key, target)
}

// Validate 驗證價格表內容
func (t *PriceTable) Validate() error {
	for name, price := range t.ManualPrices {
		if price < 0 {
			return fmt.Errorf("manual price for %q must not be negative", name)
		}
	}
	for unit, factor := range t.Units.Weight {
		if factor <= 0 {
			return fmt.Errorf("weight factor for %q must be positive", unit)
		}
	}
	for unit, factor := range t.Units.Volume {
		if factor <= 0 {
			return fmt.Errorf("volume factor for %q must be positive", unit)
		}
	}
	if len(t.Units.Supported) == 0 {
		return fmt.Errorf("supported unit set must not be empty")
	}
	return nil
}

// UnitTable 轉換為估價用的換算表（單位一律小寫）
func (t *PriceTable) UnitTable() pricing.UnitTable {
	table := pricing.UnitTable{
		Weight:    make(map[string]float64, len(t.Units.Weight)),
		Volume:    make(map[string]float64, len(t.Units.Volume)),
		Aliases:   make(map[string]string, len(t.Units.Aliases)),
		Supported: make(map[string]bool, len(t.Units.Supported)),
	}
	for unit, factor := range t.Units.Weight {
		table.Weight[normalizeKey(unit)] = factor
	}
	for unit, factor := range t.Units.Volume {
		table.Volume[normalizeKey(unit)] = factor
	}
	for alias, unit := range t.Units.Aliases {
		table.Aliases[normalizeKey(alias)] = normalizeKey(unit)
	}
	for _, unit := range t.Units.Supported {
		table.Supported[normalizeKey(unit)] = true
	}
	return table
}

// EstimatorConfig 轉換為估價器設定
func (t *PriceTable) EstimatorConfig(markup float64) pricing.EstimatorConfig {
	return pricing.EstimatorConfig{
		ManualPrices: t.ManualPrices,
		Markup:       markup,
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
