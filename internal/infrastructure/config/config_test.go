package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipe-cost/internal/core/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.spoonacular.com", cfg.Spoonacular.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Spoonacular.Timeout)
	assert.Equal(t, 2, cfg.Spoonacular.RetryCount)
	assert.Equal(t, 1.3, cfg.Pricing.Markup)
	assert.Equal(t, 3000, cfg.Pricing.MaxReplyLength)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.OpenRouter.Enabled)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, 2, cfg.OpenRouter.Queue.Workers)
	assert.Equal(t, 20, cfg.OpenRouter.Queue.MaxSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SPOONACULAR_API_KEY", "spoon-key-123456")
	t.Setenv("PRICING_MARKUP", "1.5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "spoon-key-123456", cfg.Spoonacular.APIKey)
	assert.Equal(t, 1.5, cfg.Pricing.Markup)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PRICING_MARKUP", "0")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pricing markup")
}

func TestLoadConfig_OpenRouterRequiresKey(t *testing.T) {
	t.Setenv("OPENROUTER_ENABLED", "true")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openrouter api key")
}

func TestLoadPriceTable_DefaultsWhenUnset(t *testing.T) {
	table, err := LoadPriceTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultManualPrices(), table.ManualPrices)

	table, err = LoadPriceTable(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, table.ManualPrices["fajita seasoning"])
	assert.Equal(t, pricing.DefaultUnitTable(), table.UnitTable())
}

func TestLoadPriceTable_FileOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	content := `
manual_prices:
  Fajita Seasoning: 0.75
  garam masala: 0.9
units:
  volume:
    tbsp: 15
    cup: 240
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadPriceTable(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"fajita seasoning": 0.75, "garam masala": 0.9}, table.ManualPrices)
	assert.Equal(t, pricing.DefaultFillerWords, table.FillerWords)

	units := table.UnitTable()
	assert.Equal(t, map[string]float64{"tbsp": 15, "cup": 240}, units.Volume)
	assert.Equal(t, pricing.Normalized{Amount: 480, Unit: pricing.UnitMilliliters}, units.Normalize("cup", 2))
	assert.Equal(t, pricing.Normalized{Amount: 908, Unit: pricing.UnitGrams}, units.Normalize("lb", 2))
}

func TestLoadPriceTable_RejectsNegativePrice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"manual_prices": {"salsa": -1}}`), 0o644))

	_, err := LoadPriceTable(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestPriceTable_EstimatorConfig(t *testing.T) {
	cfg := DefaultPriceTable().EstimatorConfig(1.3)

	assert.Equal(t, 1.3, cfg.Markup)
	assert.Equal(t, 1.2, cfg.ManualPrices["tortillas"])
}
