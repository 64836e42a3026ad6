// Package cli 是 recipe-cost 命令列工具
package cli

import (
	"os"

	"recipe-cost/internal/app"
	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"github.com/spf13/cobra"
)

var version = "dev"

var logLevel string

// newPricingService 依設定建立估價服務，測試時可替換
var newPricingService = func(cfg *config.Config, table *config.PriceTable) (*pricing.Service, func(), error) {
	return app.NewPricingService(cfg, table)
}

// loadConfig 載入設定，測試時可替換
var loadConfig = config.LoadConfig

var rootCmd = &cobra.Command{
	Use:   "recipe-cost",
	Short: "Estimate the grocery cost of a Markdown recipe",
	Long: `recipe-cost extracts the ingredient list from a Markdown recipe,
normalizes each quantity and prices it from a manual table or the
Spoonacular ingredient API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// 日誌寫到 stderr，stdout 只輸出結果
		common.InitConsoleLogger(logLevel, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.Version = version
}

// Execute 執行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
