package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-cost/internal/api"
	recipeHandler "recipe-cost/internal/api/handlers/recipe"
	"recipe-cost/internal/app"
	"recipe-cost/internal/core/recipe"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("spoonacular_key", common.MaskAPIKey(cfg.Spoonacular.APIKey)),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	table, err := config.LoadPriceTable(cfg.Pricing.TableFile)
	if err != nil {
		common.LogFatal("Failed to load price table", zap.Error(err))
	}

	pricingSvc, cleanup, err := app.NewPricingService(cfg, table)
	if err != nil {
		common.LogFatal("Failed to initialize pricing service", zap.Error(err))
	}
	defer cleanup()

	// 未啟用時保持 nil 介面
	var writer recipeHandler.Writer
	if cfg.OpenRouter.Enabled {
		queue := recipe.NewQueue(recipe.NewWriter(cfg.OpenRouter), cfg.OpenRouter.Queue)
		defer queue.Close()
		writer = queue
	}

	router := api.SetupRouter(cfg, pricingSvc, writer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
