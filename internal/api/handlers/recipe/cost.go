package recipe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"recipe-cost/internal/core/pricing"
	recipeCore "recipe-cost/internal/core/recipe"
	"recipe-cost/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Estimator 食譜估價服務
type Estimator interface {
	EstimateRecipe(ctx context.Context, recipe string) ([]string, *pricing.Breakdown)
}

// Writer 食譜撰寫服務
type Writer interface {
	Write(ctx context.Context, input string) (string, error)
}

// CostRequest 估價請求
type CostRequest struct {
	Recipe string `json:"recipe"`
}

// GenerateRequest 生成食譜請求（食材清單或菜名）
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// PriceLine 明細中的一筆價格
type PriceLine struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Source string `json:"source"`
}

// CostResponse 估價結果
type CostResponse struct {
	Ingredients []string          `json:"ingredients"`
	Breakdown   []PriceLine       `json:"breakdown"`
	Total       string            `json:"total"`
	Skipped     []pricing.Skipped `json:"skipped"`
	Complete    bool              `json:"complete"`
	Recipe      string            `json:"recipe"`
}

// Handler 食譜估價處理程序
type Handler struct {
	estimator Estimator
	writer    Writer
	maxLen    int
	debug     bool
}

// NewHandler 創建處理程序，writer 為 nil 時停用食譜生成
func NewHandler(estimator Estimator, writer Writer, maxLen int, debug bool) *Handler {
	return &Handler{
		estimator: estimator,
		writer:    writer,
		maxLen:    maxLen,
		debug:     debug,
	}
}

// HandleCost 為使用者提供的 Markdown 食譜估價
func (h *Handler) HandleCost(c *gin.Context) {
	var req CostRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if strings.TrimSpace(req.Recipe) == "" {
		h.respondError(c, common.ErrEmptyRecipe)
		return
	}

	c.JSON(http.StatusOK, h.estimate(c, req.Recipe))
}

// HandleGenerate 先生成食譜，再為其估價
func (h *Handler) HandleGenerate(c *gin.Context) {
	if h.writer == nil {
		h.respondError(c, common.ErrWriterDisabled)
		return
	}

	var req GenerateRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.respondError(c, common.NewError(common.ErrCodeInvalidRequest, "Prompt is required", http.StatusBadRequest, nil))
		return
	}

	recipe, err := h.writer.Write(c.Request.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			h.respondError(c, common.ErrGatewayTimeout.Wrap(err))
			return
		case errors.Is(err, recipeCore.ErrQueueFull), errors.Is(err, recipeCore.ErrQueueClosed):
			h.respondError(c, common.ErrServiceUnavailable.Wrap(err))
			return
		}
		h.respondError(c, common.ErrWriterFailed.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, h.estimate(c, recipe))
}

// estimate 估價並組合回應
func (h *Handler) estimate(c *gin.Context, recipe string) CostResponse {
	ingredients, b := h.estimator.EstimateRecipe(c.Request.Context(), recipe)

	lines := make([]PriceLine, 0, len(b.Entries))
	for _, e := range b.Entries {
		lines = append(lines, PriceLine{Name: e.Name, Price: e.Price.StringFixed(2), Source: e.Source})
	}

	common.LogInfo("食譜估價請求完成",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("skipped", len(b.Skipped)),
		zap.String("total", b.Total.StringFixed(2)),
	)

	return CostResponse{
		Ingredients: ingredients,
		Breakdown:   lines,
		Total:       b.Total.StringFixed(2),
		Skipped:     b.Skipped,
		Complete:    b.Complete(),
		Recipe:      pricing.AppendCostSection(recipe, b, h.maxLen),
	}
}

// bindJSON 解析請求體，未知欄位與多餘內容視為格式錯誤
func bindJSON(c *gin.Context, v interface{}) error {
	if err := common.DecodeJSONStrict(c.Request.Body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.ErrRequestTooLarge.Wrap(err)
		}
		if errors.Is(err, io.EOF) {
			return common.ErrInvalidRequest.Wrap(errors.New("empty request body"))
		}
		return common.ErrInvalidRequest.Wrap(err)
	}
	return nil
}

// respondError 依自定義錯誤回應狀態碼與錯誤代碼
func (h *Handler) respondError(c *gin.Context, err error) {
	ce := common.AsCustomError(err)
	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無效", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.Response(h.debug))
}
