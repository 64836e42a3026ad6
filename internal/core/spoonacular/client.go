// Package spoonacular 是 Spoonacular 食材價格 API 的客戶端
package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	searchPath      = "/food/ingredients/search"
	informationPath = "/food/ingredients/{id}/information"
)

// Client Spoonacular API 客戶端
type Client struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

var _ pricing.PriceSource = (*Client)(nil)

// searchResponse 食材搜尋回應
type searchResponse struct {
	Results []struct {
		ID   *int   `json:"id"`
		Name string `json:"name"`
	} `json:"results"`
}

// informationResponse 食材資訊回應，estimatedCost.value 以美分計
type informationResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	EstimatedCost *struct {
		Value *float64 `json:"value"`
		Unit  string   `json:"unit"`
	} `json:"estimatedCost"`
}

// NewClient 創建 Spoonacular 客戶端
func NewClient(cfg config.SpoonacularConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * 8).
		AddRetryCondition(shouldRetry)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		client:  client,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// shouldRetry 只重試網路錯誤、429 與 5xx
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Lookup 先以名稱搜尋食材 ID，再取得指定數量的估計成本
func (c *Client) Lookup(ctx context.Context, name string, amount float64, unit string) (pricing.Lookup, error) {
	id, matched, err := c.Search(ctx, name)
	if err != nil {
		return pricing.Lookup{}, err
	}

	cents, err := c.EstimatedCost(ctx, id, amount, unit)
	if err != nil {
		return pricing.Lookup{}, err
	}

	return pricing.Lookup{ID: id, Name: matched, CostCents: cents}, nil
}

// Search 搜尋食材，回傳第一筆結果的 ID 與名稱
func (c *Client) Search(ctx context.Context, query string) (int, string, error) {
	var out searchResponse
	err := c.get(ctx, searchPath, nil, map[string]string{
		"query":  query,
		"number": "1",
	}, &out)
	if err != nil {
		return 0, "", fmt.Errorf("ingredient search %q: %w", query, err)
	}

	if len(out.Results) == 0 {
		return 0, "", fmt.Errorf("ingredient search %q: %w", query, pricing.ErrNoResults)
	}

	first := out.Results[0]
	if first.ID == nil || *first.ID <= 0 {
		return 0, "", fmt.Errorf("ingredient search %q: malformed response: missing id", query)
	}
	return *first.ID, first.Name, nil
}

// EstimatedCost 取得食材在指定數量與單位下的估計成本（美分）
func (c *Client) EstimatedCost(ctx context.Context, id int, amount float64, unit string) (float64, error) {
	var out informationResponse
	err := c.get(ctx, informationPath, map[string]string{
		"id": strconv.Itoa(id),
	}, map[string]string{
		"amount": strconv.FormatFloat(amount, 'f', -1, 64),
		"unit":   unit,
	}, &out)
	if err != nil {
		return 0, fmt.Errorf("ingredient information %d: %w", id, err)
	}

	if out.EstimatedCost == nil || out.EstimatedCost.Value == nil {
		return 0, fmt.Errorf("ingredient information %d: %w", id, pricing.ErrNoCost)
	}

	cents := *out.EstimatedCost.Value
	if cents < 0 {
		return 0, fmt.Errorf("ingredient information %d: malformed response: negative cost %v", id, cents)
	}
	return cents, nil
}

// get 發送 GET 請求並解析 JSON
func (c *Client) get(ctx context.Context, path string, pathParams, query map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		SetQueryParams(query).
		SetQueryParam("apiKey", c.apiKey).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	common.LogDebug("Spoonacular request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)

	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
