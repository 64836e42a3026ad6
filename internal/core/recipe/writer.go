// Package recipe 透過 OpenRouter 撰寫 Markdown 食譜
package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrEmptyInput 使用者輸入為空
	ErrEmptyInput = errors.New("recipe input is empty")
	// ErrEmptyReply 模型沒有回傳內容
	ErrEmptyReply = errors.New("no content in OpenRouter response")
)

// Writer OpenRouter 食譜撰寫器
type Writer struct {
	config config.OpenRouterConfig
	client *resty.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewWriter 創建食譜撰寫器
func NewWriter(cfg config.OpenRouterConfig) *Writer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "Recipe Cost")

	return &Writer{
		config: cfg,
		client: client,
	}
}

// Write 依使用者輸入（食材或菜名）產生 Markdown 食譜
func (w *Writer) Write(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}

	req := completionRequest{
		Model:     w.config.Model,
		Messages:  buildMessages(input),
		MaxTokens: w.config.MaxTokens,
	}

	start := time.Now()
	var result completionResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	common.LogInfo("食譜生成",
		zap.String("model", w.config.Model),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("耗時", time.Since(start)),
	)

	if !resp.IsSuccess() {
		if result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("OpenRouter API returned %d: %s", resp.StatusCode(), result.Error.Message)
		}
		return "", fmt.Errorf("OpenRouter API returned %d", resp.StatusCode())
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return result.Choices[0].Message.Content, nil
}
