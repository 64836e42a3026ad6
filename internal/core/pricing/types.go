// Package pricing 將食譜 markdown 中的食材清單轉換為價格明細
package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Quantity 食材行解析出的數量與原始單位
type Quantity struct {
	Amount float64
	Unit   string
}

// DefaultQuantity 找不到數量時的預設值
var DefaultQuantity = Quantity{Amount: 1, Unit: "unit"}

// Valid 數量為正且單位非空
func (q Quantity) Valid() bool {
	return q.Amount > 0 && q.Unit != ""
}

// Normalized 正規化後的數量，Unit 為空代表單位不支援，以預設數量查價
type Normalized struct {
	Amount float64
	Unit   string
}

// Supported 是否為價格服務接受的標準單位
func (n Normalized) Supported() bool {
	return n.Unit != ""
}

// Status 查價結果狀態
type Status int

const (
	// NotFound 價格服務沒有此食材或沒有成本資料
	NotFound Status = iota
	// Found 取得價格
	Found
	// Unavailable 價格服務失敗（網路、狀態碼、格式錯誤）
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Unavailable:
		return "unavailable"
	default:
		return "not_found"
	}
}

// 價格來源
const (
	SourceManual  = "manual"
	SourceService = "service"
)

// Result 單一食材的查價結果
type Result struct {
	Status Status
	Price  decimal.Decimal
	Source string
	Err    error
}

// Lookup 外部價格服務回傳的原始資料
type Lookup struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	CostCents float64 `json:"cost_cents"`
}

// PriceSource 外部食材價格服務
type PriceSource interface {
	Lookup(ctx context.Context, name string, amount float64, unit string) (Lookup, error)
}

// 價格服務回傳「沒有資料」時使用的錯誤，其他錯誤視為服務不可用
var (
	ErrNoResults = errors.New("no search results")
	ErrNoCost    = errors.New("no estimated cost")
)

// SkipReason 食材未列入明細的原因
type SkipReason string

const (
	SkipInvalidQuantity SkipReason = "invalid_quantity"
	SkipEmptyName       SkipReason = "empty_name"
	SkipNotFound        SkipReason = "not_found"
	SkipUnavailable     SkipReason = "unavailable"
	SkipInternal        SkipReason = "internal_error"
)

// Entry 明細中的一筆價格
type Entry struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
}

// Skipped 未計價的食材行
type Skipped struct {
	Line   string     `json:"line"`
	Name   string     `json:"name,omitempty"`
	Reason SkipReason `json:"reason"`
}

// Breakdown 單一食譜的價格明細與總額
type Breakdown struct {
	Entries []Entry         `json:"breakdown"`
	Total   decimal.Decimal `json:"total"`
	Skipped []Skipped       `json:"skipped"`
}

// NewBreakdown 建立空明細
func NewBreakdown() *Breakdown {
	return &Breakdown{
		Entries: []Entry{},
		Total:   decimal.Zero,
		Skipped: []Skipped{},
	}
}

// Complete 所有食材都成功計價
func (b *Breakdown) Complete() bool {
	return b != nil && len(b.Skipped) == 0
}
