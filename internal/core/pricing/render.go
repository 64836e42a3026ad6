package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMaxReplyLength 回覆訊息的最大字元數
const DefaultMaxReplyLength = 3000

const (
	costSectionTitle = "### 🛒 Estimated Ingredient Costs"
	totalUnavailable = "unavailable"
	truncationNotice = "\n\n... (output truncated)"
	truncationMargin = 100
)

// FormatPrice 以美元格式輸出價格
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatCostSection 產生附加在食譜後面的價格區段；b 為 nil 時總額顯示為 unavailable
func FormatCostSection(b *Breakdown) string {
	var sb strings.Builder
	sb.WriteString("---\n\n")
	sb.WriteString(costSectionTitle)
	sb.WriteString("\n")

	total := totalUnavailable
	if b != nil {
		for _, e := range b.Entries {
			sb.WriteString("- " + e.Name + ": " + FormatPrice(e.Price) + "\n")
		}
		total = FormatPrice(b.Total)
	}

	sb.WriteString("\n**Total Estimated Cost: " + total + "**\n")
	return sb.String()
}

// AppendCostSection 將價格區段附加到食譜，超過 maxLen 字元時截斷（maxLen <= 0 不截斷）
func AppendCostSection(recipe string, b *Breakdown, maxLen int) string {
	out := strings.TrimSpace(recipe) + "\n\n" + FormatCostSection(b)
	return Truncate(out, maxLen)
}

// Truncate 依字元數截斷並附上提示
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	keep := maxLen - truncationMargin
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + truncationNotice
}
