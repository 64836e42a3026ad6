package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// 第一個 "(<數字> <單位>" 片段，例如 "garlic (2 cloves, minced)"
var quantityPattern = regexp.MustCompile(`\((\d+\.?\d*)\s*(\w+)`)

// ParseQuantityUnit 從食材行取出數量與單位，找不到時回傳 DefaultQuantity
func ParseQuantityUnit(line string) Quantity {
	match := quantityPattern.FindStringSubmatch(line)
	if match == nil {
		return DefaultQuantity
	}

	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return DefaultQuantity
	}

	return Quantity{
		Amount: amount,
		Unit:   strings.ToLower(match[2]),
	}
}
