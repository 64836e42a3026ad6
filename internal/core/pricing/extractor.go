package pricing

import (
	"regexp"
	"strings"
)

const (
	ingredientsHeader = "### ingredients"
	sectionPrefix     = "###"
)

type sectionState int

const (
	beforeSection sectionState = iota
	inSection
	afterSection
)

var (
	bulletPattern = regexp.MustCompile(`^[-*]\s+\S`)
	bulletMarker  = regexp.MustCompile(`^[-*]\s+`)
)

// ExtractIngredients 取出 "### Ingredients" 區段中的項目，保留原始順序
//
// 區段在下一個以 "###" 開頭的行結束；沒有標題時回傳空切片。
func ExtractIngredients(text string) []string {
	items := []string{}
	state := beforeSection

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		switch state {
		case beforeSection:
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), ingredientsHeader) {
				state = inSection
			}
		case inSection:
			if strings.HasPrefix(line, sectionPrefix) {
				state = afterSection
				continue
			}
			trimmed := strings.TrimSpace(line)
			if bulletPattern.MatchString(trimmed) {
				items = append(items, strings.TrimSpace(bulletMarker.ReplaceAllString(trimmed, "")))
			}
		case afterSection:
			return items
		}
	}

	return items
}
