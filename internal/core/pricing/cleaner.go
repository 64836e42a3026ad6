package pricing

import (
	"regexp"
	"strings"
)

// DefaultFillerWords 清理名稱時移除的形容詞
var DefaultFillerWords = []string{
	"optional", "fresh", "dried", "large", "small", "chopped", "minced", "grated", "to taste",
}

// reSpaceCutset 與正規表達式 \s 相同的空白字元
const reSpaceCutset = "\t\n\f\r "

var (
	parenPattern = regexp.MustCompile(`\(.*?\)`)
	numberPrefix = regexp.MustCompile(`^\s*\d+[/.\d]*\s*`)
)

// Cleaner 食材名稱清理器
type Cleaner struct {
	filler *regexp.Regexp
}

// NewCleaner 以指定的形容詞清單建立清理器
func NewCleaner(fillerWords []string) *Cleaner {
	quoted := make([]string, 0, len(fillerWords))
	for _, w := range fillerWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(w))
	}

	c := &Cleaner{}
	if len(quoted) > 0 {
		c.filler = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}
	return c
}

// Clean 移除數量前綴、括號內容、形容詞與逗號，回傳食材名稱（可能為空字串）
func (c *Cleaner) Clean(line, unit string) string {
	name := line
	if unit != "" {
		name = stripQuantityPrefix(name, unit)
	}
	name = parenPattern.ReplaceAllString(name, "")
	if c.filler != nil {
		name = c.filler.ReplaceAllString(name, "")
	}
	name = strings.ReplaceAll(name, ",", "")

	return strings.Join(strings.Fields(name), " ")
}

// stripQuantityPrefix 移除「數量 單位」開頭，單位不分大小寫
func stripQuantityPrefix(line, unit string) string {
	if strings.ContainsAny(unit[:1], "0123456789./"+reSpaceCutset) {
		// 單位本身可被數量部分吞掉，交給回溯比對
		prefix := regexp.MustCompile(`(?i)^\s*\d+[/.\d]*\s*` + regexp.QuoteMeta(unit) + `\s*`)
		return prefix.ReplaceAllString(line, "")
	}

	loc := numberPrefix.FindStringIndex(line)
	if loc == nil {
		return line
	}
	rest := line[loc[1]:]
	if len(rest) < len(unit) || !strings.EqualFold(rest[:len(unit)], unit) {
		return line
	}
	return strings.TrimLeft(rest[len(unit):], reSpaceCutset)
}
