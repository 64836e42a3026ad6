package pricing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatCostSection(t *testing.T) {
	b := NewBreakdown()
	b.Entries = []Entry{
		{Name: "egg", Price: price("0.39")},
		{Name: "avocado", Price: price("1.3")},
	}
	b.Total = price("1.69")

	want := "---\n\n" +
		"### 🛒 Estimated Ingredient Costs\n" +
		"- egg: $0.39\n" +
		"- avocado: $1.30\n" +
		"\n**Total Estimated Cost: $1.69**\n"

	assert.Equal(t, want, FormatCostSection(b))
}

func TestFormatCostSection_UnavailableTotal(t *testing.T) {
	assert.Contains(t, FormatCostSection(nil), "**Total Estimated Cost: unavailable**")
}

func TestFormatCostSection_EmptyBreakdown(t *testing.T) {
	assert.Contains(t, FormatCostSection(NewBreakdown()), "**Total Estimated Cost: $0.00**")
}

func TestAppendCostSection(t *testing.T) {
	out := AppendCostSection("  ## Tacos\n\n### Ingredients\n- egg (2 large)\n\n", NewBreakdown(), DefaultMaxReplyLength)

	assert.True(t, strings.HasPrefix(out, "## Tacos\n\n### Ingredients\n- egg (2 large)\n\n---\n\n### 🛒"))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 3500)

	out := Truncate(long, 3000)

	assert.True(t, strings.HasSuffix(out, "\n\n... (output truncated)"))
	assert.Equal(t, 2900, utf8.RuneCountInString(strings.TrimSuffix(out, "\n\n... (output truncated)")))
	assert.True(t, utf8.ValidString(out))
}

func TestTruncate_ShortTextAndDisabled(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 3000))
	assert.Equal(t, "anything", Truncate("anything", 0))
	assert.Equal(t, "\n\n... (output truncated)", Truncate("0123456789", 5))
}
