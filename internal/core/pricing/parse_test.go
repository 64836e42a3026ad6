package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantityUnit(t *testing.T) {
	tests := []struct {
		line string
		want Quantity
	}{
		{"egg (2 large)", Quantity{Amount: 2, Unit: "large"}},
		{"garlic (2 cloves, minced)", Quantity{Amount: 2, Unit: "cloves"}},
		{"olive oil (1.5 Tablespoon)", Quantity{Amount: 1.5, Unit: "tablespoon"}},
		{"flour (250g)", Quantity{Amount: 250, Unit: "g"}},
		{"rice (optional) (3 cups)", Quantity{Amount: 3, Unit: "cups"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantityUnit(tt.line))
		})
	}
}

func TestParseQuantityUnit_DefaultsWithoutPattern(t *testing.T) {
	for _, line := range []string{
		"salt to taste",
		"2 cloves garlic",
		"pepper (a pinch)",
		"",
	} {
		assert.Equal(t, Quantity{Amount: 1, Unit: "unit"}, ParseQuantityUnit(line), line)
	}
}

func TestQuantity_Valid(t *testing.T) {
	assert.True(t, Quantity{Amount: 2, Unit: "g"}.Valid())
	assert.False(t, Quantity{Amount: 0, Unit: "g"}.Valid())
	assert.False(t, Quantity{Amount: 2, Unit: ""}.Valid())
}

func TestUnitTable_Normalize(t *testing.T) {
	table := DefaultUnitTable()

	tests := []struct {
		unit   string
		amount float64
		want   Normalized
	}{
		{"lb", 2, Normalized{Amount: 908, Unit: UnitGrams}},
		{"Pound", 1, Normalized{Amount: 454, Unit: UnitGrams}},
		{"tbsp", 3, Normalized{Amount: 45, Unit: UnitMilliliters}},
		{" tsp ", 2, Normalized{Amount: 10, Unit: UnitMilliliters}},
		{"tablespoons", 2, Normalized{Amount: 30, Unit: UnitMilliliters}},
		{"g", 50, Normalized{Amount: 50, Unit: UnitGrams}},
		{"ml", 200, Normalized{Amount: 200, Unit: UnitMilliliters}},
		{"cloves", 2, Normalized{Amount: 2, Unit: UnitClove}},
		{"unit", 1, Normalized{Amount: 1, Unit: UnitPiece}},
		{"pieces", 4, Normalized{Amount: 4, Unit: UnitPiece}},
		{"xyz", 10, Normalized{Amount: 1, Unit: ""}},
		{"cup", 1, Normalized{Amount: 1, Unit: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Normalize(tt.unit, tt.amount))
		})
	}
}

func TestUnitTable_Normalize_KilogramsAndLitersAreConverted(t *testing.T) {
	table := DefaultUnitTable()

	assert.Equal(t, Normalized{Amount: 2000, Unit: UnitGrams}, table.Normalize("kg", 2))
	assert.Equal(t, Normalized{Amount: 500, Unit: UnitMilliliters}, table.Normalize("l", 0.5))
}

func TestUnitTable_Normalize_AliasOutsideSupportedSetFallsBack(t *testing.T) {
	table := DefaultUnitTable()
	table.Aliases["stick"] = "sticks of butter"

	got := table.Normalize("stick", 2)

	assert.False(t, got.Supported())
	assert.Equal(t, Normalized{Amount: 1, Unit: ""}, got)
}

func TestCleaner_Clean(t *testing.T) {
	c := NewCleaner(DefaultFillerWords)

	tests := []struct {
		line string
		unit string
		want string
	}{
		{"2 cloves garlic, minced", "cloves", "garlic"},
		{"2 Cloves garlic", "cloves", "garlic"},
		{"egg (2 large)", "large", "egg"},
		{"garlic (2 cloves, minced)", "cloves", "garlic"},
		{"Fresh basil (10 g)", "g", "basil"},
		{"salt, to taste", "unit", "salt"},
		{"1/2 cup sugar", "cup", "sugar"},
		{"red large onion (1 piece)", "piece", "red onion"},
		{"smallish potatoes (3 pieces)", "pieces", "smallish potatoes"},
		{"(2 large)", "large", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Clean(tt.line, tt.unit))
		})
	}
}

func TestCleaner_QuotesUnitAndFillerWords(t *testing.T) {
	c := NewCleaner([]string{"extra-virgin", "  "})

	assert.Equal(t, "olive oil", c.Clean("2 c++ extra-virgin olive oil", "c++"))
}

func TestCleaner_QuantityPrefix(t *testing.T) {
	c := NewCleaner(nil)

	tests := []struct {
		name string
		line string
		unit string
		want string
	}{
		{"case insensitive unit", "2 Cups flour", "cups", "flour"},
		{"decimal amount", "1.5 kg\tpotatoes", "kg", "potatoes"},
		{"unit not after amount", "2 eggs", "cup", "2 eggs"},
		{"no amount", "cup noodles", "cup", "cup noodles"},
		{"line shorter than unit", "2 t", "tbsp", "2 t"},
		{"unit starting with digit", "2 2x rolls", "2x", "rolls"},
		{"unit starting with dot", "1.5oz cheese", ".5oz", "cheese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Clean(tt.line, tt.unit))
		})
	}
}

func TestCleaner_NoFillerWords(t *testing.T) {
	c := NewCleaner(nil)

	assert.Equal(t, "fresh dill", c.Clean("fresh dill (5 g)", "g"))
}
