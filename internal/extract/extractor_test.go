package extract

import (
	"testing"

	"github.com/TechsNtheCity940/stockflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDates(t *testing.T) {
	e := New(Config{})

	tests := []struct {
		name     string
		text     string
		wantText string
		wantType string
	}{
		{
			name:     "slash date",
			wantText: "08/12/2025",
			wantType: "slash",
			text:     "Delivered 08/12/2025",
		},
		{
			name:     "iso date",
			wantText: "2025-08-12",
			wantType: "iso",
			text:     "Received 2025-08-12 by dock",
		},
		{
			name:     "written month",
			wantText: "August 12, 2025",
			wantType: "written",
			text:     "Delivered August 12, 2025",
		},
		{
			name:     "day first dash date",
			wantText: "25-12-2024",
			wantType: "dash",
			text:     "Delivered on 25-12-2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			require.Len(t, got.Dates, 1)
			assert.Equal(t, tt.wantText, got.Dates[0].Text)
			assert.Equal(t, tt.wantType, got.Dates[0].Type)
		})
	}
}

func TestExtractPrices(t *testing.T) {
	e := New(Config{})

	t.Run("plain decimal", func(t *testing.T) {
		got := e.Extract("Ketchup 12.99")
		require.Len(t, got.Prices, 1)
		assert.InDelta(t, 12.99, got.Prices[0].Amount, 0.001)
		assert.Empty(t, got.Prices[0].Currency)
	})

	t.Run("dollar sign with thousands separator", func(t *testing.T) {
		got := e.Extract("Prime Rib $1,234.56")
		require.Len(t, got.Prices, 1)
		assert.InDelta(t, 1234.56, got.Prices[0].Amount, 0.001)
		assert.Equal(t, "USD", got.Prices[0].Currency)
	})

	t.Run("decimal with unit suffix is not a price", func(t *testing.T) {
		got := e.Extract("Ground Beef 5.00 lb")
		assert.Empty(t, got.Prices)
	})
}

func TestExtractQuantities(t *testing.T) {
	e := New(Config{})

	got := e.Extract("3 cs Hot Sauce 10 each napkin rings 12 oz pour")
	require.Len(t, got.Quantities, 2)
	assert.Equal(t, 3, got.Quantities[0].Value)
	assert.Equal(t, "cs", got.Quantities[0].Unit)
	assert.Equal(t, 10, got.Quantities[1].Value)
	assert.Equal(t, "each", got.Quantities[1].Unit)
}

func TestExtractLabeledQuantity(t *testing.T) {
	e := New(Config{})

	got := e.Extract("Heinz Mustard 16oz $3.99 Qty: 2")
	require.Len(t, got.Quantities, 1)
	assert.Equal(t, 2, got.Quantities[0].Value)

	require.Len(t, got.Prices, 1)
	assert.InDelta(t, 3.99, got.Prices[0].Amount, 0.001)

	require.Len(t, got.Names, 1)
	assert.Equal(t, "Heinz Mustard", got.Names[0].Text)
}

func TestExtractLabeledDates(t *testing.T) {
	e := New(Config{})

	t.Run("week of with no year", func(t *testing.T) {
		got := e.Extract("Week of: Sept 1")
		require.Len(t, got.Dates, 1)
		assert.Equal(t, "Sept 1", got.Dates[0].Text)
		assert.Equal(t, "labeled", got.Dates[0].Type)
		assert.Empty(t, got.Names, "label words are not names")
	})

	t.Run("labeled full date keeps its pattern type", func(t *testing.T) {
		got := e.Extract("Due: 09/05/2025")
		require.Len(t, got.Dates, 1)
		assert.Equal(t, "09/05/2025", got.Dates[0].Text)
		assert.Equal(t, "slash", got.Dates[0].Type)
	})
}

func TestExtractOrderedQuantity(t *testing.T) {
	e := New(Config{})

	got := e.Extract("Heinz Mustard $3.99 Ordered: 5")
	require.Len(t, got.Quantities, 1)
	assert.Equal(t, 5, got.Quantities[0].Value)

	require.Len(t, got.Names, 1, "the label word is not a name")
	assert.Equal(t, "Heinz Mustard", got.Names[0].Text)
}

func TestExtractNames(t *testing.T) {
	e := New(Config{})

	tests := []struct {
		name         string
		text         string
		wantName     string
		wantCategory model.ItemCategory
	}{
		{
			name:         "food keyword",
			text:         "2 cs Heinz Mustard 24.99",
			wantName:     "Heinz Mustard",
			wantCategory: model.CategoryFood,
		},
		{
			name:         "alcohol keyword",
			text:         "Tito's Vodka 31.50",
			wantName:     "Tito's Vodka",
			wantCategory: model.CategoryAlcohol,
		},
		{
			name:         "no keyword defaults to other",
			text:         "Widget Deluxe 4.25",
			wantName:     "Widget Deluxe",
			wantCategory: model.CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			require.Len(t, got.Names, 1)
			assert.Equal(t, tt.wantName, got.Names[0].Text)
			assert.Equal(t, tt.wantCategory, got.Names[0].CategoryHint)
		})
	}
}

func TestExtractBoilerplateBlocksNamesOnly(t *testing.T) {
	e := New(Config{})

	text := "INVOICE #12345\nSubtotal: 45.00\nThank you for your business\n2 cs Heinz Mustard 24.99"
	got := e.Extract(text)

	require.Len(t, got.Names, 1, "boilerplate lines produce no name candidates")
	assert.Equal(t, "Heinz Mustard", got.Names[0].Text)

	require.Len(t, got.Prices, 2, "numeric fields on boilerplate lines still scan")
	assert.InDelta(t, 45.00, got.Prices[0].Amount, 0.001)
	assert.InDelta(t, 24.99, got.Prices[1].Amount, 0.001)
}

func TestExtractDateOnHeaderLine(t *testing.T) {
	e := New(Config{})

	got := e.Extract("Invoice Date: 03/15/2024")
	require.Len(t, got.Dates, 1)
	assert.Equal(t, "03/15/2024", got.Dates[0].Text)
	assert.Equal(t, "slash", got.Dates[0].Type)
	assert.Empty(t, got.Names)
}

func TestExtractEmptyInput(t *testing.T) {
	e := New(Config{})

	got := e.Extract("")
	assert.Empty(t, got.Dates)
	assert.Empty(t, got.Prices)
	assert.Empty(t, got.Quantities)
	assert.Empty(t, got.Names)
}

func TestPackSize(t *testing.T) {
	e := New(Config{})

	assert.Equal(t, "6/10 oz", e.PackSize("Heinz Mustard 6/10 oz 24.99"))
	assert.Equal(t, "12x750 ml", e.PackSize("House Merlot 12x750 ml"))
	assert.Empty(t, e.PackSize("Heinz Mustard 24.99"))
}

func TestStripUnitWords(t *testing.T) {
	e := New(Config{})

	got := e.Extract("cs Heinz Mustard 24.99")
	require.Len(t, got.Names, 1)
	assert.Equal(t, "Heinz Mustard", got.Names[0].Text)
}
