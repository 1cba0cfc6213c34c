package render

import (
	"bytes"
	"testing"

	"github.com/abgdnv/productctl/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Render(t *testing.T) {
	testCases := []struct {
		name     string
		products []product.Product
		expected Display
	}{
		{
			name:     "empty collection shows the placeholder",
			products: []product.Product{},
			expected: Display{Placeholder: EmptyPlaceholder},
		},
		{
			name:     "nil collection shows the placeholder",
			expected: Display{Placeholder: EmptyPlaceholder},
		},
		{
			name: "full record",
			products: []product.Product{
				{ID: "1", Name: "Pen", Price: product.PriceOf(1.5), Description: "blue"},
			},
			expected: Display{Items: []Item{{
				ID: "1", Name: "Pen", Price: "1.50", Description: "blue",
				Edit: EditValues{ID: "1", Name: "Pen", Price: "1.5", Description: "blue"},
			}}},
		},
		{
			name: "missing price and description",
			products: []product.Product{
				{ID: "2", Name: "Cup"},
			},
			expected: Display{Items: []Item{{
				ID: "2", Name: "Cup", Price: NoPrice, Description: NoDescription,
				Edit: EditValues{ID: "2", Name: "Cup"},
			}}},
		},
		{
			name: "zero price is shown as N/A but kept for editing",
			products: []product.Product{
				{ID: "3", Name: "Gift", Price: product.PriceOf(0)},
			},
			expected: Display{Items: []Item{{
				ID: "3", Name: "Gift", Price: NoPrice, Description: NoDescription,
				Edit: EditValues{ID: "3", Name: "Gift", Price: "0"},
			}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.products))
		})
	}
}

func Test_Render_Idempotent(t *testing.T) {
	// given
	products := []product.Product{
		{ID: "1", Name: "Pen", Price: product.PriceOf(2)},
		{ID: "2", Name: "Cup", Description: "white"},
	}

	// when
	first := Render(products)
	second := Render(products)

	// then
	assert.Equal(t, first, second)
	assert.Len(t, second.Items, 2)
}

func Test_FormatPrice(t *testing.T) {
	testCases := []struct {
		price    *float64
		expected string
	}{
		{price: nil, expected: "N/A"},
		{price: product.PriceOf(0), expected: "N/A"},
		{price: product.PriceOf(10), expected: "10.00"},
		{price: product.PriceOf(3.14159), expected: "3.14"},
		{price: product.PriceOf(0.1), expected: "0.10"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatPrice(tc.price))
	}
}

func Test_Display_Find(t *testing.T) {
	d := Render([]product.Product{{ID: "5", Name: "Lamp"}})

	item, ok := d.Find("5")
	require.True(t, ok)
	assert.Equal(t, "Lamp", item.Edit.Name)

	_, ok = d.Find("6")
	assert.False(t, ok)
}

func Test_WriteTable(t *testing.T) {
	t.Run("placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTable(&buf, Render(nil)))
		assert.Equal(t, EmptyPlaceholder+"\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTable(&buf, Render([]product.Product{{ID: "1", Name: "Pen", Price: product.PriceOf(1)}})))
		assert.Equal(t, "ID  NAME  PRICE  DESCRIPTION\n1   Pen   1.00   No description\n", buf.String())
	})
}
