// Package render turns product records into the display list shown by the console.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/abgdnv/productctl/internal/product"
	"github.com/shopspring/decimal"
)

const (
	EmptyPlaceholder = "No products available."
	NoPrice          = "N/A"
	NoDescription    = "No description"
)

// EditValues are the values an edit trigger copies into the update form.
// Price is empty when the record has none.
type EditValues struct {
	ID          string
	Name        string
	Price       string
	Description string
}

// Item is one rendered product. Edit and delete triggers are keyed by ID.
type Item struct {
	ID          string
	Name        string
	Price       string
	Description string
	Edit        EditValues
}

// Display is a complete rendering of the collection. It always replaces the previous one.
type Display struct {
	Items       []Item
	Placeholder string
}

// IsEmpty reports whether the display only carries the placeholder.
func (d Display) IsEmpty() bool {
	return len(d.Items) == 0
}

// Find returns the item with the given id.
func (d Display) Find(id string) (Item, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Render builds the display for products. It is pure: the same input renders the same output.
func Render(products []product.Product) Display {
	if len(products) == 0 {
		return Display{Placeholder: EmptyPlaceholder}
	}
	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, Item{
			ID:          p.ID,
			Name:        p.Name,
			Price:       FormatPrice(p.Price),
			Description: formatDescription(p.Description),
			Edit: EditValues{
				ID:          p.ID,
				Name:        p.Name,
				Price:       editPrice(p.Price),
				Description: p.Description,
			},
		})
	}
	return Display{Items: items}
}

// FormatPrice renders a price with two decimals. Absent and zero prices are shown as N/A.
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return NoPrice
	}
	return decimal.NewFromFloat(*price).StringFixed(2)
}

func formatDescription(description string) string {
	if description == "" {
		return NoDescription
	}
	return description
}

func editPrice(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}

// WriteTable writes the display as an aligned text table.
func WriteTable(w io.Writer, d Display) error {
	if d.IsEmpty() {
		_, err := fmt.Fprintln(w, d.Placeholder)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, it := range d.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Price, it.Description)
	}
	return tw.Flush()
}
