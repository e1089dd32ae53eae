package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidItem is returned when a variant has no product id or a negative price.
	ErrInvalidItem = errors.New("invalid cart item")
)

// Variant identifies what is being added to the cart.
type Variant struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" swaggertype:"string"`
	Image     string          `json:"image,omitempty"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
}

// Validate checks the fields a cart row cannot do without.
func (v Variant) Validate() error {
	if v.ProductID == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalidItem)
	}
	if v.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}
	return nil
}

// Item is one row of the cart.
type Item struct {
	ID string `json:"id"`
	Variant
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one item per (product, color, size).
type Cart struct {
	Items []Item `json:"items"`
	Open  bool   `json:"open"`
}

// ItemKey builds a row id from the variant key and the creation time.
func ItemKey(v Variant, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%d", v.ProductID, v.Color, v.Size, at.UnixMilli())
}

// AddItem merges quantity into the matching variant or appends a new row.
// A non-positive quantity counts as one. The cart panel is opened either way.
func (c *Cart) AddItem(v Variant, quantity int, now time.Time) Item {
	if quantity <= 0 {
		quantity = 1
	}
	c.Open = true

	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == v.ProductID && it.Color == v.Color && it.Size == v.Size {
			it.Quantity += quantity
			return *it
		}
	}

	item := Item{ID: ItemKey(v, now), Variant: v, Quantity: quantity}
	c.Items = append(c.Items, item)
	return item
}

// UpdateQuantity sets the quantity of id. Values below one are ignored.
// It reports whether a row changed.
func (c *Cart) UpdateQuantity(id string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem drops the row with id, if present.
func (c *Cart) RemoveItem(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Summary is the cart as returned to clients.
type Summary struct {
	Items     []Item `json:"items"`
	Open      bool   `json:"open"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
}

// Summarize derives the read model.
func (c *Cart) Summarize() Summary {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return Summary{
		Items:     items,
		Open:      c.Open,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal().StringFixed(2),
	}
}
