package cart

import "storefront/internal/product"

// DefaultMaxQuantity is the upper bound of a single line unless configured.
const DefaultMaxQuantity = 99

// Line is one product's accumulated quantity.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price*quantity, or false when the price is unknown.
func (l Line) Subtotal() (float64, bool) {
	return l.Product.Subtotal(l.Quantity)
}

// Totals is derived from the lines after every mutation.
type Totals struct {
	// Items is the sum of line quantities.
	Items int `json:"items"`
	// Price sums the subtotals of lines with a known price.
	Price float64 `json:"price"`
	Lines int     `json:"lines"`
	// Unpriced counts lines whose price is unknown.
	Unpriced int `json:"unpriced"`
}

func (t Totals) HasUnpriced() bool {
	return t.Unpriced > 0
}

// AllUnpriced is true when there are lines and none has a price.
func (t Totals) AllUnpriced() bool {
	return t.Lines > 0 && t.Unpriced == t.Lines
}
