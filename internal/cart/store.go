package cart

import (
	"strconv"
	"strings"

	"storefront/internal/product"
)

// Store is the in-memory cart: product id to line, in insertion order. It
// belongs to one storefront session and is not safe for concurrent use.
type Store struct {
	maxQuantity int
	order       []string
	lines       map[string]*Line
	totals      Totals
}

// NewStore creates an empty cart. A maxQuantity below 1 falls back to
// DefaultMaxQuantity.
func NewStore(maxQuantity int) *Store {
	if maxQuantity < 1 {
		maxQuantity = DefaultMaxQuantity
	}
	return &Store{
		maxQuantity: maxQuantity,
		lines:       make(map[string]*Line),
	}
}

func (s *Store) MaxQuantity() int {
	return s.maxQuantity
}

// AddItem adds qty of p. A product already in the cart grows by qty; the
// result is not clamped to the maximum. qty <= 0 is a no-op.
func (s *Store) AddItem(p product.Product, qty int) bool {
	if qty <= 0 {
		return false
	}

	if line, ok := s.lines[p.ID]; ok {
		line.Quantity += qty
	} else {
		s.lines[p.ID] = &Line{Product: p.Clone(), Quantity: qty}
		s.order = append(s.order, p.ID)
	}

	s.recompute()
	return true
}

// SetQuantity replaces a line's quantity. n <= 0 removes the line and
// n above the maximum is ignored. It reports whether the cart changed.
func (s *Store) SetQuantity(productID string, n int) bool {
	if n <= 0 {
		return s.RemoveItem(productID)
	}

	line, ok := s.lines[productID]
	if !ok || n > s.maxQuantity || line.Quantity == n {
		return false
	}

	line.Quantity = n
	s.recompute()
	return true
}

// Increment is the "+" control: SetQuantity(q+1).
func (s *Store) Increment(productID string) bool {
	line, ok := s.lines[productID]
	if !ok {
		return false
	}
	return s.SetQuantity(productID, line.Quantity+1)
}

// Decrement is the "-" control: SetQuantity(q-1), removing the line at 1.
func (s *Store) Decrement(productID string) bool {
	line, ok := s.lines[productID]
	if !ok {
		return false
	}
	return s.SetQuantity(productID, line.Quantity-1)
}

func (s *Store) RemoveItem(productID string) bool {
	if _, ok := s.lines[productID]; !ok {
		return false
	}

	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.recompute()
	return true
}

func (s *Store) Clear() {
	s.lines = make(map[string]*Line)
	s.order = nil
	s.recompute()
}

func (s *Store) Get(productID string) (Line, bool) {
	line, ok := s.lines[productID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

func (s *Store) Totals() Totals {
	return s.totals
}

func (s *Store) TotalItems() int {
	return s.totals.Items
}

// TotalPrice sums price*quantity over lines with a known price.
func (s *Store) TotalPrice() float64 {
	return s.totals.Price
}

func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) IsEmpty() bool {
	return len(s.order) == 0
}

func (s *Store) recompute() {
	t := Totals{Lines: len(s.order)}
	for _, id := range s.order {
		line := s.lines[id]
		t.Items += line.Quantity
		if sub, ok := line.Subtotal(); ok {
			t.Price += sub
		} else {
			t.Unpriced++
		}
	}
	s.totals = t
}

// ClampQuantity turns raw quantity input into a valid quantity: anything
// non-numeric or below 1 becomes 1, anything above max becomes max.
func ClampQuantity(raw string, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = 1
	}
	return Clamp(n, max)
}

// Clamp bounds n to [1, max].
func Clamp(n, max int) int {
	if max < 1 {
		max = DefaultMaxQuantity
	}
	switch {
	case n < 1:
		return 1
	case n > max:
		return max
	default:
		return n
	}
}
