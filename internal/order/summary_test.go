package order

import (
	"strings"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/product"

	"github.com/stretchr/testify/assert"
)

func storeWith(items ...cart.Line) *cart.Store {
	s := cart.NewStore(cart.DefaultMaxQuantity)
	for _, l := range items {
		s.AddItem(l.Product, l.Quantity)
	}
	return s
}

func line(id, name string, price *float64, qty int) cart.Line {
	return cart.Line{Product: product.Product{ID: id, Name: name, Price: price}, Quantity: qty}
}

func TestFormat_AllPriced(t *testing.T) {
	s := storeWith(
		line("a", "Whey Protein", product.PriceOf(25), 2),
		line("b", "Creatine", product.PriceOf(12.5), 1),
	)

	got := Format(s.Lines(), s.Totals(), "Suplementos Premium", "$")

	want := strings.Join([]string{
		"*🛒 ORDER FROM SUPLEMENTOS PREMIUM*",
		"",
		"*Selected products:*",
		"",
		"1. *Whey Protein*",
		"   • Quantity: 2",
		"   • Unit price: $25",
		"   • Subtotal: $50.00",
		"",
		"2. *Creatine*",
		"   • Quantity: 1",
		"   • Unit price: $12.5",
		"   • Subtotal: $12.50",
		"",
		"*💰 TOTAL: $62.50*",
		"",
		"Could you confirm availability and payment options? Thank you!",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormat_MixedPrices(t *testing.T) {
	s := storeWith(
		line("a", "Whey Protein", product.PriceOf(10), 2),
		line("b", "Mystery Stack", nil, 1),
	)

	got := Format(s.Lines(), s.Totals(), "Shop", "$")

	assert.Contains(t, got, "2. *Mystery Stack*\n   • Quantity: 1\n   • Price: to be confirmed\n")
	assert.Contains(t, got, "*💰 TOTAL FOR PRICED ITEMS: $20.00*\n*(Unpriced items: to be confirmed)*\n")
	assert.NotContains(t, got, "NaN")
}

func TestFormat_NothingPriced(t *testing.T) {
	s := storeWith(line("a", "Mystery Stack", nil, 2))

	got := Format(s.Lines(), s.Totals(), "Shop", "$")

	assert.Contains(t, got, "*💰 TOTAL: to be confirmed*")
	assert.NotContains(t, got, "$0.00")
}

func TestFormatter_Spanish(t *testing.T) {
	s := storeWith(line("a", "Proteína", product.PriceOf(30), 1))

	got := Formatter{Templates: TemplatesFor("es")}.Format(s.Lines(), s.Totals(), "Suplementos Premium", "$")

	assert.True(t, strings.HasPrefix(got, "*🛒 PEDIDO DE SUPLEMENTOS PREMIUM*\n"))
	assert.Contains(t, got, "   • Cantidad: 1\n")
	assert.Contains(t, got, "*💰 TOTAL: $30.00*")
	assert.Equal(t, DefaultTemplates, TemplatesFor("fr"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money("$", 0))
	assert.Equal(t, "€1234.50", Money("€", 1234.5))
}
