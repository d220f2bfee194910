package order

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/cart"
)

// Formatter renders cart contents into the text sent over the order channel.
type Formatter struct {
	Templates Templates
}

// Format renders with DefaultTemplates.
func Format(lines []cart.Line, totals cart.Totals, businessName, currency string) string {
	return Formatter{Templates: DefaultTemplates}.Format(lines, totals, businessName, currency)
}

// Format returns plain text; URL encoding is up to the caller.
func (f Formatter) Format(lines []cart.Line, totals cart.Totals, businessName, currency string) string {
	t := f.Templates
	var b strings.Builder

	writeLine(&b, fmt.Sprintf(t.Header, strings.ToUpper(businessName)))
	b.WriteString("\n")
	writeLine(&b, t.ProductsTitle)

	for i, l := range lines {
		b.WriteString("\n")
		writeLine(&b, fmt.Sprintf(t.Item, i+1, l.Product.Name))
		writeLine(&b, fmt.Sprintf(t.Quantity, l.Quantity))
		if sub, ok := l.Subtotal(); ok {
			writeLine(&b, fmt.Sprintf(t.UnitPrice, currency+strconv.FormatFloat(*l.Product.Price, 'f', -1, 64)))
			writeLine(&b, fmt.Sprintf(t.Subtotal, Money(currency, sub)))
		} else {
			writeLine(&b, t.PriceUnknown)
		}
	}

	b.WriteString("\n")
	switch {
	case totals.AllUnpriced():
		writeLine(&b, t.TotalUnknown)
	case totals.HasUnpriced():
		writeLine(&b, fmt.Sprintf(t.PartialTotal, Money(currency, totals.Price)))
		writeLine(&b, t.PartialNote)
	default:
		writeLine(&b, fmt.Sprintf(t.Total, Money(currency, totals.Price)))
	}
	b.WriteString("\n")
	b.WriteString(t.Closing)

	return b.String()
}

// Money formats an amount with two decimals behind the currency symbol.
func Money(currency string, amount float64) string {
	return currency + strconv.FormatFloat(amount, 'f', 2, 64)
}

func writeLine(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\n")
}
