package order

// Templates holds every user-visible string of an order summary. Verbs are
// fmt verbs: Header takes the business name, Item the position and product
// name, Quantity an int, and the price lines a formatted amount.
type Templates struct {
	Header        string
	ProductsTitle string
	Item          string
	Quantity      string
	UnitPrice     string
	Subtotal      string
	PriceUnknown  string
	Total         string
	PartialTotal  string
	PartialNote   string
	TotalUnknown  string
	Closing       string
}

var DefaultTemplates = Templates{
	Header:        "*🛒 ORDER FROM %s*",
	ProductsTitle: "*Selected products:*",
	Item:          "%d. *%s*",
	Quantity:      "   • Quantity: %d",
	UnitPrice:     "   • Unit price: %s",
	Subtotal:      "   • Subtotal: %s",
	PriceUnknown:  "   • Price: to be confirmed",
	Total:         "*💰 TOTAL: %s*",
	PartialTotal:  "*💰 TOTAL FOR PRICED ITEMS: %s*",
	PartialNote:   "*(Unpriced items: to be confirmed)*",
	TotalUnknown:  "*💰 TOTAL: to be confirmed*",
	Closing:       "Could you confirm availability and payment options? Thank you!",
}

var SpanishTemplates = Templates{
	Header:        "*🛒 PEDIDO DE %s*",
	ProductsTitle: "*Productos seleccionados:*",
	Item:          "%d. *%s*",
	Quantity:      "   • Cantidad: %d",
	UnitPrice:     "   • Precio unitario: %s",
	Subtotal:      "   • Subtotal: %s",
	PriceUnknown:  "   • Precio: Consultar",
	Total:         "*💰 TOTAL: %s*",
	PartialTotal:  "*💰 TOTAL PRODUCTOS CON PRECIO: %s*",
	PartialNote:   "*(Productos sin precio: consultar)*",
	TotalUnknown:  "*💰 TOTAL: A consultar*",
	Closing:       "¿Podrían confirmar disponibilidad y forma de pago? ¡Gracias!",
}

// TemplatesFor returns the templates for a language tag, English by default.
func TemplatesFor(lang string) Templates {
	switch lang {
	case "es":
		return SpanishTemplates
	default:
		return DefaultTemplates
	}
}
