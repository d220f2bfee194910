package main

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/order"
	"storefront/internal/product"
)

type OrderCmd struct {
	Items    []string `arg:"" optional:"" help:"Products as id or id:quantity"`
	Phone    string   `help:"Business WhatsApp number (defaults to WHATSAPP_NUMBER)"`
	Language string   `short:"l" env:"ORDER_LANGUAGE" default:"en" help:"Message language (en, es)"`
	LinkOnly bool     `help:"Print only the chat link"`
}

func (cmd *OrderCmd) Run(g *Globals) error {
	store := cart.NewStore(g.Config.MaxLineQuantity)
	byID := make(map[string]product.Product, len(g.Products))
	for _, p := range g.Products {
		byID[p.ID] = p
	}

	for _, item := range cmd.Items {
		id, qty, err := parseItem(item, store.MaxQuantity())
		if err != nil {
			return err
		}
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("no product with id %q", id)
		}
		store.AddItem(p, qty)
	}

	var link string
	channel := order.LinkChannel{
		Phone: cmd.Phone,
		Open: func(_ context.Context, l string) error {
			link = l
			return nil
		},
	}
	if cmd.Phone == "" {
		channel.Phone = g.Config.WhatsAppNumber
	}

	svc := order.NewService(channel, order.Options{
		BusinessName: g.Config.BusinessName,
		Currency:     g.Config.CurrencySymbol,
		Templates:    order.TemplatesFor(cmd.Language),
	})

	receipt, err := svc.Checkout(context.Background(), store.Lines(), store.Totals())
	if err != nil {
		return err
	}

	if !cmd.LinkOnly {
		fmt.Fprintln(g.Out, receipt.Message)
		fmt.Fprintln(g.Out)
	}
	fmt.Fprintln(g.Out, link)
	return nil
}

// parseItem reads "id" or "id:qty"; the quantity is clamped like the
// storefront's quantity input.
func parseItem(raw string, max int) (string, int, error) {
	id, qty, hasQty := strings.Cut(raw, ":")
	if id == "" {
		return "", 0, fmt.Errorf("invalid item %q: want id or id:quantity", raw)
	}
	if !hasQty {
		return id, 1, nil
	}
	return id, cart.ClampQuantity(qty, max), nil
}
