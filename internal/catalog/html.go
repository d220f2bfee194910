package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront/internal/logger"
	"storefront/internal/product"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const productCardClass = "product-card"

// HTMLSource reads products from a rendered storefront page. Every element
// carrying data-product-id contributes its data-product-* attributes; the
// enclosing .product-card supplies data-category and data-brand when the
// element itself does not.
type HTMLSource struct {
	path string
}

func NewHTMLSource(path string) *HTMLSource {
	return &HTMLSource{path: path}
}

func (s *HTMLSource) Load(ctx context.Context) ([]product.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog page: %w", err)
	}
	defer f.Close()

	return ParseHTML(ctx, f)
}

// ParseHTML extracts products from a page.
func ParseHTML(ctx context.Context, r io.Reader) ([]product.Product, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalog page: %w", err)
	}

	c := &collector{bags: make(map[string]map[string]string)}
	c.walk(doc, nil)

	if c.anonymousCards > 0 {
		logger.FromCtx(ctx).Warn("product cards without data-product-id ignored",
			zap.String("layer", "catalog"),
			zap.Int("cards", c.anonymousCards),
		)
	}

	bags := make([]map[string]string, 0, len(c.order))
	for _, id := range c.order {
		bags = append(bags, c.bags[id])
	}
	return product.ExtractAll(ctx, bags), nil
}

type collector struct {
	order          []string
	bags           map[string]map[string]string
	anonymousCards int
}

// card is the dataset of the nearest enclosing product card.
type card struct {
	attrs    map[string]string
	hasBound bool
}

func (c *collector) walk(n *html.Node, enclosing *card) {
	if n.Type == html.ElementNode {
		data := dataset(n)

		if hasClass(n, productCardClass) {
			enclosing = &card{attrs: data}
			defer func(cd *card) {
				if !cd.hasBound {
					c.anonymousCards++
				}
			}(enclosing)
		}

		if id := strings.TrimSpace(data["product-id"]); id != "" {
			bag, ok := c.bags[id]
			if !ok {
				bag = make(map[string]string)
				c.bags[id] = bag
				c.order = append(c.order, id)
			}
			for k, v := range data {
				if strings.HasPrefix(k, "product-") {
					setDefault(bag, k, v)
				}
			}
			if enclosing != nil {
				enclosing.hasBound = true
				setDefault(bag, "product-category", enclosing.attrs["category"])
				setDefault(bag, "product-brand", enclosing.attrs["brand"])
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, enclosing)
	}
}

// dataset returns the data-* attributes of n without the prefix.
func dataset(n *html.Node) map[string]string {
	out := make(map[string]string)
	for _, a := range n.Attr {
		if strings.HasPrefix(a.Key, "data-") {
			out[strings.TrimPrefix(a.Key, "data-")] = a.Val
		}
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func setDefault(bag map[string]string, key, value string) {
	if value == "" {
		return
	}
	if _, ok := bag[key]; !ok {
		bag[key] = value
	}
}
