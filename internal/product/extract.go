package product

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

// Rejected is one attribute that Extract refused to admit into a Product.
type Rejected struct {
	Key   string
	Value string
	Err   error
}

// Extract builds a Product from an attribute bag such as the data-* dataset of
// an add-to-cart button. Keys are accepted as "id", "product-id",
// "data-product-id" or the dataset form "productId". When a bag carries more
// than one spelling of a key, the dataset form wins, then data-product-*,
// then product-*, then the bare name.
//
// Unknown keys and a price that does not parse are left out of the product and
// returned as rejected. A missing required field yields a *MissingAttributeError.
func Extract(attrs map[string]string) (Product, []Rejected, error) {
	var (
		p        Product
		rejected []Rejected
		rawPrice string
	)

	keys := slices.SortedFunc(maps.Keys(attrs), func(a, b string) int {
		return cmp.Or(cmp.Compare(keyRank(a), keyRank(b)), strings.Compare(a, b))
	})
	for _, key := range keys {
		value := strings.TrimSpace(attrs[key])
		switch normalizeKey(key) {
		case AttrID:
			p.ID = value
		case AttrName:
			p.Name = value
		case AttrBrand:
			p.Brand = value
		case AttrCategory:
			p.Category = value
		case AttrPrice:
			rawPrice = value
		case AttrImage:
			p.ImageURL = value
		case AttrDescription:
			p.Description = value
		default:
			rejected = append(rejected, Rejected{Key: key, Value: value, Err: ErrUnknownAttr})
		}
	}

	price, err := ParsePrice(rawPrice)
	if err != nil {
		rejected = append(rejected, Rejected{Key: AttrPrice, Value: rawPrice, Err: err})
	}
	p.Price = price

	if err := Validate(&p); err != nil {
		return Product{}, rejected, err
	}
	return p, rejected, nil
}

// Validate checks the required fields and fills the default category.
func Validate(p *Product) error {
	required := []struct {
		name  string
		value string
	}{
		{AttrID, p.ID},
		{AttrName, p.Name},
		{AttrBrand, p.Brand},
		{AttrImage, p.ImageURL},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &MissingAttributeError{Attribute: f.name, ProductID: p.ID}
		}
	}

	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return nil
}

// ParsePrice reads a price attribute. An empty value or "null" is an unknown
// price and not an error. A leading currency symbol is ignored.
func ParsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil, nil
	}

	raw = strings.TrimLeftFunc(raw, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-'
	})
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, ErrMalformedPrice
	}
	return PriceOf(v), nil
}

// ExtractAll extracts every bag, logging and skipping the ones that fail.
// The result is never nil; an empty slice means no product data is available.
func ExtractAll(ctx context.Context, bags []map[string]string) []Product {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "product"),
		zap.String("method", "ExtractAll"),
	)

	products := make([]Product, 0, len(bags))
	seen := make(map[string]struct{}, len(bags))

	for i, attrs := range bags {
		p, rejected, err := Extract(attrs)
		for _, r := range rejected {
			log.Warn("rejected product attribute",
				zap.Int("index", i),
				zap.String("key", r.Key),
				zap.String("value", r.Value),
				zap.Error(r.Err),
			)
		}
		if err != nil {
			log.Warn("skipping product", zap.Int("index", i), zap.Error(err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warn("skipping product",
				zap.Int("index", i),
				zap.String("product_id", p.ID),
				zap.Error(ErrDuplicateID),
			)
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	if len(products) == 0 && len(bags) > 0 {
		log.Warn(ErrNoProducts.Error(), zap.Int("candidates", len(bags)))
	}

	return products
}

// keyRank orders the spellings of a key; higher ranks are applied later and
// so take precedence.
func keyRank(key string) int {
	k := strings.TrimSpace(key)
	lower := strings.ToLower(k)
	switch {
	case len(k) > len("product") && strings.HasPrefix(k, "product") && unicode.IsUpper(rune(k[len("product")])):
		return 3
	case strings.HasPrefix(lower, "data-"):
		return 2
	case strings.HasPrefix(lower, "product"):
		return 1
	default:
		return 0
	}
}

// normalizeKey maps the accepted spellings of an attribute key onto the
// Attr* names.
func normalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "data-")
	k = strings.TrimPrefix(k, "product-")
	if k != "product" {
		k = strings.TrimPrefix(k, "product")
	}
	if k == "imageurl" || k == "image-url" || k == "img" {
		k = AttrImage
	}
	return k
}
