package product

import (
	"errors"
	"fmt"
)

var (
	ErrNoProducts     = errors.New("no product data available")
	ErrDuplicateID    = errors.New("duplicate product id")
	ErrUnknownAttr    = errors.New("unknown product attribute")
	ErrMalformedPrice = errors.New("malformed product price")
)

// MissingAttributeError reports a required field absent from a product source.
type MissingAttributeError struct {
	Attribute string
	ProductID string
}

func (e *MissingAttributeError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("product attribute %q is missing", e.Attribute)
	}
	return fmt.Sprintf("product %s: attribute %q is missing", e.ProductID, e.Attribute)
}
