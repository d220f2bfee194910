package product

// DefaultCategory is assigned when a product source carries no category.
const DefaultCategory = "sin-categoria"

// Attribute names understood by extraction and by the filter engine.
const (
	AttrID          = "id"
	AttrName        = "name"
	AttrBrand       = "brand"
	AttrCategory    = "category"
	AttrPrice       = "price"
	AttrImage       = "image"
	AttrDescription = "description"
)

// Product is an immutable catalog entry. A nil Price means the price is
// unknown, which is not the same as free.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Brand       string   `json:"brand" yaml:"brand"`
	Category    string   `json:"category" yaml:"category"`
	Price       *float64 `json:"price" yaml:"price"`
	ImageURL    string   `json:"image_url" yaml:"image"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Attribute returns the product's value for a filter attribute. The second
// result is false when the product does not carry the attribute.
func (p Product) Attribute(name string) (string, bool) {
	var v string
	switch name {
	case AttrID:
		v = p.ID
	case AttrName:
		v = p.Name
	case AttrBrand:
		v = p.Brand
	case AttrCategory:
		v = p.Category
	case AttrDescription:
		v = p.Description
	}
	return v, v != ""
}

func (p Product) HasPrice() bool {
	return p.Price != nil
}

// Subtotal returns price*qty, or false when the price is unknown.
func (p Product) Subtotal(qty int) (float64, bool) {
	if p.Price == nil {
		return 0, false
	}
	return *p.Price * float64(qty), true
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	c := p
	if p.Price != nil {
		c.Price = PriceOf(*p.Price)
	}
	return c
}

func PriceOf(v float64) *float64 {
	return &v
}
