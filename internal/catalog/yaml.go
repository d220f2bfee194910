package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"storefront/internal/product"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []map[string]any `yaml:"products"`
}

// YAMLSource reads a catalog file of the form
//
//	products:
//	  - id: whey-1
//	    name: Whey Protein Isolate
//	    price: 25.5   # null or omitted when unknown
type YAMLSource struct {
	path string
}

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Load(ctx context.Context) ([]product.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return ParseYAML(ctx, f)
}

// ParseYAML decodes a catalog document. Entries go through the same
// extraction as page attributes, so unknown keys are rejected and logged.
func ParseYAML(ctx context.Context, r io.Reader) ([]product.Product, error) {
	var cf catalogFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	bags := make([]map[string]string, 0, len(cf.Products))
	for _, entry := range cf.Products {
		bag := make(map[string]string, len(entry))
		for k, v := range entry {
			bag[k] = scalar(v)
		}
		bags = append(bags, bag)
	}
	return product.ExtractAll(ctx, bags), nil
}

// WriteYAML encodes products in the format ParseYAML reads.
func WriteYAML(w io.Writer, products []product.Product) error {
	doc := struct {
		Products []product.Product `yaml:"products"`
	}{Products: products}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode catalog file: %w", err)
	}
	return enc.Close()
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
