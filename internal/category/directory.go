// Package category maps catalog category ids to display names.
package category

import (
	"maps"

	"storefront/internal/filter"
	"storefront/internal/product"
)

// DefaultNames are the names shown when the catalog does not provide its own.
var DefaultNames = map[string]string{
	"proteina":    "Proteína",
	"creatina":    "Creatina",
	"vitaminas":   "Vitaminas",
	"pre-entreno": "Pre-Entreno",
	"aminoacidos": "Aminoácidos",
	"quemadores":  "Quemadores",
	"ganadores":   "Ganadores",
}

// Directory is read-only after construction and safe for concurrent use.
type Directory struct {
	names map[string]string
}

// NewDirectory starts from DefaultNames and applies overrides on top.
func NewDirectory(overrides map[string]string) *Directory {
	names := maps.Clone(DefaultNames)
	for id, name := range overrides {
		if id == "" || name == "" {
			continue
		}
		names[id] = name
	}
	return &Directory{names: names}
}

// Name returns the display name for id, or id itself when it is unknown.
func (d *Directory) Name(id string) string {
	if d != nil {
		if name, ok := d.names[id]; ok {
			return name
		}
	}
	return id
}

// List returns the category candidates of counts, in order, with names.
func (d *Directory) List(counts []filter.Count) []Category {
	out := make([]Category, 0, len(counts))
	for _, c := range counts {
		if c.Attribute != product.AttrCategory {
			continue
		}
		out = append(out, Category{ID: c.Value, Name: d.Name(c.Value), Count: c.Count})
	}
	return out
}
