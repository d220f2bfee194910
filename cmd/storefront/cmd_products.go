package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"storefront/internal/filter"
	"storefront/internal/order"
	"storefront/internal/product"
)

type ProductsCmd struct {
	Filter []string `short:"F" help:"Criterion as attribute=value; repeat to combine"`
	Search string   `short:"s" help:"Search name, description and brand"`
	Counts bool     `help:"Print live counts for every category and brand"`
}

func (cmd *ProductsCmd) Run(g *Globals) error {
	criteria, err := parseCriteria(cmd.Filter)
	if err != nil {
		return err
	}

	candidates := filter.Candidates(g.Products, product.AttrCategory, product.AttrBrand)
	res := filter.Evaluate(filter.NewState(criteria), filter.NormalizeQuery(cmd.Search), g.Products, candidates)

	if res.Empty {
		fmt.Fprintln(g.Out, "No products match the current filters.")
	} else {
		w := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBRAND\tCATEGORY\tPRICE")
		for _, p := range res.Visible {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, g.Categories.Name(p.Category), price(g, p))
		}
		w.Flush()
	}

	if cmd.Counts {
		fmt.Fprintln(g.Out)
		for _, c := range res.Counts {
			if c.Attribute == product.AttrCategory {
				fmt.Fprintf(g.Out, "%s=%s %s (%d)\n", c.Attribute, c.Value, g.Categories.Name(c.Value), c.Count)
				continue
			}
			fmt.Fprintf(g.Out, "%s=%s (%d)\n", c.Attribute, c.Value, c.Count)
		}
	}

	st := res.Stats
	fmt.Fprintf(g.Out, "\n%d of %d products shown, %d filtered, %d active filters\n",
		st.Visible, st.Total, st.Filtered, st.ActiveFilters)
	return nil
}

func parseCriteria(raw []string) ([]filter.Criterion, error) {
	criteria := make([]filter.Criterion, 0, len(raw))
	for _, r := range raw {
		attr, value, ok := strings.Cut(r, "=")
		if !ok || attr == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q: want attribute=value", r)
		}
		criteria = append(criteria, filter.Criterion{Attribute: attr, Value: value})
	}
	return criteria, nil
}

func price(g *Globals, p product.Product) string {
	if p.Price == nil {
		return "-"
	}
	return order.Money(g.Config.CurrencySymbol, *p.Price)
}
