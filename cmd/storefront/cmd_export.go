package main

import (
	"fmt"
	"os"

	"storefront/internal/catalog"
)

type ExportCmd struct {
	Output string `short:"o" type:"path" help:"Write to a file instead of stdout"`
}

func (cmd *ExportCmd) Run(g *Globals) error {
	if cmd.Output == "" {
		return catalog.WriteYAML(g.Out, g.Products)
	}

	f, err := os.Create(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cmd.Output, err)
	}
	if err := catalog.WriteYAML(f, g.Products); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Exported %d products to %s\n", len(g.Products), cmd.Output)
	return nil
}
