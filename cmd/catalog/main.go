package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"bottlecraft/internal/catalog"
	"bottlecraft/internal/config"
	"bottlecraft/internal/logging"
	"bottlecraft/internal/pricing"
)

// catalog loads the embedded catalog plus an optional override directory,
// validates it and prints the tier tables a storefront would show.
func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "Catalog directory layered over the embedded catalog")
	flag.Parse()

	cfg := config.FromEnv()
	if dir == "" {
		dir = cfg.CatalogDir
	}
	logger, err := logging.New("catalog", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	registry, err := catalog.Default()
	if err != nil {
		logger.Fatal("load embedded catalog", zap.Error(err))
	}
	if dir != "" {
		registry, err = catalog.LoadDir(dir, registry)
		if err != nil {
			logger.Fatal("load catalog dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, fam := range registry.Families() {
		fmt.Fprintf(w, "%s\t%s\t%d vessels\t%d fitments\t%d closures\t%d sku records\n",
			fam.Key, fam.Name, len(fam.Vessels), len(fam.Fitments), len(fam.Closures), len(fam.SKUMatrix))
		for i := range fam.Vessels {
			v := &fam.Vessels[i]
			for _, row := range pricing.Tiers(fam.Pricing, v, nil) {
				fmt.Fprintf(w, "\t%s\t%s\t%s\t\t\n", v.ID, row.Label, row.UnitPrice.StringFixed(2))
			}
		}
	}
	for _, p := range registry.Products() {
		fmt.Fprintf(w, "%s\t%s\t%s\t\t\t\n", p.SKU, p.Name, p.Price.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}
	logger.Info("catalog ok", zap.Int("families", len(registry.Families())), zap.Int("products", len(registry.Products())))
}
