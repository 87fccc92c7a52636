package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/catalog"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/KaramelBytes/ecomm-insights/internal/store"
	"github.com/KaramelBytes/ecomm-insights/internal/synth"
	"github.com/MonkyMars/gecho"
	"github.com/spf13/cobra"
)

var (
	genCustomers     int
	genProducts      int
	genStores        int
	genOrdersPerDay  int
	genItemsPerOrder int
	genFrom          string
	genTo            string
	genOutput        string
	genSeed          uint64
	genSQLite        string
	genCatalog       string
	genQuiet         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic customers, products, stores, orders and line items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		say := func(format string, a ...any) {
			if !genQuiet {
				fmt.Fprintf(out, format, a...)
			}
		}

		from, err := time.Parse(dataset.DateLayout, genFrom)
		if err != nil {
			return fmt.Errorf("invalid --from %q (want YYYY-MM-DD): %w", genFrom, err)
		}
		to, err := time.Parse(dataset.DateLayout, genTo)
		if err != nil {
			return fmt.Errorf("invalid --to %q (want YYYY-MM-DD): %w", genTo, err)
		}
		p := synth.Params{
			Customers:     genCustomers,
			Products:      genProducts,
			Stores:        genStores,
			OrdersPerDay:  genOrdersPerDay,
			ItemsPerOrder: genItemsPerOrder,
			From:          from,
			To:            to,
		}
		if err := p.Validate(); err != nil {
			return err
		}

		catPath := genCatalog
		if catPath == "" {
			catPath = cfg.CatalogFile
		}
		cat, err := catalog.Load(catPath)
		if err != nil {
			return err
		}

		seed := genSeed
		if !cmd.Flags().Changed("seed") && cfg.RandomSeed != 0 {
			seed = cfg.RandomSeed
		}
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		steps := 5
		if genSQLite != "" {
			steps++
		}
		step := 0
		g := synth.New(cat, seed, logger)
		g.OnStep = func(table string) {
			step++
			say("[%d/%d] Generating %s...\n", step, steps, table)
		}
		start := time.Now()
		ds, err := g.Generate(p)
		if err != nil {
			return err
		}

		step++
		say("[%d/%d] Saving CSV files...\n", step, steps)
		if err := dataset.Write(genOutput, ds); err != nil {
			return err
		}
		m := dataset.NewManifest(g.Seed(), map[string]any{
			"customers":       genCustomers,
			"products":        genProducts,
			"stores":          genStores,
			"orders_per_day":  genOrdersPerDay,
			"items_per_order": genItemsPerOrder,
			"from":            genFrom,
			"to":              genTo,
		}, ds)
		m.Catalog = catPath
		if err := m.Save(genOutput); err != nil {
			return err
		}

		if genSQLite != "" {
			step++
			say("[%d/%d] Exporting SQLite %s...\n", step, steps, genSQLite)
			if err := store.Export(genSQLite, ds); err != nil {
				return err
			}
		}

		logger.Info("generation finished",
			gecho.Field("run_id", m.RunID),
			gecho.Field("seed", g.Seed()),
			gecho.Field("orders", len(ds.Orders)),
			gecho.Field("duration", time.Since(start)),
		)
		say("✓ Data generation complete. Files saved in '%s' (seed %d, %d orders, %d line items)\n",
			genOutput, g.Seed(), len(ds.Orders), len(ds.LineItems))
		return nil
	},
}

func init() {
	d := synth.DefaultParams()
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.IntVar(&genCustomers, "customers", d.Customers, "number of customers")
	f.IntVar(&genProducts, "products", d.Products, "number of products")
	f.IntVar(&genStores, "stores", d.Stores, "number of stores")
	f.IntVar(&genOrdersPerDay, "orders-per-day", d.OrdersPerDay, "order draws per simulated day")
	f.IntVar(&genItemsPerOrder, "items-per-order", d.ItemsPerOrder, "maximum distinct items drawn per order")
	f.StringVar(&genFrom, "from", d.From.Format(dataset.DateLayout), "first simulated day (YYYY-MM-DD)")
	f.StringVar(&genTo, "to", d.To.Format(dataset.DateLayout), "last simulated day (YYYY-MM-DD)")
	f.StringVarP(&genOutput, "output", "o", ".", "output folder for the CSV files")
	f.Uint64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")
	f.StringVar(&genSQLite, "sqlite", "", "also write the tables to this SQLite file")
	f.StringVar(&genCatalog, "catalog", "", "catalog YAML replacing the built-in one")
	f.BoolVarP(&genQuiet, "quiet", "q", false, "suppress progress output")
}
