package cmd

import (
	"fmt"

	"github.com/KaramelBytes/ecomm-insights/internal/catalog"
	"github.com/spf13/cobra"
)

var catFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product and persona catalog used by generate",
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective catalog as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath()
		if path == "" {
			// built-in document as shipped, comments included
			_, err := cmd.OutOrStdout().Write(catalog.DefaultYAML())
			return err
		}
		c, err := catalog.Load(path)
		if err != nil {
			return err
		}
		b, err := c.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file for consistency",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath()
		if len(args) == 1 {
			path = args[0]
		}
		c, err := catalog.Load(path)
		if err != nil {
			return err
		}
		if path == "" {
			path = "built-in catalog"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d personas, %d categories, %d guaranteed products, %d bundles\n",
			path, len(c.Personas), len(c.Categories), len(c.Guaranteed), len(c.Bundles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogDumpCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.PersistentFlags().StringVar(&catFile, "catalog", "", "catalog YAML (default: catalog_file config key, then built-in)")
}

func catalogPath() string {
	if catFile != "" {
		return catFile
	}
	if cfg != nil {
		return cfg.CatalogFile
	}
	return ""
}
