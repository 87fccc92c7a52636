package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/ecomm-insights/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ecomm configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		for _, key := range cfgpkg.Keys {
			v, err := cfg.Value(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", key, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "data_folder":
		c.DataFolder = val
	case "report_name":
		c.ReportName = val
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "catalog_file":
		c.CatalogFile = val
	case "random_seed":
		c.RandomSeed, err = strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed for random_seed: %v", val)
		}
	case "top_n":
		c.TopN, err = atoi()
	case "basket_sample_size":
		c.BasketSampleSize, err = atoi()
	case "basket_min_support":
		c.BasketMinSupport, err = atof()
	case "basket_max_rules":
		c.BasketMaxRules, err = atoi()
	case "fraud_contamination":
		c.FraudContamination, err = atof()
	case "fraud_trees":
		c.FraudTrees, err = atoi()
	case "fraud_sample_size":
		c.FraudSampleSize, err = atoi()
	case "chart_width_in":
		c.ChartWidthIn, err = atof()
	case "chart_height_in":
		c.ChartHeightIn, err = atof()
	default:
		_, err = c.Value(key)
	}
	return err
}
