package cmd

import (
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/ecomm-insights/internal/config"
	"github.com/MonkyMars/gecho"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and the logger built from it
	cfg    *cfgpkg.Global
	logger *gecho.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecomm",
	Short: "Ecommerce analytics: synthetic data generation and PDF reporting",
	Long: `ecomm fabricates synthetic ecommerce tables (customers, products, stores,
orders, line items) and analyzes them into a paginated PDF report covering
segmentation, sales, products, market baskets, recommendations, anomalies and
geography.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitError carries a process exit code up to Execute.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		code := 1
		var ee *ExitError
		if errors.As(err, &ee) {
			code = ee.Code
		}
		os.Exit(code)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ecomm/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = cfgpkg.NewLogger(level)
}
