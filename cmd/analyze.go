package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/ecomm-insights/internal/analysis"
	cfgpkg "github.com/KaramelBytes/ecomm-insights/internal/config"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/KaramelBytes/ecomm-insights/internal/report"
	"github.com/KaramelBytes/ecomm-insights/internal/store"
	"github.com/KaramelBytes/ecomm-insights/internal/utils"
	"github.com/MonkyMars/gecho"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const reportTitle = "Ecommerce Analytics Report"

var (
	anaDataFolder string
	anaQuiet      bool
	anaSQLite     string
	anaReportName string
	anaValidate   bool
	anaAuthor     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the five ecommerce tables and write a PDF report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		say := func(format string, a ...any) {
			if !anaQuiet {
				fmt.Fprintf(out, format, a...)
			}
		}

		folder := anaDataFolder
		if !cmd.Flags().Changed("datafolder") && cfg.DataFolder != "" {
			folder = cfg.DataFolder
		}
		reportName := anaReportName
		if !cmd.Flags().Changed("report-name") && cfg.ReportName != "" {
			reportName = cfg.ReportName
		}

		say("Ecommerce Analytics by %s\n", anaAuthor)
		ds, err := loadDataset(folder, say)
		if err != nil {
			return &ExitError{Code: 1, Err: analysis.NewStageError("Load Data", err)}
		}
		logger.Debug("dataset loaded", gecho.Field("folder", folder), gecho.Field("counts", ds.Counts()))
		if anaValidate {
			if err := dataset.Validate(ds); err != nil {
				return &ExitError{Code: 1, Err: analysis.NewStageError("Validate Data", err)}
			}
			say("✓ Dataset invariants hold\n")
		}

		runner := &analysis.Runner{
			Options: analysisOptions(cfg),
			Logger:  logger,
			Progress: func(msg string) {
				say("%s\n", msg)
			},
		}
		results := runner.Run(ds)
		report.PrintConsole(out, results)
		if debug {
			dumpResults(out, folder, results)
		}

		say("Generating PDF report...\n")
		meta := report.Meta{Title: reportTitle, Author: anaAuthor, RunID: runID(folder)}
		path := filepath.Join(folder, reportName)
		pages, err := report.WritePDF(path, meta, report.Sections(results))
		if err != nil {
			return &ExitError{Code: 2, Err: analysis.NewStageError("PDF Generation", err)}
		}
		logger.Info("report written", gecho.Field("path", path), gecho.Field("pages", pages))
		fmt.Fprintf(out, "\n[INFO] Analysis Complete. Output file: %s\n", reportName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDataFolder, "datafolder", ".", "folder holding the five input CSV files")
	analyzeCmd.Flags().BoolVarP(&anaQuiet, "quiet", "q", false, "suppress progress output")
	analyzeCmd.Flags().StringVar(&anaSQLite, "sqlite", "", "read the tables from a SQLite file written by 'generate --sqlite'")
	analyzeCmd.Flags().StringVar(&anaReportName, "report-name", "report.pdf", "report file name inside the data folder")
	analyzeCmd.Flags().BoolVar(&anaValidate, "validate", false, "check dataset invariants before analysis")
	analyzeCmd.Flags().StringVar(&anaAuthor, "author", "ecomm-insights", "author shown in the banner and PDF metadata")
}

func loadDataset(folder string, say func(string, ...any)) (*dataset.Dataset, error) {
	if anaSQLite != "" {
		say("Loading %s\n", anaSQLite)
		return store.Import(anaSQLite)
	}
	return dataset.Load(folder, func(name string) {
		say("Loading %s\n", name)
	})
}

// analysisOptions maps configuration onto stage options.
func analysisOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.TopN = c.TopN
	opt.BasketSampleSize = c.BasketSampleSize
	opt.BasketMinSupport = c.BasketMinSupport
	opt.BasketMaxRules = c.BasketMaxRules
	opt.FraudContamination = c.FraudContamination
	opt.FraudTrees = c.FraudTrees
	opt.FraudSampleSize = c.FraudSampleSize
	opt.ChartWidthIn = c.ChartWidthIn
	opt.ChartHeightIn = c.ChartHeightIn
	if c.RandomSeed != 0 {
		opt.Seed = c.RandomSeed
	}
	return opt
}

// runID reuses the generator's run id when the folder has a manifest.
func runID(folder string) string {
	if m, err := dataset.LoadManifest(folder); err == nil && m.RunID != "" {
		return m.RunID
	}
	return uuid.NewString()
}

// debugRows caps the rows dumped per table under --debug.
const debugRows = 20

// dumpResults prints the head of every stage table and writes extra figures
// next to the report.
func dumpResults(w io.Writer, folder string, results []analysis.Result) {
	dump := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, MaxDepth: 4}
	for _, r := range results {
		fmt.Fprintf(w, "\n--- %s (%s) ---\n", r.Stage.Name, r.Elapsed)
		if r.Output == nil {
			continue
		}
		for _, t := range r.Output.Tables {
			dump.Fdump(w, t.Head(debugRows))
		}
		for _, f := range r.Output.Figures {
			path := filepath.Join(folder, figureFileName(f.Title))
			if err := utils.SafeWriteFile(path, f.PNG); err != nil {
				logger.Warn("write figure failed", gecho.Field("path", path), gecho.Field("error", err))
				continue
			}
			fmt.Fprintf(w, "figure %q written to %s\n", f.Title, path)
		}
	}
}

// figureFileName turns "Monthly Revenue Trend" into "monthly_revenue_trend.png".
func figureFileName(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_") + ".png"
}
