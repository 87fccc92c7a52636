package analysis

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/MonkyMars/gecho"
)

// Output is what a successful stage contributes to the report and console.
type Output struct {
	Summary string
	// Chart is a PNG image, or nil when the stage has no chart.
	Chart  []byte
	Tables []Table
	// Figures are further PNG charts kept off the report page.
	Figures []Figure
}

// Figure is a titled PNG chart.
type Figure struct {
	Title string
	PNG   []byte
}

// Stage is one independent analysis over the whole dataset.
type Stage struct {
	// Name labels errors and log lines, e.g. "Customer Analytics".
	Name string
	// Label prefixes the console summary line.
	Label string
	// Title heads the report page.
	Title    string
	Progress string
	Run      func(*dataset.Dataset, Options) (*Output, error)
}

// Stages returns the report stages in page order.
func Stages() []Stage {
	return []Stage{
		{Name: "Customer Analytics", Label: "Customer Analytics", Title: "Customer Demographics & Segmentation",
			Progress: "Customer Analytics: Demographics, RFM...", Run: CustomerSegmentation},
		{Name: "Sales Conversion Analysis", Label: "Sales Conversion", Title: "Sales Trends & Categories",
			Progress: "Sales and Conversion Analysis...", Run: SalesTrends},
		{Name: "Product Performance", Label: "Product Performance", Title: "Product Performance",
			Progress: "Product Performance...", Run: ProductPerformance},
		{Name: "Market Basket Analysis", Label: "Market Basket Analysis", Title: "Market Basket Analysis",
			Progress: "Market Basket Analysis...", Run: MarketBasket},
		{Name: "Customer Personalization", Label: "Personalization", Title: "Customer Personalization/Recommendation",
			Progress: "Customer Personalization...", Run: Personalization},
		{Name: "Fraud Detection", Label: "Fraud Detection", Title: "Fraud/Anomaly Detection",
			Progress: "Fraud Detection (Anomaly Detection)...", Run: FraudDetection},
		{Name: "Geo/Demographic Analysis", Label: "Geo/Demographic", Title: "Geo/Demographic Breakdown",
			Progress: "Geo/Demographic Analysis...", Run: GeoBreakdown},
	}
}

// EmptyInputError means a stage had no rows to work with.
type EmptyInputError struct {
	Table string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no rows in %s", e.Table)
}

// StageError is a failed stage, kept for the report in place of a summary.
type StageError struct {
	Stage   string
	Type    string
	Message string
	Trace   string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] ERROR: %s: %s", e.Stage, e.Type, e.Message)
}

func (e *StageError) Unwrap() error { return e.Err }

// Report returns the header line followed by the trace.
func (e *StageError) Report() string {
	if e.Trace == "" {
		return e.Error()
	}
	return e.Error() + "\n" + e.Trace
}

// Result holds exactly one of Output or Err.
type Result struct {
	Stage   Stage
	Output  *Output
	Err     *StageError
	Elapsed time.Duration
}

// Text is the summary, or the error report when the stage failed.
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Report()
	}
	if r.Output == nil {
		return ""
	}
	return r.Output.Summary
}

// Chart returns the stage chart, if any.
func (r Result) Chart() []byte {
	if r.Output == nil {
		return nil
	}
	return r.Output.Chart
}

// Runner executes stages in order; a failing stage never stops the rest.
type Runner struct {
	Options Options
	Logger  *gecho.Logger
	// Progress receives user-facing progress lines; may be nil.
	Progress func(msg string)
}

// Run executes every stage from Stages.
func (r *Runner) Run(ds *dataset.Dataset) []Result {
	return r.RunStages(ds, Stages())
}

// RunStages executes the given stages in order.
func (r *Runner) RunStages(ds *dataset.Dataset, stages []Stage) []Result {
	opt := r.Options.withDefaults()
	if opt.Progress == nil {
		opt.Progress = r.Progress
	}
	results := make([]Result, 0, len(stages))
	for _, st := range stages {
		if r.Progress != nil {
			r.Progress(st.Progress)
		}
		start := time.Now()
		out, serr := runStage(st, ds, opt)
		res := Result{Stage: st, Output: out, Err: serr, Elapsed: time.Since(start)}
		if r.Logger != nil {
			if serr != nil {
				r.Logger.Warn("stage failed", gecho.Field("stage", st.Name), gecho.Field("error", serr.Error()))
			} else {
				r.Logger.Debug("stage finished", gecho.Field("stage", st.Name), gecho.Field("elapsed", res.Elapsed))
			}
		}
		results = append(results, res)
	}
	return results
}

func runStage(st Stage, ds *dataset.Dataset, opt Options) (out *Output, serr *StageError) {
	defer func() {
		if p := recover(); p != nil {
			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("%v", p)
			}
			out = nil
			serr = &StageError{
				Stage:   st.Name,
				Type:    "panic " + typeName(p),
				Message: err.Error(),
				Trace:   string(debug.Stack()),
				Err:     err,
			}
		}
	}()
	out, err := st.Run(ds, opt)
	if err != nil {
		return nil, NewStageError(st.Name, err)
	}
	if out == nil {
		return nil, NewStageError(st.Name, errors.New("stage produced no output"))
	}
	return out, nil
}

// NewStageError describes err under context, listing its wrapped causes as the
// trace.
func NewStageError(context string, err error) *StageError {
	var chain []string
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("  caused by %s: %s", typeName(e), e.Error()))
	}
	return &StageError{
		Stage:   context,
		Type:    typeName(err),
		Message: err.Error(),
		Trace:   strings.Join(chain, "\n"),
		Err:     err,
	}
}

// typeName strips pointer and package qualifiers: *analysis.EmptyInputError
// becomes EmptyInputError.
func typeName(v any) string {
	s := strings.TrimLeft(fmt.Sprintf("%T", v), "*")
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}
