package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/ecomm-insights/internal/analysis"
)

// ConsoleRows is how many table rows the console shows per table.
const ConsoleRows = 5

// PrintConsole writes each stage's summary line followed by the head of
// its tables.
func PrintConsole(w io.Writer, results []analysis.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "\n[%s]: %s\n", r.Stage.Label, r.Text())
		if r.Output == nil || len(r.Output.Tables) == 0 {
			printTable(w, r.Stage.Title, analysis.Table{})
			continue
		}
		for _, t := range r.Output.Tables {
			printTable(w, t.Title, t)
		}
	}
}

func printTable(w io.Writer, title string, t analysis.Table) {
	fmt.Fprintf(w, "\n%s\n%s\n", strings.Repeat("=", 20), title)
	if t.Len() == 0 {
		fmt.Fprintln(w, "[No data or error]")
		return
	}
	fmt.Fprint(w, t.Markdown(ConsoleRows))
}
