package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/ecomm-insights/internal/analysis"
	"github.com/KaramelBytes/ecomm-insights/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(t *testing.T) []analysis.Result {
	t.Helper()
	img, err := chart.Bar(chart.Series{Title: "t", Labels: []string{"a", "b"}, Values: []float64{1, 2}}, chart.Size{WidthIn: 4, HeightIn: 2})
	require.NoError(t, err)
	stages := analysis.Stages()
	return []analysis.Result{
		{Stage: stages[0], Output: &analysis.Output{Summary: "RFM segmentation identifies 1 high-value and 0 at-risk customers.", Chart: img,
			Tables: []analysis.Table{{Title: "High Value Customers (Sample)", Columns: []string{"customer_id"}, Rows: [][]string{{"1"}}}}}},
		{Stage: stages[1], Err: &analysis.StageError{Stage: stages[1].Name, Type: "EmptyInputError", Message: "no rows in lineitems", Err: errors.New("x")}},
		{Stage: stages[4], Output: &analysis.Output{Summary: "Generated top product recommendation for each customer persona."}},
	}
}

func TestWritePDFOnePagePerSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	secs := Sections(results(t))
	require.Len(t, secs, 3)
	assert.True(t, secs[1].IsError)
	assert.Equal(t, "[Sales Conversion Analysis] ERROR: EmptyInputError: no rows in lineitems", secs[1].Text)
	assert.Nil(t, secs[2].Chart)

	pages, err := WritePDF(path, Meta{Title: "Ecommerce Analytics", Author: "ecomm", RunID: "abc"}, secs)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWritePDFFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	bad := []Section{{Title: "Broken chart", Text: "x", Chart: []byte("not a png")}}
	_, err := WritePDF(path, Meta{}, bad)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	PrintConsole(&buf, results(t))
	out := buf.String()
	assert.Contains(t, out, "\n[Customer Analytics]: RFM segmentation identifies 1 high-value and 0 at-risk customers.\n")
	assert.Contains(t, out, "====================\nHigh Value Customers (Sample)\n| customer_id |")
	assert.Contains(t, out, "[Sales Conversion]: [Sales Conversion Analysis] ERROR: EmptyInputError")
	assert.Equal(t, 2, strings.Count(out, "[No data or error]"))
}
