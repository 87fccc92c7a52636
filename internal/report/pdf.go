// Package report assembles stage results into the PDF report and the
// console summary.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/analysis"
	"github.com/KaramelBytes/ecomm-insights/internal/utils"
	"github.com/go-pdf/fpdf"
)

// Meta is written into the document properties.
type Meta struct {
	Title   string
	Author  string
	RunID   string
	Created time.Time
}

// Section is one report page: heading, text and an optional PNG chart.
type Section struct {
	Title   string
	Text    string
	Chart   []byte
	IsError bool
}

// Sections converts results in order; failed stages carry their error report.
func Sections(results []analysis.Result) []Section {
	out := make([]Section, 0, len(results))
	for _, r := range results {
		out = append(out, Section{
			Title:   r.Stage.Title,
			Text:    r.Text(),
			Chart:   r.Chart(),
			IsError: r.Err != nil,
		})
	}
	return out
}

const (
	chartWidthMM = 141 // 400pt
	marginMM     = 20
)

// Render lays out one Letter page per section and returns the PDF bytes.
func Render(meta Meta, sections []Section) ([]byte, int, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator("ecomm", true)
	if meta.RunID != "" {
		pdf.SetSubject("run "+meta.RunID, true)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, s := range sections {
		pdf.AddPage()
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, tr(s.Title), "", "L", false)
		pdf.Ln(3)

		if s.IsError {
			pdf.SetFont("Courier", "", 8)
			pdf.SetTextColor(160, 0, 0)
			pdf.MultiCell(0, 4, tr(s.Text), "", "L", false)
		} else {
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 5.5, tr(s.Text), "", "L", false)
		}
		pdf.Ln(6)

		if len(s.Chart) > 0 {
			name := fmt.Sprintf("chart-%d", i)
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(s.Chart))
			pdf.ImageOptions(name, marginMM, pdf.GetY(), chartWidthMM, 0, true, opts, 0, "")
		}
		if err := pdf.Error(); err != nil {
			return nil, 0, fmt.Errorf("section %q: %w", s.Title, err)
		}
	}

	pages := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), pages, nil
}

// WritePDF renders the sections and writes them atomically to path. Nothing
// is written when rendering fails.
func WritePDF(path string, meta Meta, sections []Section) (int, error) {
	b, pages, err := Render(meta, sections)
	if err != nil {
		return 0, err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	return pages, nil
}
