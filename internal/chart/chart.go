// Package chart renders the report's bar and line charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size is the image size in inches.
type Size struct {
	WidthIn  float64
	HeightIn float64
}

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data")

// Series is a labelled list of values, one label per value.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
}

func (s Series) check() error {
	if len(s.Values) == 0 {
		return ErrNoData
	}
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("chart: %d labels for %d values", len(s.Labels), len(s.Values))
	}
	return nil
}

// Bar draws vertical bars with the labels along the x axis.
func Bar(s Series, size Size) ([]byte, error) {
	return bars(s, size, false)
}

// HBar draws horizontal bars with the labels along the y axis.
func HBar(s Series, size Size) ([]byte, error) {
	return bars(s, size, true)
}

func bars(s Series, size Size, horizontal bool) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	p := newPlot(s)

	b, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth(len(s.Values), size, horizontal))
	if err != nil {
		return nil, fmt.Errorf("chart: bars: %w", err)
	}
	b.Horizontal = horizontal
	b.Color = plotutil.Color(0)
	b.LineStyle.Width = vg.Length(0)
	p.Add(b)

	if horizontal {
		p.NominalY(s.Labels...)
		p.X.Min = 0
	} else {
		p.NominalX(s.Labels...)
		p.Y.Min = 0
		rotateX(p, s.Labels)
	}
	return render(p, size)
}

// Line draws values joined in label order, e.g. a monthly trend.
func Line(s Series, size Size) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	p := newPlot(s)
	pts := make(plotter.XYs, len(s.Values))
	for i, v := range s.Values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("chart: line: %w", err)
	}
	l.Color = plotutil.Color(0)
	l.Width = vg.Points(1.5)
	p.Add(l)

	// label every nth month so long ranges stay readable
	step := int(math.Ceil(float64(len(s.Labels)) / 24))
	labels := make([]string, len(s.Labels))
	for i := range s.Labels {
		if i%step == 0 {
			labels[i] = s.Labels[i]
		}
	}
	p.NominalX(labels...)
	rotateX(p, labels)
	return render(p, size)
}

func newPlot(s Series) *plot.Plot {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	p.Add(plotter.NewGrid())
	return p
}

func rotateX(p *plot.Plot, labels []string) {
	for _, l := range labels {
		if len(l) > 8 {
			p.X.Tick.Label.Rotation = math.Pi / 6
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
			return
		}
	}
}

func barWidth(n int, size Size, horizontal bool) vg.Length {
	extent := size.WidthIn
	if horizontal {
		extent = size.HeightIn
	}
	w := vg.Length(extent) * vg.Inch * 0.6 / vg.Length(n)
	if w < vg.Points(2) {
		w = vg.Points(2)
	}
	return w
}

func render(p *plot.Plot, size Size) ([]byte, error) {
	wt, err := p.WriterTo(vg.Length(size.WidthIn)*vg.Inch, vg.Length(size.HeightIn)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: render: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
