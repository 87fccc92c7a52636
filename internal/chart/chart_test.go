package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var size = Size{WidthIn: 6, HeightIn: 3}

func TestBarProducesPNG(t *testing.T) {
	b, err := Bar(Series{Title: "Revenue by Product Category", Labels: []string{"Electronics", "Fashion"}, Values: []float64{12.5, 3}}, size)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)
}

func TestHBarAndLine(t *testing.T) {
	_, err := HBar(Series{Title: "Customer Gender Distribution", Labels: []string{"Female", "Male"}, Values: []float64{65, 35}}, size)
	require.NoError(t, err)

	months := []string{"2024-01", "2024-02", "2024-03"}
	b, err := Line(Series{Title: "Monthly Revenue Trend", Labels: months, Values: []float64{1, 4, 2}}, size)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestRejectsBadSeries(t *testing.T) {
	_, err := Bar(Series{}, size)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = HBar(Series{Labels: []string{"a"}, Values: []float64{1, 2}}, size)
	assert.ErrorContains(t, err, "1 labels for 2 values")
}
