package assay

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 1024
	chartHeight = 640

	// Normalized intensity lives in [0, 1] by convention; headroom for the
	// band above 1.
	yAxisMax = 1.2

	bandAlpha = 60
)

// bandSeries draws one block: the mean curve plus a ±1σ shaded band. Line
// and band render as a single series so the legend carries exactly one
// entry per block.
type bandSeries struct {
	Name    string
	Style   chart.Style
	XValues []float64
	YValues []float64
	Errors  []float64
}

func (bs bandSeries) GetName() string           { return bs.Name }
func (bs bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (bs bandSeries) GetStyle() chart.Style     { return bs.Style }
func (bs bandSeries) Len() int                  { return len(bs.XValues) }

func (bs bandSeries) GetValues(i int) (float64, float64) {
	return bs.XValues[i], bs.YValues[i]
}

func (bs bandSeries) GetBoundedValues(i int) (x, y1, y2 float64) {
	return bs.XValues[i], bs.YValues[i] + bs.Errors[i], bs.YValues[i] - bs.Errors[i]
}

func (bs bandSeries) Validate() error {
	if len(bs.XValues) != len(bs.YValues) || len(bs.XValues) != len(bs.Errors) {
		return fmt.Errorf("series %q: mismatched value lengths", bs.Name)
	}
	if len(bs.XValues) == 0 {
		return fmt.Errorf("series %q: no aligned data points", bs.Name)
	}
	return nil
}

func (bs bandSeries) hasSpread() bool {
	for _, e := range bs.Errors {
		if e > 0 {
			return true
		}
	}
	return false
}

// Render draws the band first so the mean line stays on top. A block whose
// errors are all zero (single replicate) gets no band.
func (bs bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := bs.Style.InheritFrom(defaults)
	if bs.hasSpread() {
		band := chart.Style{
			StrokeWidth: 1.0,
			StrokeColor: style.GetStrokeColor().WithAlpha(bandAlpha),
			FillColor:   style.GetStrokeColor().WithAlpha(bandAlpha),
		}
		chart.Draw.BoundedSeries(r, canvasBox, xrange, yrange, band, bs)
	}
	chart.Draw.LineSeries(r, canvasBox, xrange, yrange, style, bs)
}

// assemble builds the chart model from processed blocks.
func (m *Measurements) assemble() (*chart.Chart, error) {
	if len(m.Blocks) == 0 {
		return nil, fmt.Errorf("%s: no blocks to plot", m.ManifestPath)
	}
	colors, err := assignColors(m.Colors, len(m.Blocks))
	if err != nil {
		return nil, err
	}

	xmin := math.MaxFloat64
	xmax := -math.MaxFloat64
	series := make([]chart.Series, 0, len(m.Blocks))
	for i, b := range m.Blocks {
		bs := bandSeries{
			Name:    b.Name,
			Style:   chart.Style{StrokeColor: colors[i], StrokeWidth: 2.0},
			XValues: make([]float64, len(b.Times)),
			YValues: b.Values,
			Errors:  b.Errors,
		}
		for j, t := range b.Times {
			bs.XValues[j] = float64(t)
			if bs.XValues[j] < xmin {
				xmin = bs.XValues[j]
			}
			if bs.XValues[j] > xmax {
				xmax = bs.XValues[j]
			}
		}
		if err := bs.Validate(); err != nil {
			return nil, err
		}
		series = append(series, bs)
	}

	// Window bounds override the data extent side by side; the "before"
	// value counts seconds left of the alignment point, hence the negation.
	if m.Before != nil {
		xmin = -float64(*m.Before)
	}
	if m.After != nil {
		xmax = float64(*m.After)
	}
	if xmax <= xmin {
		xmax = xmin + 1
	}

	ch := &chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  "Time (s)",
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		},
		YAxis: chart.YAxis{
			Name:  "Normalized fluorescence",
			Range: &chart.ContinuousRange{Min: 0, Max: yAxisMax},
		},
		Series: series,
	}
	if len(m.Blocks) == 1 {
		// Single block: no legend, the title names it instead.
		ch.Title = m.Blocks[0].Name
	} else {
		ch.Elements = []chart.Renderable{legendUpperRight(ch)}
	}
	return ch, nil
}

// Render assembles the chart and writes it as PNG to w.
func (m *Measurements) Render(w io.Writer) error {
	ch, err := m.assemble()
	if err != nil {
		return err
	}
	return ch.Render(chart.PNG, w)
}

// WriteChart renders into memory first so a failed render never leaves a
// partial output file behind.
func (m *Measurements) WriteChart() error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(m.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.Output, err)
	}
	return nil
}
