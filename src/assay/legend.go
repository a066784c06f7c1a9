package assay

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// legendUpperRight is a fixed-position legend pinned to the upper-right
// corner of the canvas, listing every named series in order with a line
// swatch in the series color.
func legendUpperRight(c *chart.Chart) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		var labels []string
		var colors []drawing.Color
		for _, s := range c.Series {
			if s.GetName() == "" || s.GetStyle().Hidden {
				continue
			}
			labels = append(labels, s.GetName())
			colors = append(colors, s.GetStyle().StrokeColor)
		}
		if len(labels) == 0 {
			return
		}

		font := defaults.GetFont()
		if font == nil {
			df, err := chart.GetDefaultFont()
			if err != nil {
				return
			}
			font = df
		}
		r.SetFont(font)
		r.SetFontColor(chart.DefaultTextColor)
		r.SetFontSize(9.0)

		const (
			padding   = 6
			swatchLen = 24
			textGap   = 6
			rowGap    = 5
			inset     = 12
		)
		maxTextW, rowH := 0, 0
		for _, label := range labels {
			tb := r.MeasureText(label)
			if tb.Width() > maxTextW {
				maxTextW = tb.Width()
			}
			if tb.Height() > rowH {
				rowH = tb.Height()
			}
		}
		boxW := 2*padding + swatchLen + textGap + maxTextW
		boxH := 2*padding + len(labels)*rowH + (len(labels)-1)*rowGap
		x0 := cb.Right - boxW - inset
		y0 := cb.Top + inset

		r.SetFillColor(drawing.ColorWhite)
		r.SetStrokeColor(chart.DefaultAxisColor)
		r.SetStrokeWidth(chart.DefaultAxisLineWidth)
		r.MoveTo(x0, y0)
		r.LineTo(x0+boxW, y0)
		r.LineTo(x0+boxW, y0+boxH)
		r.LineTo(x0, y0+boxH)
		r.LineTo(x0, y0)
		r.Close()
		r.FillStroke()

		baseline := y0 + padding + rowH
		for i, label := range labels {
			mid := baseline - rowH/2
			r.SetStrokeColor(colors[i])
			r.SetStrokeWidth(3.0)
			r.MoveTo(x0+padding, mid)
			r.LineTo(x0+padding+swatchLen, mid)
			r.Stroke()
			r.Text(label, x0+padding+swatchLen+textGap, baseline)
			baseline += rowH + rowGap
		}
	}
}
