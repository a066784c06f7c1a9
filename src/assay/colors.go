package assay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrColorCount is returned when the supplied color list can be mapped onto
// the blocks neither positionally nor by repetition.
var ErrColorCount = errors.New("color count does not match block count")

// namedColors accepts common color names plus the single-letter shorthands
// found in existing lab manifests.
var namedColors = map[string]drawing.Color{
	"black":   chart.ColorBlack,
	"k":       chart.ColorBlack,
	"white":   chart.ColorWhite,
	"w":       chart.ColorWhite,
	"red":     chart.ColorRed,
	"r":       chart.ColorRed,
	"green":   chart.ColorGreen,
	"g":       chart.ColorGreen,
	"blue":    chart.ColorBlue,
	"b":       chart.ColorBlue,
	"cyan":    chart.ColorCyan,
	"c":       chart.ColorCyan,
	"yellow":  chart.ColorYellow,
	"y":       chart.ColorYellow,
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"m":       {R: 255, G: 0, B: 255, A: 255},
	"orange":  chart.ColorOrange,
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"brown":   {R: 165, G: 42, B: 42, A: 255},
	"pink":    {R: 255, G: 192, B: 203, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor resolves a named or hexadecimal ("#rrggbb", "rrggbb", "#rgb")
// color specification.
func ParseColor(s string) (drawing.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(key, "#")
	if (len(hex) == 3 || len(hex) == 6) && isHex(hex) {
		return drawing.ColorFromHex(hex), nil
	}
	return drawing.Color{}, fmt.Errorf("unknown color %q", s)
}

// ParseColors parses a comma-separated color list; an empty spec is an
// empty list (default palette rules apply downstream).
func ParseColors(spec string) ([]drawing.Color, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []drawing.Color
	for _, part := range strings.Split(spec, ",") {
		c, err := ParseColor(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// assignColors maps the supplied colors onto n blocks: none supplied gives
// black for a single block and the default palette cycle otherwise; one
// color covers every block; n colors assign positionally. Any other count
// is fatal.
func assignColors(colors []drawing.Color, n int) ([]drawing.Color, error) {
	out := make([]drawing.Color, n)
	switch {
	case len(colors) == 0:
		if n == 1 {
			out[0] = chart.ColorBlack
			break
		}
		for i := range out {
			out[i] = chart.GetDefaultColor(i)
		}
	case len(colors) == 1:
		for i := range out {
			out[i] = colors[0]
		}
	case len(colors) == n:
		copy(out, colors)
	default:
		return nil, fmt.Errorf("%w: %d colors for %d blocks", ErrColorCount, len(colors), n)
	}
	return out, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
