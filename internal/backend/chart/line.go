package chart

import (
	"fmt"
	"math"
	"strings"
)

// Series is one line. Values are aligned with the chart's labels; NaN marks a
// missing value and breaks the line.
type Series struct {
	Name   string
	Values []float64
	// Color overrides the palette when set.
	Color string
}

// NewLineChart draws the series over the shared x labels, with markers and a
// legend above the plot.
func NewLineChart(title string, labels []string, series []Series, opts Options) *Chart {
	opts = opts.withDefaults()
	c := newChart(title, opts)

	var values []float64
	for _, s := range series {
		for _, v := range s.Values {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	s := newScale(values, marginTop, float64(opts.Height-marginBottom))
	c.axes(s, opts)

	if len(labels) == 0 || len(values) == 0 {
		c.label(float64(opts.Width)/2, float64(opts.Height)/2, "No data for the selected filters", AnchorMiddle, false)
		return c
	}

	plotWidth := float64(opts.Width - marginLeft - marginRight)
	xs := make([]float64, len(labels))
	for i := range labels {
		if len(labels) == 1 {
			xs[i] = float64(marginLeft) + plotWidth/2
			continue
		}
		xs[i] = float64(marginLeft) + plotWidth*float64(i)/float64(len(labels)-1)
	}

	markers := len(labels) <= 48
	for i, line := range series {
		stroke := line.Color
		if stroke == "" {
			stroke = paletteColor(i)
		}
		var segment []string
		flush := func() {
			if len(segment) > 1 {
				c.shape(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`, strings.Join(segment, " "), stroke)
			}
			segment = segment[:0]
		}
		for j, v := range line.Values {
			if j >= len(xs) {
				break
			}
			if math.IsNaN(v) {
				flush()
				continue
			}
			x, y := xs[j], s.y(v)
			segment = append(segment, formatPoint(x, y))
			if markers {
				c.shape(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, x, y, stroke)
			}
		}
		flush()

		// legend entry
		lx := float64(marginLeft) + float64(i%6)*120
		ly := float64(marginTop) - 14 + float64(i/6)*14
		c.shape(`<rect x="%.1f" y="%.1f" width="10" height="10" fill="%s"/>`, lx, ly-9, stroke)
		c.label(lx+14, ly, truncate(line.Name, 14), AnchorStart, false)
	}
	c.xLabels(labels, xs)
	return c
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("%.1f,%.1f", x, y)
}
