package chart

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// NewBarChart draws one bar per entry, in the given order.
func NewBarChart(title string, bars []Bar, opts Options) *Chart {
	opts = opts.withDefaults()
	c := newChart(title, opts)

	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}
	s := newScale(values, marginTop, float64(opts.Height-marginBottom))
	c.axes(s, opts)

	if len(bars) == 0 {
		c.label(float64(opts.Width)/2, float64(opts.Height)/2, "No data for the selected filters", AnchorMiddle, false)
		return c
	}

	plotWidth := float64(opts.Width - marginLeft - marginRight)
	slot := plotWidth / float64(len(bars))
	barWidth := slot * 0.7
	labels := make([]string, len(bars))
	xs := make([]float64, len(bars))
	base := s.y(0)
	for i, b := range bars {
		center := float64(marginLeft) + slot*(float64(i)+0.5)
		top := s.y(b.Value)
		y, h := top, base-top
		if h < 0 {
			y, h = base, -h
		}
		c.shape(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, center-barWidth/2, y, barWidth, h, paletteColor(0))
		labels[i] = b.Label
		xs[i] = center
	}
	c.xLabels(labels, xs)
	return c
}
