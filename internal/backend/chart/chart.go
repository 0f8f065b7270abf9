// Package chart draws the dashboard charts as SVG, and as PNG for download.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 360

	marginLeft   = 80
	marginRight  = 20
	marginTop    = 48
	marginBottom = 56
	tickCount    = 5
	fontSize     = 12
)

// Palette is used in order for bars and line series.
var Palette = []string{"#4169e1", "#2e8b57", "#ff8c00", "#8a2be2", "#dc143c", "#20b2aa", "#b8860b", "#708090"}

// Options control the canvas size and value formatting.
type Options struct {
	Width  int
	Height int
	// ValuePrefix is put in front of axis values, e.g. "$".
	ValuePrefix string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Anchor is the horizontal alignment of a label.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Label is text placed at a baseline position.
type Label struct {
	X, Y   float64
	Text   string
	Anchor Anchor
	Bold   bool
}

// Chart is a rendered chart: vector shapes plus text labels. Labels are kept
// apart from the shapes because the PNG rasterizer draws them separately.
type Chart struct {
	Width  int
	Height int
	Title  string
	shapes bytes.Buffer
	labels []Label
}

func newChart(title string, opts Options) *Chart {
	c := &Chart{Width: opts.Width, Height: opts.Height, Title: title}
	c.label(float64(opts.Width)/2, 24, title, AnchorMiddle, true)
	return c
}

func (c *Chart) shape(format string, args ...any) {
	fmt.Fprintf(&c.shapes, format, args...)
	c.shapes.WriteByte('\n')
}

func (c *Chart) label(x, y float64, text string, anchor Anchor, bold bool) {
	c.labels = append(c.labels, Label{X: x, Y: y, Text: text, Anchor: anchor, Bold: bold})
}

// Labels returns the text labels of the chart.
func (c *Chart) Labels() []Label {
	return c.labels
}

func (c *Chart) document(withText bool) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="%s">`+"\n",
		c.Width, c.Height, c.Width, c.Height, html.EscapeString(c.Title))
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`+"\n", c.Width, c.Height)
	b.Write(c.shapes.Bytes())
	if withText {
		for _, l := range c.labels {
			weight := "normal"
			if l.Bold {
				weight = "bold"
			}
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="%s" font-family="sans-serif" font-size="%d" font-weight="%s" fill="#333333">%s</text>`+"\n",
				l.X, l.Y, l.Anchor, fontSize, weight, html.EscapeString(l.Text))
		}
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// SVG returns the complete SVG document.
func (c *Chart) SVG() []byte {
	return c.document(true)
}

// scale maps values onto the vertical pixel range of the plot area.
type scale struct {
	lo, hi, step float64
	top, bottom  float64
}

func niceStep(span float64, ticks int) float64 {
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 1
	}
	raw := span / float64(ticks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func newScale(values []float64, top, bottom float64) scale {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	step := niceStep(hi-lo, tickCount)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if hi <= lo {
		hi = lo + step
	}
	return scale{lo: lo, hi: hi, step: step, top: top, bottom: bottom}
}

func (s scale) y(v float64) float64 {
	return s.bottom - (v-s.lo)/(s.hi-s.lo)*(s.bottom-s.top)
}

func (s scale) ticks() []float64 {
	var out []float64
	for v := s.lo; v <= s.hi+s.step/2; v += s.step {
		out = append(out, v)
	}
	return out
}

var numberPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatValue formats an axis value with thousands separators.
func FormatValue(prefix string, v float64, step float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if step < 1 {
		return sign + prefix + numberPrinter.Sprintf("%.2f", v)
	}
	return sign + prefix + numberPrinter.Sprintf("%.0f", v)
}

// axes draws the horizontal grid with value labels and the x axis line.
func (c *Chart) axes(s scale, opts Options) {
	left := float64(marginLeft)
	right := float64(c.Width - marginRight)
	for _, v := range s.ticks() {
		y := s.y(v)
		c.shape(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0" stroke-width="1"/>`, left, y, right, y)
		c.label(left-6, y+4, FormatValue(opts.ValuePrefix, v, s.step), AnchorEnd, false)
	}
	zero := s.y(math.Max(s.lo, 0))
	c.shape(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333" stroke-width="1"/>`, left, zero, right, zero)
}

// xLabels places category labels under the plot, thinning them out when they
// would overlap.
func (c *Chart) xLabels(labels []string, xs []float64) {
	if len(labels) == 0 {
		return
	}
	plotWidth := float64(c.Width - marginLeft - marginRight)
	maxLabels := int(plotWidth / 70)
	if maxLabels < 1 {
		maxLabels = 1
	}
	every := (len(labels) + maxLabels - 1) / maxLabels
	y := float64(c.Height-marginBottom) + 18
	for i, text := range labels {
		if i%every != 0 {
			continue
		}
		c.label(xs[i], y, truncate(text, 12), AnchorMiddle, false)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func paletteColor(i int) string {
	return Palette[i%len(Palette)]
}
