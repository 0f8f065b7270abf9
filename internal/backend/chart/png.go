package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	white     = color.RGBA{255, 255, 255, 255}
	labelInk  = color.RGBA{0x33, 0x33, 0x33, 255}
	asciiOnly = strings.NewReplacer("…", "...", "–", "-", "—", "-")
)

// PNG rasterizes the chart at its own size.
func (c *Chart) PNG() ([]byte, error) {
	return RenderPNG(c.document(false), c.Width, c.Height, c.labels, c.Width)
}

// RenderPNG rasterizes an SVG document to a targetW x targetH PNG on a white
// background. Labels are drawn afterwards with a bitmap font because the
// rasterizer does not render SVG text; their coordinates are in the SVG's
// user space of width svgWidth.
func RenderPNG(svgData []byte, targetW, targetH int, labels []Label, svgWidth int) ([]byte, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(white), image.Point{}, xdraw.Src)

	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)

	if len(labels) > 0 && svgWidth > 0 {
		drawLabels(dst, labels, float64(targetW)/float64(svgWidth))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLabels(dst *image.RGBA, labels []Label, ratio float64) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelInk),
		Face: basicfont.Face7x13,
	}
	for _, l := range labels {
		text := asciiOnly.Replace(l.Text)
		width := d.MeasureString(text).Round()
		x := int(l.X * ratio)
		switch l.Anchor {
		case AnchorMiddle:
			x -= width / 2
		case AnchorEnd:
			x -= width
		}
		y := int(l.Y * ratio)
		d.Dot = fixed.P(x, y)
		d.DrawString(text)
		if l.Bold {
			d.Dot = fixed.P(x+1, y)
			d.DrawString(text)
		}
	}
}

// RenderIcon rasterizes a square SVG icon to a size x size PNG.
func RenderIcon(svgData []byte, size int) ([]byte, error) {
	return RenderPNG(svgData, size, size, nil, 0)
}
