package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Canvas is an engine sink that rasterizes segments as one-pixel strokes.
type Canvas struct {
	width, height int
	z             *vector.Rasterizer
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		z:      vector.NewRasterizer(width, height),
	}
}

// DrawLine adds the segment as a thin quad. Degenerate segments become a
// single pixel.
func (c *Canvas) DrawLine(x0, y0, x1, y1 float64) {
	// Pixel centers.
	x0, y0, x1, y1 = x0+0.5, y0+0.5, x1+0.5, y1+0.5

	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		c.quad(x0-0.5, y0-0.5, x0+0.5, y0-0.5, x0+0.5, y0+0.5, x0-0.5, y0+0.5)
		return
	}

	// Half-width normal, extended by half a pixel along the segment so
	// joined strokes meet without gaps.
	nx, ny := -dy/length*0.5, dx/length*0.5
	ex, ey := dx/length*0.5, dy/length*0.5
	c.quad(
		x0-ex+nx, y0-ey+ny,
		x1+ex+nx, y1+ey+ny,
		x1+ex-nx, y1+ey-ny,
		x0-ex-nx, y0-ey-ny,
	)
}

func (c *Canvas) quad(ax, ay, bx, by, cx, cy, dx, dy float64) {
	c.z.MoveTo(float32(ax), float32(ay))
	c.z.LineTo(float32(bx), float32(by))
	c.z.LineTo(float32(cx), float32(cy))
	c.z.LineTo(float32(dx), float32(dy))
	c.z.ClosePath()
}

// Image composites the strokes in fg over a bg background.
func (c *Canvas) Image(bg, fg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	c.z.DrawOp = draw.Over
	c.z.Draw(img, img.Bounds(), image.NewUniform(fg), image.Point{})
	return img
}
