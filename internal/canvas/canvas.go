// Package canvas holds the pixel grid the editor paints on and the
// palette that maps keys to colors.
package canvas

import "github.com/dshills/vipix/internal/selection"

// Canvas is a fixed-size grid of colors, stored row-major.
type Canvas struct {
	width, height int
	pixels        []Color
}

// New creates a w x h canvas filled with Black.
// Non-positive dimensions are raised to 1.
func New(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{width: w, height: h, pixels: make([]Color, w*h)}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) {
	return c.width, c.height
}

// Bounds returns the rectangle of valid pixel coordinates.
func (c *Canvas) Bounds() selection.Rect {
	return selection.Rect{Max: selection.Point{X: c.width - 1, Y: c.height - 1}}
}

// InBounds reports whether (x, y) is on the canvas.
func (c *Canvas) InBounds(x, y int) bool {
	return c.Bounds().Contains(selection.Point{X: x, Y: y})
}

// SetPixelColor paints one pixel. Out-of-range coordinates are ignored.
func (c *Canvas) SetPixelColor(x, y int, col Color) {
	if !c.InBounds(x, y) {
		return
	}
	c.pixels[y*c.width+x] = col
}

// At returns the color at (x, y), or Black when out of range.
func (c *Canvas) At(x, y int) Color {
	if !c.InBounds(x, y) {
		return Black
	}
	return c.pixels[y*c.width+x]
}

// Paint sets every point to col and returns how many were on the canvas.
func (c *Canvas) Paint(points []selection.Point, col Color) int {
	n := 0
	for _, p := range points {
		if c.InBounds(p.X, p.Y) {
			c.pixels[p.Y*c.width+p.X] = col
			n++
		}
	}
	return n
}

// Fill sets every pixel to col.
func (c *Canvas) Fill(col Color) {
	for i := range c.pixels {
		c.pixels[i] = col
	}
}

// Pixels returns a copy of the grid in row-major order.
func (c *Canvas) Pixels() []Color {
	out := make([]Color, len(c.pixels))
	copy(out, c.pixels)
	return out
}
