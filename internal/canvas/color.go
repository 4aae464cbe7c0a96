package canvas

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	Red   = Color{255, 0, 0}
	Green = Color{0, 255, 0}
	Blue  = Color{0, 0, 255}
)

// ParseColor parses "#rrggbb" or "#rgb"; the leading '#' is optional.
func ParseColor(s string) (Color, error) {
	if s == "" {
		return Color{}, fmt.Errorf("color: empty value")
	}
	if s[0] != '#' {
		s = "#" + s
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping it into gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful returns c as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Blend mixes c toward other by t in [0, 1], interpolating in Lab space.
func (c Color) Blend(other Color, t float64) Color {
	return FromColorful(c.Colorful().BlendLab(other.Colorful(), t))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
