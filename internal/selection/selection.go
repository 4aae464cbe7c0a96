// Package selection maps Visual-mode rectangles to concrete pixel sets.
//
// A rectangle is given by its two normalized corners; a Policy decides
// which pixels inside the rectangle are covered. Square covers the whole
// rectangle, Circle covers a thin ring approximating the inscribed circle.
package selection

import (
	"math"
	"strings"
)

// Policy is the shape rule used to rasterize a rectangle.
type Policy uint8

const (
	// Square selects every pixel of the rectangle.
	Square Policy = iota
	// Circle selects the ring of pixels whose squared distance to the
	// center lies within RingTolerance of the squared radius.
	Circle
)

// RingTolerance is the accepted |d² - r²| band for Circle, in squared
// pixel units.
const RingTolerance = 2.0

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Circle:
		return "circle"
	default:
		return "square"
	}
}

// ParsePolicy converts a name to a Policy.
// Unknown names return Square.
func ParsePolicy(s string) Policy {
	switch strings.ToLower(s) {
	case "circle", "ring", "round":
		return Circle
	default:
		return Square
	}
}

// Point is a pixel coordinate on the canvas.
type Point struct {
	X, Y int
}

// Rect is a closed rectangle with Min.X <= Max.X and Min.Y <= Max.Y.
type Rect struct {
	Min, Max Point
}

// Normalize returns the rectangle spanned by two arbitrary corners.
func Normalize(a, b Point) Rect {
	return Rect{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Select returns the pixels covered by the rectangle [lo, hi] under the
// given policy. The corners must already be normalized.
func Select(policy Policy, lo, hi Point) Set {
	set := make(Set)
	SelectInto(set, policy, lo, hi)
	return set
}

// SelectInto adds the covered pixels to an existing set.
func SelectInto(set Set, policy Policy, lo, hi Point) {
	switch policy {
	case Circle:
		mx, my := (lo.X+hi.X)/2, (lo.Y+hi.Y)/2
		r := float64(hi.X-lo.X) / 2
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				dx, dy := mx-x, my-y
				dd := float64(dx*dx + dy*dy)
				if math.Abs(dd-r*r) <= RingTolerance {
					set.Add(Point{X: x, Y: y})
				}
			}
		}
	default:
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				set.Add(Point{X: x, Y: y})
			}
		}
	}
}

// SelectRect is Select over a Rect.
func SelectRect(policy Policy, r Rect) Set {
	return Select(policy, r.Min, r.Max)
}
