package selection

import "sort"

// Set is an unordered set of pixel coordinates.
type Set map[Point]struct{}

// NewSet creates a set holding the given points.
func NewSet(points ...Point) Set {
	s := make(Set, len(points))
	for _, p := range points {
		s.Add(p)
	}
	return s
}

// Add inserts a point.
func (s Set) Add(p Point) {
	s[p] = struct{}{}
}

// Has reports whether the point is in the set.
func (s Set) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of points.
func (s Set) Len() int {
	return len(s)
}

// IsEmpty returns true if the set holds no points.
func (s Set) IsEmpty() bool {
	return len(s) == 0
}

// Clear removes every point, keeping the allocation.
func (s Set) Clear() {
	for p := range s {
		delete(s, p)
	}
}

// Points returns the points sorted row-major (by Y, then X).
func (s Set) Points() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Trail is the ordered, duplicate-free list of points an object visits.
type Trail struct {
	points []Point
	seen   Set
}

// Add appends p unless it was already visited.
func (t *Trail) Add(p Point) {
	if t.seen == nil {
		t.seen = make(Set)
	}
	if t.seen.Has(p) {
		return
	}
	t.seen.Add(p)
	t.points = append(t.points, p)
}

// Points returns the visited points in visiting order.
func (t *Trail) Points() []Point {
	return t.points
}

// Len returns the number of distinct points visited.
func (t *Trail) Len() int {
	return len(t.points)
}
