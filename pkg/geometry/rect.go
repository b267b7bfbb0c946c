// Package geometry provides axis-aligned rectangle math for zone validation.
// Rectangles are (x, y, w, h) tuples in either normalized (0-1) or pixel
// coordinates; all operations are unit-agnostic as long as both operands use
// the same units.
package geometry

import "math"

// Point is a 2D point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// A rectangle with W == 0 or H == 0 is degenerate: it has zero area and
// never intersects, contains, or overlaps anything.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the rectangle's area, treating negative extents as zero.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Empty reports whether the rectangle is degenerate.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Scale converts a normalized rectangle to pixel coordinates for an image of
// the given dimensions.
func (r Rect) Scale(width, height float64) Rect {
	return Rect{X: r.X * width, Y: r.Y * height, W: r.W * width, H: r.H * height}
}

// Normalize converts a pixel rectangle to normalized coordinates for an image
// of the given dimensions. Returns the zero Rect when dimensions are invalid.
func (r Rect) Normalize(width, height float64) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	return Rect{X: r.X / width, Y: r.Y / height, W: r.W / width, H: r.H / height}
}

// BoundingRect derives the axis-aligned bounding rectangle of a quadrilateral
// by taking the min/max of x and y across its four corners. Detector quads
// are not axis-aligned in general.
func BoundingRect(quad [4]Point) Rect {
	minX, minY := quad[0].X, quad[0].Y
	maxX, maxY := minX, minY
	for _, p := range quad[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Intersects reports whether a and b overlap with strictly positive width and
// height of intersection. Touching edges do not count as overlap.
func Intersects(a, b Rect) bool {
	return !Intersection(a, b).Empty()
}

// Intersection returns the intersection rectangle of a and b. The result is
// degenerate (Empty) when the rectangles do not overlap.
func Intersection(a, b Rect) Rect {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.X+a.W, b.X+b.W)
	y2 := math.Min(a.Y+a.H, b.Y+b.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// OverlapFraction returns intersection_area(a, b) / area(a): the fraction of
// a (conventionally the detection box) covered by b (the zone). Returns 0
// when there is no intersection or a is degenerate.
func OverlapFraction(a, b Rect) float64 {
	areaA := a.Area()
	if areaA == 0 {
		return 0
	}
	inter := Intersection(a, b).Area()
	if inter == 0 {
		return 0
	}
	frac := inter / areaA
	// Floating-point noise can push the ratio a hair past 1.
	if frac > 1 {
		frac = 1
	}
	return frac
}

// Contains reports whether inner lies entirely within outer, inclusive of
// edges. A degenerate outer contains nothing.
func Contains(outer, inner Rect) bool {
	if outer.Empty() {
		return false
	}
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W &&
		inner.Y+inner.H <= outer.Y+outer.H
}

// ContainsPoint reports whether p lies within r, inclusive of edges.
func ContainsPoint(r Rect, p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}
