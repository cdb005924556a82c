// Package geometry provides the integer-mil primitives used by the schematic
// importer: points, line segments and bounding boxes.
//
// Coordinates follow the schematic screen convention: X increases to the
// right, Y increases downward. All values are in mils (1/1000 inch), which is
// the schematic internal unit.
package geometry

import "math"

// Point is a 2D coordinate in mils.
type Point struct {
	X int
	Y int
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p with both components multiplied by n.
func (p Point) Scale(n int) Point {
	return Point{p.X * n, p.Y * n}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return math.Hypot(dx, dy)
}

// Resize returns a vector pointing in the direction of p with the given
// length. A zero vector is returned unchanged.
func (p Point) Resize(length int) Point {
	if p.X == 0 && p.Y == 0 {
		return p
	}
	l := math.Hypot(float64(p.X), float64(p.Y))
	return Point{
		X: int(math.Round(float64(p.X) * float64(length) / l)),
		Y: int(math.Round(float64(p.Y) * float64(length) / l)),
	}
}

// Less orders points by Y, then X. Used to keep intersection sets sorted for
// binary search.
func (p Point) Less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

func cross(o, a, b Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
