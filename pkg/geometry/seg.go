package geometry

// Seg is a straight line segment between two points.
type Seg struct {
	A Point
	B Point
}

// Vector returns B - A.
func (s Seg) Vector() Point {
	return s.B.Sub(s.A)
}

// Center returns the midpoint of the segment, rounded toward A.
func (s Seg) Center() Point {
	return Point{(s.A.X + s.B.X) / 2, (s.A.Y + s.B.Y) / 2}
}

// Contains reports whether p lies exactly on the segment, endpoints included.
func (s Seg) Contains(p Point) bool {
	if cross(s.A, s.B, p) != 0 {
		return false
	}
	return min(s.A.X, s.B.X) <= p.X && p.X <= max(s.A.X, s.B.X) &&
		min(s.A.Y, s.B.Y) <= p.Y && p.Y <= max(s.A.Y, s.B.Y)
}

// IsHorizontal reports whether both endpoints share a Y coordinate.
func (s Seg) IsHorizontal() bool {
	return s.A.Y == s.B.Y
}

// IsVertical reports whether both endpoints share an X coordinate.
func (s Seg) IsVertical() bool {
	return s.A.X == s.B.X
}

// Intersect returns the crossing point of two non-parallel segments.
// When ignoreEndpoints is set, a crossing that coincides with an endpoint of
// either segment is not reported; collinear overlaps are never reported.
// The result is rounded to the nearest mil.
func (s Seg) Intersect(o Seg, ignoreEndpoints bool) (Point, bool) {
	d1 := s.Vector()
	d2 := o.Vector()

	den := d1.X*d2.Y - d1.Y*d2.X
	if den == 0 {
		return Point{}, false // parallel or collinear
	}

	w := o.A.Sub(s.A)
	tNum := w.X*d2.Y - w.Y*d2.X
	uNum := w.X*d1.Y - w.Y*d1.X

	// Both parameters must be within [0, 1].
	if den > 0 {
		if tNum < 0 || tNum > den || uNum < 0 || uNum > den {
			return Point{}, false
		}
	} else {
		if tNum > 0 || tNum < den || uNum > 0 || uNum < den {
			return Point{}, false
		}
	}

	t := float64(tNum) / float64(den)
	p := Point{
		X: s.A.X + int(roundHalfAway(t*float64(d1.X))),
		Y: s.A.Y + int(roundHalfAway(t*float64(d1.Y))),
	}

	if ignoreEndpoints && (p == s.A || p == s.B || p == o.A || p == o.B) {
		return Point{}, false
	}

	return p, true
}

func roundHalfAway(v float64) int64 {
	if v < 0 {
		return int64(v - 0.5)
	}
	return int64(v + 0.5)
}
