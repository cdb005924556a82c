package geometry

// Box is an axis-aligned bounding box. The zero value is not usable; call
// NewBox to get an empty box that Expand can grow.
type Box struct {
	Min Point
	Max Point
}

const boxInit = 1 << 30

// NewBox creates an empty bounding box.
func NewBox() Box {
	return Box{
		Min: Point{boxInit, boxInit},
		Max: Point{-boxInit, -boxInit},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Expand grows the box to include p.
func (b *Box) Expand(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// Merge grows the box to include another box.
func (b *Box) Merge(other Box) {
	if !other.IsEmpty() {
		b.Expand(other.Min)
		b.Expand(other.Max)
	}
}

// Contains reports whether p lies within the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b Box) Height() int {
	return b.Max.Y - b.Min.Y
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}
