package geometry

import "testing"

func TestSegContains(t *testing.T) {
	seg := Seg{Point{0, 0}, Point{100, 0}}

	if !seg.Contains(Point{50, 0}) {
		t.Error("Expected point on segment to be contained")
	}

	if !seg.Contains(Point{0, 0}) || !seg.Contains(Point{100, 0}) {
		t.Error("Expected endpoints to be contained")
	}

	if seg.Contains(Point{50, 1}) {
		t.Error("Expected off-axis point not to be contained")
	}

	if seg.Contains(Point{101, 0}) {
		t.Error("Expected collinear point beyond the end not to be contained")
	}

	diag := Seg{Point{0, 0}, Point{100, 100}}
	if !diag.Contains(Point{40, 40}) {
		t.Error("Expected point on diagonal segment to be contained")
	}
	if diag.Contains(Point{40, 41}) {
		t.Error("Expected near-miss point not to be contained")
	}
}

func TestSegIntersect(t *testing.T) {
	h := Seg{Point{0, 50}, Point{100, 50}}
	v := Seg{Point{50, 0}, Point{50, 100}}

	p, ok := h.Intersect(v, false)
	if !ok {
		t.Fatal("Expected crossing segments to intersect")
	}
	if p != (Point{50, 50}) {
		t.Errorf("Expected intersection at (50,50), got %v", p)
	}

	// Parallel segments never intersect.
	if _, ok := h.Intersect(Seg{Point{0, 60}, Point{100, 60}}, false); ok {
		t.Error("Expected parallel segments not to intersect")
	}

	// Collinear overlap is not a point intersection.
	if _, ok := h.Intersect(Seg{Point{50, 50}, Point{200, 50}}, false); ok {
		t.Error("Expected collinear segments not to report an intersection")
	}

	// Disjoint segments.
	if _, ok := h.Intersect(Seg{Point{200, 0}, Point{200, 100}}, false); ok {
		t.Error("Expected disjoint segments not to intersect")
	}
}

func TestSegIntersectIgnoreEndpoints(t *testing.T) {
	h := Seg{Point{0, 0}, Point{100, 0}}
	v := Seg{Point{100, 0}, Point{100, 100}}

	if _, ok := h.Intersect(v, false); !ok {
		t.Error("Expected touching endpoints to intersect")
	}

	if _, ok := h.Intersect(v, true); ok {
		t.Error("Expected endpoint touch to be ignored")
	}

	// A true crossing is still reported.
	x := Seg{Point{50, -50}, Point{50, 50}}
	if _, ok := h.Intersect(x, true); !ok {
		t.Error("Expected mid-segment crossing to be reported")
	}
}

func TestPointResize(t *testing.T) {
	v := Point{300, 400}
	r := v.Resize(50)

	if r != (Point{30, 40}) {
		t.Errorf("Expected (30,40), got %v", r)
	}

	if (Point{0, 0}).Resize(100) != (Point{0, 0}) {
		t.Error("Expected zero vector to stay zero")
	}

	if (Point{-100, 0}).Resize(50) != (Point{-50, 0}) {
		t.Error("Expected direction to be preserved for negative components")
	}
}

func TestBox(t *testing.T) {
	b := NewBox()

	if !b.IsEmpty() {
		t.Error("Expected new box to be empty")
	}

	b.Expand(Point{10, 20})
	b.Expand(Point{-30, 40})

	if b.IsEmpty() {
		t.Error("Expected expanded box not to be empty")
	}
	if b.Min != (Point{-30, 20}) || b.Max != (Point{10, 40}) {
		t.Errorf("Unexpected bounds: min=%v max=%v", b.Min, b.Max)
	}
	if b.Width() != 40 || b.Height() != 20 {
		t.Errorf("Unexpected size: %dx%d", b.Width(), b.Height())
	}
	if b.Center() != (Point{-10, 30}) {
		t.Errorf("Unexpected center: %v", b.Center())
	}

	other := NewBox()
	other.Expand(Point{100, 100})
	b.Merge(other)

	if b.Max != (Point{100, 100}) {
		t.Errorf("Expected merged max (100,100), got %v", b.Max)
	}
}
