package eagleimport

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

func TestCollectIntersectionsCrossGroupOnly(t *testing.T) {
	tr := newSegmentTracker()

	a := tr.newGroup("A")
	a.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 100}, B: geometry.Point{X: 1000, Y: 100}})
	a.addSeg(geometry.Seg{A: geometry.Point{X: 1000, Y: 100}, B: geometry.Point{X: 1000, Y: 500}})

	b := tr.newGroup("B")
	b.addSeg(geometry.Seg{A: geometry.Point{X: 500, Y: 0}, B: geometry.Point{X: 500, Y: 200}})

	tr.collectIntersections()

	if !tr.hasIntersection(geometry.Point{X: 500, Y: 100}) {
		t.Error("crossing between groups not recorded")
	}
	// The two segments of group A touch at (1000,100); same-group contact
	// is not a crossing.
	if tr.hasIntersection(geometry.Point{X: 1000, Y: 100}) {
		t.Error("same-group contact recorded as crossing")
	}
}

func TestCollectIntersectionsSkipsSameNet(t *testing.T) {
	tr := newSegmentTracker()

	// Two separate segments of the same net crossing each other.
	a := tr.newGroup("N")
	a.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 100}, B: geometry.Point{X: 1000, Y: 100}})
	b := tr.newGroup("N")
	b.addSeg(geometry.Seg{A: geometry.Point{X: 500, Y: 0}, B: geometry.Point{X: 500, Y: 200}})

	tr.collectIntersections()

	if tr.hasIntersection(geometry.Point{X: 500, Y: 100}) {
		t.Error("crossing between segments of one net recorded")
	}
}

func TestAdjustLabelsIgnoresEndpointTouch(t *testing.T) {
	tr := newSegmentTracker()

	g := tr.newGroup("A")
	g.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 0}, B: geometry.Point{X: 200, Y: 0}})
	label := &schematic.Label{Pos: geometry.Point{X: 100, Y: 0}, Text: "A"}
	g.addLabel(label)

	// Net B's wire merely ends on A's wire; a T-junction is not a crossing
	// the label has to avoid.
	other := tr.newGroup("B")
	other.addSeg(geometry.Seg{A: geometry.Point{X: 100, Y: 0}, B: geometry.Point{X: 100, Y: 300}})

	tr.collectIntersections()
	tr.adjustLabels()

	if label.Pos != (geometry.Point{X: 100, Y: 0}) {
		t.Errorf("label displaced by an endpoint touch: %v", label.Pos)
	}
}

func TestAdjustLabelsLeavesGoodLabel(t *testing.T) {
	tr := newSegmentTracker()
	g := tr.newGroup("N")
	g.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 100}, B: geometry.Point{X: 1000, Y: 100}})

	label := &schematic.Label{Pos: geometry.Point{X: 300, Y: 100}, Text: "N"}
	g.addLabel(label)

	tr.collectIntersections()
	tr.adjustLabels()

	if label.Pos != (geometry.Point{X: 300, Y: 100}) {
		t.Errorf("well-placed label moved to %v", label.Pos)
	}
}

func TestAdjustLabelsMovesOffCrossing(t *testing.T) {
	tr := newSegmentTracker()

	g := tr.newGroup("N")
	g.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 100}, B: geometry.Point{X: 1000, Y: 100}})
	label := &schematic.Label{Pos: geometry.Point{X: 500, Y: 100}, Text: "N"}
	g.addLabel(label)

	other := tr.newGroup("M")
	other.addSeg(geometry.Seg{A: geometry.Point{X: 500, Y: 0}, B: geometry.Point{X: 500, Y: 200}})

	tr.collectIntersections()
	tr.adjustLabels()

	if label.Pos == (geometry.Point{X: 500, Y: 100}) {
		t.Fatal("label left on a cross-group crossing")
	}
	if label.Pos.Y != 100 {
		t.Errorf("label left its wire: %v", label.Pos)
	}
	if tr.hasIntersection(label.Pos) {
		t.Errorf("label moved onto another crossing: %v", label.Pos)
	}
}

func TestAdjustLabelsSnapsFloatingLabel(t *testing.T) {
	tr := newSegmentTracker()
	g := tr.newGroup("N")
	g.addSeg(geometry.Seg{A: geometry.Point{X: 0, Y: 100}, B: geometry.Point{X: 1000, Y: 100}})

	// The source label floats well off the wire.
	label := &schematic.Label{Pos: geometry.Point{X: 480, Y: 30}, Text: "N"}
	g.addLabel(label)

	tr.collectIntersections()
	tr.adjustLabels()

	if !g.segs[0].Contains(label.Pos) {
		t.Errorf("label not snapped onto the wire: %v", label.Pos)
	}
}

func TestFindNearestLinePoint(t *testing.T) {
	segs := []geometry.Seg{
		{A: geometry.Point{X: 0, Y: 0}, B: geometry.Point{X: 1000, Y: 0}},
		{A: geometry.Point{X: 0, Y: 500}, B: geometry.Point{X: 1000, Y: 500}},
	}
	got, ok := findNearestLinePoint(geometry.Point{X: 520, Y: 480}, segs)
	if !ok {
		t.Fatal("no candidate found")
	}
	if got != (geometry.Point{X: 500, Y: 500}) {
		t.Errorf("nearest = %v, want the second segment's center", got)
	}

	if _, ok := findNearestLinePoint(geometry.Point{}, nil); ok {
		t.Error("empty segment list should report no candidate")
	}
}
