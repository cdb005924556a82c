package eagleimport

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

func TestTranslatePinMappings(t *testing.T) {
	tests := []struct {
		direction string
		want      string
	}{
		{"sup", schematic.PinPowerIn},
		{"pwr", schematic.PinPowerIn},
		{"pas", schematic.PinPassive},
		{"out", schematic.PinOutput},
		{"in", schematic.PinInput},
		{"nc", schematic.PinNoConnect},
		{"io", schematic.PinBidirectional},
		{"oc", schematic.PinOpenCollector},
		{"hiz", schematic.PinTriState},
		{"", schematic.PinPassive},
	}
	for _, tt := range tests {
		pin := translatePin(&eagle.Pin{Name: "P", Direction: tt.direction}, 1, NullReporter{})
		if pin.Type != tt.want {
			t.Errorf("direction %q: type = %q, want %q", tt.direction, pin.Type, tt.want)
		}
	}
}

func TestTranslatePinLengths(t *testing.T) {
	tests := []struct {
		length string
		want   int
	}{
		{"point", 0},
		{"short", 100},
		{"middle", 200},
		{"long", 300},
		{"", 300},
	}
	for _, tt := range tests {
		pin := translatePin(&eagle.Pin{Name: "P", Length: tt.length}, 1, NullReporter{})
		if pin.Length != tt.want {
			t.Errorf("length %q = %d, want %d", tt.length, pin.Length, tt.want)
		}
	}
}

func TestTranslatePinVisibility(t *testing.T) {
	pin := translatePin(&eagle.Pin{Name: "P", Visible: "off"}, 1, NullReporter{})
	if pin.NameSize != 0 || pin.NumberSize != 0 {
		t.Error("visible=off should hide both texts")
	}
	pin = translatePin(&eagle.Pin{Name: "P", Visible: "pad"}, 1, NullReporter{})
	if pin.NameSize != 0 || pin.NumberSize == 0 {
		t.Error("visible=pad should hide the name only")
	}
	pin = translatePin(&eagle.Pin{Name: "P", Visible: "pin"}, 1, NullReporter{})
	if pin.NameSize == 0 || pin.NumberSize != 0 {
		t.Error("visible=pin should hide the number only")
	}
}

func TestTranslatePinOrientationFallback(t *testing.T) {
	rep := &CountingReporter{}
	pin := translatePin(&eagle.Pin{
		Name: "P",
		Rot:  eagle.Rotation{Degrees: 45, Valid: true},
	}, 1, rep)
	if pin.Orientation != 'R' {
		t.Errorf("orientation = %c, want R", pin.Orientation)
	}
	if rep.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", rep.Warnings)
	}
}

func TestTranslateSymbolWireStraight(t *testing.T) {
	w := &eagle.Wire{X1: 0, Y1: 0, X2: 2.54, Y2: 0, Width: 0.254}
	item := translateSymbolWire(w, 1)
	poly, ok := item.(*schematic.LibPolyline)
	if !ok {
		t.Fatalf("got %T, want polyline", item)
	}
	if poly.Points[1] != (geometry.Point{X: 100, Y: 0}) {
		t.Errorf("end = %v", poly.Points[1])
	}
	if poly.Unit() != 1 {
		t.Errorf("unit = %d", poly.Unit())
	}
}

func TestTranslateSymbolArcThin(t *testing.T) {
	item := translateSymbolArc(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}, 180, 10, 1)
	arc, ok := item.(*schematic.LibArc)
	if !ok {
		t.Fatalf("got %T, want arc", item)
	}
	if arc.Filled {
		t.Error("thin arc must not be filled")
	}
	if arc.Width != 10 {
		t.Errorf("width = %d", arc.Width)
	}
	// 180 degree sweep: the mid point sits a radius away from the chord.
	if arc.Mid != (geometry.Point{X: 50, Y: -50}) {
		t.Errorf("mid = %v, want (50,-50)", arc.Mid)
	}
}

func TestTranslateSymbolArcCapsule(t *testing.T) {
	// Radius 50, stroke 100: too thick to stroke, rendered as a filled
	// capsule with the endpoints moved to stroke-width distance from the
	// center.
	item := translateSymbolArc(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}, 180, 100, 1)
	arc, ok := item.(*schematic.LibArc)
	if !ok {
		t.Fatalf("got %T, want arc", item)
	}
	if !arc.Filled {
		t.Error("thick arc should be filled")
	}
	if arc.Width != 1 {
		t.Errorf("width = %d, want 1", arc.Width)
	}
	if arc.Start != (geometry.Point{X: -50, Y: 0}) {
		t.Errorf("start = %v, want (-50,0)", arc.Start)
	}
	if arc.End != (geometry.Point{X: 150, Y: 0}) {
		t.Errorf("end = %v, want (150,0)", arc.End)
	}
}

func TestTranslateSymbolArcThickButStrokable(t *testing.T) {
	// Radius 100, stroke 60: wide but still under the radius, so the arc
	// keeps its stroke instead of degenerating into a capsule.
	item := translateSymbolArc(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 0}, 180, 60, 1)
	arc, ok := item.(*schematic.LibArc)
	if !ok {
		t.Fatalf("got %T, want arc", item)
	}
	if arc.Filled {
		t.Error("strokable arc must not be filled")
	}
	if arc.Width != 60 {
		t.Errorf("width = %d, want 60", arc.Width)
	}
	if arc.Start != (geometry.Point{X: 0, Y: 0}) || arc.End != (geometry.Point{X: 200, Y: 0}) {
		t.Errorf("endpoints moved: %v..%v", arc.Start, arc.End)
	}
}

func TestEffectiveAlign(t *testing.T) {
	if got := effectiveAlign(eagle.AlignTopLeft, 180, 180, false); got != eagle.AlignBottomRight {
		t.Errorf("top-left rotated 180 = %v, want bottom-right", got)
	}
	if got := effectiveAlign(eagle.AlignCenterLeft, 0, 0, true); got != eagle.AlignCenterRight {
		t.Errorf("center-left mirrored = %v, want center-right", got)
	}
	if got := effectiveAlign(eagle.AlignCenter, 180, 180, true); got != eagle.AlignCenter {
		t.Errorf("center should be invariant, got %v", got)
	}
}

func TestEffectiveAlignVerticalText(t *testing.T) {
	// Text standing at 90 or 270 mirrors across the horizontal axis:
	// corners swap top and bottom, center anchors stay put.
	if got := effectiveAlign(eagle.AlignBottomLeft, 90, 90, true); got != eagle.AlignTopLeft {
		t.Errorf("bottom-left at 90 mirrored = %v, want top-left", got)
	}
	if got := effectiveAlign(eagle.AlignCenterLeft, 90, 90, true); got != eagle.AlignCenterLeft {
		t.Errorf("center-left at 90 mirrored = %v, want center-left", got)
	}
	// At 270 the rotation negates the anchor first, then the vertical flip
	// applies: bottom-left becomes top-right, flipped to bottom-right.
	if got := effectiveAlign(eagle.AlignBottomLeft, 270, 270, true); got != eagle.AlignBottomRight {
		t.Errorf("bottom-left at 270 mirrored = %v, want bottom-right", got)
	}
}

func TestAlignmentJustify(t *testing.T) {
	h, v := alignmentJustify(eagle.AlignTopRight)
	if h != schematic.JustifyRight || v != schematic.JustifyTop {
		t.Errorf("top-right = %s/%s", h, v)
	}
	// EAGLE's default anchor is the bottom-left corner.
	h, v = alignmentJustify(eagle.AlignBottomLeft)
	if h != schematic.JustifyLeft || v != schematic.JustifyBottom {
		t.Errorf("bottom-left = %s/%s", h, v)
	}
}

func TestTranslateFrameLegends(t *testing.T) {
	f := &eagle.Frame{
		X1: 0, Y1: 0, X2: 254, Y2: 127, // 10000 x 5000 mils
		Columns: 4, Rows: 2,
	}
	items := translateFrame(f, 0)

	var texts []*schematic.LibText
	var lines int
	for _, item := range items {
		switch it := item.(type) {
		case *schematic.LibText:
			texts = append(texts, it)
		case *schematic.LibPolyline:
			lines++
		}
	}

	// 4 columns on 2 sides plus 2 rows on 2 sides.
	if len(texts) != 4*2+2*2 {
		t.Errorf("legend count = %d, want 12", len(texts))
	}
	if lines == 0 {
		t.Error("no border lines produced")
	}
}

func TestTranslateFrameDisabledSide(t *testing.T) {
	f := &eagle.Frame{
		X1: 0, Y1: 0, X2: 254, Y2: 127,
		Columns: 2, Rows: 2,
		BorderBottom: "no",
		BorderLeft:   "no",
	}
	var texts int
	for _, item := range translateFrame(f, 0) {
		if _, ok := item.(*schematic.LibText); ok {
			texts++
		}
	}
	// Columns legend only on top, rows legend only on the right.
	if texts != 2+2 {
		t.Errorf("legend count = %d, want 4", texts)
	}
}
