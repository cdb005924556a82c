package schematic

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
)

func TestLineSetPositionTranslates(t *testing.T) {
	l := &Line{
		Layer: LayerWire,
		Start: geometry.Point{X: 100, Y: 200},
		End:   geometry.Point{X: 400, Y: 200},
	}

	l.SetPosition(geometry.Point{X: 0, Y: 0})

	if l.Start != (geometry.Point{X: 0, Y: 0}) {
		t.Errorf("start = %v", l.Start)
	}
	if l.End != (geometry.Point{X: 300, Y: 0}) {
		t.Errorf("end = %v, want (300,0)", l.End)
	}
}

func TestSpinStyleMirrorY(t *testing.T) {
	if SpinLeft.MirrorY() != SpinRight {
		t.Error("mirror of left should be right")
	}
	if SpinRight.MirrorY() != SpinLeft {
		t.Error("mirror of right should be left")
	}
	if SpinUp.MirrorY() != SpinUp {
		t.Error("mirror of up should stay up")
	}
	if SpinDown.MirrorY() != SpinDown {
		t.Error("mirror of down should stay down")
	}
}

func TestBusEntryEnd(t *testing.T) {
	e := NewBusEntry(geometry.Point{X: 1000, Y: 1000}, false)
	if e.End() != (geometry.Point{X: 1100, Y: 1100}) {
		t.Errorf("end = %v", e.End())
	}

	e = NewBusEntry(geometry.Point{X: 1000, Y: 1000}, true)
	if e.End() != (geometry.Point{X: 1100, Y: 900}) {
		t.Errorf("flipped end = %v", e.End())
	}
}

func newTestSymbol() *LibSymbol {
	sym := NewLibSymbol("R")
	pin := &LibPin{
		Pos:         geometry.Point{X: 100, Y: 0},
		Name:        "1",
		Number:      "1",
		Orientation: 'L',
		Length:      100,
		Type:        PinPassive,
		Visible:     true,
	}
	pin.SetUnit(1)
	sym.AddItem(pin)
	return sym
}

func TestComponentPinPosition(t *testing.T) {
	sym := newTestSymbol()
	pin := sym.Pins()[0]

	tests := []struct {
		name     string
		rotation int
		mirror   bool
		want     geometry.Point
	}{
		{"identity", 0, false, geometry.Point{X: 1100, Y: 1000}},
		{"rot90", 90, false, geometry.Point{X: 1000, Y: 900}},
		{"rot180", 180, false, geometry.Point{X: 900, Y: 1000}},
		{"rot270", 270, false, geometry.Point{X: 1000, Y: 1100}},
		{"mirror", 0, true, geometry.Point{X: 900, Y: 1000}},
		{"mirror rot90", 90, true, geometry.Point{X: 1000, Y: 1100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComponent()
			c.Symbol = sym
			c.Unit = 1
			c.Pos = geometry.Point{X: 1000, Y: 1000}
			c.Rotation = tt.rotation
			c.Mirror = tt.mirror

			got := c.PinPosition(pin)
			if got != tt.want {
				t.Errorf("pin position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentFields(t *testing.T) {
	c := NewComponent()
	if len(c.Fields) != 3 {
		t.Fatalf("standard field count = %d", len(c.Fields))
	}
	c.FieldByID(ReferenceField).Text = "R5"
	if c.Reference() != "R5" {
		t.Errorf("reference = %q", c.Reference())
	}
	if c.Field("Value") == nil {
		t.Error("value field missing")
	}
	if c.Field("NOPE") != nil {
		t.Error("unknown field should be nil")
	}

	c.AddField(Field{Name: "MPN", Text: "RC0805"})
	if f := c.Field("MPN"); f == nil || f.Text != "RC0805" {
		t.Errorf("custom field lookup failed: %v", f)
	}
}

func TestComponentDuplicate(t *testing.T) {
	c := NewComponent()
	c.FieldByID(ReferenceField).Text = "U1"
	c.AddInstance("/", "U1", 1)

	dup := c.Duplicate()
	dup.FieldByID(ReferenceField).Text = "U2"
	dup.AddInstance("/sub", "U2", 2)

	if c.Reference() != "U1" {
		t.Error("duplicate shares field storage with original")
	}
	if _, ok := c.Instances["/sub"]; ok {
		t.Error("duplicate shares instance map with original")
	}
}

func TestLibraryOrder(t *testing.T) {
	lib := NewLibrary()
	lib.Add(NewLibSymbol("B"))
	lib.Add(NewLibSymbol("A"))
	lib.Add(NewLibSymbol("B")) // replace, keeps slot

	syms := lib.Symbols()
	if len(syms) != 2 {
		t.Fatalf("len = %d", len(syms))
	}
	if syms[0].Name != "B" || syms[1].Name != "A" {
		t.Errorf("order = %s, %s", syms[0].Name, syms[1].Name)
	}
	if lib.Find("A") == nil || lib.Find("C") != nil {
		t.Error("find misbehaves")
	}
}

func TestUnitPinsIncludeShared(t *testing.T) {
	sym := NewLibSymbol("OPAMP")
	sym.UnitCount = 2

	a := &LibPin{Number: "1"}
	a.SetUnit(1)
	b := &LibPin{Number: "5"}
	b.SetUnit(2)
	pwr := &LibPin{Number: "8"} // unit 0, shared
	sym.AddItem(a)
	sym.AddItem(b)
	sym.AddItem(pwr)

	pins := sym.UnitPins(1)
	if len(pins) != 2 {
		t.Fatalf("unit 1 pin count = %d", len(pins))
	}
	for _, p := range pins {
		if p.Number == "5" {
			t.Error("unit 1 must not see unit 2 pins")
		}
	}
}

func TestScreenTranslateAndBounds(t *testing.T) {
	screen := NewScreen()
	screen.AddItem(&Line{Layer: LayerWire, Start: geometry.Point{X: 100, Y: 100}, End: geometry.Point{X: 500, Y: 100}})
	screen.AddItem(&Junction{Pos: geometry.Point{X: 500, Y: 100}})

	b := screen.BoundingBox()
	if b.Min != (geometry.Point{X: 100, Y: 100}) || b.Max != (geometry.Point{X: 500, Y: 100}) {
		t.Errorf("bbox = %v..%v", b.Min, b.Max)
	}

	screen.Translate(geometry.Point{X: -100, Y: 0})
	b = screen.BoundingBox()
	if b.Min.X != 0 || b.Max.X != 400 {
		t.Errorf("translated bbox = %v..%v", b.Min, b.Max)
	}
}

func TestPinAngle(t *testing.T) {
	for _, tt := range []struct {
		o    byte
		want int
	}{{'R', 0}, {'U', 90}, {'L', 180}, {'D', 270}} {
		p := &LibPin{Orientation: tt.o}
		if got := p.Angle(); got != tt.want {
			t.Errorf("angle(%c) = %d, want %d", tt.o, got, tt.want)
		}
	}
}
