// Package schematic provides the target schematic object model the importer
// builds into: sheets of drawable items, component instances and multi-unit
// library symbols, plus an s-expression writer for persisting them.
package schematic

import (
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
)

// LineLayer classifies a line item. Layers here are abstract groups deciding
// item role and color, not physical layers.
type LineLayer int

const (
	LayerNotes LineLayer = iota
	LayerWire
	LayerBus
)

// SpinStyle is the orientation of a label relative to its anchor.
type SpinStyle int

const (
	SpinLeft SpinStyle = iota
	SpinUp
	SpinRight
	SpinDown
)

// MirrorY flips the spin style about the vertical axis.
func (s SpinStyle) MirrorY() SpinStyle {
	switch s {
	case SpinLeft:
		return SpinRight
	case SpinRight:
		return SpinLeft
	}
	return s
}

// Horizontal and vertical text justification values.
const (
	JustifyLeft   = "left"
	JustifyCenter = "center"
	JustifyRight  = "right"
	JustifyTop    = "top"
	JustifyBottom = "bottom"
)

// Item is any drawable placed on a screen. SetPosition translates the whole
// item, anchored at Position.
type Item interface {
	Position() geometry.Point
	SetPosition(geometry.Point)
	BoundingBox() geometry.Box
}

// Line is a wire, bus or graphical line segment.
type Line struct {
	Layer LineLayer
	Start geometry.Point
	End   geometry.Point
	Width int
}

func (l *Line) Position() geometry.Point { return l.Start }

func (l *Line) SetPosition(p geometry.Point) {
	delta := p.Sub(l.Start)
	l.Start = p
	l.End = l.End.Add(delta)
}

func (l *Line) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(l.Start)
	b.Expand(l.End)
	return b
}

// Seg returns the line as a geometry segment.
func (l *Line) Seg() geometry.Seg {
	return geometry.Seg{A: l.Start, B: l.End}
}

// Junction marks an electrical connection of crossing wires.
type Junction struct {
	Pos geometry.Point
}

func (j *Junction) Position() geometry.Point     { return j.Pos }
func (j *Junction) SetPosition(p geometry.Point) { j.Pos = p }

func (j *Junction) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(j.Pos)
	return b
}

// LabelScope distinguishes sheet-local from document-wide net labels.
type LabelScope int

const (
	LocalScope LabelScope = iota
	GlobalScope
)

// Label attaches a net name to the wire it touches. Global labels connect
// across all sheets of the document.
type Label struct {
	Pos   geometry.Point
	Text  string
	Size  int
	Scope LabelScope
	Spin  SpinStyle
}

func (l *Label) Position() geometry.Point     { return l.Pos }
func (l *Label) SetPosition(p geometry.Point) { l.Pos = p }

func (l *Label) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(l.Pos)
	return b
}

// BusEntry is the diagonal connector glyph joining a wire to a bus. Size is
// the offset from Pos to the wire-side end.
type BusEntry struct {
	Pos  geometry.Point
	Size geometry.Point
}

// NewBusEntry creates an entry at pos. When flipY is set the glyph slants
// upward (negative Y side).
func NewBusEntry(pos geometry.Point, flipY bool) *BusEntry {
	size := geometry.Point{X: 100, Y: 100}
	if flipY {
		size.Y = -100
	}
	return &BusEntry{Pos: pos, Size: size}
}

func (e *BusEntry) Position() geometry.Point     { return e.Pos }
func (e *BusEntry) SetPosition(p geometry.Point) { e.Pos = p }

func (e *BusEntry) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(e.Pos)
	b.Expand(e.Pos.Add(e.Size))
	return b
}

// End returns the wire-side end of the entry glyph.
func (e *BusEntry) End() geometry.Point {
	return e.Pos.Add(e.Size)
}

// Marker is a visual annotation asking for human review. It carries no
// electrical meaning.
type Marker struct {
	Pos     geometry.Point
	Message string
}

func (m *Marker) Position() geometry.Point     { return m.Pos }
func (m *Marker) SetPosition(p geometry.Point) { m.Pos = p }

func (m *Marker) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(m.Pos)
	return b
}

// Text is free graphical text.
type Text struct {
	Pos    geometry.Point
	Text   string
	Size   int
	Bold   bool
	Angle  int // 0 or 90
	HAlign string
	VAlign string
}

func (t *Text) Position() geometry.Point     { return t.Pos }
func (t *Text) SetPosition(p geometry.Point) { t.Pos = p }

func (t *Text) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(t.Pos)
	return b
}

// SheetRef is a rectangular glyph on one sheet referring to another page.
type SheetRef struct {
	Pos      geometry.Point
	Size     geometry.Point
	Name     string
	FileName string
	Page     int
}

func (r *SheetRef) Position() geometry.Point     { return r.Pos }
func (r *SheetRef) SetPosition(p geometry.Point) { r.Pos = p }

func (r *SheetRef) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(r.Pos)
	b.Expand(r.Pos.Add(r.Size))
	return b
}

// Standard field indices of a component.
const (
	ReferenceField = 0
	ValueField     = 1
	FootprintField = 2
)

// Field is one named text of a component or library symbol.
type Field struct {
	Name    string
	Text    string
	Pos     geometry.Point // relative to the owner for components
	Size    int
	Visible bool
	Angle   int
	HAlign  string
	VAlign  string
}

// InstanceRef is the per-sheet reference annotation of a component.
type InstanceRef struct {
	Reference string
	Unit      int
}

// Component is a placed instance of one unit of a library symbol.
type Component struct {
	LibID    string
	Unit     int
	Pos      geometry.Point
	Rotation int  // degrees, counterclockwise in the source (Y-up) frame
	Mirror   bool // mirrored about the vertical axis before rotation
	Fields   []Field
	Symbol   *LibSymbol // resolved library symbol

	// Instance paths: sheet path -> (reference, unit).
	Instances map[string]InstanceRef
}

// NewComponent creates a component with the three standard fields.
func NewComponent() *Component {
	return &Component{
		Fields: []Field{
			{Name: "Reference", Visible: true},
			{Name: "Value", Visible: true},
			{Name: "Footprint"},
		},
		Instances: make(map[string]InstanceRef),
	}
}

func (c *Component) Position() geometry.Point { return c.Pos }

func (c *Component) SetPosition(p geometry.Point) { c.Pos = p }

// Field returns the field with the given name, or nil.
func (c *Component) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// FieldByID returns the field at a standard index.
func (c *Component) FieldByID(id int) *Field {
	return &c.Fields[id]
}

// AddField appends a custom field and returns it.
func (c *Component) AddField(f Field) *Field {
	c.Fields = append(c.Fields, f)
	return &c.Fields[len(c.Fields)-1]
}

// Reference returns the reference designator text.
func (c *Component) Reference() string {
	return c.Fields[ReferenceField].Text
}

// AddInstance records the reference and unit for a sheet path.
func (c *Component) AddInstance(path, reference string, unit int) {
	c.Instances[path] = InstanceRef{Reference: reference, Unit: unit}
}

// Duplicate returns a deep copy of the component.
func (c *Component) Duplicate() *Component {
	dup := *c
	dup.Fields = make([]Field, len(c.Fields))
	copy(dup.Fields, c.Fields)
	dup.Instances = make(map[string]InstanceRef, len(c.Instances))
	for k, v := range c.Instances {
		dup.Instances[k] = v
	}
	return &dup
}

// transform maps a symbol-local point (Y-up) to a sheet offset (Y-down)
// under the component's mirror and rotation. Mirror flips about the vertical
// axis first, then the rotation is applied counterclockwise in the Y-up
// frame.
func (c *Component) transform(p geometry.Point) geometry.Point {
	if c.Mirror {
		p.X = -p.X
	}

	switch ((c.Rotation % 360) + 360) % 360 {
	case 90:
		p = geometry.Point{X: -p.Y, Y: p.X}
	case 180:
		p = geometry.Point{X: -p.X, Y: -p.Y}
	case 270:
		p = geometry.Point{X: p.Y, Y: -p.X}
	}

	return geometry.Point{X: p.X, Y: -p.Y}
}

// PinPosition returns the sheet position of a library pin under this
// component's placement.
func (c *Component) PinPosition(pin *LibPin) geometry.Point {
	return c.Pos.Add(c.transform(pin.Pos))
}

// Pins returns the library pins belonging to this component's unit.
func (c *Component) Pins() []*LibPin {
	if c.Symbol == nil {
		return nil
	}
	return c.Symbol.UnitPins(c.Unit)
}

// BoundingBox is the box spanned by the unit's drawable items transformed to
// sheet coordinates, or the component position alone for an unresolved
// symbol.
func (c *Component) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	b.Expand(c.Pos)

	if c.Symbol == nil {
		return b
	}

	for _, p := range c.Symbol.unitExtent(c.Unit) {
		b.Expand(c.Pos.Add(c.transform(p)))
	}

	return b
}
