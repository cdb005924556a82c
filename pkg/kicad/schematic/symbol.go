package schematic

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
)

// Library holds translated symbols keyed by name, preserving insert order
// for deterministic output.
type Library struct {
	symbols map[string]*LibSymbol
	order   []string
}

// NewLibrary creates an empty symbol library.
func NewLibrary() *Library {
	return &Library{symbols: make(map[string]*LibSymbol)}
}

// Add stores a symbol under its name, replacing any previous one.
func (lib *Library) Add(sym *LibSymbol) {
	if _, ok := lib.symbols[sym.Name]; !ok {
		lib.order = append(lib.order, sym.Name)
	}
	lib.symbols[sym.Name] = sym
}

// Find returns the symbol with the given name, or nil.
func (lib *Library) Find(name string) *LibSymbol {
	return lib.symbols[name]
}

// Symbols returns all symbols in insertion order.
func (lib *Library) Symbols() []*LibSymbol {
	out := make([]*LibSymbol, 0, len(lib.order))
	for _, name := range lib.order {
		out = append(out, lib.symbols[name])
	}
	return out
}

// Len reports the number of symbols held.
func (lib *Library) Len() int { return len(lib.order) }

// LibItem is a drawable primitive of a library symbol. Unit 0 items are
// shared by every unit.
type LibItem interface {
	Unit() int
}

// LibSymbol is a multi-unit schematic symbol. All coordinates are
// symbol-local in the Y-up convention.
type LibSymbol struct {
	Name      string
	UnitCount int
	Power     bool

	// Reference and value texts.
	Reference Field
	Value     Field

	Items []LibItem
}

// NewLibSymbol creates a symbol with one unit.
func NewLibSymbol(name string) *LibSymbol {
	return &LibSymbol{
		Name:      name,
		UnitCount: 1,
		Reference: Field{Name: "Reference", Visible: true},
		Value:     Field{Name: "Value", Visible: true},
	}
}

// AddItem appends a drawable primitive.
func (s *LibSymbol) AddItem(item LibItem) {
	s.Items = append(s.Items, item)
}

// Pins returns every pin of the symbol.
func (s *LibSymbol) Pins() []*LibPin {
	var pins []*LibPin
	for _, item := range s.Items {
		if pin, ok := item.(*LibPin); ok {
			pins = append(pins, pin)
		}
	}
	return pins
}

// UnitPins returns the pins belonging to a unit, including shared pins.
func (s *LibSymbol) UnitPins(unit int) []*LibPin {
	var pins []*LibPin
	for _, item := range s.Items {
		pin, ok := item.(*LibPin)
		if !ok {
			continue
		}
		if pin.unit == 0 || pin.unit == unit {
			pins = append(pins, pin)
		}
	}
	return pins
}

// SortPins orders the pins of every unit by number for stable output.
func (s *LibSymbol) SortPins() {
	sort.SliceStable(s.Items, func(i, j int) bool {
		a, aok := s.Items[i].(*LibPin)
		b, bok := s.Items[j].(*LibPin)
		if aok != bok {
			return false
		}
		if !aok {
			return false
		}
		if a.unit != b.unit {
			return a.unit < b.unit
		}
		return a.Number < b.Number
	})
}

// unitExtent returns the corner points and pin positions spanned by a unit's
// items, in symbol-local coordinates.
func (s *LibSymbol) unitExtent(unit int) []geometry.Point {
	var pts []geometry.Point
	for _, item := range s.Items {
		if item.Unit() != 0 && item.Unit() != unit {
			continue
		}
		switch it := item.(type) {
		case *LibPin:
			pts = append(pts, it.Pos)
		case *LibPolyline:
			pts = append(pts, it.Points...)
		case *LibArc:
			pts = append(pts, it.Start, it.Mid, it.End)
		case *LibCircle:
			r := geometry.Point{X: it.Radius, Y: it.Radius}
			pts = append(pts, it.Center.Sub(r), it.Center.Add(r))
		case *LibRect:
			pts = append(pts, it.Start, it.End)
		case *LibText:
			pts = append(pts, it.Pos)
		}
	}
	return pts
}

// LibPolyline is an open or filled polyline primitive.
type LibPolyline struct {
	Points []geometry.Point
	Width  int
	Filled bool
	unit   int
}

func (p *LibPolyline) Unit() int { return p.unit }

// SetUnit assigns the owning unit; 0 is shared.
func (p *LibPolyline) SetUnit(u int) { p.unit = u }

// LibArc is a three-point arc primitive.
type LibArc struct {
	Start  geometry.Point
	Mid    geometry.Point
	End    geometry.Point
	Width  int
	Filled bool
	unit   int
}

func (a *LibArc) Unit() int     { return a.unit }
func (a *LibArc) SetUnit(u int) { a.unit = u }

// LibCircle is a circle primitive.
type LibCircle struct {
	Center geometry.Point
	Radius int
	Width  int
	Filled bool
	unit   int
}

func (c *LibCircle) Unit() int     { return c.unit }
func (c *LibCircle) SetUnit(u int) { c.unit = u }

// LibRect is an axis-aligned filled rectangle primitive.
type LibRect struct {
	Start  geometry.Point
	End    geometry.Point
	Width  int
	Filled bool
	unit   int
}

func (r *LibRect) Unit() int     { return r.unit }
func (r *LibRect) SetUnit(u int) { r.unit = u }

// LibText is free text inside a symbol.
type LibText struct {
	Pos    geometry.Point
	Text   string
	Size   int
	Bold   bool
	Angle  int
	HAlign string
	VAlign string
	unit   int
}

func (t *LibText) Unit() int     { return t.unit }
func (t *LibText) SetUnit(u int) { t.unit = u }

// Pin electrical types.
const (
	PinInput         = "input"
	PinOutput        = "output"
	PinBidirectional = "bidirectional"
	PinTriState      = "tri_state"
	PinPassive       = "passive"
	PinPowerIn       = "power_in"
	PinPowerOut      = "power_out"
	PinOpenCollector = "open_collector"
	PinNoConnect     = "no_connect"
	PinUnspecified   = "unspecified"
)

// Pin graphical shapes.
const (
	ShapeLine     = "line"
	ShapeInverted = "inverted"
	ShapeClock    = "clock"
)

// LibPin is a symbol pin. Orientation is one of 'R', 'L', 'U', 'D' and gives
// the direction the pin points away from its position.
type LibPin struct {
	Pos         geometry.Point
	Name        string
	Number      string
	Orientation byte
	Length      int
	Type        string
	Shape       string
	NameSize    int
	NumberSize  int
	Visible     bool
	unit        int
}

func (p *LibPin) Unit() int     { return p.unit }
func (p *LibPin) SetUnit(u int) { p.unit = u }

// Angle returns the pin orientation in degrees.
func (p *LibPin) Angle() int {
	switch p.Orientation {
	case 'U':
		return 90
	case 'L':
		return 180
	case 'D':
		return 270
	}
	return 0
}
