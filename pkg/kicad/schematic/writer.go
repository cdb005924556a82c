package schematic

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// File format version emitted by the writer.
const formatVersion = "20211123"

// milsToMM converts an internal mil coordinate to the millimeter value the
// file format stores. Rounding through micrometers keeps the printed value
// free of binary noise.
func milsToMM(v int) float64 {
	return math.Round(float64(v)*25.4) / 1000.0
}

// sexpWriter emits indented s-expressions. Errors are sticky and surface
// from Flush.
type sexpWriter struct {
	w     io.Writer
	depth int
	err   error
	line  bool // an open line is being extended
}

func newSexpWriter(w io.Writer) *sexpWriter {
	return &sexpWriter{w: w}
}

func (s *sexpWriter) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *sexpWriter) newline() {
	if s.line {
		s.printf("\n")
		s.line = false
	}
	s.printf("%s", strings.Repeat("  ", s.depth))
}

// open starts a list on a fresh line.
func (s *sexpWriter) open(name string) {
	s.newline()
	s.printf("(%s", name)
	s.depth++
	s.line = true
}

// close ends the innermost list.
func (s *sexpWriter) close() {
	s.depth--
	if s.line {
		s.printf(")\n")
		s.line = false
		return
	}
	s.printf("%s)\n", strings.Repeat("  ", s.depth))
}

// atom appends a bare token to the open list.
func (s *sexpWriter) atom(v string) {
	s.printf(" %s", v)
}

// str appends a quoted string to the open list.
func (s *sexpWriter) str(v string) {
	s.printf(" %s", strconv.Quote(v))
}

// num appends a trimmed decimal number.
func (s *sexpWriter) num(v float64) {
	s.printf(" %s", strconv.FormatFloat(v, 'f', -1, 64))
}

// mils appends a mil coordinate converted to millimeters.
func (s *sexpWriter) mils(v int) {
	s.num(milsToMM(v))
}

// list emits a one-line child list of atoms.
func (s *sexpWriter) list(name string, atoms ...string) {
	s.newline()
	s.printf("(%s", name)
	for _, a := range atoms {
		s.printf(" %s", a)
	}
	s.printf(")\n")
}

func (s *sexpWriter) flush() error {
	return s.err
}

// at emits an (at x y [angle]) node from sheet coordinates.
func (s *sexpWriter) at(x, y, angle int) {
	s.newline()
	s.printf("(at")
	s.mils(x)
	s.mils(y)
	if angle != 0 {
		s.printf(" %d", angle)
	}
	s.printf(")\n")
}

func (s *sexpWriter) uuid() {
	s.list("uuid", uuid.NewString())
}

// effects emits a font effects node. justify strings may be empty.
func (s *sexpWriter) effects(size int, bold, hide bool, justify ...string) {
	s.open("effects")
	s.open("font")
	s.newline()
	s.printf("(size")
	s.mils(size)
	s.mils(size)
	s.printf(")\n")
	if bold {
		s.atom("bold")
	}
	s.close()
	var just []string
	for _, j := range justify {
		if j != "" && j != JustifyCenter {
			just = append(just, j)
		}
	}
	if len(just) > 0 {
		s.list("justify", just...)
	}
	if hide {
		s.atom("hide")
	}
	s.close()
}

func (s *sexpWriter) stroke(width int) {
	s.open("stroke")
	s.newline()
	s.printf("(width")
	s.mils(width)
	s.printf(")\n")
	s.list("type", "default")
	s.close()
}

func (s *sexpWriter) fill(filled bool) {
	t := "none"
	if filled {
		t = "outline"
	}
	s.open("fill")
	s.list("type", t)
	s.close()
}

// spinAngle maps a label spin style to the file angle.
func spinAngle(spin SpinStyle) int {
	switch spin {
	case SpinUp:
		return 90
	case SpinLeft:
		return 180
	case SpinDown:
		return 270
	}
	return 0
}

// WriteSheet writes one sheet of a schematic as a complete schematic file.
func WriteSheet(w io.Writer, sch *Schematic, sheet *Sheet) error {
	s := newSexpWriter(w)

	s.open("kicad_sch")
	s.list("version", formatVersion)
	s.list("generator", "eagle_import")
	s.uuid()
	s.open("paper")
	s.str(sheet.Screen.Page.Name)
	if sheet.Screen.Page.Name == "User" {
		s.mils(sheet.Screen.Page.Width)
		s.mils(sheet.Screen.Page.Height)
	}
	s.close()

	writeLibSymbols(s, sch, sheet)

	for _, item := range sheet.Screen.Items() {
		writeItem(s, item)
	}

	s.open("sheet_instances")
	s.open("path")
	s.str("/")
	s.list("page", strconv.Quote(strconv.Itoa(sheet.Number)))
	s.close()
	s.close()

	s.close()
	return s.flush()
}

// writeLibSymbols emits the lib_symbols cache holding every symbol used on
// the sheet.
func writeLibSymbols(s *sexpWriter, sch *Schematic, sheet *Sheet) {
	seen := make(map[string]bool)
	s.open("lib_symbols")
	for _, c := range sheet.Screen.Components() {
		if c.Symbol == nil || seen[c.Symbol.Name] {
			continue
		}
		seen[c.Symbol.Name] = true
		writeSymbol(s, c.Symbol)
	}
	s.close()
}

func writeItem(s *sexpWriter, item Item) {
	switch it := item.(type) {
	case *Line:
		writeLine(s, it)
	case *Junction:
		s.open("junction")
		s.at(it.Pos.X, it.Pos.Y, 0)
		s.list("diameter", "0")
		s.list("color", "0", "0", "0", "0")
		s.uuid()
		s.close()
	case *Label:
		writeLabel(s, it)
	case *BusEntry:
		s.open("bus_entry")
		s.at(it.Pos.X, it.Pos.Y, 0)
		s.newline()
		s.printf("(size")
		s.mils(it.Size.X)
		s.mils(it.Size.Y)
		s.printf(")\n")
		s.stroke(0)
		s.uuid()
		s.close()
	case *Text:
		s.open("text")
		s.str(it.Text)
		s.at(it.Pos.X, it.Pos.Y, it.Angle)
		s.effects(it.Size, it.Bold, false, it.HAlign, it.VAlign)
		s.uuid()
		s.close()
	case *Marker:
		// Markers have no native file representation; persist them as
		// visible text so the annotation survives the round trip.
		s.open("text")
		s.str(it.Message)
		s.at(it.Pos.X, it.Pos.Y, 0)
		s.effects(60, true, false)
		s.uuid()
		s.close()
	case *SheetRef:
		s.open("sheet")
		s.at(it.Pos.X, it.Pos.Y, 0)
		s.newline()
		s.printf("(size")
		s.mils(it.Size.X)
		s.mils(it.Size.Y)
		s.printf(")\n")
		s.uuid()
		s.open("property")
		s.str("Sheet name")
		s.str(it.Name)
		s.close()
		s.open("property")
		s.str("Sheet file")
		s.str(it.FileName)
		s.close()
		s.close()
	case *Component:
		writeComponent(s, it)
	}
}

func writeLine(s *sexpWriter, l *Line) {
	name := "polyline"
	switch l.Layer {
	case LayerWire:
		name = "wire"
	case LayerBus:
		name = "bus"
	}
	s.open(name)
	s.open("pts")
	s.newline()
	s.printf("(xy")
	s.mils(l.Start.X)
	s.mils(l.Start.Y)
	s.printf(") (xy")
	s.mils(l.End.X)
	s.mils(l.End.Y)
	s.printf(")\n")
	s.close()
	s.stroke(l.Width)
	s.uuid()
	s.close()
}

func writeLabel(s *sexpWriter, l *Label) {
	if l.Scope == GlobalScope {
		s.open("global_label")
		s.str(l.Text)
		s.list("shape", "passive")
	} else {
		s.open("label")
		s.str(l.Text)
	}
	s.at(l.Pos.X, l.Pos.Y, spinAngle(l.Spin))
	just := JustifyLeft
	if l.Spin == SpinLeft || l.Spin == SpinDown {
		just = JustifyRight
	}
	s.effects(l.Size, false, false, just, JustifyBottom)
	s.uuid()
	s.close()
}

func writeComponent(s *sexpWriter, c *Component) {
	s.open("symbol")
	s.list("lib_id", strconv.Quote(c.LibID))
	s.at(c.Pos.X, c.Pos.Y, c.Rotation)
	if c.Mirror {
		s.list("mirror", "y")
	}
	if c.Unit > 0 {
		s.list("unit", strconv.Itoa(c.Unit))
	}
	s.uuid()
	for i := range c.Fields {
		writeField(s, c, &c.Fields[i], i)
	}
	if c.Symbol != nil {
		for _, pin := range c.Symbol.UnitPins(c.Unit) {
			s.open("pin")
			s.str(pin.Number)
			s.uuid()
			s.close()
		}
	}
	if len(c.Instances) > 0 {
		s.open("instances")
		s.open("project")
		s.str("")
		for path, ref := range c.Instances {
			s.open("path")
			s.str(path)
			s.list("reference", strconv.Quote(ref.Reference))
			s.list("unit", strconv.Itoa(ref.Unit))
			s.close()
		}
		s.close()
		s.close()
	}
	s.close()
}

func writeField(s *sexpWriter, c *Component, f *Field, id int) {
	s.open("property")
	s.str(f.Name)
	s.str(f.Text)
	s.list("id", strconv.Itoa(id))
	pos := c.Pos.Add(f.Pos)
	s.at(pos.X, pos.Y, f.Angle)
	size := f.Size
	if size == 0 {
		size = 50
	}
	s.effects(size, false, !f.Visible, f.HAlign, f.VAlign)
	s.close()
}

// WriteLibrary writes the symbol library in symbol-library format.
func WriteLibrary(w io.Writer, lib *Library) error {
	s := newSexpWriter(w)

	s.open("kicad_symbol_lib")
	s.list("version", formatVersion)
	s.list("generator", "eagle_import")
	for _, sym := range lib.Symbols() {
		writeSymbol(s, sym)
	}
	s.close()
	return s.flush()
}

func writeSymbol(s *sexpWriter, sym *LibSymbol) {
	s.open("symbol")
	s.str(sym.Name)
	if sym.Power {
		s.atom("power")
	}
	s.list("in_bom", "yes")
	s.list("on_board", "yes")

	writeSymbolField(s, &sym.Reference, 0)
	writeSymbolField(s, &sym.Value, 1)

	// Items grouped into per-unit subsymbols. Unit 0 is the shared group.
	byUnit := make(map[int][]LibItem)
	var units []int
	for _, item := range sym.Items {
		u := item.Unit()
		if _, ok := byUnit[u]; !ok {
			units = append(units, u)
		}
		byUnit[u] = append(byUnit[u], item)
	}
	for u := 0; u <= sym.UnitCount; u++ {
		items := byUnit[u]
		if len(items) == 0 && u > 0 {
			continue
		}
		s.open("symbol")
		s.str(fmt.Sprintf("%s_%d_1", sym.Name, u))
		for _, item := range items {
			writeLibItem(s, item)
		}
		s.close()
	}
	s.close()
}

func writeSymbolField(s *sexpWriter, f *Field, id int) {
	s.open("property")
	s.str(f.Name)
	s.str(f.Text)
	s.list("id", strconv.Itoa(id))
	// Library fields are in the Y-up symbol frame.
	s.newline()
	s.printf("(at")
	s.mils(f.Pos.X)
	s.mils(f.Pos.Y)
	if f.Angle != 0 {
		s.printf(" %d", f.Angle)
	}
	s.printf(")\n")
	size := f.Size
	if size == 0 {
		size = 50
	}
	s.effects(size, false, !f.Visible, f.HAlign, f.VAlign)
	s.close()
}

func writeLibItem(s *sexpWriter, item LibItem) {
	switch it := item.(type) {
	case *LibPolyline:
		s.open("polyline")
		s.open("pts")
		for _, p := range it.Points {
			s.newline()
			s.printf("(xy")
			s.mils(p.X)
			s.mils(p.Y)
			s.printf(")\n")
		}
		s.close()
		s.stroke(it.Width)
		s.fill(it.Filled)
		s.close()
	case *LibArc:
		s.open("arc")
		s.newline()
		s.printf("(start")
		s.mils(it.Start.X)
		s.mils(it.Start.Y)
		s.printf(")\n")
		s.newline()
		s.printf("(mid")
		s.mils(it.Mid.X)
		s.mils(it.Mid.Y)
		s.printf(")\n")
		s.newline()
		s.printf("(end")
		s.mils(it.End.X)
		s.mils(it.End.Y)
		s.printf(")\n")
		s.stroke(it.Width)
		s.fill(it.Filled)
		s.close()
	case *LibCircle:
		s.open("circle")
		s.newline()
		s.printf("(center")
		s.mils(it.Center.X)
		s.mils(it.Center.Y)
		s.printf(")\n")
		s.newline()
		s.printf("(radius")
		s.mils(it.Radius)
		s.printf(")\n")
		s.stroke(it.Width)
		s.fill(it.Filled)
		s.close()
	case *LibRect:
		s.open("rectangle")
		s.newline()
		s.printf("(start")
		s.mils(it.Start.X)
		s.mils(it.Start.Y)
		s.printf(")\n")
		s.newline()
		s.printf("(end")
		s.mils(it.End.X)
		s.mils(it.End.Y)
		s.printf(")\n")
		s.stroke(it.Width)
		s.fill(it.Filled)
		s.close()
	case *LibText:
		s.open("text")
		s.str(it.Text)
		s.newline()
		s.printf("(at")
		s.mils(it.Pos.X)
		s.mils(it.Pos.Y)
		if it.Angle != 0 {
			s.printf(" %d", it.Angle)
		}
		s.printf(")\n")
		s.effects(it.Size, it.Bold, false, it.HAlign, it.VAlign)
		s.close()
	case *LibPin:
		writeLibPin(s, it)
	}
}

func writeLibPin(s *sexpWriter, pin *LibPin) {
	s.open("pin")
	typ := pin.Type
	if typ == "" {
		typ = PinUnspecified
	}
	shape := pin.Shape
	if shape == "" {
		shape = ShapeLine
	}
	s.atom(typ)
	s.atom(shape)
	s.newline()
	s.printf("(at")
	s.mils(pin.Pos.X)
	s.mils(pin.Pos.Y)
	s.printf(" %d)\n", pin.Angle())
	s.newline()
	s.printf("(length")
	s.mils(pin.Length)
	s.printf(")\n")
	if !pin.Visible {
		s.atom("hide")
	}
	s.open("name")
	s.str(pin.Name)
	s.effects(pin.NameSize, false, false)
	s.close()
	s.open("number")
	s.str(pin.Number)
	s.effects(pin.NumberSize, false, false)
	s.close()
	s.close()
}
