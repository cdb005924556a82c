// Package eagle provides a typed, read-only model of EAGLE schematic XML
// documents. The XML tree is decoded once into these structs; nothing
// downstream dispatches on node names.
package eagle

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Document is the root <eagle> element.
type Document struct {
	XMLName xml.Name `xml:"eagle"`
	Version string   `xml:"version,attr"`
	Drawing *Drawing `xml:"drawing"`
}

// Drawing holds the layer table and the schematic proper.
type Drawing struct {
	Layers    []Layer    `xml:"layers>layer"`
	Schematic *Schematic `xml:"schematic"`
}

// Layer is one entry of the EAGLE layer table.
type Layer struct {
	Number int    `xml:"number,attr"`
	Name   string `xml:"name,attr"`
	Color  int    `xml:"color,attr"`
}

// Schematic groups the document-wide part list, libraries and sheets.
type Schematic struct {
	Libraries []Library `xml:"libraries>library"`
	Parts     []Part    `xml:"parts>part"`
	Sheets    []Sheet   `xml:"sheets>sheet"`
}

// Library is a named collection of symbols and device sets.
type Library struct {
	Name       string      `xml:"name,attr"`
	Symbols    []Symbol    `xml:"symbols>symbol"`
	DeviceSets []DeviceSet `xml:"devicesets>deviceset"`
}

// FindSymbol returns the symbol definition with the given name.
func (l *Library) FindSymbol(name string) *Symbol {
	for i := range l.Symbols {
		if l.Symbols[i].Name == name {
			return &l.Symbols[i]
		}
	}
	return nil
}

// DeviceSet groups the gates (logical units) and devices (footprint
// variants) of one part family.
type DeviceSet struct {
	Name    string   `xml:"name,attr"`
	Prefix  string   `xml:"prefix,attr"`
	Gates   []Gate   `xml:"gates>gate"`
	Devices []Device `xml:"devices>device"`
}

// Device is one footprint variant of a device set.
type Device struct {
	Name     string    `xml:"name,attr"`
	Package  string    `xml:"package,attr"`
	Connects []Connect `xml:"connects>connect"`
}

// Connect maps a gate pin to one or more package pads (space separated).
type Connect struct {
	Gate string `xml:"gate,attr"`
	Pin  string `xml:"pin,attr"`
	Pad  string `xml:"pad,attr"`
}

// Gate is a logical sub-unit of a device set referencing a symbol.
type Gate struct {
	Name   string `xml:"name,attr"`
	Symbol string `xml:"symbol,attr"`
	X      Coord  `xml:"x,attr"`
	Y      Coord  `xml:"y,attr"`
}

// Symbol is a reusable graphic definition.
type Symbol struct {
	Name       string      `xml:"name,attr"`
	Wires      []Wire      `xml:"wire"`
	Circles    []Circle    `xml:"circle"`
	Rectangles []Rectangle `xml:"rectangle"`
	Polygons   []Polygon   `xml:"polygon"`
	Pins       []Pin       `xml:"pin"`
	Texts      []Text      `xml:"text"`
	Frames     []Frame     `xml:"frame"`
}

// Part is one entry of the schematic part list.
type Part struct {
	Name       string      `xml:"name,attr"`
	Library    string      `xml:"library,attr"`
	DeviceSet  string      `xml:"deviceset,attr"`
	Device     string      `xml:"device,attr"`
	Value      string      `xml:"value,attr"`
	Attributes []Attribute `xml:"attribute"`
	Variants   []Variant   `xml:"variant"`
}

// Variant is a per-part assembly variant override.
type Variant struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Sheet is one schematic page.
type Sheet struct {
	Description string     `xml:"description"`
	Instances   []Instance `xml:"instances>instance"`
	Busses      []Bus      `xml:"busses>bus"`
	Nets        []Net      `xml:"nets>net"`
	Plain       Plain      `xml:"plain"`
}

// Plain holds the sheet items not tied to any net.
type Plain struct {
	Texts  []Text  `xml:"text"`
	Wires  []Wire  `xml:"wire"`
	Frames []Frame `xml:"frame"`
}

// Instance places one gate of a part on a sheet.
type Instance struct {
	Part       string      `xml:"part,attr"`
	Gate       string      `xml:"gate,attr"`
	X          Coord       `xml:"x,attr"`
	Y          Coord       `xml:"y,attr"`
	Smashed    string      `xml:"smashed,attr"`
	Rot        Rotation    `xml:"rot,attr"`
	Attributes []Attribute `xml:"attribute"`
}

// IsSmashed reports whether attribute texts were detached from the symbol.
func (i *Instance) IsSmashed() bool {
	return i.Smashed == "yes"
}

// Attribute is a positioned text override on an instance or part.
type Attribute struct {
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
	X       Coord    `xml:"x,attr"`
	Y       Coord    `xml:"y,attr"`
	Size    Coord    `xml:"size,attr"`
	Rot     Rotation `xml:"rot,attr"`
	Align   Align    `xml:"align,attr"`
	Display string   `xml:"display,attr"` // off, value, name, both
}

// Bus is a named group of bus segments. A bus is purely graphical; the
// electrical connections are made by the nets it carries.
type Bus struct {
	Name     string    `xml:"name,attr"`
	Segments []Segment `xml:"segment"`
}

// Net is a named electrical connection on one sheet.
type Net struct {
	Name     string    `xml:"name,attr"`
	Class    string    `xml:"class,attr"`
	Segments []Segment `xml:"segment"`
}

// Segment is one contiguous group of wires with its junctions, labels and
// pin references. All wires of a segment touch endpoint to endpoint.
type Segment struct {
	Wires     []Wire     `xml:"wire"`
	Junctions []Junction `xml:"junction"`
	Labels    []Label    `xml:"label"`
	PinRefs   []PinRef   `xml:"pinref"`
}

// Wire is a straight (or, with Curve set, arced) stroke.
type Wire struct {
	X1    Coord    `xml:"x1,attr"`
	Y1    Coord    `xml:"y1,attr"`
	X2    Coord    `xml:"x2,attr"`
	Y2    Coord    `xml:"y2,attr"`
	Width Coord    `xml:"width,attr"`
	Layer int      `xml:"layer,attr"`
	Curve *float64 `xml:"curve,attr"`
}

// Junction marks an explicit connection of crossing wires.
type Junction struct {
	X Coord `xml:"x,attr"`
	Y Coord `xml:"y,attr"`
}

// Label attaches a net name to a segment. EAGLE labels may float anywhere;
// they do not need to touch a wire.
type Label struct {
	X    Coord    `xml:"x,attr"`
	Y    Coord    `xml:"y,attr"`
	Size Coord    `xml:"size,attr"`
	Rot  Rotation `xml:"rot,attr"`
}

// PinRef ties a segment to a part pin.
type PinRef struct {
	Part string `xml:"part,attr"`
	Gate string `xml:"gate,attr"`
	Pin  string `xml:"pin,attr"`
}

// Pin is a symbol connection point.
type Pin struct {
	Name      string   `xml:"name,attr"`
	X         Coord    `xml:"x,attr"`
	Y         Coord    `xml:"y,attr"`
	Visible   string   `xml:"visible,attr"`  // off, pad, pin, both
	Length    string   `xml:"length,attr"`   // point, short, middle, long
	Direction string   `xml:"direction,attr"` // nc, in, out, io, oc, pwr, pas, hiz, sup
	Function  string   `xml:"function,attr"` // none, dot, clk, dotclk
	Rot       Rotation `xml:"rot,attr"`
}

// Text is a free text item.
type Text struct {
	X     Coord    `xml:"x,attr"`
	Y     Coord    `xml:"y,attr"`
	Size  Coord    `xml:"size,attr"`
	Layer int      `xml:"layer,attr"`
	Ratio int      `xml:"ratio,attr"`
	Rot   Rotation `xml:"rot,attr"`
	Align Align    `xml:"align,attr"`
	Value string   `xml:",chardata"`
}

// Circle is a symbol circle primitive.
type Circle struct {
	X      Coord `xml:"x,attr"`
	Y      Coord `xml:"y,attr"`
	Radius Coord `xml:"radius,attr"`
	Width  Coord `xml:"width,attr"`
}

// Rectangle is a symbol rectangle primitive. EAGLE rectangles are always
// filled.
type Rectangle struct {
	X1 Coord `xml:"x1,attr"`
	Y1 Coord `xml:"y1,attr"`
	X2 Coord `xml:"x2,attr"`
	Y2 Coord `xml:"y2,attr"`
}

// Polygon is a filled symbol polygon.
type Polygon struct {
	Width    Coord    `xml:"width,attr"`
	Vertices []Vertex `xml:"vertex"`
}

// Vertex is one polygon corner.
type Vertex struct {
	X Coord `xml:"x,attr"`
	Y Coord `xml:"y,attr"`
}

// Frame is a drawing frame with optional row/column reference borders.
type Frame struct {
	X1           Coord  `xml:"x1,attr"`
	Y1           Coord  `xml:"y1,attr"`
	X2           Coord  `xml:"x2,attr"`
	Y2           Coord  `xml:"y2,attr"`
	Columns      int    `xml:"columns,attr"`
	Rows         int    `xml:"rows,attr"`
	BorderLeft   string `xml:"border-left,attr"`
	BorderTop    string `xml:"border-top,attr"`
	BorderRight  string `xml:"border-right,attr"`
	BorderBottom string `xml:"border-bottom,attr"`
}

// Border sides default to drawn unless explicitly disabled.

func (f *Frame) HasBorderLeft() bool   { return f.BorderLeft != "no" }
func (f *Frame) HasBorderTop() bool    { return f.BorderTop != "no" }
func (f *Frame) HasBorderRight() bool  { return f.BorderRight != "no" }
func (f *Frame) HasBorderBottom() bool { return f.BorderBottom != "no" }

// Parse decodes an EAGLE schematic document from a reader.
func Parse(r io.Reader) (*Document, error) {
	var doc Document

	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse EAGLE XML: %w", err)
	}

	if doc.Drawing == nil {
		return nil, fmt.Errorf("not an EAGLE drawing: missing <drawing> node")
	}

	return &doc, nil
}

// ParseFile reads and decodes an EAGLE schematic file.
func ParseFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// CheckHeader sniffs the first lines of a file for the EAGLE XML signature.
func CheckHeader(filename string) bool {
	file, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() && len(lines) < 3 {
		lines = append(lines, scanner.Text())
	}

	return len(lines) == 3 &&
		strings.HasPrefix(lines[0], "<?xml") &&
		strings.HasPrefix(lines[1], "<!DOCTYPE eagle SYSTEM") &&
		strings.HasPrefix(lines[2], "<eagle version")
}
