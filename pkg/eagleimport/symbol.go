package eagleimport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// Symbol primitives keep the EAGLE Y-up frame; only sheet items get the
// axis flip.

func symPoint(x, y eagle.Coord) geometry.Point {
	return geometry.Point{X: x.Mils(), Y: y.Mils()}
}

func toR2(p geometry.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func fromR2(v r2.Vec) geometry.Point {
	return geometry.Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// translateSymbolWire converts a symbol wire to a polyline, or to an arc
// when the wire carries a curve.
func translateSymbolWire(w *eagle.Wire, unit int) schematic.LibItem {
	start := symPoint(w.X1, w.Y1)
	end := symPoint(w.X2, w.Y2)
	width := w.Width.Mils()

	if w.Curve == nil {
		p := &schematic.LibPolyline{Points: []geometry.Point{start, end}, Width: width}
		p.SetUnit(unit)
		return p
	}
	return translateSymbolArc(start, end, *w.Curve, width, unit)
}

// translateSymbolArc builds a three-point arc from the chord and the swept
// angle. A stroke wider than the radius cannot render as a stroked arc; it
// is approximated by a filled capsule with the chord endpoints moved to
// stroke-width distance from the center.
func translateSymbolArc(start, end geometry.Point, curve float64, width, unit int) schematic.LibItem {
	sweep := curve * math.Pi / 180

	s := toR2(start)
	e := toR2(end)
	chord := r2.Sub(e, s)
	chordLen := math.Hypot(chord.X, chord.Y)
	if chordLen == 0 || sweep == 0 {
		p := &schematic.LibPolyline{Points: []geometry.Point{start, end}, Width: width}
		p.SetUnit(unit)
		return p
	}

	radius := math.Abs(chordLen / (2 * math.Sin(sweep/2)))

	// Center sits on the chord normal. The offset sign follows the sweep
	// direction.
	mid := r2.Scale(0.5, r2.Add(s, e))
	normal := r2.Scale(1/chordLen, r2.Vec{X: -chord.Y, Y: chord.X})
	h := radius * math.Cos(sweep/2)
	if sweep < 0 {
		h = -h
	}
	center := r2.Add(mid, r2.Scale(h, normal))

	startAngle := math.Atan2(s.Y-center.Y, s.X-center.X)
	midAngle := startAngle + sweep/2
	arcMid := r2.Add(center, r2.Scale(radius, r2.Vec{X: math.Cos(midAngle), Y: math.Sin(midAngle)}))

	arc := &schematic.LibArc{
		Start: start,
		Mid:   fromR2(arcMid),
		End:   end,
		Width: width,
	}
	arc.SetUnit(unit)

	if float64(width) > radius {
		scale := float64(width) / radius
		arc.Start = fromR2(r2.Add(center, r2.Scale(scale, r2.Sub(s, center))))
		arc.End = fromR2(r2.Add(center, r2.Scale(scale, r2.Sub(e, center))))
		arc.Width = 1
		arc.Filled = true
	}
	return arc
}

func translateCircle(c *eagle.Circle, unit int) schematic.LibItem {
	item := &schematic.LibCircle{
		Center: symPoint(c.X, c.Y),
		Radius: c.Radius.Mils(),
		Width:  c.Width.Mils(),
	}
	item.SetUnit(unit)
	return item
}

func translateRectangle(r *eagle.Rectangle, unit int) schematic.LibItem {
	item := &schematic.LibRect{
		Start:  symPoint(r.X1, r.Y1),
		End:    symPoint(r.X2, r.Y2),
		Filled: true,
	}
	item.SetUnit(unit)
	return item
}

func translatePolygon(p *eagle.Polygon, unit int) schematic.LibItem {
	item := &schematic.LibPolyline{
		Width:  p.Width.Mils(),
		Filled: true,
	}
	for _, v := range p.Vertices {
		item.Points = append(item.Points, symPoint(v.X, v.Y))
	}
	// Close the outline.
	if len(item.Points) > 0 {
		item.Points = append(item.Points, item.Points[0])
	}
	item.SetUnit(unit)
	return item
}

// pinTypes maps the EAGLE pin direction to the electrical type.
var pinTypes = map[string]string{
	"sup": schematic.PinPowerIn,
	"pwr": schematic.PinPowerIn,
	"pas": schematic.PinPassive,
	"out": schematic.PinOutput,
	"in":  schematic.PinInput,
	"nc":  schematic.PinNoConnect,
	"io":  schematic.PinBidirectional,
	"oc":  schematic.PinOpenCollector,
	"hiz": schematic.PinTriState,
}

var pinLengths = map[string]int{
	"point":  0,
	"short":  100,
	"middle": 200,
	"long":   300,
}

var pinShapes = map[string]string{
	"dot":    schematic.ShapeInverted,
	"clk":    schematic.ShapeClock,
	"dotclk": schematic.ShapeClock,
}

// translatePin converts a symbol pin. Rotations outside the four cardinal
// directions fall back to pointing right.
func translatePin(p *eagle.Pin, unit int, r Reporter) *schematic.LibPin {
	pin := &schematic.LibPin{
		Pos:        symPoint(p.X, p.Y),
		Name:       p.Name,
		Number:     p.Name,
		Length:     300,
		Type:       schematic.PinPassive,
		Shape:      schematic.ShapeLine,
		NameSize:   50,
		NumberSize: 50,
		Visible:    true,
	}
	pin.SetUnit(unit)

	switch p.Rot.Degrees {
	case 0:
		pin.Orientation = 'R'
	case 90:
		pin.Orientation = 'U'
	case 180:
		pin.Orientation = 'L'
	case 270:
		pin.Orientation = 'D'
	default:
		pin.Orientation = 'R'
		if p.Rot.Valid {
			r.Report(SeverityWarning, "pin %s: rotation %d not a multiple of 90, using 0", p.Name, p.Rot.Degrees)
		}
	}

	if l, ok := pinLengths[p.Length]; ok {
		pin.Length = l
	}
	if t, ok := pinTypes[p.Direction]; ok {
		pin.Type = t
	}
	if s, ok := pinShapes[p.Function]; ok {
		pin.Shape = s
	}

	switch p.Visible {
	case "off":
		pin.NameSize = 0
		pin.NumberSize = 0
	case "pad":
		pin.NameSize = 0
	case "pin":
		pin.NumberSize = 0
	}

	return pin
}

// alignmentJustify maps an alignment to horizontal and vertical justify
// strings.
func alignmentJustify(a eagle.Align) (h, v string) {
	switch a {
	case eagle.AlignCenter:
		return schematic.JustifyCenter, schematic.JustifyCenter
	case eagle.AlignCenterLeft:
		return schematic.JustifyLeft, schematic.JustifyCenter
	case eagle.AlignCenterRight:
		return schematic.JustifyRight, schematic.JustifyCenter
	case eagle.AlignTopCenter:
		return schematic.JustifyCenter, schematic.JustifyTop
	case eagle.AlignTopLeft:
		return schematic.JustifyLeft, schematic.JustifyTop
	case eagle.AlignTopRight:
		return schematic.JustifyRight, schematic.JustifyTop
	case eagle.AlignBottomCenter:
		return schematic.JustifyCenter, schematic.JustifyBottom
	case eagle.AlignBottomRight:
		return schematic.JustifyRight, schematic.JustifyBottom
	}
	return schematic.JustifyLeft, schematic.JustifyBottom
}

// mirrorAlign reflects an alignment through the vertical axis.
func mirrorAlign(a eagle.Align) eagle.Align {
	switch a {
	case eagle.AlignCenterLeft:
		return eagle.AlignCenterRight
	case eagle.AlignCenterRight:
		return eagle.AlignCenterLeft
	case eagle.AlignTopLeft:
		return eagle.AlignTopRight
	case eagle.AlignTopRight:
		return eagle.AlignTopLeft
	case eagle.AlignBottomLeft:
		return eagle.AlignBottomRight
	case eagle.AlignBottomRight:
		return eagle.AlignBottomLeft
	}
	return a
}

// mirrorAlignV reflects the corner alignments through the horizontal axis.
// Vertically rotated text keeps its center anchors when mirrored.
func mirrorAlignV(a eagle.Align) eagle.Align {
	switch a {
	case eagle.AlignTopLeft:
		return eagle.AlignBottomLeft
	case eagle.AlignBottomLeft:
		return eagle.AlignTopLeft
	case eagle.AlignTopRight:
		return eagle.AlignBottomRight
	case eagle.AlignBottomRight:
		return eagle.AlignTopRight
	}
	return a
}

// effectiveAlign recomputes a text alignment after the owning item is
// rotated and possibly mirrored. Rotating the anchor half a turn reflects
// the alignment through it, which is exactly negation. The mirror flip
// axis follows the absolute text angle: text standing at 90 or 270 swaps
// top and bottom instead of left and right.
func effectiveAlign(a eagle.Align, relDegrees, absDegrees int, mirror bool) eagle.Align {
	if relDegrees == 180 || relDegrees == 270 {
		a = -a
	}
	if mirror {
		switch absDegrees {
		case 90, 270:
			a = mirrorAlignV(a)
		case 0, 180:
			a = mirrorAlign(a)
		}
	}
	return a
}

// textAngle reduces a rotation to the two angles text can render at.
func textAngle(deg int) int {
	deg = ((deg % 360) + 360) % 360
	if deg == 90 || deg == 270 {
		return 90
	}
	return 0
}

// translateSymbolText converts free symbol text. Placeholder texts are
// filtered out by the caller.
func translateSymbolText(t *eagle.Text, unit int) *schematic.LibText {
	h, v := alignmentJustify(effectiveAlign(t.Align, t.Rot.Degrees, 0, t.Rot.Mirror))
	item := &schematic.LibText{
		Pos:    symPoint(t.X, t.Y),
		Text:   eagle.UnescapeText(t.Value),
		Size:   t.Size.Mils(),
		Bold:   t.Ratio > 12,
		Angle:  textAngle(t.Rot.Degrees),
		HAlign: h,
		VAlign: v,
	}
	item.SetUnit(unit)
	return item
}

// Frame legend geometry in mils.
const (
	frameInset      = 150
	frameLegendW    = 90
	frameLegendH    = 100
	frameLegendSize = 60
)

// translateFrame expands a drawing frame into border polylines, division
// ticks and the row letter / column number legends. Disabled border sides
// lose their ticks and legends but keep the outline.
func translateFrame(f *eagle.Frame, unit int) []schematic.LibItem {
	x1, y1 := f.X1.Mils(), f.Y1.Mils()
	x2, y2 := f.X2.Mils(), f.Y2.Mils()
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}

	var items []schematic.LibItem

	addLine := func(a, b geometry.Point) {
		p := &schematic.LibPolyline{Points: []geometry.Point{a, b}, Width: 10}
		p.SetUnit(unit)
		items = append(items, p)
	}
	addText := func(pos geometry.Point, s string) {
		t := &schematic.LibText{
			Pos: pos, Text: s, Size: frameLegendSize,
			HAlign: schematic.JustifyCenter, VAlign: schematic.JustifyCenter,
		}
		t.SetUnit(unit)
		items = append(items, t)
	}

	// Outer border.
	outer := &schematic.LibPolyline{
		Points: []geometry.Point{
			{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}, {X: x1, Y: y1},
		},
		Width: 10,
	}
	outer.SetUnit(unit)
	items = append(items, outer)

	ix1, iy1 := x1+frameInset, y1+frameInset
	ix2, iy2 := x2-frameInset, y2-frameInset

	// Inner border sides only where the reference strip is drawn.
	if f.HasBorderLeft() {
		addLine(geometry.Point{X: ix1, Y: iy1}, geometry.Point{X: ix1, Y: iy2})
	}
	if f.HasBorderRight() {
		addLine(geometry.Point{X: ix2, Y: iy1}, geometry.Point{X: ix2, Y: iy2})
	}
	if f.HasBorderTop() {
		addLine(geometry.Point{X: ix1, Y: iy2}, geometry.Point{X: ix2, Y: iy2})
	}
	if f.HasBorderBottom() {
		addLine(geometry.Point{X: ix1, Y: iy1}, geometry.Point{X: ix2, Y: iy1})
	}

	if f.Columns > 0 {
		step := (x2 - x1) / f.Columns
		for i := 1; i < f.Columns; i++ {
			x := x1 + i*step
			if f.HasBorderTop() {
				addLine(geometry.Point{X: x, Y: iy2}, geometry.Point{X: x, Y: y2})
			}
			if f.HasBorderBottom() {
				addLine(geometry.Point{X: x, Y: y1}, geometry.Point{X: x, Y: iy1})
			}
		}
		for i := 0; i < f.Columns; i++ {
			legend := fmt.Sprintf("%d", i+1)
			cx := x1 + i*step + step/2
			if f.HasBorderTop() {
				addText(geometry.Point{X: cx, Y: iy2 + frameLegendH/2}, legend)
			}
			if f.HasBorderBottom() {
				addText(geometry.Point{X: cx, Y: y1 + frameLegendH/2}, legend)
			}
		}
	}

	if f.Rows > 0 {
		step := (y2 - y1) / f.Rows
		for i := 1; i < f.Rows; i++ {
			y := y1 + i*step
			if f.HasBorderLeft() {
				addLine(geometry.Point{X: x1, Y: y}, geometry.Point{X: ix1, Y: y})
			}
			if f.HasBorderRight() {
				addLine(geometry.Point{X: ix2, Y: y}, geometry.Point{X: x2, Y: y})
			}
		}
		for i := 0; i < f.Rows; i++ {
			// Rows letter from the top of the frame downward.
			legend := string(rune('A' + (f.Rows - 1 - i)))
			cy := y1 + i*step + step/2
			if f.HasBorderLeft() {
				addText(geometry.Point{X: x1 + frameLegendW/2, Y: cy}, legend)
			}
			if f.HasBorderRight() {
				addText(geometry.Point{X: ix2 + frameLegendW/2, Y: cy}, legend)
			}
		}
	}

	return items
}
