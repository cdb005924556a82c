package eagleimport

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// sheetPoint converts EAGLE sheet coordinates (mm, Y up) to screen
// coordinates (mils, Y down).
func sheetPoint(x, y eagle.Coord) geometry.Point {
	return geometry.Point{X: x.Mils(), Y: -y.Mils()}
}

// Synthesized net labels are written small; explicit labels keep a scaled
// version of their source size.
const synthLabelSize = 40

// loadSheet runs the fixed translation phases for one source sheet. The
// ordering matters: labels can only be corrected once every net wire
// exists, and bus entries trim wires whose labels were already placed.
func (im *importer) loadSheet(src *eagle.Sheet, sheet *schematic.Sheet) {
	im.current = sheet
	im.tracker.reset()

	for i := range src.Instances {
		im.loadInstance(&src.Instances[i])
	}
	for i := range src.Busses {
		im.loadBus(&src.Busses[i])
	}
	for i := range src.Nets {
		im.loadNet(&src.Nets[i])
	}

	im.tracker.collectIntersections()
	im.tracker.adjustLabels()

	synthesizeBusEntries(sheet.Screen, im.opts, im.rep)

	im.loadPlain(&src.Plain)

	im.resizePage(sheet.Screen)

	for _, c := range sheet.Screen.Components() {
		im.addImplicitConnections(c, sheet.Screen, true)
	}

	im.centreItems(sheet.Screen)

	// Connection points only mean anything on the sheet they were
	// recorded on; the same coordinates recur on other sheets.
	im.connPoints = make(map[geometry.Point]int)
}

// resizePage picks the smallest standard page the drawn items fit on with a
// margin, falling back to a custom page for oversized drawings.
func (im *importer) resizePage(screen *schematic.Screen) {
	b := screen.BoundingBox()
	if b.IsEmpty() {
		return
	}

	w := b.Width() + 2*im.opts.PageMargin
	h := b.Height() + 2*im.opts.PageMargin

	pages := []schematic.PageInfo{
		{Name: "A4", Width: 11693, Height: 8268},
		{Name: "A3", Width: 16535, Height: 11693},
		{Name: "A2", Width: 23386, Height: 16535},
		{Name: "A1", Width: 33071, Height: 23386},
		{Name: "A0", Width: 46457, Height: 33071},
	}
	for _, p := range pages {
		if w <= p.Width && h <= p.Height {
			screen.Page = p
			return
		}
	}
	screen.Page = schematic.PageInfo{Name: "User", Width: w, Height: h}
}

// centreItems moves the drawing to the middle of the page, rounding the
// translation to the 100 mil grid so wires stay on grid.
func (im *importer) centreItems(screen *schematic.Screen) {
	b := screen.BoundingBox()
	if b.IsEmpty() {
		return
	}

	centre := geometry.Point{X: screen.Page.Width / 2, Y: screen.Page.Height / 2}
	delta := centre.Sub(b.Center())
	delta.X -= delta.X % 100
	delta.Y -= delta.Y % 100
	screen.Translate(delta)
}

// spinFromRotation rotates the base spin style counterclockwise by the
// given angle.
func spinFromRotation(base schematic.SpinStyle, degrees int) schematic.SpinStyle {
	order := [4]schematic.SpinStyle{
		schematic.SpinRight, schematic.SpinUp, schematic.SpinLeft, schematic.SpinDown,
	}
	idx := 0
	for i, s := range order {
		if s == base {
			idx = i
			break
		}
	}
	steps := ((degrees / 90) % 4 + 4) % 4
	return order[(idx+steps)%4]
}

// loadLabel translates an explicit net label.
func (im *importer) loadLabel(el *eagle.Label, netName string, global bool) *schematic.Label {
	label := &schematic.Label{
		Pos:  sheetPoint(el.X, el.Y),
		Text: netName,
	}

	size := el.Size.Mils()
	if global {
		label.Scope = schematic.GlobalScope
		label.Size = size * 3 / 4
	} else {
		label.Scope = schematic.LocalScope
		label.Size = size * 85 / 100
	}

	label.Spin = spinFromRotation(schematic.SpinRight, el.Rot.Degrees)
	if el.Rot.Mirror {
		label.Spin = label.Spin.MirrorY()
	}
	return label
}

// loadNet translates one net: its wires, junctions and labels, plus a
// synthesized label when the net spans several segments or sheets but the
// source never named it on this segment.
func (im *importer) loadNet(net *eagle.Net) {
	netName := eagle.EscapeNetName(net.Name)
	count := im.netCounts[net.Name]
	global := count.sheets > 1

	for si := range net.Segments {
		seg := &net.Segments[si]
		group := im.tracker.newGroup(netName)

		var firstWire *schematic.Line
		for wi := range seg.Wires {
			w := &seg.Wires[wi]
			line := &schematic.Line{
				Layer: schematic.LayerWire,
				Start: sheetPoint(w.X1, w.Y1),
				End:   sheetPoint(w.X2, w.Y2),
			}
			if firstWire == nil {
				firstWire = line
			}
			group.addSeg(line.Seg())
			im.connPoints[line.Start]++
			im.connPoints[line.End]++
			im.current.Screen.AddItem(line)
		}

		for ji := range seg.Junctions {
			j := &seg.Junctions[ji]
			im.current.Screen.AddItem(&schematic.Junction{Pos: sheetPoint(j.X, j.Y)})
		}

		for li := range seg.Labels {
			label := im.loadLabel(&seg.Labels[li], netName, global)
			group.addLabel(label)
			im.current.Screen.AddItem(label)
		}

		for pi := range seg.PinRefs {
			im.connectPinRef(&seg.PinRefs[pi])
		}

		if len(seg.Labels) == 0 && firstWire != nil && (count.sheets > 1 || count.segments > 1) {
			label := &schematic.Label{
				Pos:  firstWire.Start,
				Text: netName,
				Size: synthLabelSize,
				Spin: schematic.SpinLeft,
			}
			if global {
				label.Scope = schematic.GlobalScope
			}
			group.addLabel(label)
			im.current.Screen.AddItem(label)
		}
	}
}

// connectPinRef records the referenced pin position as a connection point
// so the implicit power label pass sees the pin as wired.
func (im *importer) connectPinRef(ref *eagle.PinRef) {
	c := im.placed[strings.ToUpper(ref.Part)+":"+ref.Gate]
	if c == nil {
		return
	}
	for _, pin := range c.Pins() {
		if pin.Name == ref.Pin {
			im.connPoints[c.PinPosition(pin)]++
			return
		}
	}
}

// loadBus translates one bus: a name, bus wires and the labels naming the
// bus on the sheet.
func (im *importer) loadBus(bus *eagle.Bus) {
	busName := eagle.TranslateBusName(bus.Name)

	for si := range bus.Segments {
		seg := &bus.Segments[si]
		group := im.tracker.newGroup(busName)

		for wi := range seg.Wires {
			w := &seg.Wires[wi]
			line := &schematic.Line{
				Layer: schematic.LayerBus,
				Start: sheetPoint(w.X1, w.Y1),
				End:   sheetPoint(w.X2, w.Y2),
			}
			group.addSeg(line.Seg())
			im.current.Screen.AddItem(line)
		}

		for li := range seg.Labels {
			label := im.loadLabel(&seg.Labels[li], busName, false)
			group.addLabel(label)
			im.current.Screen.AddItem(label)
		}
	}
}

// loadInstance places one gate of a part on the current sheet.
func (im *importer) loadInstance(inst *eagle.Instance) {
	part := im.parts[strings.ToUpper(inst.Part)]
	if part == nil {
		im.rep.Report(SeverityError, "instance references unknown part %s, skipped", inst.Part)
		return
	}

	td := im.translator.find(part.Library, part.DeviceSet, part.Device)
	if td == nil {
		im.rep.Report(SeverityError,
			"part %s: device %s/%s/%s was not translated, instance skipped",
			part.Name, part.Library, part.DeviceSet, part.Device)
		return
	}

	unit, ok := td.gateUnits[inst.Gate]
	if !ok {
		im.rep.Report(SeverityError, "part %s: unknown gate %s, instance skipped", part.Name, inst.Gate)
		return
	}

	sym := im.out.Library.Find(td.symbolName)

	c := schematic.NewComponent()
	c.LibID = im.opts.LibraryName + ":" + td.symbolName
	c.Unit = unit
	c.Symbol = sym
	c.Pos = sheetPoint(inst.X, inst.Y)
	if inst.Rot.Valid {
		c.Rotation = inst.Rot.Degrees
		c.Mirror = inst.Rot.Mirror
	}

	reference := part.Name
	if isAllDigits(reference) {
		reference = "UNK" + reference
	}
	if td.packageName == "" {
		reference = "#" + reference
	}
	c.FieldByID(schematic.ReferenceField).Text = reference

	value := part.Value
	if value == "" {
		value = strings.ReplaceAll(part.DeviceSet, "*", "")
	}
	c.FieldByID(schematic.ValueField).Text = value

	if sym != nil {
		im.placeField(c, schematic.ReferenceField, &sym.Reference)
		im.placeField(c, schematic.ValueField, &sym.Value)
	}

	for ai := range part.Attributes {
		im.loadPartAttribute(c, &part.Attributes[ai])
	}
	for vi := range part.Variants {
		v := &part.Variants[vi]
		c.AddField(schematic.Field{Name: "VARIANT_" + v.Name, Text: v.Value})
	}

	if inst.IsSmashed() {
		im.applySmashed(c, inst)
	}

	c.AddInstance(im.sheetPath(), reference, unit)
	im.current.Screen.AddItem(c)

	for _, pin := range c.Pins() {
		im.connPoints[c.PinPosition(pin)]++
	}

	im.placed[strings.ToUpper(inst.Part)+":"+inst.Gate] = c
	im.recordDrawnUnit(part, td, c, unit)
}

// placeField moves a standard field to where the symbol's placeholder put
// it, in sheet coordinates relative to the component.
func (im *importer) placeField(c *schematic.Component, id int, src *schematic.Field) {
	f := c.FieldByID(id)
	f.Pos = geometry.Point{X: src.Pos.X, Y: -src.Pos.Y}
	f.Size = src.Size
	f.Visible = src.Visible
	f.Angle = src.Angle
	f.HAlign = src.HAlign
	f.VAlign = src.VAlign
}

// loadPartAttribute turns a part attribute into a component field.
func (im *importer) loadPartAttribute(c *schematic.Component, attr *eagle.Attribute) {
	switch strings.ToUpper(attr.Name) {
	case "NAME", "VALUE":
		return // covered by the standard fields
	}
	c.AddField(schematic.Field{Name: attr.Name, Text: attr.Value})
}

// applySmashed repositions the name and value texts from the instance's
// detached attributes. A detached attribute carries absolute sheet
// coordinates; its alignment is recomputed for the rotation difference
// between text and instance.
func (im *importer) applySmashed(c *schematic.Component, inst *eagle.Instance) {
	// Detached fields default to hidden until an attribute shows them.
	c.FieldByID(schematic.ReferenceField).Visible = false
	c.FieldByID(schematic.ValueField).Visible = false

	for ai := range inst.Attributes {
		attr := &inst.Attributes[ai]

		var f *schematic.Field
		switch strings.ToUpper(attr.Name) {
		case "NAME":
			f = c.FieldByID(schematic.ReferenceField)
		case "VALUE":
			f = c.FieldByID(schematic.ValueField)
		default:
			f = c.Field(attr.Name)
			if f == nil {
				f = c.AddField(schematic.Field{Name: attr.Name, Text: attr.Value})
			}
		}

		f.Visible = attr.Display != "off"
		f.Pos = sheetPoint(attr.X, attr.Y).Sub(c.Pos)
		if attr.Size != 0 {
			f.Size = attr.Size.Mils()
		}

		relDegrees := ((attr.Rot.Degrees-inst.Rot.Degrees)%360 + 360) % 360
		f.Angle = textAngle(attr.Rot.Degrees)
		h, v := alignmentJustify(effectiveAlign(
			attr.Align, relDegrees, attr.Rot.Degrees, attr.Rot.Mirror != inst.Rot.Mirror))
		f.HAlign = h
		f.VAlign = v
	}
}

// loadPlain places the sheet items not tied to any net: frames, free text
// and graphical or stray wires.
func (im *importer) loadPlain(plain *eagle.Plain) {
	for i := range plain.Frames {
		im.loadSheetFrame(&plain.Frames[i])
	}
	for i := range plain.Texts {
		im.current.Screen.AddItem(im.loadPlainText(&plain.Texts[i]))
	}
	for i := range plain.Wires {
		w := &plain.Wires[i]
		im.current.Screen.AddItem(&schematic.Line{
			Layer: im.layerRole(w.Layer),
			Start: sheetPoint(w.X1, w.Y1),
			End:   sheetPoint(w.X2, w.Y2),
			Width: w.Width.Mils(),
		})
	}
}

func (im *importer) loadPlainText(t *eagle.Text) *schematic.Text {
	h, v := alignmentJustify(effectiveAlign(t.Align, t.Rot.Degrees, 0, t.Rot.Mirror))
	return &schematic.Text{
		Pos:    sheetPoint(t.X, t.Y),
		Text:   eagle.UnescapeText(t.Value),
		Size:   t.Size.Mils(),
		Bold:   t.Ratio > 12,
		Angle:  textAngle(t.Rot.Degrees),
		HAlign: h,
		VAlign: v,
	}
}

// loadSheetFrame expands a drawing frame into lines and legend texts on the
// sheet. The expansion mirrors the symbol frame expansion, flipped into
// screen coordinates.
func (im *importer) loadSheetFrame(f *eagle.Frame) {
	for _, item := range translateFrame(f, 0) {
		switch it := item.(type) {
		case *schematic.LibPolyline:
			for i := 0; i+1 < len(it.Points); i++ {
				im.current.Screen.AddItem(&schematic.Line{
					Layer: schematic.LayerNotes,
					Start: flipY(it.Points[i]),
					End:   flipY(it.Points[i+1]),
					Width: it.Width,
				})
			}
		case *schematic.LibText:
			im.current.Screen.AddItem(&schematic.Text{
				Pos:    flipY(it.Pos),
				Text:   it.Text,
				Size:   it.Size,
				HAlign: it.HAlign,
				VAlign: it.VAlign,
			})
		}
	}
}

func flipY(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X, Y: -p.Y}
}

// addImplicitConnections synthesizes a global power label on every
// unconnected power input pin of the component; the net takes the pin name
// up to any '@' marker. Power symbols already force a net name on their
// wires and are left alone. With updateSet the part's drawn-unit record is
// updated so fully drawn parts stay out of the missing-unit pass.
func (im *importer) addImplicitConnections(c *schematic.Component, screen *schematic.Screen, updateSet bool) {
	if c.Symbol != nil && c.Symbol.Power {
		return
	}

	for _, pin := range c.Pins() {
		if pin.Type != schematic.PinPowerIn {
			continue
		}
		// The component's own pin registration counts once; anything on
		// top of that is a real connection.
		pos := c.PinPosition(pin)
		if im.connPoints[pos] > 1 {
			continue
		}

		name := pin.Name
		if i := strings.Index(name, "@"); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			continue
		}

		screen.AddItem(&schematic.Label{
			Pos:   pos,
			Text:  eagle.EscapeNetName(name),
			Size:  synthLabelSize,
			Scope: schematic.GlobalScope,
			Spin:  schematic.SpinDown,
		})
	}

	if updateSet {
		if rec := im.missing[c.Reference()]; rec != nil {
			rec.drawn[c.Unit] = true
		}
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sheetPath is the instance path of the current sheet.
func (im *importer) sheetPath() string {
	if im.current.Number <= 1 {
		return "/"
	}
	return fmt.Sprintf("/sheet%d", im.current.Number)
}
