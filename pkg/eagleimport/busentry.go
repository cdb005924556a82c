package eagleimport

import (
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// Bus entry glyphs span 100 mils on each axis; wires touching a bus are
// pulled back by the same amount to make room.
const entrySize = 100

// ambiguousEntryMessage is the review annotation placed where no entry
// direction can be derived from the drawing.
const ambiguousEntryMessage = "Bus entry needed"

// synthesizeBusEntries inserts a bus entry glyph wherever a wire endpoint
// lands on a bus. The entry direction is derived from which way the wire
// leaves the bus and which side of the touch point the bus extends to. When
// neither side of the bus can host the glyph, the touch point is marked for
// review instead of guessing a direction.
func synthesizeBusEntries(screen *schematic.Screen, opts Options, rep Reporter) {
	buses := screen.Lines(schematic.LayerBus)
	wires := screen.Lines(schematic.LayerWire)

	for _, bus := range buses {
		busSeg := bus.Seg()
		for _, wire := range wires {
			if wire.Start == wire.End {
				continue
			}
			connectWireToBus(screen, wire, busSeg, opts, rep)
		}
	}

	// A wire fully swallowed by its entry glyph carries no geometry.
	for _, wire := range wires {
		if wire.Start == wire.End {
			screen.RemoveItem(wire)
		}
	}
}

func connectWireToBus(screen *schematic.Screen, wire *schematic.Line, bus geometry.Seg, opts Options, rep Reporter) {
	wireSeg := wire.Seg()

	switch {
	case wireSeg.IsHorizontal() && bus.IsVertical():
		if bus.Contains(wire.Start) {
			horizontalEntry(screen, wire, bus, wire.Start, wire.End, true, opts, rep)
		} else if bus.Contains(wire.End) {
			horizontalEntry(screen, wire, bus, wire.End, wire.Start, false, opts, rep)
		}
	case wireSeg.IsVertical() && bus.IsHorizontal():
		if bus.Contains(wire.Start) {
			verticalEntry(screen, wire, bus, wire.Start, wire.End, true, opts, rep)
		} else if bus.Contains(wire.End) {
			verticalEntry(screen, wire, bus, wire.End, wire.Start, false, opts, rep)
		}
	default:
		if bus.Contains(wire.Start) {
			freeAngleEntry(screen, wire, wire.Start, wire.End, true)
		} else if bus.Contains(wire.End) {
			freeAngleEntry(screen, wire, wire.End, wire.Start, false)
		}
	}
}

// setWireEnd trims the touching end of the wire to a new endpoint, taking
// any labels sitting on the wire along.
func setWireEnd(screen *schematic.Screen, wire *schematic.Line, atStart bool, newEnd geometry.Point) {
	moveLabels(screen, wire, newEnd)
	if atStart {
		wire.Start = newEnd
	} else {
		wire.End = newEnd
	}
}

// moveLabels re-homes every label sitting on the wire to the wire's new
// endpoint so no label is left floating over the entry glyph.
func moveLabels(screen *schematic.Screen, wire *schematic.Line, newEnd geometry.Point) {
	seg := wire.Seg()
	for _, label := range screen.Labels() {
		if seg.Contains(label.Pos) {
			label.Pos = newEnd
		}
	}
}

func markAmbiguous(screen *schematic.Screen, at geometry.Point, opts Options, rep Reporter) {
	rep.Report(SeverityWarning, "bus entry direction at (%d, %d) cannot be determined", at.X, at.Y)
	if opts.MarkAmbiguousEntries {
		screen.AddItem(&schematic.Marker{Pos: at, Message: ambiguousEntryMessage})
	}
}

// horizontalEntry handles a horizontal wire touching a vertical bus. touch
// is the wire endpoint on the bus, far the other endpoint.
func horizontalEntry(screen *schematic.Screen, wire *schematic.Line, bus geometry.Seg, touch, far geometry.Point, atStart bool, opts Options, rep Reporter) {
	up := touch.Add(geometry.Point{Y: -entrySize})
	down := touch.Add(geometry.Point{Y: entrySize})

	if far.X < touch.X {
		// Wire leaves to the left of the bus.
		newEnd := touch.Add(geometry.Point{X: -entrySize})
		switch {
		case bus.Contains(up):
			// Entry slants from the wire up onto the bus.
			screen.AddItem(&schematic.BusEntry{Pos: newEnd, Size: geometry.Point{X: entrySize, Y: -entrySize}})
			setWireEnd(screen, wire, atStart, newEnd)
		case bus.Contains(down):
			screen.AddItem(&schematic.BusEntry{Pos: newEnd, Size: geometry.Point{X: entrySize, Y: entrySize}})
			setWireEnd(screen, wire, atStart, newEnd)
		default:
			markAmbiguous(screen, touch, opts, rep)
		}
		return
	}

	// Wire leaves to the right of the bus.
	newEnd := touch.Add(geometry.Point{X: entrySize})
	switch {
	case bus.Contains(up):
		screen.AddItem(&schematic.BusEntry{Pos: up, Size: geometry.Point{X: entrySize, Y: entrySize}})
		setWireEnd(screen, wire, atStart, newEnd)
	case bus.Contains(down):
		screen.AddItem(&schematic.BusEntry{Pos: down, Size: geometry.Point{X: entrySize, Y: -entrySize}})
		setWireEnd(screen, wire, atStart, newEnd)
	default:
		markAmbiguous(screen, touch, opts, rep)
	}
}

// verticalEntry handles a vertical wire touching a horizontal bus.
func verticalEntry(screen *schematic.Screen, wire *schematic.Line, bus geometry.Seg, touch, far geometry.Point, atStart bool, opts Options, rep Reporter) {
	left := touch.Add(geometry.Point{X: -entrySize})
	right := touch.Add(geometry.Point{X: entrySize})

	if far.Y < touch.Y {
		// Wire leaves upward from the bus.
		newEnd := touch.Add(geometry.Point{Y: -entrySize})
		switch {
		case bus.Contains(left):
			screen.AddItem(&schematic.BusEntry{Pos: left, Size: geometry.Point{X: entrySize, Y: -entrySize}})
			setWireEnd(screen, wire, atStart, newEnd)
		case bus.Contains(right):
			screen.AddItem(&schematic.BusEntry{Pos: newEnd, Size: geometry.Point{X: entrySize, Y: entrySize}})
			setWireEnd(screen, wire, atStart, newEnd)
		default:
			markAmbiguous(screen, touch, opts, rep)
		}
		return
	}

	// Wire leaves downward from the bus.
	newEnd := touch.Add(geometry.Point{Y: entrySize})
	switch {
	case bus.Contains(left):
		screen.AddItem(&schematic.BusEntry{Pos: left, Size: geometry.Point{X: entrySize, Y: entrySize}})
		setWireEnd(screen, wire, atStart, newEnd)
	case bus.Contains(right):
		screen.AddItem(&schematic.BusEntry{Pos: newEnd, Size: geometry.Point{X: entrySize, Y: -entrySize}})
		setWireEnd(screen, wire, atStart, newEnd)
	default:
		markAmbiguous(screen, touch, opts, rep)
	}
}

// freeAngleEntry handles a non-orthogonal wire touching the bus. The entry
// direction follows the signs of the wire's direction vector; there is
// nothing to probe, the glyph tucks into the wire's own quadrant.
func freeAngleEntry(screen *schematic.Screen, wire *schematic.Line, touch, far geometry.Point, atStart bool) {
	v := touch.Sub(far)
	if v.X == 0 || v.Y == 0 {
		// Orthogonal wire on a skewed bus: no quadrant to tuck into.
		return
	}

	var pos, size, newEnd geometry.Point
	switch {
	case v.X > 0 && v.Y > 0:
		newEnd = touch.Add(geometry.Point{X: -entrySize, Y: -entrySize})
		pos = newEnd
		size = geometry.Point{X: entrySize, Y: entrySize}
	case v.X > 0 && v.Y < 0:
		newEnd = touch.Add(geometry.Point{X: -entrySize, Y: entrySize})
		pos = newEnd
		size = geometry.Point{X: entrySize, Y: -entrySize}
	case v.X < 0 && v.Y > 0:
		newEnd = touch.Add(geometry.Point{X: entrySize, Y: -entrySize})
		pos = touch
		size = geometry.Point{X: entrySize, Y: -entrySize}
	default: // v.X < 0 && v.Y < 0
		newEnd = touch.Add(geometry.Point{X: entrySize, Y: entrySize})
		pos = touch
		size = geometry.Point{X: entrySize, Y: entrySize}
	}

	screen.AddItem(&schematic.BusEntry{Pos: pos, Size: size})
	setWireEnd(screen, wire, atStart, newEnd)
}
