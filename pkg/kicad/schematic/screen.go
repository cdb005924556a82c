package schematic

import (
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
)

// PageInfo is the drawing sheet size in mils.
type PageInfo struct {
	Name   string
	Width  int
	Height int
}

// DefaultPage is an A4 landscape page.
func DefaultPage() PageInfo {
	return PageInfo{Name: "A4", Width: 11693, Height: 8268}
}

// Screen is the drawing canvas of one sheet.
type Screen struct {
	Page  PageInfo
	items []Item
}

// NewScreen creates a screen with the default page size.
func NewScreen() *Screen {
	return &Screen{Page: DefaultPage()}
}

// AddItem places an item on the screen.
func (s *Screen) AddItem(item Item) {
	s.items = append(s.items, item)
}

// RemoveItem drops an item from the screen.
func (s *Screen) RemoveItem(item Item) {
	for i, it := range s.items {
		if it == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns all items on the screen.
func (s *Screen) Items() []Item {
	return s.items
}

// Lines returns the line items on a layer.
func (s *Screen) Lines(layer LineLayer) []*Line {
	var out []*Line
	for _, it := range s.items {
		if l, ok := it.(*Line); ok && l.Layer == layer {
			out = append(out, l)
		}
	}
	return out
}

// Labels returns every label on the screen.
func (s *Screen) Labels() []*Label {
	var out []*Label
	for _, it := range s.items {
		if l, ok := it.(*Label); ok {
			out = append(out, l)
		}
	}
	return out
}

// Components returns every component on the screen.
func (s *Screen) Components() []*Component {
	var out []*Component
	for _, it := range s.items {
		if c, ok := it.(*Component); ok {
			out = append(out, c)
		}
	}
	return out
}

// BoundingBox spans every item on the screen.
func (s *Screen) BoundingBox() geometry.Box {
	b := geometry.NewBox()
	for _, it := range s.items {
		b.Merge(it.BoundingBox())
	}
	return b
}

// Translate moves every item by delta.
func (s *Screen) Translate(delta geometry.Point) {
	for _, it := range s.items {
		it.SetPosition(it.Position().Add(delta))
	}
}

// Sheet is one page of the schematic hierarchy.
type Sheet struct {
	Name   string
	Number int
	Screen *Screen
}

// NewSheet creates a named sheet with a fresh screen.
func NewSheet(name string, number int) *Sheet {
	return &Sheet{Name: name, Number: number, Screen: NewScreen()}
}

// Schematic is the whole translated document: its sheets and the symbol
// library they reference.
type Schematic struct {
	Sheets  []*Sheet
	Library *Library
}

// NewSchematic creates an empty schematic with an empty library.
func NewSchematic() *Schematic {
	return &Schematic{Library: NewLibrary()}
}

// AddSheet appends a sheet and returns it.
func (sch *Schematic) AddSheet(name string) *Sheet {
	sheet := NewSheet(name, len(sch.Sheets)+1)
	sch.Sheets = append(sch.Sheets, sheet)
	return sheet
}

// Root returns the first sheet, or nil for an empty schematic.
func (sch *Schematic) Root() *Sheet {
	if len(sch.Sheets) == 0 {
		return nil
	}
	return sch.Sheets[0]
}

// Components returns every component across all sheets.
func (sch *Schematic) Components() []*Component {
	var out []*Component
	for _, sheet := range sch.Sheets {
		out = append(out, sheet.Screen.Components()...)
	}
	return out
}
