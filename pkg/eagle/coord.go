package eagle

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EAGLE stores coordinates in millimeters with X increasing to the right and
// Y increasing upward. The schematic internal unit is the mil with Y
// increasing downward; conversion and axis flip happen at the import
// boundary, not here.

// Coord is a coordinate or distance in millimeters.
type Coord float64

const milsPerMM = 1000.0 / 25.4

// Mils converts the coordinate to integer mils.
func (c Coord) Mils() int {
	return int(math.Round(float64(c) * milsPerMM))
}

// Rotation is a parsed EAGLE "rot" attribute such as "R90", "MR180" or
// "SR270". Degrees are counterclockwise in the EAGLE (Y-up) frame.
type Rotation struct {
	Degrees int
	Mirror  bool
	Spin    bool
	Valid   bool // false when the attribute was absent
}

// UnmarshalXMLAttr parses the [S][M]R<degrees> form.
func (r *Rotation) UnmarshalXMLAttr(attr xml.Attr) error {
	s := attr.Value

	if strings.HasPrefix(s, "S") {
		r.Spin = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "M") {
		r.Mirror = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "R") {
		return fmt.Errorf("malformed rotation attribute %q", attr.Value)
	}

	deg, err := strconv.ParseFloat(s[1:], 64)
	if err != nil {
		return fmt.Errorf("malformed rotation attribute %q: %w", attr.Value, err)
	}

	r.Degrees = int(deg)
	r.Valid = true
	return nil
}

// Align is the eight-way text alignment of EAGLE text attributes.
//
// The values are chosen so that negation reflects the alignment through the
// anchor point, which is what a 180 degree rotation does to it:
//
//	align        -align
//	center       center
//	center-left  center-right
//	top-center   bottom-center
//	top-left     bottom-right
//	top-right    bottom-left
type Align int

const (
	AlignCenter      Align = 0
	AlignCenterLeft  Align = 1
	AlignTopCenter   Align = 2
	AlignTopLeft     Align = 3
	AlignTopRight    Align = 4
	AlignCenterRight Align = -AlignCenterLeft
	AlignBottomCenter Align = -AlignTopCenter
	AlignBottomRight Align = -AlignTopLeft
	AlignBottomLeft  Align = -AlignTopRight
)

var alignNames = map[string]Align{
	"center":        AlignCenter,
	"center-left":   AlignCenterLeft,
	"center-right":  AlignCenterRight,
	"top-center":    AlignTopCenter,
	"top-left":      AlignTopLeft,
	"top-right":     AlignTopRight,
	"bottom-center": AlignBottomCenter,
	"bottom-left":   AlignBottomLeft,
	"bottom-right":  AlignBottomRight,
}

// UnmarshalXMLAttr parses an alignment name. Unknown names keep the zero
// value untouched; callers treat an absent alignment as bottom-left.
func (a *Align) UnmarshalXMLAttr(attr xml.Attr) error {
	if v, ok := alignNames[attr.Value]; ok {
		*a = v
	}
	return nil
}
