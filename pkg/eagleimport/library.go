package eagleimport

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// translatedDevice records how one deviceset/device pair landed in the
// output library.
type translatedDevice struct {
	symbolName  string
	gateUnits   map[string]int // gate name -> 1-based unit
	unitCount   int
	power       bool
	prefix      string
	packageName string
}

// libraryTranslator builds the output symbol library and the lookup table
// the instance loader resolves parts through.
type libraryTranslator struct {
	opts Options
	rep  Reporter
	out  *schematic.Library

	// devices is keyed by library:deviceset:device, uppercased; EAGLE part
	// references are case-insensitive.
	devices map[string]*translatedDevice
}

func newLibraryTranslator(opts Options, rep Reporter, out *schematic.Library) *libraryTranslator {
	return &libraryTranslator{
		opts:    opts,
		rep:     rep,
		out:     out,
		devices: make(map[string]*translatedDevice),
	}
}

func deviceKey(lib, deviceset, device string) string {
	return strings.ToUpper(lib + ":" + deviceset + ":" + device)
}

// find returns the translation of a deviceset/device pair, or nil.
func (lt *libraryTranslator) find(lib, deviceset, device string) *translatedDevice {
	return lt.devices[deviceKey(lib, deviceset, device)]
}

// translateAll processes every library of the schematic.
func (lt *libraryTranslator) translateAll(sch *eagle.Schematic) {
	for i := range sch.Libraries {
		lt.translateLibrary(&sch.Libraries[i])
	}
}

func (lt *libraryTranslator) translateLibrary(lib *eagle.Library) {
	for di := range lib.DeviceSets {
		ds := &lib.DeviceSets[di]
		for vi := range ds.Devices {
			lt.translateDevice(lib, ds, &ds.Devices[vi])
		}
	}
}

// uniqueSymbolName resolves a name collision between symbols from different
// source libraries by prefixing the library name.
func (lt *libraryTranslator) uniqueSymbolName(libName, name string) string {
	if lt.out.Find(name) == nil {
		return name
	}
	return eagle.SanitizeName(libName + "_" + name)
}

func (lt *libraryTranslator) translateDevice(lib *eagle.Library, ds *eagle.DeviceSet, dev *eagle.Device) {
	raw := strings.ReplaceAll(ds.Name+dev.Name, "*", "")
	name := eagle.SanitizeName(raw)
	if name == "" {
		name = eagle.SanitizeName(ds.Name)
	}
	name = lt.uniqueSymbolName(lib.Name, name)

	sym := schematic.NewLibSymbol(name)
	sym.UnitCount = len(ds.Gates)
	// Fields stay hidden unless the source symbol carries a placeholder.
	sym.Reference.Visible = false
	sym.Value.Visible = false

	td := &translatedDevice{
		symbolName:  name,
		gateUnits:   make(map[string]int, len(ds.Gates)),
		unitCount:   len(ds.Gates),
		prefix:      ds.Prefix,
		packageName: dev.Package,
	}

	powerGates := 0
	for gi := range ds.Gates {
		gate := &ds.Gates[gi]
		unit := gi + 1
		td.gateUnits[gate.Name] = unit

		src := lib.FindSymbol(gate.Symbol)
		if src == nil {
			lt.rep.Report(SeverityError,
				"library %s: device %s%s: gate %s references missing symbol %s, device skipped",
				lib.Name, ds.Name, dev.Name, gate.Name, gate.Symbol)
			return
		}

		if lt.loadGate(sym, src, gate, dev, unit) {
			powerGates++
		}
	}

	sym.Power = len(ds.Gates) == 1 && powerGates == 1
	td.power = sym.Power
	if sym.Power {
		for _, pin := range sym.Pins() {
			pin.Visible = false
		}
	}

	lt.out.Add(sym)
	lt.devices[deviceKey(lib.Name, ds.Name, dev.Name)] = td
}

// loadGate translates one gate's source symbol into a unit of the output
// symbol. It reports whether the gate looks like a power gate: exactly one
// pin, of supply type.
func (lt *libraryTranslator) loadGate(sym *schematic.LibSymbol, src *eagle.Symbol, gate *eagle.Gate, dev *eagle.Device, unit int) bool {
	for i := range src.Wires {
		sym.AddItem(translateSymbolWire(&src.Wires[i], unit))
	}
	for i := range src.Circles {
		sym.AddItem(translateCircle(&src.Circles[i], unit))
	}
	for i := range src.Rectangles {
		sym.AddItem(translateRectangle(&src.Rectangles[i], unit))
	}
	for i := range src.Polygons {
		sym.AddItem(translatePolygon(&src.Polygons[i], unit))
	}
	for i := range src.Frames {
		for _, item := range translateFrame(&src.Frames[i], unit) {
			sym.AddItem(item)
		}
	}

	pinCount := 0
	supply := 0
	for i := range src.Pins {
		epin := &src.Pins[i]
		pin := translatePin(epin, unit, lt.rep)

		pads := connectPads(dev, gate.Name, epin.Name)
		if len(pads) == 0 {
			pinCount++
			sym.AddItem(pin)
		} else {
			// One logical pin fans out to every pad it connects to;
			// extra pads become stacked duplicates with hidden numbers.
			for pi, pad := range pads {
				pinCount++
				p := pin
				if pi > 0 {
					dup := *pin
					p = &dup
					p.NumberSize = 0
					p.NameSize = 0
				}
				p.Number = pad
				sym.AddItem(p)
			}
		}

		switch epin.Direction {
		case "sup", "pwr":
			supply++
		}
	}

	for i := range src.Texts {
		t := &src.Texts[i]
		switch strings.ToUpper(strings.TrimSpace(t.Value)) {
		case ">NAME":
			f := fieldFromPlaceholder(t)
			f.Name = "Reference"
			sym.Reference = f
		case ">VALUE":
			f := fieldFromPlaceholder(t)
			f.Name = "Value"
			sym.Value = f
		default:
			sym.AddItem(translateSymbolText(t, unit))
		}
	}

	return pinCount == 1 && supply == 1
}

// fieldFromPlaceholder positions a symbol field where the >NAME or >VALUE
// placeholder sat.
func fieldFromPlaceholder(t *eagle.Text) schematic.Field {
	h, v := alignmentJustify(effectiveAlign(t.Align, t.Rot.Degrees, 0, t.Rot.Mirror))
	return schematic.Field{
		Pos:     symPoint(t.X, t.Y),
		Size:    t.Size.Mils(),
		Visible: true,
		Angle:   textAngle(t.Rot.Degrees),
		HAlign:  h,
		VAlign:  v,
	}
}

// connectPads returns the pads a gate pin maps to, split on spaces. EAGLE
// writes multi-pad connects as a space separated pad list.
func connectPads(dev *eagle.Device, gateName, pinName string) []string {
	for i := range dev.Connects {
		c := &dev.Connects[i]
		if c.Gate == gateName && c.Pin == pinName {
			return strings.Fields(c.Pad)
		}
	}
	return nil
}
