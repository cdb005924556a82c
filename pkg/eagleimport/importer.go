package eagleimport

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// netCount tallies where a net appears across the whole document.
type netCount struct {
	sheets   int
	segments int
}

// partUnits tracks which units of a multi-unit part were actually drawn.
type partUnits struct {
	template  *schematic.Component
	unitCount int
	drawn     map[int]bool
}

// importer carries the document-wide state of one translation run.
type importer struct {
	opts       Options
	rep        Reporter
	out        *schematic.Schematic
	translator *libraryTranslator

	parts      map[string]*eagle.Part // uppercased part name
	netCounts  map[string]netCount
	connPoints map[geometry.Point]int
	placed     map[string]*schematic.Component // PART:GATE, uppercased part

	missing      map[string]*partUnits
	missingOrder []string

	layerRoles map[int]schematic.LineLayer
	tracker    *segmentTracker
	current    *schematic.Sheet
}

// Import translates a parsed EAGLE document into a schematic. Per-entity
// failures go to the reporter; only a structurally unusable document
// returns an error.
func Import(doc *eagle.Document, opts Options, rep Reporter) (*schematic.Schematic, error) {
	if rep == nil {
		rep = NullReporter{}
	}
	if doc.Drawing == nil || doc.Drawing.Schematic == nil {
		return nil, fmt.Errorf("document has no schematic")
	}
	src := doc.Drawing.Schematic

	im := &importer{
		opts:       opts,
		rep:        rep,
		out:        schematic.NewSchematic(),
		parts:      make(map[string]*eagle.Part),
		netCounts:  make(map[string]netCount),
		connPoints: make(map[geometry.Point]int),
		placed:     make(map[string]*schematic.Component),
		missing:    make(map[string]*partUnits),
		tracker:    newSegmentTracker(),
	}

	im.translator = newLibraryTranslator(opts, rep, im.out.Library)
	im.translator.translateAll(src)

	for i := range src.Parts {
		im.parts[strings.ToUpper(src.Parts[i].Name)] = &src.Parts[i]
	}

	im.countNets(src)
	im.mapLayers(doc.Drawing.Layers)

	if opts.MergeSheets && len(src.Sheets) > 1 {
		sheet := im.out.AddSheet("root")
		for i := range src.Sheets {
			im.loadSheet(&src.Sheets[i], sheet)
		}
	} else {
		for i := range src.Sheets {
			sheet := im.out.AddSheet(im.sheetName(&src.Sheets[i], i))
			im.loadSheet(&src.Sheets[i], sheet)
		}
	}

	im.instantiateMissingUnits()
	im.tileChildSheets()

	if !opts.KeepUnusedSymbols {
		im.dropUnusedSymbols()
	}

	return im.out, nil
}

// ImportFile checks, parses and translates an EAGLE schematic file.
func ImportFile(path string, opts Options, rep Reporter) (*schematic.Schematic, error) {
	if !eagle.CheckHeader(path) {
		return nil, fmt.Errorf("%s is not an EAGLE schematic file", path)
	}
	doc, err := eagle.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Import(doc, opts, rep)
}

// sheetName derives a usable sheet name from the source description.
func (im *importer) sheetName(src *eagle.Sheet, index int) string {
	desc := strings.TrimSpace(src.Description)
	if desc == "" {
		return fmt.Sprintf("Sheet%d", index+1)
	}
	return eagle.SanitizeName(desc)
}

// countNets records, per net name, how many sheets carry the net and how
// many segments it has in total. The label synthesis policy keys off both.
func (im *importer) countNets(src *eagle.Schematic) {
	for si := range src.Sheets {
		seen := make(map[string]bool)
		for ni := range src.Sheets[si].Nets {
			net := &src.Sheets[si].Nets[ni]
			c := im.netCounts[net.Name]
			c.segments += len(net.Segments)
			if !seen[net.Name] {
				c.sheets++
				seen[net.Name] = true
			}
			im.netCounts[net.Name] = c
		}
	}
}

// mapLayers classifies EAGLE layers into wire, bus and notes roles.
func (im *importer) mapLayers(layers []eagle.Layer) {
	im.layerRoles = make(map[int]schematic.LineLayer, len(layers))
	for _, l := range layers {
		switch l.Name {
		case "Nets":
			im.layerRoles[l.Number] = schematic.LayerWire
		case "Busses":
			im.layerRoles[l.Number] = schematic.LayerBus
		default:
			im.layerRoles[l.Number] = schematic.LayerNotes
		}
	}
	for num, role := range im.opts.LayerOverrides {
		switch role {
		case "wire":
			im.layerRoles[num] = schematic.LayerWire
		case "bus":
			im.layerRoles[num] = schematic.LayerBus
		case "notes":
			im.layerRoles[num] = schematic.LayerNotes
		default:
			im.rep.Report(SeverityWarning, "layer override %d: unknown role %q ignored", num, role)
		}
	}
}

// layerRole returns the role of a layer number; the well-known EAGLE
// numbers serve as fallback when the layer table is silent.
func (im *importer) layerRole(num int) schematic.LineLayer {
	if role, ok := im.layerRoles[num]; ok {
		return role
	}
	switch num {
	case 91:
		return schematic.LayerWire
	case 92:
		return schematic.LayerBus
	}
	return schematic.LayerNotes
}

// recordDrawnUnit notes which unit of a part got placed, keeping the first
// placed component as the template for missing units.
func (im *importer) recordDrawnUnit(part *eagle.Part, td *translatedDevice, c *schematic.Component, unit int) {
	if td.unitCount <= 1 {
		return
	}
	ref := c.Reference()
	rec := im.missing[ref]
	if rec == nil {
		rec = &partUnits{
			template:  c,
			unitCount: td.unitCount,
			drawn:     make(map[int]bool),
		}
		im.missing[ref] = rec
		im.missingOrder = append(im.missingOrder, ref)
	}
	rec.drawn[unit] = true
}

// instantiateMissingUnits places the units the source never drew, tiled
// row-major on the root sheet, and gives each the implicit power
// connections it would have received on its own sheet.
func (im *importer) instantiateMissingUnits() {
	root := im.out.Root()
	if root == nil {
		return
	}

	x, y := 1, 1
	for _, ref := range im.missingOrder {
		rec := im.missing[ref]
		for unit := 1; unit <= rec.unitCount; unit++ {
			if rec.drawn[unit] {
				continue
			}

			c := rec.template.Duplicate()
			c.Unit = unit
			c.Rotation = 0
			c.Mirror = false
			c.Pos = geometry.Point{X: x * 1000, Y: y * 1000}
			c.AddInstance(rootPath, ref, unit)
			root.Screen.AddItem(c)

			im.rep.Report(SeverityWarning, "part %s unit %d was never drawn, placed on the root sheet", ref, unit)
			im.addImplicitConnections(c, root.Screen, false)

			// Start a new row at the page boundary.
			x += 2
			if x*1000 >= root.Screen.Page.Width {
				x = 1
				y += 2
			}
		}
	}
}

const rootPath = "/"

// tileChildSheets places a sheet glyph for every non-root page on the root
// sheet so the hierarchy is navigable.
func (im *importer) tileChildSheets() {
	root := im.out.Root()
	if root == nil || len(im.out.Sheets) < 2 {
		return
	}

	x := 0
	for _, sheet := range im.out.Sheets[1:] {
		root.Screen.AddItem(&schematic.SheetRef{
			Pos:      geometry.Point{X: x * 2000, Y: -2000},
			Size:     geometry.Point{X: 1500, Y: 1000},
			Name:     sheet.Name,
			FileName: eagle.SanitizeName(sheet.Name) + ".kicad_sch",
			Page:     sheet.Number,
		})
		x++
	}
}

// dropUnusedSymbols removes library symbols no placed component refers to.
func (im *importer) dropUnusedSymbols() {
	used := make(map[string]bool)
	for _, c := range im.out.Components() {
		if c.Symbol != nil {
			used[c.Symbol.Name] = true
		}
	}

	kept := schematic.NewLibrary()
	for _, sym := range im.out.Library.Symbols() {
		if used[sym.Name] {
			kept.Add(sym)
		}
	}
	im.out.Library = kept
}
