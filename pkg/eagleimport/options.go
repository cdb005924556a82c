package eagleimport

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options tune the import. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// LibraryName becomes the nickname prefixing translated symbol IDs.
	LibraryName string `yaml:"library_name"`

	// MergeSheets folds every Eagle sheet onto one page instead of
	// creating a page per sheet.
	MergeSheets bool `yaml:"merge_sheets"`

	// KeepUnusedSymbols retains library symbols no instance references.
	KeepUnusedSymbols bool `yaml:"keep_unused_symbols"`

	// MarkAmbiguousEntries places review markers where a bus entry
	// direction cannot be derived from the drawing.
	MarkAmbiguousEntries bool `yaml:"mark_ambiguous_entries"`

	// PageMargin is the border, in mils, added around the drawn items
	// when the page is resized to fit.
	PageMargin int `yaml:"page_margin"`

	// LayerOverrides remaps Eagle layer numbers to item roles. Values
	// are "wire", "bus" or "notes".
	LayerOverrides map[int]string `yaml:"layer_overrides"`
}

// DefaultOptions returns the options the command line starts from.
func DefaultOptions() Options {
	return Options{
		LibraryName:          "eagle",
		MarkAmbiguousEntries: true,
		PageMargin:           1500,
	}
}

// LoadOptions reads options from a YAML file, layered over the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing options %s: %w", path, err)
	}
	if opts.LibraryName == "" {
		return opts, fmt.Errorf("options %s: library_name must not be empty", path)
	}
	if opts.PageMargin < 0 {
		return opts, fmt.Errorf("options %s: page_margin must not be negative", path)
	}
	return opts, nil
}
