package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagleimport"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

var (
	convertOutput  string
	convertConfig  string
	convertLibrary string
	convertMerge   bool
	convertKeepAll bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <eagle_schematic>",
	Short: "Convert an EAGLE schematic",
	Long: `Translate an EAGLE XML schematic (.sch) into KiCad-style schematic
sheets plus the symbol library they reference.

The output directory receives one .kicad_sch file per sheet and one
.kicad_sym file with every translated symbol.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output directory (default: input directory)")
	convertCmd.Flags().StringVarP(&convertConfig, "config", "c", "", "options file (YAML)")
	convertCmd.Flags().StringVar(&convertLibrary, "library", "", "symbol library nickname")
	convertCmd.Flags().BoolVar(&convertMerge, "merge-sheets", false, "fold all sheets onto one page")
	convertCmd.Flags().BoolVar(&convertKeepAll, "keep-unused", false, "keep symbols no instance references")
}

func loadConvertOptions() (eagleimport.Options, error) {
	opts := eagleimport.DefaultOptions()
	if convertConfig != "" {
		var err error
		opts, err = eagleimport.LoadOptions(convertConfig)
		if err != nil {
			return opts, err
		}
	}
	if convertLibrary != "" {
		opts.LibraryName = convertLibrary
	}
	if convertMerge {
		opts.MergeSheets = true
	}
	if convertKeepAll {
		opts.KeepUnusedSymbols = true
	}
	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	opts, err := loadConvertOptions()
	if err != nil {
		return err
	}

	var diag io.Writer = os.Stderr
	if !verbose {
		diag = io.Discard
	}
	rep := &eagleimport.CountingReporter{Next: &eagleimport.WriterReporter{W: diag}}

	sch, err := eagleimport.ImportFile(input, opts, rep)
	if err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	outDir := convertOutput
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	for _, sheet := range sch.Sheets {
		name := base
		if len(sch.Sheets) > 1 && sheet.Number > 1 {
			name = fmt.Sprintf("%s-%s", base, sheet.Name)
		}
		path := filepath.Join(outDir, name+".kicad_sch")
		if err := writeSheetFile(path, sch, sheet); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}

	libPath := filepath.Join(outDir, base+".kicad_sym")
	if err := writeLibraryFile(libPath, sch.Library); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", libPath)

	if rep.Errors > 0 || rep.Warnings > 0 {
		fmt.Printf("%d errors, %d warnings", rep.Errors, rep.Warnings)
		if !verbose {
			fmt.Printf(" (use -v to see them)")
		}
		fmt.Println()
	}
	return nil
}

func writeSheetFile(path string, sch *schematic.Schematic, sheet *schematic.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := schematic.WriteSheet(f, sch, sheet); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeLibraryFile(path string, lib *schematic.Library) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := schematic.WriteLibrary(f, lib); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
