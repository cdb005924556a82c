package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/eagle"
)

var infoCmd = &cobra.Command{
	Use:   "info <eagle_schematic>",
	Short: "Show EAGLE schematic information",
	Long:  `Display a summary of an EAGLE XML schematic without converting it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if !eagle.CheckHeader(filename) {
		return fmt.Errorf("%s is not an EAGLE schematic file", filename)
	}

	doc, err := eagle.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}
	if doc.Drawing == nil || doc.Drawing.Schematic == nil {
		return fmt.Errorf("%s contains no schematic", filename)
	}
	sch := doc.Drawing.Schematic

	fmt.Printf("Schematic: %s\n", filename)
	fmt.Printf("EAGLE version: %s\n", doc.Version)
	fmt.Println()

	fmt.Println("Statistics:")
	fmt.Printf("  Libraries: %d\n", len(sch.Libraries))
	symbols, devicesets := 0, 0
	for _, lib := range sch.Libraries {
		symbols += len(lib.Symbols)
		devicesets += len(lib.DeviceSets)
	}
	fmt.Printf("  Symbols: %d\n", symbols)
	fmt.Printf("  Device sets: %d\n", devicesets)
	fmt.Printf("  Parts: %d\n", len(sch.Parts))
	fmt.Printf("  Sheets: %d\n", len(sch.Sheets))

	nets := make(map[string]int)
	buses := 0
	for si := range sch.Sheets {
		sheet := &sch.Sheets[si]
		buses += len(sheet.Busses)
		for _, net := range sheet.Nets {
			nets[net.Name] += len(net.Segments)
		}
	}
	fmt.Printf("  Nets: %d\n", len(nets))
	fmt.Printf("  Buses: %d\n", buses)
	fmt.Println()

	if verbose && len(nets) > 0 {
		names := make([]string, 0, len(nets))
		for name := range nets {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Nets:")
		for _, name := range names {
			fmt.Printf("  %-24s %d segment(s)\n", name, nets[name])
		}
	}
	return nil
}
