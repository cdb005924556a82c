package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otimp",
	Short: "OpenTraceImport - EAGLE schematic import tools",
	Long: `OpenTraceImport (otimp) translates EAGLE XML schematics into KiCad-style
schematic and symbol library files.

Examples:
  otimp convert board.sch                 # Convert to board.kicad_sch
  otimp convert board.sch -o out/         # Convert into a directory
  otimp info board.sch                    # Show what the file contains`,
	Version: "0.9.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
