package main

import "github.com/OpenTraceLab/OpenTraceImport/cmd/otimp/cmd"

func main() {
	cmd.Execute()
}
