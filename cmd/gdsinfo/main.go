// Diagnostic tool for inspecting GDSII stream files
package main

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-gdsii/gdsii"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/gdsinfo/main.go <file.gds>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== Analyzing %s ===\n\n", filename)

	scans, err := gdsii.Scan(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to scan file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Structure index: %d entries\n", len(scans))
	for _, s := range scans {
		fmt.Printf("  %-24s bytes %d..%d\n", s.Name, s.Start, s.End)
	}
	fmt.Println()

	lib, err := gdsii.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to parse file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Library %q (stream version %d)\n", lib.Name, lib.Version)
	fmt.Printf("  Modified: %s\n", lib.Dates.Modified)
	fmt.Printf("  Accessed: %s\n", lib.Dates.Accessed)
	fmt.Printf("  Units: %g user units, %g m per database unit\n", lib.Units.UserUnits, lib.Units.Meters)

	stats := lib.Stats()
	fmt.Println()
	fmt.Printf("Totals: %d boundaries, %d paths, %d texts, %d nodes, %d boxes, %d srefs, %d arefs\n",
		stats.Boundaries, stats.Paths, stats.Texts, stats.Nodes, stats.Boxes, stats.StructRefs, stats.ArrayRefs)
	fmt.Println()

	for _, s := range lib.Structs {
		printStruct(s)
	}
}

func printStruct(s *gdsii.Struct) {
	fmt.Printf("Structure %q: %d elements\n", s.Name, len(s.Elements))
	for _, e := range s.Elements {
		switch e := e.(type) {
		case gdsii.Boundary:
			fmt.Printf("  boundary layer=%d datatype=%d points=%d\n", e.Layer, e.DataType, len(e.XY))
		case gdsii.Path:
			fmt.Printf("  path layer=%d datatype=%d points=%d\n", e.Layer, e.DataType, len(e.XY))
		case gdsii.TextElement:
			fmt.Printf("  text layer=%d %q at %s\n", e.Layer, e.Text, e.XY)
		case gdsii.Node:
			fmt.Printf("  node layer=%d nodetype=%d\n", e.Layer, e.NodeType)
		case gdsii.Box:
			fmt.Printf("  box layer=%d boxtype=%d\n", e.Layer, e.BoxType)
		case gdsii.StructRef:
			fmt.Printf("  sref -> %s at %s\n", e.Name, e.XY)
		case gdsii.ArrayRef:
			fmt.Printf("  aref -> %s %dx%d\n", e.Name, e.Cols, e.Rows)
		}
	}
}
