// Package main provides the microkernels capability report CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/microkernels/operators"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("microkernels %s\n", version)
		return
	}

	caps := operators.NewCapabilities()
	fmt.Printf("microkernels %s\n\n", version)
	fmt.Printf("Vector ISA:    %s (%d-byte registers)\n", caps.VectorName, caps.VectorWidth)
	fmt.Printf("Workers:       %d\n\n", caps.Parallel.NumWorkers)
	fmt.Println("Transpose tile sizes (elements):")
	fmt.Printf("  x8:  %d\n", caps.X8.TileSize)
	fmt.Printf("  x16: %d\n", caps.X16.TileSize)
	fmt.Printf("  x32: %d\n", caps.X32.TileSize)
	fmt.Printf("  xx:  %d\n", caps.XX.TileSize)
	fmt.Printf("Copy tile:     %d bytes\n", caps.CopyTile)
}
