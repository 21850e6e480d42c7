// Command gridmapf plans and benchmarks multi-agent paths on grids.
package main

import (
	"os"

	"github.com/elektrokombinacija/gridmapf/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
