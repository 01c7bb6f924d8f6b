// Command spatialindex loads geometries into an in-memory spatial index and
// queries them.
package main

import (
	"fmt"
	"os"

	"github.com/peterstace/spatialindex/internal/cli"
)

func main() {
	if err := cli.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
