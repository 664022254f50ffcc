// Command interior reports masses, mean densities and density profiles of
// layered planet models.
package main

import (
	"os"

	"github.com/signalsfoundry/planetary-interior/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
