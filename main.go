// Command skillrun runs step-based skills: multi-phase workflows whose
// steps are resolved by outcome until the run reaches the terminal marker.
package main

import (
	"os"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
