// Command obsc packs files into authenticated, multiplexed containers and
// extracts them back out.
package main

import (
	"os"

	"github.com/obscurcore/obsc/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
