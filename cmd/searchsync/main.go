// Command searchsync keeps a site search index in step with Agility CMS.
package main

import (
	"os"

	"github.com/custodia-labs/searchsync/internal/adapters/driving/cli"
)

// version is injected with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
