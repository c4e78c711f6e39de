// Command install-hooks installs the release pre-commit hook into the
// local repository.
package main

import (
	"fmt"
	"os"

	"fatture/internal/cli"
	"fatture/internal/log"
	"fatture/internal/version"
)

func main() {
	logger := cli.SetupLogger(log.ComponentVersion)

	path, err := version.InstallPreCommitHook(".")
	if err != nil {
		logger.Error("Hook installation failed", log.FieldError, err)
		os.Exit(1)
	}
	fmt.Printf("installed %s\n", path)
}
