// Command version-bump raises the declared version, stamps the build
// metadata and tags the release commit.
package main

import (
	"fmt"
	"os"

	"fatture/internal/cli"
	"fatture/internal/config"
	"fatture/internal/log"
	"fatture/internal/version"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentVersion)

	level := version.Patch
	if len(os.Args) > 1 {
		parsed, err := version.ParseLevel(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "usage: version-bump [major|minor|patch]\n")
			os.Exit(1)
		}
		level = parsed
	}

	cfg := config.Load()

	stamp, err := version.BumpRepo(".", level, cfg.Environment)
	if err != nil {
		logger.Error("Version bump failed",
			log.FieldError, err, log.FieldOperation, log.OpBump)
		os.Exit(1)
	}

	logger.Info("Version bumped",
		log.FieldVersion, stamp.Version,
		"hash", stamp.Hash,
		"environment", stamp.Environment)
	fmt.Printf("v%s (%s)\n", stamp.Version, stamp.Hash)
}
