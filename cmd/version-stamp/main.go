// Command version-stamp regenerates version.json from the declared
// version without bumping or tagging anything.
package main

import (
	"fmt"
	"os"
	"time"

	"fatture/internal/cli"
	"fatture/internal/config"
	"fatture/internal/log"
	"fatture/internal/version"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentVersion)
	cfg := config.Load()

	declared, err := version.ReadDeclared("VERSION")
	if err != nil {
		logger.Error("Cannot read declared version",
			log.FieldError, err, log.FieldOperation, log.OpStamp)
		os.Exit(1)
	}

	stamp := version.NewStamp(declared, cfg.Environment, time.Now())
	if err := stamp.Write(cfg.VersionFilePath, "dist"); err != nil {
		logger.Error("Cannot write version stamp",
			log.FieldError, err, log.FieldOperation, log.OpStamp)
		os.Exit(1)
	}

	logger.Info("Version stamped",
		log.FieldVersion, stamp.Version,
		"hash", stamp.Hash,
		"environment", stamp.Environment)
	fmt.Printf("%s (%s)\n", stamp.Version, stamp.Hash)
}
